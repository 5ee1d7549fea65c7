package post

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultPassScore = 70

var hashtagPattern = regexp.MustCompile(`#[[:alnum:]_]+`)

var ctaPhrases = []string{
	"what do you think",
	"share your thoughts",
	"let me know",
	"comment below",
	"drop a comment",
	"agree or disagree",
	"follow for more",
	"check out",
	"tag someone",
	"repost if",
}

var alertOpeners = []string{
	"BREAKING", "NEW", "JUST", "HOT TAKE", "STOP", "WARNING",
	"IMPORTANT", "ATTENTION", "UNPOPULAR OPINION",
}

var slangWords = []string{
	"lol", "omg", "lmao", "wtf", "gonna", "wanna", "btw", "smh", "tbh",
}

// Scorer rates post text against fixed lexical criteria. It is purely
// statistical: same input, same score, no I/O.
type Scorer struct {
	passScore int
}

func NewScorer(passScore int) *Scorer {
	if passScore <= 0 {
		passScore = DefaultPassScore
	}
	return &Scorer{passScore: passScore}
}

// Run evaluates the text and returns the total score (0-100), the six
// sub-scores and one actionable suggestion per weak criterion
func (s *Scorer) Run(content string) Score {
	breakdown := Breakdown{
		Length:      scoreLength(content),
		Engagement:  scoreEngagement(content),
		Readability: scoreReadability(content),
		Hashtags:    scoreHashtags(content),
		Hook:        scoreHook(content),
		Tone:        scoreTone(content),
	}

	total := breakdown.Length + breakdown.Engagement + breakdown.Readability +
		breakdown.Hashtags + breakdown.Hook + breakdown.Tone

	return Score{
		Total:       total,
		Breakdown:   breakdown,
		Suggestions: buildSuggestions(content, breakdown),
		Passed:      total >= s.passScore,
	}
}

// scoreLength rewards the 150-300 word / 800-1500 character sweet spot,
// with partial credit for progressively wider windows (0-20)
func scoreLength(content string) int {
	words := len(strings.Fields(content))
	chars := utf8.RuneCountInString(content)

	switch {
	case words >= 150 && words <= 300 && chars >= 800 && chars <= 1500:
		return 20
	case words >= 100 && words <= 350 && chars >= 500 && chars <= 1800:
		return 15
	case words >= 50 && words <= 400:
		return 10
	default:
		return 5
	}
}

// scoreEngagement rewards questions, a tasteful emoji count and a call to
// action (0-20)
func scoreEngagement(content string) int {
	score := 0

	if strings.Count(content, "?") > 0 {
		score += 5
	}

	emojis := countEmojis(content)
	switch {
	case emojis >= 2 && emojis <= 5:
		score += 8
	case emojis == 1 || emojis == 6:
		score += 4
	}

	if hasCallToAction(content) {
		score += 7
	}

	return score
}

// scoreReadability rewards line breaks, short paragraphs and list markers (0-20)
func scoreReadability(content string) int {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	score := 0

	breaks := strings.Count(content, "\n")
	switch {
	case breaks >= 3 && breaks <= 10:
		score += 8
	case (breaks >= 1 && breaks <= 2) || (breaks >= 11 && breaks <= 15):
		score += 4
	}

	avg := averageParagraphWords(content)
	switch {
	case avg > 0 && avg <= 60:
		score += 7
	case avg > 60 && avg <= 100:
		score += 3
	}

	if hasListMarkers(content) {
		score += 5
	}

	return score
}

// scoreHashtags counts #word tokens: 3-5 is full credit (0-15)
func scoreHashtags(content string) int {
	count := len(hashtagPattern.FindAllString(content, -1))

	switch {
	case count >= 3 && count <= 5:
		return 15
	case count == 2 || count == 6 || count == 7:
		return 10
	case count == 1 || count == 8:
		return 5
	default:
		return 0
	}
}

// scoreHook inspects the opening lines for attention patterns (0-15)
func scoreHook(content string) int {
	lines := nonEmptyLines(content)
	if len(lines) == 0 {
		return 0
	}

	first := lines[0]
	score := 0

	if r, _ := utf8.DecodeRuneInString(first); isEmoji(r) {
		score += 4
	}

	upper := strings.ToUpper(first)
	for _, opener := range alertOpeners {
		if strings.HasPrefix(upper, opener) {
			score += 4
			break
		}
	}

	if strings.ContainsAny(first, "0123456789") {
		score += 3
	}

	if strings.HasSuffix(strings.TrimSpace(first), "?") {
		score += 2
	}

	opening := utf8.RuneCountInString(first)
	if len(lines) > 1 {
		opening += utf8.RuneCountInString(lines[1])
	}
	if opening >= 30 && opening <= 160 {
		score += 2
	}

	return score
}

// scoreTone starts at full marks and deducts for shouting and slang (0-10)
func scoreTone(content string) int {
	score := 10

	if countAllCapsWords(content) > 3 {
		score -= 4
	}

	if strings.Count(content, "!") > 3 {
		score -= 3
	}

	if hasSlang(content) {
		score -= 3
	}

	if score < 0 {
		return 0
	}
	return score
}

// buildSuggestions re-inspects weak criteria and emits one hint per miss
func buildSuggestions(content string, breakdown Breakdown) []string {
	var suggestions []string

	if breakdown.Length < 15 {
		if len(strings.Fields(content)) < 150 {
			suggestions = append(suggestions, "Expand the post: aim for 150-300 words")
		} else {
			suggestions = append(suggestions, "Tighten the post: aim for 150-300 words")
		}
	}

	if strings.Count(content, "?") == 0 {
		suggestions = append(suggestions, "Ask a question to invite replies")
	}

	if emojis := countEmojis(content); emojis < 2 || emojis > 5 {
		suggestions = append(suggestions, "Use 2-5 emojis to add personality")
	}

	if !hasCallToAction(content) {
		suggestions = append(suggestions, "Close with a call to action")
	}

	if breakdown.Readability < 12 {
		suggestions = append(suggestions, "Break the text into short paragraphs or a list")
	}

	if breakdown.Hashtags < 15 {
		suggestions = append(suggestions, "Use 3-5 relevant hashtags")
	}

	if breakdown.Hook < 8 {
		suggestions = append(suggestions, "Open with a stronger hook: a number, a question or a bold statement")
	}

	if breakdown.Tone < 7 {
		suggestions = append(suggestions, "Soften the tone: fewer all-caps words, exclamation marks and slang")
	}

	return suggestions
}

func countEmojis(content string) int {
	count := 0
	for _, r := range content {
		if isEmoji(r) {
			count++
		}
	}
	return count
}

func isEmoji(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1FAFF) ||
		(r >= 0x2600 && r <= 0x27BF) ||
		r == 0x2B50 || r == 0x2764
}

func hasCallToAction(content string) bool {
	lowered := strings.ToLower(content)
	for _, phrase := range ctaPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func hasListMarkers(content string) bool {
	for _, line := range nonEmptyLines(content) {
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") ||
			strings.HasPrefix(line, "• ") {
			return true
		}
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' &&
			(line[1] == '.' || line[1] == ')') {
			return true
		}
	}
	return false
}

func averageParagraphWords(content string) int {
	paragraphs := strings.Split(content, "\n\n")
	total := 0
	count := 0
	for _, p := range paragraphs {
		words := len(strings.Fields(p))
		if words == 0 {
			continue
		}
		total += words
		count++
	}
	if count == 0 {
		return 0
	}
	return total / count
}

func countAllCapsWords(content string) int {
	count := 0
	for _, word := range strings.Fields(content) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if utf8.RuneCountInString(word) < 3 {
			continue
		}
		letters := 0
		upper := true
		for _, r := range word {
			if unicode.IsLetter(r) {
				letters++
				if !unicode.IsUpper(r) {
					upper = false
					break
				}
			}
		}
		if upper && letters >= 3 {
			count++
		}
	}
	return count
}

func hasSlang(content string) bool {
	for _, word := range strings.Fields(strings.ToLower(content)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		for _, slang := range slangWords {
			if word == slang {
				return true
			}
		}
	}
	return false
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
