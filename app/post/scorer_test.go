package post

import (
	"strings"
	"testing"
)

const wellFormedPost = "🚀 What did 30 days of shipping teach me?\n" +
	"\n" +
	"- Ship small and ship often\n" +
	"- Talk to users every week\n" +
	"- Cut scope before cutting quality\n" +
	"\n" +
	"Most teams wait too long for perfect. Perfect never ships. 💡\n" +
	"\n" +
	"What do you think? Let me know in the comments. ✨\n" +
	"\n" +
	"#buildinpublic #startups #productmanagement"

func TestScorerWellFormedPost(t *testing.T) {
	scorer := NewScorer(0)

	score := scorer.Run(wellFormedPost)

	if score.Breakdown.Length != 10 {
		t.Errorf("Expected length score 10, got %d", score.Breakdown.Length)
	}
	if score.Breakdown.Engagement != 20 {
		t.Errorf("Expected engagement score 20, got %d", score.Breakdown.Engagement)
	}
	if score.Breakdown.Readability != 20 {
		t.Errorf("Expected readability score 20, got %d", score.Breakdown.Readability)
	}
	if score.Breakdown.Hashtags != 15 {
		t.Errorf("Expected hashtag score 15, got %d", score.Breakdown.Hashtags)
	}
	if score.Breakdown.Hook != 11 {
		t.Errorf("Expected hook score 11, got %d", score.Breakdown.Hook)
	}
	if score.Breakdown.Tone != 10 {
		t.Errorf("Expected tone score 10, got %d", score.Breakdown.Tone)
	}
	if score.Total != 86 {
		t.Errorf("Expected total 86, got %d", score.Total)
	}
	if !score.Passed {
		t.Error("Expected post to pass the default quality gate")
	}
}

func TestScorerDeterministic(t *testing.T) {
	scorer := NewScorer(70)

	first := scorer.Run(wellFormedPost)
	second := scorer.Run(wellFormedPost)

	if first.Total != second.Total {
		t.Errorf("Expected identical totals, got %d and %d", first.Total, second.Total)
	}
	if first.Breakdown != second.Breakdown {
		t.Errorf("Expected identical breakdowns, got %+v and %+v", first.Breakdown, second.Breakdown)
	}
}

func TestScorerLowQualityPost(t *testing.T) {
	scorer := NewScorer(70)

	content := "Buy my course now!!!! WOW AMAZING DEAL BEST OFFER lol"
	score := scorer.Run(content)

	if score.Breakdown.Tone != 0 {
		t.Errorf("Expected tone score 0 for shouty slang, got %d", score.Breakdown.Tone)
	}
	if score.Breakdown.Engagement != 0 {
		t.Errorf("Expected engagement score 0, got %d", score.Breakdown.Engagement)
	}
	if score.Breakdown.Hashtags != 0 {
		t.Errorf("Expected hashtag score 0, got %d", score.Breakdown.Hashtags)
	}
	if score.Passed {
		t.Errorf("Expected post to fail the quality gate, total %d", score.Total)
	}
	if len(score.Suggestions) < 5 {
		t.Errorf("Expected suggestions for every weak criterion, got %d: %v",
			len(score.Suggestions), score.Suggestions)
	}
}

func TestScorerEmptyContent(t *testing.T) {
	scorer := NewScorer(70)

	score := scorer.Run("")

	if score.Breakdown.Readability != 0 {
		t.Errorf("Expected readability score 0 for empty content, got %d", score.Breakdown.Readability)
	}
	if score.Breakdown.Hook != 0 {
		t.Errorf("Expected hook score 0 for empty content, got %d", score.Breakdown.Hook)
	}
	if score.Passed {
		t.Error("Empty content should never pass")
	}
	if score.Total < 0 || score.Total > 100 {
		t.Errorf("Total out of range: %d", score.Total)
	}
}

func TestScoreHashtagsGrading(t *testing.T) {
	cases := []struct {
		count    int
		expected int
	}{
		{0, 0},
		{1, 5},
		{2, 10},
		{3, 15},
		{5, 15},
		{6, 10},
		{8, 5},
		{9, 0},
		{12, 0},
	}

	for _, tc := range cases {
		tags := make([]string, 0, tc.count)
		for i := 0; i < tc.count; i++ {
			tags = append(tags, "#tag"+strings.Repeat("x", i+1))
		}
		content := "Some post text " + strings.Join(tags, " ")

		if got := scoreHashtags(content); got != tc.expected {
			t.Errorf("Expected hashtag score %d for %d hashtags, got %d", tc.expected, tc.count, got)
		}
	}
}

func TestScoreEngagementEmojiBands(t *testing.T) {
	// Three emojis land in the 2-5 sweet spot
	if got := scoreEngagement("🚀 💡 ✨"); got != 8 {
		t.Errorf("Expected engagement 8 for three emojis, got %d", got)
	}

	// One emoji gets partial credit
	if got := scoreEngagement("🚀"); got != 4 {
		t.Errorf("Expected engagement 4 for one emoji, got %d", got)
	}

	// Seven emojis get nothing
	if got := scoreEngagement("🚀🚀🚀🚀🚀🚀🚀"); got != 0 {
		t.Errorf("Expected engagement 0 for seven emojis, got %d", got)
	}
}

func TestScoreToneDeductions(t *testing.T) {
	if got := scoreTone("A calm and measured post about engineering."); got != 10 {
		t.Errorf("Expected tone 10 for calm text, got %d", got)
	}

	if got := scoreTone("THIS POST HAS FOUR LOUD WORDS"); got != 6 {
		t.Errorf("Expected tone 6 after all-caps deduction, got %d", got)
	}

	if got := scoreTone("wow!!!! amazing!!!!"); got != 7 {
		t.Errorf("Expected tone 7 after exclamation deduction, got %d", got)
	}
}

func TestScorerSuggestionsTargetWeakCriteria(t *testing.T) {
	scorer := NewScorer(70)

	// No question, no hashtags, no emojis
	score := scorer.Run("Short post about nothing in particular.")

	assertSuggestion := func(fragment string) {
		t.Helper()
		for _, s := range score.Suggestions {
			if strings.Contains(s, fragment) {
				return
			}
		}
		t.Errorf("Expected a suggestion containing %q, got %v", fragment, score.Suggestions)
	}

	assertSuggestion("question")
	assertSuggestion("hashtags")
	assertSuggestion("emojis")
	assertSuggestion("call to action")
}

func TestScorerCustomPassScore(t *testing.T) {
	strict := NewScorer(90)

	score := strict.Run(wellFormedPost)
	if score.Passed {
		t.Errorf("Expected total %d to fail a pass score of 90", score.Total)
	}
}
