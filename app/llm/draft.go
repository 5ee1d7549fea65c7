package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#[[:alnum:]_]+`)

// Draft is a structured generation result before scoring and scheduling
type Draft struct {
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}

// ParseDraft extracts a draft from free-form model output. Models wrap JSON
// in prose or code fences often enough that strict decoding is not an
// option; when no JSON object can be found the whole text is taken as
// content and hashtags are pulled out of it.
func ParseDraft(raw string) (*Draft, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("llm returned empty content")
	}

	if block := extractJSONObject(raw); block != "" {
		var draft Draft
		if err := json.Unmarshal([]byte(block), &draft); err == nil && strings.TrimSpace(draft.Content) != "" {
			draft.Content = strings.TrimSpace(draft.Content)
			draft.Hashtags = normalizeHashtags(draft.Hashtags)
			return &draft, nil
		}
	}

	content := stripCodeFences(raw)
	return &Draft{
		Content:  content,
		Hashtags: normalizeHashtags(hashtagPattern.FindAllString(content, -1)),
	}, nil
}

// Render joins content and hashtags into the final post text. Hashtags
// already present in the content are not repeated.
func (d *Draft) Render() string {
	content := strings.TrimSpace(d.Content)

	var missing []string
	for _, tag := range d.Hashtags {
		if !strings.Contains(content, tag) {
			missing = append(missing, tag)
		}
	}

	if len(missing) == 0 {
		return content
	}

	return content + "\n\n" + strings.Join(missing, " ")
}

// extractJSONObject scans for the first balanced top-level JSON object,
// ignoring braces inside string literals
func extractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}

	return ""
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	return strings.TrimSpace(raw)
}

func normalizeHashtags(tags []string) []string {
	var normalized []string
	seen := map[string]bool{}

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		normalized = append(normalized, tag)
	}

	return normalized
}
