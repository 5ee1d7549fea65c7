package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yab007-glitch/linkedinto/app/database"
)

const systemPrompt = `You are a professional LinkedIn ghostwriter. You turn news articles into engaging LinkedIn posts: a strong hook line, short paragraphs, a question or call to action at the end, a few tasteful emojis and 3-5 relevant hashtags.
Respond with JSON only, in the form {"content": "...", "hashtags": ["#tag1", "#tag2"]}. Do not include the hashtags inside the content.`

// Client calls an OpenAI-compatible chat completions endpoint
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey, model string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GeneratePost drafts a post from an article. When suggestions from a prior
// scoring round are given, they are passed back as explicit improvement
// instructions for a regeneration attempt.
func (c *Client) GeneratePost(ctx context.Context, article *database.Article, suggestions []string) (*Draft, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(article, suggestions)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call llm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read llm response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode llm response: %w", err)
	}

	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("llm returned no choices")
	}

	return ParseDraft(chat.Choices[0].Message.Content)
}

func buildUserPrompt(article *database.Article, suggestions []string) string {
	var b strings.Builder

	b.WriteString("Write a LinkedIn post about this article.\n\n")
	b.WriteString("Title: " + article.Title + "\n")
	if article.Category != "" {
		b.WriteString("Category: " + article.Category + "\n")
	}

	summary := article.Content
	if summary == "" {
		summary = article.Description
	}
	if summary != "" {
		b.WriteString("Summary: " + summary + "\n")
	}

	if len(suggestions) > 0 {
		b.WriteString("\nYour previous draft scored poorly. Improve it following these instructions:\n")
		for _, suggestion := range suggestions {
			b.WriteString("- " + suggestion + "\n")
		}
	}

	return b.String()
}
