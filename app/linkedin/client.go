package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const ugcPostsURL = "https://api.linkedin.com/v2/ugcPosts"

// ErrDuplicatePost marks LinkedIn's rejection of content it considers a
// duplicate of an earlier share. Callers treat it as an idempotent success.
var ErrDuplicatePost = errors.New("duplicate post")

// Client publishes text shares to a LinkedIn member profile
type Client struct {
	accessToken string
	personURN   string
	httpClient  *http.Client
}

func NewClient(accessToken, personURN string) *Client {
	return &Client{
		accessToken: accessToken,
		personURN:   personURN,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type shareRequest struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    shareText `json:"shareCommentary"`
	ShareMediaCategory string    `json:"shareMediaCategory"`
}

type shareText struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type shareResponse struct {
	ID string `json:"id"`
}

// Publish creates a text-only share and returns the post id assigned by
// LinkedIn. A duplicate-content rejection is returned as ErrDuplicatePost.
func (c *Client) Publish(ctx context.Context, content string) (string, error) {
	if c.accessToken == "" || c.personURN == "" {
		return "", fmt.Errorf("linkedin client misconfigured")
	}

	body, err := json.Marshal(shareRequest{
		Author:         "urn:li:person:" + c.personURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    shareText{Text: content},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: visibility{MemberNetworkVisibility: "PUBLIC"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal share request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ugcPostsURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call linkedin: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("failed to read linkedin response: %w", err)
	}

	return classifyResponse(resp.StatusCode, data)
}

// classifyResponse maps a LinkedIn API response to a post id or an error.
// LinkedIn rejects duplicate content with 422 and a message mentioning the
// duplication.
func classifyResponse(status int, body []byte) (string, error) {
	if status == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(string(body)), "duplicate") {
		return "", ErrDuplicatePost
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", fmt.Errorf("linkedin error %d: %s", status, strings.TrimSpace(string(body)))
	}

	var share shareResponse
	if err := json.Unmarshal(body, &share); err != nil {
		return "", fmt.Errorf("failed to decode linkedin response: %w", err)
	}

	if share.ID == "" {
		return "", fmt.Errorf("linkedin response has no post id: %s", strings.TrimSpace(string(body)))
	}

	return share.ID, nil
}
