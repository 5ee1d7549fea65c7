package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yab007-glitch/linkedinto/app/database"
)

func TestGeneratePost(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant",
			"content": "{\"content\": \"Generated post.\", \"hashtags\": [\"#golang\"]}"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")

	article := &database.Article{Title: "Test article", Description: "Short description"}
	draft, err := client.GeneratePost(context.Background(), article, nil)
	if err != nil {
		t.Fatal(err)
	}

	if draft.Content != "Generated post." {
		t.Errorf("Expected generated content, got %q", draft.Content)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Errorf("Expected configured model in request, got %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("Expected system and user messages, got %d", len(captured.Messages))
	}
	if !strings.Contains(captured.Messages[1].Content, "Test article") {
		t.Error("Expected the article title in the user prompt")
	}
}

func TestGeneratePostPassesSuggestions(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"choices": [{"message": {"content": "Improved post."}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")

	article := &database.Article{Title: "Test article"}
	suggestions := []string{"Ask a question to invite replies", "Use 3-5 relevant hashtags"}

	if _, err := client.GeneratePost(context.Background(), article, suggestions); err != nil {
		t.Fatal(err)
	}

	prompt := captured.Messages[1].Content
	for _, suggestion := range suggestions {
		if !strings.Contains(prompt, suggestion) {
			t.Errorf("Expected suggestion %q in regeneration prompt", suggestion)
		}
	}
}

func TestGeneratePostServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")

	_, err := client.GeneratePost(context.Background(), &database.Article{Title: "x"}, nil)
	if err == nil {
		t.Fatal("Expected an error for a 429 response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected error body included, got %v", err)
	}
}

func TestGeneratePostMisconfigured(t *testing.T) {
	client := NewClient("", "", "")

	if _, err := client.GeneratePost(context.Background(), &database.Article{Title: "x"}, nil); err == nil {
		t.Error("Expected an error when the client is not configured")
	}
}

func TestGeneratePostNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")

	if _, err := client.GeneratePost(context.Background(), &database.Article{Title: "x"}, nil); err == nil {
		t.Error("Expected an error for an empty choices list")
	}
}
