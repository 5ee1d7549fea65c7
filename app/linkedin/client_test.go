package linkedin

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestClassifyResponseSuccess(t *testing.T) {
	id, err := classifyResponse(201, []byte(`{"id": "urn:li:share:6789"}`))
	if err != nil {
		t.Fatal(err)
	}
	if id != "urn:li:share:6789" {
		t.Errorf("Expected post id 'urn:li:share:6789', got %q", id)
	}
}

func TestClassifyResponseDuplicate(t *testing.T) {
	body := []byte(`{"message": "Content is a duplicate of urn:li:share:123", "status": 422}`)

	_, err := classifyResponse(422, body)
	if !errors.Is(err, ErrDuplicatePost) {
		t.Errorf("Expected ErrDuplicatePost, got %v", err)
	}
}

func TestClassifyResponseOther422(t *testing.T) {
	body := []byte(`{"message": "Schema validation failed", "status": 422}`)

	_, err := classifyResponse(422, body)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, ErrDuplicatePost) {
		t.Error("A non-duplicate 422 must not be treated as a duplicate")
	}
}

func TestClassifyResponseServerError(t *testing.T) {
	_, err := classifyResponse(500, []byte("internal error"))
	if err == nil {
		t.Fatal("Expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}

func TestClassifyResponseMissingID(t *testing.T) {
	if _, err := classifyResponse(201, []byte(`{}`)); err == nil {
		t.Error("Expected an error when the response carries no post id")
	}
}

func TestClassifyResponseMalformedBody(t *testing.T) {
	if _, err := classifyResponse(200, []byte("not json")); err == nil {
		t.Error("Expected an error for an unparseable success body")
	}
}

func TestPublishRequiresCredentials(t *testing.T) {
	client := NewClient("", "")

	if _, err := client.Publish(context.Background(), "post text"); err == nil {
		t.Error("Expected an error when credentials are missing")
	}
}
