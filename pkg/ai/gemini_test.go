package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leanchem/leanchem-backend/pkg/config"
)

func testClient(serverURL string) *Client {
	c := NewClient(config.GeminiConfig{
		APIKey:         "test-key",
		ChatModel:      "gemini-2.5-flash",
		EmbedModel:     "text-embedding-004",
		RequestTimeout: 5 * time.Second,
	})
	c.baseURL = serverURL
	return c
}

func TestGenerateReturnsCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("api key header missing")
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Sodium "},{"text":"Lauryl Sulfate"}]}}]}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Generate(context.Background(), "You are a chemical trading assistant.", []Message{
		{Role: "user", Text: "What is SLS?"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Sodium Lauryl Sulfate" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid model","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "", []Message{{Text: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "invalid model") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	c := NewClient(config.GeminiConfig{RequestTimeout: time.Second})
	if _, err := c.Generate(context.Background(), "", nil); err != ErrNotConfigured {
		t.Fatalf("err = %v", err)
	}
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	}))
	defer srv.Close()

	vec, err := testClient(srv.URL).Embed(context.Background(), "titanium dioxide")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Fatalf("vec = %v", vec)
	}
}
