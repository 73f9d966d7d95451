package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/ai"
)

func fakeProvider(t *testing.T, status int, reply string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, seen); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(message string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o","choices":[{"index":0,"message":` + message + `,"finish_reason":"stop"}]}`
}

func visionRequest() ai.VisionRequest {
	return ai.VisionRequest{
		Image:      "aGVsbG8=",
		MediaType:  "image/png",
		Prompt:     "describe",
		SchemaName: "test_schema",
		Schema:     &jsonschema.Definition{Type: jsonschema.Object},
	}
}

func TestCompleteSendsVisionRequest(t *testing.T) {
	var seen map[string]any
	srv := fakeProvider(t, http.StatusOK, completion(`{"role":"assistant","content":"{\"isValid\":true}"}`), &seen)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})

	resp, err := c.Complete(context.Background(), visionRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	first, ok := resp.First()
	if !ok {
		t.Fatal("no blocks")
	}
	text, ok := first.(ai.TextBlock)
	if !ok || text.Text != `{"isValid":true}` {
		t.Errorf("first block = %#v", first)
	}
	if resp.Model != "gpt-4o" || resp.StopReason != "stop" {
		t.Errorf("model=%q stop=%q", resp.Model, resp.StopReason)
	}

	if seen["model"] != "gpt-4o" {
		t.Errorf("model = %v", seen["model"])
	}
	if seen["max_tokens"] != float64(defaultMaxTokens) {
		t.Errorf("max_tokens = %v", seen["max_tokens"])
	}
	format, _ := seen["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", format)
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["name"] != "test_schema" || schema["strict"] != true {
		t.Errorf("json_schema = %v", schema)
	}

	messages, _ := seen["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("messages = %v", seen["messages"])
	}
	parts, _ := messages[0].(map[string]any)["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("content parts = %v", parts)
	}
	image, _ := parts[0].(map[string]any)["image_url"].(map[string]any)
	if image["url"] != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("image url = %v", image["url"])
	}
	if parts[1].(map[string]any)["text"] != "describe" {
		t.Errorf("text part = %v", parts[1])
	}
}

func TestCompleteReasoningModelUsesCompletionTokens(t *testing.T) {
	var seen map[string]any
	srv := fakeProvider(t, http.StatusOK, completion(`{"role":"assistant","content":"{}"}`), &seen)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "o3-mini"})

	vr := visionRequest()
	vr.MaxOutputTokens = 500
	if _, err := c.Complete(context.Background(), vr); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if seen["max_completion_tokens"] != float64(500) {
		t.Errorf("max_completion_tokens = %v", seen["max_completion_tokens"])
	}
	if _, ok := seen["max_tokens"]; ok {
		t.Error("max_tokens must not be sent to reasoning models")
	}
}

func TestCompleteRefusal(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, completion(`{"role":"assistant","content":"","refusal":"I can't help with that"}`), nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

	resp, err := c.Complete(context.Background(), visionRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	first, _ := resp.First()
	if r, ok := first.(ai.RefusalBlock); !ok || r.Reason != "I can't help with that" {
		t.Errorf("first block = %#v", first)
	}
}

func TestCompleteQuotaExceeded(t *testing.T) {
	srv := fakeProvider(t, http.StatusTooManyRequests,
		`{"error":{"message":"API rate limit exceeded","type":"requests","code":"rate_limit_exceeded"}}`, nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

	_, err := c.Complete(context.Background(), visionRequest())
	if !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if !strings.Contains(err.Error(), "API rate limit exceeded") {
		t.Errorf("provider message lost: %q", err.Error())
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := fakeProvider(t, http.StatusInternalServerError,
		`{"error":{"message":"upstream exploded","type":"server_error"}}`, nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

	_, err := c.Complete(context.Background(), visionRequest())
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ai.ErrQuotaExceeded) {
		t.Error("500 must not be reported as quota")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{"id":"x","object":"chat.completion","model":"gpt-4o","choices":[]}`, nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

	if _, err := c.Complete(context.Background(), visionRequest()); !errors.Is(err, ai.ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	c := NewClient(Options{})
	if c.Configured() {
		t.Error("client without key reports configured")
	}
	if c.Model != defaultModel {
		t.Errorf("model = %q", c.Model)
	}
	if _, err := c.Complete(context.Background(), visionRequest()); !errors.Is(err, ai.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}
