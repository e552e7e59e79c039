package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"AgriQuery/internal/config"
	"AgriQuery/internal/domain"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(config.LLMConfig{
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: endpoint,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(config.LLMConfig{}, nil); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "```json\n"+`{
		"intent": "compare_rainfall",
		"states": ["Maharashtra", "Gujarat"],
		"years": [2011, 2015],
		"metrics": ["rainfall"],
		"comparison_type": "between_states",
		"top_n": 5
	}`+"\n```")
	defer server.Close()

	c := newTestClient(t, server.URL)
	q, err := c.ParseQuery(context.Background(), "Compare rainfall in Maharashtra and Gujarat")
	if err != nil {
		t.Fatalf("ParseQuery error: %v", err)
	}

	if q.Intent != domain.IntentCompareRainfall {
		t.Fatalf("intent = %q", q.Intent)
	}
	if len(q.States) != 2 || q.States[0] != "Maharashtra" {
		t.Fatalf("states = %v", q.States)
	}
	if len(q.Years) != 2 || q.Years[0] != 2011 || q.Years[1] != 2015 {
		t.Fatalf("years = %v", q.Years)
	}
	// Fields absent from the model output must still be normalized.
	if q.Crops == nil || q.TopN != 5 {
		t.Fatalf("normalization incomplete: %+v", q)
	}
}

func TestParseQueryInvalidJSONFallsBack(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "I cannot answer that.")
	defer server.Close()

	c := newTestClient(t, server.URL)
	q, err := c.ParseQuery(context.Background(), "gibberish")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if q.Intent != domain.IntentGeneral {
		t.Fatalf("fallback intent = %q, want general", q.Intent)
	}
	if len(q.Years) != 2 || q.Years[0] != 2001 || q.Years[1] != 2005 {
		t.Fatalf("fallback years = %v", q.Years)
	}
}

func TestParseQueryRejectsEmptyText(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "{}")
	defer server.Close()

	c := newTestClient(t, server.URL)
	if _, err := c.ParseQuery(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank query text")
	}
}

func TestGenerateAnswer(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "  Maharashtra leads in Jowar production.  ")
	defer server.Close()

	c := newTestClient(t, server.URL)
	answer, err := c.GenerateAnswer(context.Background(), "who leads?", "Sources: ...", map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("GenerateAnswer error: %v", err)
	}
	if answer != "Maharashtra leads in Jowar production." {
		t.Fatalf("answer = %q", answer)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"{\"a\": 1}", "{\"a\": 1}"},
		{"```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"```\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"  {\"a\": 1}  ", "{\"a\": 1}"},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
