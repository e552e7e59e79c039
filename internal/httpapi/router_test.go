package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"AgriQuery/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnswerer struct {
	env domain.ResultEnvelope
	err error
}

func (s *stubAnswerer) Answer(context.Context, string) (domain.ResultEnvelope, error) {
	return s.env, s.err
}

func testRouter(answerer QueryAnswerer) *gin.Engine {
	s := NewServer(answerer, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s.Router()
}

func TestQueryReturnsEnvelope(t *testing.T) {
	t.Parallel()

	env := domain.ResultEnvelope{Answer: "plenty of rain"}
	env.Finalize()
	router := testRouter(&stubAnswerer{env: env})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"query": "rainfall in Kerala"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got domain.ResultEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Answer != "plenty of rain" {
		t.Fatalf("answer = %q", got.Answer)
	}
}

func TestQueryRejectsEmptyQuery(t *testing.T) {
	t.Parallel()

	router := testRouter(&stubAnswerer{})

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestQueryReportsProcessingFailure(t *testing.T) {
	t.Parallel()

	router := testRouter(&stubAnswerer{err: errors.New("upstream unreachable")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"query": "rainfall"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["error"] != "Server Error" {
		t.Fatalf("error kind = %v", payload["error"])
	}
	if payload["message"] != "upstream unreachable" {
		t.Fatalf("message = %v", payload["message"])
	}
}

func TestSampleQuestions(t *testing.T) {
	t.Parallel()

	router := testRouter(&stubAnswerer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sample-questions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var questions []string
	if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("expected 4 sample questions, got %d", len(questions))
	}
}

func TestCORSAllowsLocalFrontend(t *testing.T) {
	t.Parallel()

	router := testRouter(&stubAnswerer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin = %q", got)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/sample-questions", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin for unknown origin: %q", got)
	}
}
