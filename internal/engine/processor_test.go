package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"AgriQuery/internal/domain"
)

type stubParser struct {
	query domain.QueryDescription
	err   error
}

func (s *stubParser) ParseQuery(context.Context, string) (domain.QueryDescription, error) {
	return s.query, s.err
}

type stubRenderer struct {
	answer string
	err    error
	calls  int
}

func (s *stubRenderer) GenerateAnswer(_ context.Context, _, _ string, _ map[string]any) (string, error) {
	s.calls++
	return s.answer, s.err
}

func TestProcessorRendersAnswer(t *testing.T) {
	t.Parallel()

	parser := &stubParser{query: domain.QueryDescription{
		Intent: domain.IntentCompareRainfall,
		States: []string{"Gujarat"},
		Years:  []int{2014, 2015},
	}}
	renderer := &stubRenderer{answer: "Gujarat received ample rain."}
	data := &fakeData{}
	p := NewProcessor(parser, renderer, testEngine(data), slog.New(slog.NewTextHandler(io.Discard, nil)))

	env, err := p.Answer(context.Background(), "how was the rain in Gujarat?")
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}

	if env.Answer != "Gujarat received ample rain." {
		t.Fatalf("answer = %q", env.Answer)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer calls = %d, want 1", renderer.calls)
	}
	if env.Metadata.QueryID == "" {
		t.Fatal("query id must be stamped")
	}
	if env.Metadata.QueryTime == "" {
		t.Fatal("query time must be stamped")
	}
}

func TestProcessorSkipsRendererForGuidance(t *testing.T) {
	t.Parallel()

	// identify_district without a crop produces a guidance answer, which
	// must pass through without a render call.
	parser := &stubParser{query: domain.QueryDescription{
		Intent: domain.IntentIdentifyDistrict,
		States: []string{"Punjab"},
	}}
	renderer := &stubRenderer{answer: "should not appear"}
	p := NewProcessor(parser, renderer, testEngine(&fakeData{}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	env, err := p.Answer(context.Background(), "top districts?")
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if renderer.calls != 0 {
		t.Fatalf("renderer must not be called for guidance answers, got %d calls", renderer.calls)
	}
	if !strings.Contains(env.Answer, "specify a crop") {
		t.Fatalf("unexpected guidance answer: %q", env.Answer)
	}
}

func TestProcessorParseFailureFallsBackToGeneral(t *testing.T) {
	t.Parallel()

	parser := &stubParser{err: errors.New("model unavailable")}
	renderer := &stubRenderer{answer: "fallback worked"}
	p := NewProcessor(parser, renderer, testEngine(&fakeData{}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	env, err := p.Answer(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if env.Answer != "fallback worked" {
		t.Fatalf("answer = %q", env.Answer)
	}
}

func TestProcessorRenderFailureDegrades(t *testing.T) {
	t.Parallel()

	parser := &stubParser{query: domain.QueryDescription{
		Intent: domain.IntentCompareRainfall,
		States: []string{"Gujarat"},
	}}
	renderer := &stubRenderer{err: errors.New("model overloaded")}
	p := NewProcessor(parser, renderer, testEngine(&fakeData{}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	env, err := p.Answer(context.Background(), "rain?")
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if env.Answer != renderFallbackAnswer {
		t.Fatalf("answer = %q", env.Answer)
	}
}
