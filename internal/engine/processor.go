package engine

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"AgriQuery/internal/domain"
	"AgriQuery/internal/ports"
)

const renderFallbackAnswer = "I retrieved the data but could not compose a narrative answer. " +
	"Please inspect the data and sources sections of this response."

// Processor is the top-level query pipeline: parse the question, run the
// matching intent handler, then render retrieved data into prose.
type Processor struct {
	parser   ports.QueryParser
	renderer ports.AnswerRenderer
	engine   *Engine
	logger   *slog.Logger
}

func NewProcessor(parser ports.QueryParser, renderer ports.AnswerRenderer, engine *Engine, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{parser: parser, renderer: renderer, engine: engine, logger: logger}
}

// Answer runs the full pipeline for one natural-language question. A parse
// failure degrades to the general intent; a render failure degrades to a
// fixed notice so callers still get the data and citations.
func (p *Processor) Answer(ctx context.Context, text string) (domain.ResultEnvelope, error) {
	started := time.Now()

	q, err := p.parser.ParseQuery(ctx, text)
	if err != nil {
		p.logger.Warn("query parse failed, using general fallback", "error", err)
		q = domain.QueryDescription{Intent: domain.IntentGeneral}
	}
	q = q.Normalize()
	p.logger.Info("query parsed", "intent", q.Intent,
		"states", q.States, "crops", q.Crops, "years", q.Years)

	env, err := p.engine.Handle(ctx, q)
	if err != nil {
		return domain.ResultEnvelope{}, err
	}

	// Handlers that produced a guidance message answer directly; everything
	// else goes through the narrative generator.
	if env.Answer == "" {
		answer, err := p.renderer.GenerateAnswer(ctx, text, AssembleContext(env), env.Data)
		if err != nil {
			p.logger.Warn("answer rendering failed", "error", err)
			answer = renderFallbackAnswer
		}
		env.Answer = answer
	}

	env.Metadata.QueryID = uuid.NewString()
	env.Metadata.QueryTime = started.UTC().Format(time.RFC3339)
	env.Metadata.ProcessingSeconds = math.Round(time.Since(started).Seconds()*1000) / 1000
	return env, nil
}
