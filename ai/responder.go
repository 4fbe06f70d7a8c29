package ai

import (
	"context"
	"strings"
	"time"

	"datadash/domain/core"
	"datadash/domain/dataset"
	"datadash/internal"
	"datadash/ports"
)

// DefaultMaxOutputLength bounds the generated answer
const DefaultMaxOutputLength = 200

// Answer is the generator's reply to one question, returned verbatim
type Answer struct {
	Question    string        `json:"question"`
	Text        string        `json:"answer"`
	Model       string        `json:"model"`
	PromptChars int           `json:"prompt_chars"`
	Elapsed     time.Duration `json:"-"`
}

// QueryResponder answers natural-language questions about a table by
// forwarding a prompt to a text generator. It owns no model state; the
// generator is built once by the caller and shared.
type QueryResponder struct {
	generator       ports.TextGenerator
	prompts         *PromptManager
	maxOutputLength int
	sampleRows      int
}

// NewQueryResponder creates a responder. Non-positive limits fall back to
// DefaultMaxOutputLength and DefaultSampleRows.
func NewQueryResponder(generator ports.TextGenerator, maxOutputLength, sampleRows int) *QueryResponder {
	if maxOutputLength <= 0 {
		maxOutputLength = DefaultMaxOutputLength
	}
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}
	return &QueryResponder{
		generator:       generator,
		prompts:         NewPromptManager(""),
		maxOutputLength: maxOutputLength,
		sampleRows:      sampleRows,
	}
}

// WithPromptManager swaps the template source, e.g. for an override directory
func (qr *QueryResponder) WithPromptManager(pm *PromptManager) *QueryResponder {
	qr.prompts = pm
	return qr
}

// Ask builds the prompt and returns the generated text unmodified. Generator
// failures, including context expiry, come back as core.ErrGeneration.
func (qr *QueryResponder) Ask(ctx context.Context, t *dataset.Table, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, core.ErrEmptyQuestion
	}

	if err := ctx.Err(); err != nil {
		return nil, core.NewGenerationError(err)
	}

	prompt, err := qr.prompts.CompileQuestionPrompt(t, question, qr.sampleRows)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := qr.generator.Generate(ctx, prompt, qr.maxOutputLength)
	if err != nil {
		internal.DefaultLogger.Warn("[QueryResponder] Generation failed after %v: %v", time.Since(start), err)
		return nil, core.NewGenerationError(err)
	}

	elapsed := time.Since(start)
	internal.DefaultLogger.Debug("[QueryResponder] Answered in %v (prompt=%d chars, answer=%d chars)", elapsed, len(prompt), len(text))

	return &Answer{
		Question:    question,
		Text:        text,
		Model:       qr.generator.Model(),
		PromptChars: len(prompt),
		Elapsed:     elapsed,
	}, nil
}
