package advisor

import (
	"context"
	"strings"
	"time"

	"github.com/yaoapp/kun/log"
)

// Responder answers operator prompts with the canned answer for the
// prompt's intent, optionally narrated by an LLMClient.
type Responder struct {
	llm          LLMClient
	now          func() time.Time
	defaultModel string
}

// Option configures a Responder.
type Option func(*Responder)

// WithLLM enables narration through llm. A nil llm keeps canned answers.
func WithLLM(llm LLMClient) Option {
	return func(r *Responder) { r.llm = llm }
}

// WithClock sets the clock used for reply timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

// WithDefaultModel sets the model echoed when a query names none.
func WithDefaultModel(model string) Option {
	return func(r *Responder) { r.defaultModel = model }
}

func NewResponder(opts ...Option) *Responder {
	r := &Responder{now: time.Now, defaultModel: DefaultModel}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond classifies q.Prompt and returns the answer envelope. History and
// file contents never change a canned answer; the envelope only echoes the
// model and counts the files.
func (r *Responder) Respond(ctx context.Context, q Query) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	intent := Classify(q.Prompt)
	answer := CannedAnswer(intent, q.Prompt)

	// The prompt only carries a model the caller asked for, so the
	// client's own model applies otherwise.
	if r.llm != nil {
		narrated, err := r.llm.Complete(ctx, BuildNarrationPrompt(q, intent, answer))
		switch {
		case err != nil:
			log.Warn("[assistant] narration failed, using canned answer: %v", err)
		case strings.TrimSpace(narrated) == "":
			log.Warn("[assistant] narration returned empty text, using canned answer")
		default:
			answer = narrated
		}
	}

	if q.Model == "" {
		q.Model = r.defaultModel
	}

	return Reply{
		Answer:         answer,
		Model:          q.Model,
		Intent:         intent,
		FilesProcessed: len(q.Files),
		Timestamp:      r.now(),
	}, nil
}
