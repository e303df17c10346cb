package examprep

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// maxAttempts bounds the generation retry loop.
const maxAttempts = 3

// Generator is the generative-API collaborator: it takes ordered text/binary
// parts and returns a JSON-shaped string with markdown fences stripped.
type Generator interface {
	GenerateJSON(ctx context.Context, parts []genai.Part) (string, error)
}

// RunResult is the outcome of the retry loop. Compliant reports whether the
// payload met the count contract; a false value means the bound was exhausted
// and the last normalized result is being returned best-effort.
type RunResult struct {
	Payload   Payload
	Compliant bool
	Attempts  int
}

// Generate obtains a structurally-valid, count-correct payload, tolerating
// non-compliant attempts up to maxAttempts. Retries append a corrective
// instruction restating the exact counts. A rate-limit error from the
// generator is not a content problem: it aborts the loop immediately and
// propagates unchanged. After exhausting attempts the last normalized result
// is returned rather than an error.
func Generate(ctx context.Context, gen Generator, parts []genai.Part, t Targets) (*RunResult, error) {
	var last Payload

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptParts := parts
		if attempt > 1 {
			attemptParts = append(append([]genai.Part{}, parts...), genai.Text(CorrectiveInstruction(t)))
		}

		raw, err := gen.GenerateJSON(ctx, attemptParts)
		if err != nil {
			// Rate limits and transport failures are caller-visible
			// conditions, not content-quality problems: no retry here.
			return nil, err
		}

		last = Normalize(parsePayload(raw), t)
		if meetsTargets(last, t) {
			return &RunResult{Payload: last, Compliant: true, Attempts: attempt}, nil
		}
	}

	return &RunResult{Payload: last, Compliant: false, Attempts: maxAttempts}, nil
}

func meetsTargets(p Payload, t Targets) bool {
	if len(p.Questions) < t.MinQuestions || len(p.Questions) > t.MaxQuestions {
		return false
	}
	if len(p.Flashcards) != t.ExpectedFlashcards {
		return false
	}
	return p.Summary != ""
}

// parsePayload decodes the model's JSON, salvaging an embedded object when
// the response carries stray text around it. A hopeless response yields the
// zero payload, which simply fails the compliance check.
func parsePayload(raw string) Payload {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err == nil {
		return p
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		json.Unmarshal([]byte(raw[start:end+1]), &p)
	}
	return p
}
