package examprep

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"studyhub-backend/internal/services"
)

// scriptedGenerator replays canned responses, recording what it was asked.
type scriptedGenerator struct {
	responses []string
	errs      []error
	calls     [][]genai.Part
}

func (g *scriptedGenerator) GenerateJSON(ctx context.Context, parts []genai.Part) (string, error) {
	i := len(g.calls)
	g.calls = append(g.calls, parts)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", fmt.Errorf("unexpected call %d", i)
}

func testTargets() Targets {
	return Targets{
		SubjectName:        "Databases",
		ModuleName:         "Module 1",
		ModuleOrdinal:      1,
		ExamType:           "endterm",
		MinQuestions:       3,
		MaxQuestions:       10,
		ExpectedMostLikely: 3,
		MarksPerQuestion:   5,
		ExpectedFlashcards: 4,
	}
}

func compliantJSON(t Targets) string {
	p := Payload{Summary: "- key point"}
	for i := 0; i < t.MaxQuestions; i++ {
		p.Questions = append(p.Questions, Question{
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		})
	}
	for i := 0; i < t.ExpectedFlashcards; i++ {
		p.Flashcards = append(p.Flashcards, Flashcard{
			Front: fmt.Sprintf("f%d", i),
			Back:  fmt.Sprintf("b%d", i),
		})
	}
	data, _ := json.Marshal(p)
	return string(data)
}

func TestGenerate_CompliantFirstAttempt(t *testing.T) {
	targets := testTargets()
	gen := &scriptedGenerator{responses: []string{compliantJSON(targets)}}

	result, err := Generate(context.Background(), gen, []genai.Part{genai.Text("prompt")}, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Compliant || result.Attempts != 1 {
		t.Errorf("expected compliant on attempt 1, got compliant=%v attempts=%d", result.Compliant, result.Attempts)
	}
	if got := countFlags(result.Payload.Questions); got != targets.ExpectedMostLikely {
		t.Errorf("expected %d most-likely flags after normalization, got %d", targets.ExpectedMostLikely, got)
	}
	if len(gen.calls) != 1 {
		t.Errorf("expected exactly 1 generator call, got %d", len(gen.calls))
	}
}

func TestGenerate_RetriesWithCorrectiveInstruction(t *testing.T) {
	targets := testTargets()
	gen := &scriptedGenerator{responses: []string{
		`{"questions": [], "flashcards": [], "summary": ""}`,
		compliantJSON(targets),
	}}

	result, err := Generate(context.Background(), gen, []genai.Part{genai.Text("prompt")}, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Compliant || result.Attempts != 2 {
		t.Errorf("expected compliant on attempt 2, got compliant=%v attempts=%d", result.Compliant, result.Attempts)
	}

	// First call carries only the original parts; the retry appends the
	// corrective instruction.
	if len(gen.calls[0]) != 1 {
		t.Errorf("first call should have 1 part, got %d", len(gen.calls[0]))
	}
	if len(gen.calls[1]) != 2 {
		t.Fatalf("retry should have 2 parts, got %d", len(gen.calls[1]))
	}
	corrective, ok := gen.calls[1][1].(genai.Text)
	if !ok {
		t.Fatalf("corrective part is %T, want genai.Text", gen.calls[1][1])
	}
	if !strings.Contains(string(corrective), "exactly 4 flashcards") {
		t.Errorf("corrective instruction missing flashcard count: %q", corrective)
	}
}

func TestGenerate_ExhaustedReturnsLastNormalized(t *testing.T) {
	targets := testTargets()
	short := `{"questions": [{"question": "only", "answer": "one"}], "flashcards": [{"front": "f", "back": "b"}], "summary": "- s"}`
	gen := &scriptedGenerator{responses: []string{short, short, short}}

	result, err := Generate(context.Background(), gen, []genai.Part{genai.Text("prompt")}, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Compliant {
		t.Error("expected non-compliant result")
	}
	if result.Attempts != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, result.Attempts)
	}
	if len(result.Payload.Questions) != 1 || result.Payload.Summary != "- s" {
		t.Errorf("expected last normalized payload, got %+v", result.Payload)
	}
	if len(gen.calls) != maxAttempts {
		t.Errorf("expected %d generator calls, got %d", maxAttempts, len(gen.calls))
	}
}

func TestGenerate_RateLimitShortCircuits(t *testing.T) {
	targets := testTargets()
	rateErr := &services.RateLimitError{Message: "AI service is busy", RetryAfterSeconds: 30}
	gen := &scriptedGenerator{errs: []error{rateErr}}

	result, err := Generate(context.Background(), gen, []genai.Part{genai.Text("prompt")}, targets)
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	got, ok := err.(*services.RateLimitError)
	if !ok {
		t.Fatalf("expected *services.RateLimitError, got %T", err)
	}
	if got.RetryAfterSeconds != 30 {
		t.Errorf("RetryAfterSeconds = %d, want 30", got.RetryAfterSeconds)
	}
	if len(gen.calls) != 1 {
		t.Errorf("rate limit must stop the loop after 1 call, got %d", len(gen.calls))
	}
}

func TestParsePayload_SalvagesEmbeddedObject(t *testing.T) {
	raw := "Sure! Here is the JSON you asked for:\n{\"questions\": [], \"flashcards\": [], \"summary\": \"- ok\"}\nHope that helps."
	p := parsePayload(raw)
	if p.Summary != "- ok" {
		t.Errorf("expected salvaged summary, got %q", p.Summary)
	}

	if p := parsePayload("no json at all"); p.Summary != "" || p.Questions != nil {
		t.Errorf("expected zero payload, got %+v", p)
	}
}
