package examprep

import (
	"strings"
	"testing"

	"studyhub-backend/internal/models"
)

func TestTargetsFor_ClampsMostLikely(t *testing.T) {
	module := &models.Module{Name: "Module 1", Ordinal: 1}

	tests := []struct {
		configured int
		expected   int
	}{
		{0, 1},
		{-2, 1},
		{3, 3},
		{10, 10},
		{50, 10},
	}

	for _, tc := range tests {
		subject := &models.Subject{Name: "S", ExamType: "endterm", ExpectedMostLikely: tc.configured}
		got := TargetsFor(subject, module)
		if got.ExpectedMostLikely != tc.expected {
			t.Errorf("configured %d: ExpectedMostLikely = %d, want %d", tc.configured, got.ExpectedMostLikely, tc.expected)
		}
	}
}

func TestTargetsFor_Counts(t *testing.T) {
	subject := &models.Subject{Name: "S", ExamType: "quiz", ExpectedMostLikely: 3, MarksPerQuestion: 5}
	module := &models.Module{Name: "Module 2", Ordinal: 2}

	targets := TargetsFor(subject, module)
	if targets.MaxQuestions != 10 || targets.MinQuestions != 3 {
		t.Errorf("question bounds = [%d, %d], want [3, 10]", targets.MinQuestions, targets.MaxQuestions)
	}
	if targets.ExpectedFlashcards != 20 {
		t.Errorf("ExpectedFlashcards = %d, want 20", targets.ExpectedFlashcards)
	}
}

func TestBuildPrompt_StatesContract(t *testing.T) {
	targets := testTargets()
	prompt := BuildPrompt(targets)

	for _, want := range []string{
		"Subject: Databases",
		"Module: Module 1 (module 1)",
		"at most 10 questions",
		"exactly 3 of them",
		"5-mark question",
		"exactly 4 flashcards",
		"ONLY a valid JSON object",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGuidanceFor_UnknownTypeGetsEndterm(t *testing.T) {
	if guidanceFor("something-new") != examGuidance["endterm"] {
		t.Error("unknown exam type should get endterm guidance")
	}
	if guidanceFor("quiz") != examGuidance["quiz"] {
		t.Error("known exam type should keep its own guidance")
	}
}
