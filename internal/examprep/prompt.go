package examprep

import (
	"fmt"
	"strings"
)

// Per-exam-type guidance baked into the instruction. Unknown types get the
// endterm guidance.
var examGuidance = map[string]string{
	"midterm":    "Focus on the first half of the syllabus. Mix definitions with short applied problems.",
	"endterm":    "Cover the full breadth of the material. Favor comprehensive, exam-style long answers.",
	"quiz":       "Short, factual questions with crisp one-or-two sentence answers.",
	"final":      "Emphasize synthesis across topics and worked examples with full reasoning.",
	"assignment": "Open-ended questions requiring explanation and justification, suitable for written submission.",
}

func guidanceFor(examType string) string {
	if g, ok := examGuidance[examType]; ok {
		return g
	}
	return examGuidance["endterm"]
}

// BuildPrompt produces the deterministic instruction describing the exact
// output contract for one module's generation run.
func BuildPrompt(t Targets) string {
	var b strings.Builder

	b.WriteString("You are an expert exam-preparation assistant for university students. ")
	b.WriteString("Study the attached course material and produce exam-prep content for it.\n\n")

	fmt.Fprintf(&b, "Subject: %s\n", t.SubjectName)
	fmt.Fprintf(&b, "Module: %s (module %d)\n", t.ModuleName, t.ModuleOrdinal)
	fmt.Fprintf(&b, "Exam type: %s — %s\n\n", t.ExamType, guidanceFor(t.ExamType))

	fmt.Fprintf(&b, "Generate at most %d questions with complete answers.\n", t.MaxQuestions)
	fmt.Fprintf(&b, "Mark exactly %d of them with \"is_most_likely\": true — the questions most probable to appear on the actual exam. All others must be false.\n", t.ExpectedMostLikely)
	fmt.Fprintf(&b, "Each answer should be detailed enough for a %d-mark question.\n", t.MarksPerQuestion)
	fmt.Fprintf(&b, "Generate exactly %d flashcards.\n\n", t.ExpectedFlashcards)

	b.WriteString(`CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks, no commentary.

JSON schema:
{"questions": [{"question": "string", "answer": "string", "is_most_likely": bool}], "flashcards": [{"front": "string", "back": "string"}], "summary": "string"}

Flashcard rules: front is a term or short question under 15 words; back is a self-contained answer under 60 words.
Summary rules: point-wise only — every line must begin with "- " and state one key point of the module.
`)

	return b.String()
}

// CorrectiveInstruction restates the exact counts for retry attempts after a
// non-compliant response.
func CorrectiveInstruction(t Targets) string {
	return fmt.Sprintf(
		"Your previous response did not satisfy the output contract. Return the SAME JSON schema with: "+
			"between %d and %d questions (each with a non-empty question and answer), exactly %d of them flagged \"is_most_likely\": true, "+
			"exactly %d flashcards (each with a non-empty front and back), and a non-empty point-wise summary where every line starts with \"- \". "+
			"Return ONLY the JSON object.",
		t.MinQuestions, t.MaxQuestions, t.ExpectedMostLikely, t.ExpectedFlashcards,
	)
}
