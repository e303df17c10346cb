package examprep

import (
	"reflect"
	"strings"
	"testing"
)

func q(text string, mostLikely bool) Question {
	return Question{Question: text, Answer: "answer for " + text, IsMostLikely: mostLikely}
}

func countFlags(qs []Question) int {
	n := 0
	for _, q := range qs {
		if q.IsMostLikely {
			n++
		}
	}
	return n
}

func TestNormalizeQuestions_FiltersAndTruncates(t *testing.T) {
	in := []Question{
		q("q1", false),
		{Question: "   ", Answer: "something"},
		{Question: "q2", Answer: ""},
		{Question: "  q3  ", Answer: "  a3  "},
	}

	out := NormalizeQuestions(in, 10, 0)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving questions, got %d", len(out))
	}
	if out[1].Question != "q3" || out[1].Answer != "a3" {
		t.Errorf("expected trimmed fields, got %+v", out[1])
	}

	many := make([]Question, 15)
	for i := range many {
		many[i] = q(strings.Repeat("x", i+1), false)
	}
	out = NormalizeQuestions(many, 10, 3)
	if len(out) != 10 {
		t.Errorf("expected truncation to 10, got %d", len(out))
	}
}

func TestNormalizeQuestions_FlagBalancing(t *testing.T) {
	tests := []struct {
		name     string
		in       []Question
		expected int
		// flag state per position after normalization
		flags []bool
	}{
		{
			name:     "promotes in list order when under target",
			in:       []Question{q("a", false), q("b", false), q("c", false), q("d", false)},
			expected: 2,
			flags:    []bool{true, true, false, false},
		},
		{
			name:     "demotes tail of flagged set when over target",
			in:       []Question{q("a", true), q("b", true), q("c", true), q("d", false)},
			expected: 2,
			flags:    []bool{true, true, false, false},
		},
		{
			name:     "keeps existing flags when exact",
			in:       []Question{q("a", false), q("b", true), q("c", true)},
			expected: 2,
			flags:    []bool{false, true, true},
		},
		{
			name:     "target clamped to survivor count",
			in:       []Question{q("a", false), q("b", false)},
			expected: 5,
			flags:    []bool{true, true},
		},
		{
			name:     "zero target clears every flag",
			in:       []Question{q("a", true), q("b", true)},
			expected: 0,
			flags:    []bool{false, false},
		},
		{
			name:     "negative target treated as zero",
			in:       []Question{q("a", true)},
			expected: -1,
			flags:    []bool{false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := NormalizeQuestions(tc.in, 10, tc.expected)
			got := make([]bool, len(out))
			for i := range out {
				got[i] = out[i].IsMostLikely
			}
			if !reflect.DeepEqual(got, tc.flags) {
				t.Errorf("flags = %v, want %v", got, tc.flags)
			}
		})
	}
}

func TestNormalizeFlashcards(t *testing.T) {
	in := []Flashcard{
		{Front: " term ", Back: " definition "},
		{Front: "", Back: "orphan"},
		{Front: "orphan", Back: "  "},
		{Front: "t2", Back: "d2"},
		{Front: "t3", Back: "d3"},
	}

	out := NormalizeFlashcards(in, 2)
	if len(out) != 2 {
		t.Fatalf("expected exactly 2 flashcards, got %d", len(out))
	}
	if out[0].Front != "term" || out[0].Back != "definition" {
		t.Errorf("expected trimmed first card, got %+v", out[0])
	}
	if out[1].Front != "t2" {
		t.Errorf("expected second survivor t2, got %q", out[1].Front)
	}

	// A short list stays short.
	out = NormalizeFlashcards(in[:2], 20)
	if len(out) != 1 {
		t.Errorf("expected 1 card, got %d", len(out))
	}
}

func TestNormalizeSummary_BulletLines(t *testing.T) {
	raw := "• First point\n\n- Second point\n  • Third point  "
	got := NormalizeSummary(raw, nil, nil)
	want := "- First point\n- Second point\n- Third point"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeSummary_ProseSplit(t *testing.T) {
	got := NormalizeSummary("First fact. Second fact! Is this third? Yes.", nil, nil)
	want := "- First fact.\n- Second fact!\n- Is this third?\n- Yes."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Decimal points must not split sentences.
	got = NormalizeSummary("Pi is roughly 3.14 in most uses. Done.", nil, nil)
	want = "- Pi is roughly 3.14 in most uses.\n- Done."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeSummary_ProseCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("Sentence here. ")
	}
	got := NormalizeSummary(b.String(), nil, nil)
	if n := len(strings.Split(got, "\n")); n != summaryMaxSentences {
		t.Errorf("expected %d bullet lines, got %d", summaryMaxSentences, n)
	}
}

func TestNormalizeSummary_FallbackFromFlashcards(t *testing.T) {
	cards := []Flashcard{
		{Front: "A", Back: "a"},
		{Front: "B", Back: "b"},
		{Front: "C", Back: "c"},
		{Front: "D", Back: "d"},
		{Front: "E", Back: "e"},
	}

	got := NormalizeSummary("", cards, nil)
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[0] != "- A: a" {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestNormalizeSummary_FallbackTopsUpFromQuestions(t *testing.T) {
	cards := []Flashcard{{Front: "A", Back: "a"}}
	longAnswer := strings.Repeat("я", 200)
	questions := []Question{{Question: "Q1", Answer: longAnswer}}

	got := NormalizeSummary("", cards, questions)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	want := "- Q1: " + strings.Repeat("я", fallbackAnswerRunes) + "…"
	if lines[1] != want {
		t.Errorf("question line = %q, want %q", lines[1], want)
	}
}

func TestNormalizeSummary_FallbackEmptyEverything(t *testing.T) {
	if got := NormalizeSummary("", nil, nil); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestNormalize_IdempotentOnOwnOutput(t *testing.T) {
	targets := Targets{
		MinQuestions:       3,
		MaxQuestions:       10,
		ExpectedMostLikely: 3,
		ExpectedFlashcards: 4,
	}

	in := Payload{
		Questions: []Question{
			q("a", true), q("b", true), q("c", true), q("d", true), q("e", false),
		},
		Flashcards: []Flashcard{
			{Front: "1", Back: "x"}, {Front: "2", Back: "x"},
			{Front: "3", Back: "x"}, {Front: "4", Back: "x"}, {Front: "5", Back: "x"},
		},
		Summary: "One fact. Another fact.",
	}

	once := Normalize(in, targets)
	twice := Normalize(once, targets)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize not idempotent:\nfirst:  %+v\nsecond: %+v", once, twice)
	}
	if got := countFlags(once.Questions); got != 3 {
		t.Errorf("expected 3 most-likely flags, got %d", got)
	}
	if len(once.Flashcards) != 4 {
		t.Errorf("expected 4 flashcards, got %d", len(once.Flashcards))
	}
}
