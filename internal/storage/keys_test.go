package storage

import "testing"

func TestNormalizeKey(t *testing.T) {
	const bucket = "exam-pdfs"

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"bare key unchanged", "u1/m1/notes.pdf", "u1/m1/notes.pdf"},
		{"trims whitespace", "  u1/m1/notes.pdf \n", "u1/m1/notes.pdf"},
		{"empty input", "   ", ""},
		{
			"signed url",
			"https://cdn.example.com/storage/v1/object/sign/exam-pdfs/u1/m1/notes.pptx?token=abc",
			"u1/m1/notes.pptx",
		},
		{
			"public url",
			"https://cdn.example.com/storage/v1/object/public/exam-pdfs/u1/m1/slides.pdf",
			"u1/m1/slides.pdf",
		},
		{
			"authenticated url",
			"https://cdn.example.com/storage/v1/object/authenticated/exam-pdfs/u1/m1/a.docx",
			"u1/m1/a.docx",
		},
		{
			"url without access role",
			"https://cdn.example.com/storage/v1/object/exam-pdfs/u1/m1/a.txt",
			"u1/m1/a.txt",
		},
		{
			"url without marker falls back to path",
			"https://cdn.example.com/exam-pdfs/u1/m1/a.pdf",
			"u1/m1/a.pdf",
		},
		{"bucket prefix stripped", "exam-pdfs/u1/m1/notes.pdf", "u1/m1/notes.pdf"},
		{"double bucket prefix stripped", "exam-pdfs/exam-pdfs/u1/notes.pdf", "u1/notes.pdf"},
		{"percent-encoded key decoded", "u1/m1/lecture%201.pdf", "u1/m1/lecture 1.pdf"},
		{
			"encoded url decoded after extraction",
			"https://cdn.example.com/storage/v1/object/sign/exam-pdfs/u1/m1/week%203.pdf",
			"u1/m1/week 3.pdf",
		},
		// Malformed percent-encoding must pass through untouched, never error.
		{"bad percent-encoding left as-is", "u1/m1/bad%zz.pdf", "u1/m1/bad%zz.pdf"},
		{"file named like a role", "sign/u1/notes.pdf", "sign/u1/notes.pdf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeKey(tc.raw, bucket)
			if got != tc.expected {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tc.raw, got, tc.expected)
			}
		})
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	const bucket = "exam-pdfs"

	inputs := []string{
		"u1/m1/notes.pdf",
		"https://cdn.example.com/storage/v1/object/sign/exam-pdfs/u1/m1/notes.pptx?token=abc",
		"exam-pdfs/u1/m1/lecture%201.pdf",
		"u1/m1/bad%zz.pdf",
	}

	for _, raw := range inputs {
		once := NormalizeKey(raw, bucket)
		twice := NormalizeKey(once, bucket)
		if once != twice {
			t.Errorf("NormalizeKey not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestNormalizeKey_EmptyBucket(t *testing.T) {
	// With no configured bucket no prefix stripping happens.
	got := NormalizeKey("exam-pdfs/u1/notes.pdf", "")
	if got != "exam-pdfs/u1/notes.pdf" {
		t.Errorf("expected key unchanged, got %q", got)
	}
}
