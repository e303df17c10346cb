package examprep

import "strings"

const (
	summaryMaxSentences   = 12
	fallbackMaxFlashcards = 10
	fallbackMinLines      = 5
	fallbackMaxQuestions  = 8
	fallbackAnswerRunes   = 140
)

// Normalize coerces an arbitrarily-shaped generated payload into the
// canonical shape. Pure function: no I/O, idempotent on its own output.
func Normalize(p Payload, t Targets) Payload {
	questions := NormalizeQuestions(p.Questions, t.MaxQuestions, t.ExpectedMostLikely)
	flashcards := NormalizeFlashcards(p.Flashcards, t.ExpectedFlashcards)
	summary := NormalizeSummary(p.Summary, flashcards, questions)
	return Payload{
		Questions:  questions,
		Flashcards: flashcards,
		Summary:    summary,
	}
}

// NormalizeQuestions drops entries with an empty question or answer,
// truncates to maxQuestions preserving order, then forces the number of
// most-likely flags to min(expectedMostLikely, surviving count): excess flags
// are demoted from the tail of the flagged set, missing flags are promoted in
// list order.
func NormalizeQuestions(in []Question, maxQuestions, expectedMostLikely int) []Question {
	out := make([]Question, 0, len(in))
	for _, q := range in {
		question := strings.TrimSpace(q.Question)
		answer := strings.TrimSpace(q.Answer)
		if question == "" || answer == "" {
			continue
		}
		out = append(out, Question{
			Question:     question,
			Answer:       answer,
			IsMostLikely: q.IsMostLikely,
		})
		if len(out) == maxQuestions {
			break
		}
	}

	target := expectedMostLikely
	if target > len(out) {
		target = len(out)
	}
	if target < 0 {
		target = 0
	}

	if target == 0 {
		for i := range out {
			out[i].IsMostLikely = false
		}
		return out
	}

	flagged := 0
	for i := range out {
		if !out[i].IsMostLikely {
			continue
		}
		flagged++
		if flagged > target {
			out[i].IsMostLikely = false
		}
	}

	if flagged < target {
		for i := range out {
			if flagged == target {
				break
			}
			if !out[i].IsMostLikely {
				out[i].IsMostLikely = true
				flagged++
			}
		}
	}

	return out
}

// NormalizeFlashcards drops entries with an empty front or back and truncates
// to the expected count. A short list stays short; the retry loop reacts to
// that, not this function.
func NormalizeFlashcards(in []Flashcard, expected int) []Flashcard {
	out := make([]Flashcard, 0, len(in))
	for _, c := range in {
		front := strings.TrimSpace(c.Front)
		back := strings.TrimSpace(c.Back)
		if front == "" || back == "" {
			continue
		}
		out = append(out, Flashcard{Front: front, Back: back})
		if len(out) == expected {
			break
		}
	}
	return out
}

// NormalizeSummary turns whatever the model returned into a point-wise
// summary. Already-bulleted text keeps its lines with markers normalized to
// "- "; prose is split into sentences and bulleted; an empty summary is
// synthesized from the surviving flashcards and questions.
func NormalizeSummary(raw string, flashcards []Flashcard, questions []Question) string {
	raw = strings.TrimSpace(raw)

	if raw != "" {
		if hasBulletLine(raw) {
			return normalizeBullets(raw)
		}
		return bulletSentences(raw)
	}

	return fallbackSummary(flashcards, questions)
}

func hasBulletLine(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "• ") {
			return true
		}
	}
	return false
}

func normalizeBullets(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "• "); ok {
			trimmed = "- " + rest
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

// bulletSentences splits prose on sentence boundaries (., ! or ? followed by
// whitespace) and bullets up to summaryMaxSentences of them.
func bulletSentences(s string) string {
	sentences := splitSentences(s)
	if len(sentences) > summaryMaxSentences {
		sentences = sentences[:summaryMaxSentences]
	}

	out := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		out = append(out, "- "+sentence)
	}
	return strings.Join(out, "\n")
}

func splitSentences(s string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(b.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
		b.Reset()
	}

	if sentence := strings.TrimSpace(b.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// fallbackSummary renders surviving flashcards as bullet lines, topping up
// with question/answer lines when too few flashcards are available.
func fallbackSummary(flashcards []Flashcard, questions []Question) string {
	var lines []string

	for i, c := range flashcards {
		if i == fallbackMaxFlashcards {
			break
		}
		lines = append(lines, "- "+c.Front+": "+c.Back)
	}

	if len(lines) < fallbackMinLines {
		for i, q := range questions {
			if i == fallbackMaxQuestions {
				break
			}
			lines = append(lines, "- "+q.Question+": "+truncateRunes(q.Answer, fallbackAnswerRunes))
		}
	}

	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
