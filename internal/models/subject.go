package models

import (
	"time"

	"github.com/google/uuid"
)

// Exam types a subject can be configured for. Unknown values fall back to
// endterm guidance at prompt-build time.
const (
	ExamTypeMidterm    = "midterm"
	ExamTypeEndterm    = "endterm"
	ExamTypeQuiz       = "quiz"
	ExamTypeFinal      = "final"
	ExamTypeAssignment = "assignment"
)

type Subject struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	ExamType           string    `json:"exam_type"`
	ExpectedMostLikely int       `json:"expected_most_likely"`
	MarksPerQuestion   int       `json:"marks_per_question"`
	ModuleCount        int       `json:"module_count"`
	CreatedAt          time.Time `json:"created_at"`
}

type CreateSubjectRequest struct {
	Name               string `json:"name"`
	ExamType           string `json:"exam_type"`
	ExpectedMostLikely int    `json:"expected_most_likely"`
	MarksPerQuestion   int    `json:"marks_per_question"`
	ModuleCount        int    `json:"module_count"`
}

type UpdateSubjectRequest struct {
	Name               *string `json:"name"`
	ExamType           *string `json:"exam_type"`
	ExpectedMostLikely *int    `json:"expected_most_likely"`
	MarksPerQuestion   *int    `json:"marks_per_question"`
}
