package examprep

import "studyhub-backend/internal/models"

const (
	// Hard cap on questions per module, independent of subject config.
	maxQuestionCap = 10
	// A run with fewer surviving questions than this is retried.
	minQuestions = 3
	// Floor for the flashcard target.
	minFlashcards = 12
)

// Targets fixes the output contract for one generation run. Derived from the
// owning subject's exam configuration before the first attempt and constant
// across retries.
type Targets struct {
	SubjectName        string
	ModuleName         string
	ModuleOrdinal      int
	ExamType           string
	MinQuestions       int
	MaxQuestions       int
	ExpectedMostLikely int
	MarksPerQuestion   int
	ExpectedFlashcards int
}

func TargetsFor(subject *models.Subject, module *models.Module) Targets {
	mostLikely := subject.ExpectedMostLikely
	if mostLikely < 1 {
		mostLikely = 1
	}
	if mostLikely > maxQuestionCap {
		mostLikely = maxQuestionCap
	}

	flashcards := 2 * maxQuestionCap
	if flashcards < minFlashcards {
		flashcards = minFlashcards
	}

	return Targets{
		SubjectName:        subject.Name,
		ModuleName:         module.Name,
		ModuleOrdinal:      module.Ordinal,
		ExamType:           subject.ExamType,
		MinQuestions:       minQuestions,
		MaxQuestions:       maxQuestionCap,
		ExpectedMostLikely: mostLikely,
		MarksPerQuestion:   subject.MarksPerQuestion,
		ExpectedFlashcards: flashcards,
	}
}

// Question is a generated exam question before persistence.
type Question struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	IsMostLikely bool   `json:"is_most_likely"`
}

// Flashcard is a generated front/back pair before persistence.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Payload is the three-part shape the model is asked to return.
type Payload struct {
	Questions  []Question  `json:"questions"`
	Flashcards []Flashcard `json:"flashcards"`
	Summary    string      `json:"summary"`
}
