package domain

import (
	"strings"
	"time"
)

// Difficulty levels accepted for topics, quizzes and questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is one of the accepted difficulty levels.
func ValidDifficulty(s string) bool {
	switch strings.ToLower(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuestionSource records how a quiz's questions were obtained.
const (
	QuestionSourceReused    = "reused"
	QuestionSourceGenerated = "generated"
)

// Topic groups quizzes within a tenant. Topics are created on demand when a
// user first requests a quiz about them.
type Topic struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Category    string
	Difficulty  string
	IsActive    bool
	CreatedAt   time.Time

	// Analytics counters, updated by quiz creation.
	TotalQuizzesCreated int
}

// NewTopic creates an active topic for a tenant.
func NewTopic(id, tenantID, name, difficulty string) *Topic {
	return &Topic{
		ID:          id,
		TenantID:    tenantID,
		Name:        name,
		Description: "Dynamic topic: " + name,
		Category:    "Dynamic",
		Difficulty:  difficulty,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}

// Quiz is an immutable (once created) quiz definition: topic, difficulty,
// requested question count, duration, and the attached questions in
// presentation order. Only the aggregate counters change after creation.
type Quiz struct {
	ID           string
	TenantID     string
	TopicID      string
	Title        string
	Description  string
	Difficulty   string
	NumQuestions int
	Duration     int // minutes
	QuestionSeed string
	Source       string // "reused" or "generated"
	IsActive     bool
	CreatedAt    time.Time

	Questions []Question

	// Analytics counters, updated only by submission.
	TotalAttempts int
	AverageScore  float64
}

// Validate checks the quiz definition invariants, including that the attached
// question count equals the requested count. A session may not be started
// against a quiz that fails this.
func (q *Quiz) Validate() error {
	if q.TenantID == "" {
		return NewValidationError("tenant ID is required")
	}
	if q.TopicID == "" {
		return NewValidationError("topic ID is required")
	}
	if !ValidDifficulty(q.Difficulty) {
		return NewValidationError("difficulty must be easy, medium or hard")
	}
	if q.NumQuestions <= 0 {
		return NewValidationError("question count must be positive")
	}
	if q.Duration <= 0 {
		return NewValidationError("duration must be positive")
	}
	if len(q.Questions) != q.NumQuestions {
		return NewValidationError("attached question count does not match requested count")
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Question is a single 4-option multiple-choice question. The correct answer
// is stored as a copy of the matching option text, not as an index; scoring
// compares answer text by string equality. This denormalization is part of
// the persisted contract.
type Question struct {
	ID            string
	QuizID        string
	Text          string
	Options       [4]string
	CorrectAnswer string
	Explanation   string
	Difficulty    string
	Category      string

	// Analytics counters.
	TimesAsked   int
	TimesCorrect int
}

// Validate enforces the question invariants: non-empty text, 4 distinct
// options, and exactly one option equal to the correct answer.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question text is required")
	}
	seen := make(map[string]struct{}, 4)
	matches := 0
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return NewValidationError("question options must be non-empty")
		}
		if _, dup := seen[opt]; dup {
			return NewValidationError("question options must be distinct")
		}
		seen[opt] = struct{}{}
		if opt == q.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return NewValidationError("exactly one option must match the correct answer")
	}
	return nil
}
