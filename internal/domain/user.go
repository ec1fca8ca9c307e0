package domain

import "time"

// User is an account scoped to a tenant. Emails are unique per tenant, not
// globally. The lifetime counters are denormalized aggregates updated inside
// the submission transaction.
type User struct {
	ID             string
	TenantID       string
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	IsActive       bool
	CreatedAt      time.Time

	// Lifetime aggregates.
	TotalQuizzesTaken      int
	TotalQuestionsAnswered int
	TotalCorrectAnswers    int
	AverageScore           float64
	BestScore              float64
	LastQuizDate           *time.Time
}

// ApplyResult folds one quiz result into the user's lifetime aggregates.
func (u *User) ApplyResult(totalQuestions, correct int, percentage float64, completedAt time.Time) {
	u.TotalQuizzesTaken++
	u.TotalQuestionsAnswered += totalQuestions
	u.TotalCorrectAnswers += correct
	if u.TotalQuestionsAnswered > 0 {
		u.AverageScore = float64(u.TotalCorrectAnswers) / float64(u.TotalQuestionsAnswered) * 100
	}
	if percentage > u.BestScore {
		u.BestScore = percentage
	}
	u.LastQuizDate = &completedAt
}
