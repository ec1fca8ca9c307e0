package domain

import "time"

// QuestionHistory is one append-only row per (user, question) answered. Rows
// are never updated or deleted; they outlive the sessions that produced them
// and form the exclusion set for future question selection. Question text,
// topic and difficulty are denormalized onto the row for analytics.
type QuestionHistory struct {
	ID            string
	UserID        string
	QuestionID    string
	TenantID      string
	QuizID        string
	SessionID     string
	QuestionText  string
	TopicName     string
	Difficulty    string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	TimeTaken     int // seconds spent on this question
	AnsweredAt    time.Time
}
