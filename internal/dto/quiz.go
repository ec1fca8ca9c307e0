package dto

import "time"

type GenerateQuizRequest struct {
	TenantID        string `json:"tenant_id"`
	Topic           string `json:"topic"`
	Difficulty      string `json:"difficulty"`
	NumQuestions    int    `json:"num_questions"`
	DurationMinutes int    `json:"duration_minutes"`
}

// QuestionView is a question as shown to a quiz taker. The correct answer is
// never included.
type QuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuizResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Topic           string         `json:"topic"`
	Difficulty      string         `json:"difficulty"`
	NumQuestions    int            `json:"num_questions"`
	DurationMinutes int            `json:"duration_minutes"`
	Source          string         `json:"source"`
	Questions       []QuestionView `json:"questions"`
	CreatedAt       time.Time      `json:"created_at"`
}

type TopicResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	Difficulty          string `json:"difficulty"`
	TotalQuizzesCreated int    `json:"total_quizzes_created"`
}

// QuizHistoryEntry is one row of the recent-results view.
type QuizHistoryEntry struct {
	ResultID       string    `json:"result_id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Topic          string    `json:"topic"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	Grade          string    `json:"grade"`
	TimeTaken      int       `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
}
