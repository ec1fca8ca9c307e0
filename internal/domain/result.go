package domain

import "time"

// GradeForPercentage maps a percentage to a letter grade using the fixed
// breakpoints A>=90, B>=80, C>=70, D>=60, else F.
func GradeForPercentage(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// QuestionAnalysis is the per-question breakdown attached to a result. The
// order always matches the quiz's question order.
type QuestionAnalysis struct {
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
	TimeTaken     int    `json:"time_taken"`
}

// QuizResult is the persisted outcome of one completed session. Each session
// produces at most one result; the session status gate enforces the 1:1.
type QuizResult struct {
	ID             string
	TenantID       string
	QuizID         string
	UserID         string
	SessionID      string
	Score          int
	TotalQuestions int
	Percentage     float64
	Grade          string
	TimeTaken      int // seconds
	UserAnswers    map[string]string
	CorrectAnswers map[string]string
	Analysis       []QuestionAnalysis
	CompletedAt    time.Time
}

// ResultSummary is the read model for the quiz-history view: one result row
// joined with its quiz title and topic name.
type ResultSummary struct {
	ResultID       string
	QuizID         string
	QuizTitle      string
	TopicName      string
	Score          int
	TotalQuestions int
	Percentage     float64
	Grade          string
	TimeTaken      int
	CompletedAt    time.Time
}

// Evaluation is the output of scoring a complete answer set against a quiz.
type Evaluation struct {
	Score          int
	TotalQuestions int
	Percentage     float64
	Grade          string
	Analysis       []QuestionAnalysis
	CorrectAnswers map[string]string
}
