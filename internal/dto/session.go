package dto

import "time"

type StartSessionRequest struct {
	QuizID   string `json:"quiz_id"`
	TenantID string `json:"tenant_id"`
}

type SessionResponse struct {
	SessionID        string    `json:"session_id"`
	QuizID           string    `json:"quiz_id"`
	Status           string    `json:"status"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

type SessionStatusResponse struct {
	SessionID        string    `json:"session_id"`
	Status           string    `json:"status"`
	RemainingSeconds int       `json:"remaining_seconds"`
	EndTime          time.Time `json:"end_time"`
}

type SubmitSessionRequest struct {
	TenantID string `json:"tenant_id"`
	QuizID   string `json:"quiz_id"`
	// Answers maps question ID to the chosen option text.
	Answers map[string]string `json:"answers"`
	// QuestionTimes maps question ID to seconds spent, client-reported.
	QuestionTimes map[string]int `json:"question_times"`
	// TimeTakenSeconds is the client-reported total; it is clamped to the
	// session's time limit server-side.
	TimeTakenSeconds int `json:"time_taken_seconds"`
}

type QuestionResultView struct {
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
	TimeTaken     int    `json:"time_taken"`
}

type SubmitSessionResponse struct {
	ResultID       string               `json:"result_id"`
	SessionID      string               `json:"session_id"`
	Score          int                  `json:"score"`
	TotalQuestions int                  `json:"total_questions"`
	Percentage     float64              `json:"percentage"`
	Grade          string               `json:"grade"`
	TimeTaken      int                  `json:"time_taken"`
	Analysis       []QuestionResultView `json:"analysis"`
	CompletedAt    time.Time            `json:"completed_at"`
}
