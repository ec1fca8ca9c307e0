package models

import (
	"database/sql"
	"time"
)

// User row in the users table.
type User struct {
	ID                     string       `db:"id"`
	TenantID               string       `db:"tenant_id"`
	Email                  string       `db:"email"`
	HashedPassword         string       `db:"hashed_password"`
	FirstName              string       `db:"first_name"`
	LastName               string       `db:"last_name"`
	IsActive               bool         `db:"is_active"`
	CreatedAt              time.Time    `db:"created_at"`
	TotalQuizzesTaken      int          `db:"total_quizzes_taken"`
	TotalQuestionsAnswered int          `db:"total_questions_answered"`
	TotalCorrectAnswers    int          `db:"total_correct_answers"`
	AverageScore           float64      `db:"average_score"`
	BestScore              float64      `db:"best_score"`
	LastQuizDate           sql.NullTime `db:"last_quiz_date"`
}

// Topic row in the topics table.
type Topic struct {
	ID                  string    `db:"id"`
	TenantID            string    `db:"tenant_id"`
	Name                string    `db:"name"`
	Description         string    `db:"description"`
	Category            string    `db:"category"`
	Difficulty          string    `db:"difficulty"`
	IsActive            bool      `db:"is_active"`
	CreatedAt           time.Time `db:"created_at"`
	TotalQuizzesCreated int       `db:"total_quizzes_created"`
}

// Quiz row in the quizzes table.
type Quiz struct {
	ID            string    `db:"id"`
	TenantID      string    `db:"tenant_id"`
	TopicID       string    `db:"topic_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	Difficulty    string    `db:"difficulty"`
	NumQuestions  int       `db:"num_questions"`
	Duration      int       `db:"duration"`
	QuestionSeed  string    `db:"question_seed"`
	Source        string    `db:"source"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	TotalAttempts int       `db:"total_attempts"`
	AverageScore  float64   `db:"average_score"`
}

// Question row in the questions table. Options are stored in four columns;
// the correct answer is a copy of the matching option text.
type Question struct {
	ID            string `db:"id"`
	QuizID        string `db:"quiz_id"`
	QuestionText  string `db:"question_text"`
	OptionA       string `db:"option_a"`
	OptionB       string `db:"option_b"`
	OptionC       string `db:"option_c"`
	OptionD       string `db:"option_d"`
	CorrectAnswer string `db:"correct_answer"`
	Explanation   string `db:"explanation"`
	Difficulty    string `db:"difficulty"`
	Category      string `db:"category"`
	TimesAsked    int    `db:"times_asked"`
	TimesCorrect  int    `db:"times_correct"`
}

// QuizSession row in the quiz_sessions table.
type QuizSession struct {
	ID               string        `db:"id"`
	QuizID           string        `db:"quiz_id"`
	UserID           string        `db:"user_id"`
	TenantID         string        `db:"tenant_id"`
	StartTime        time.Time     `db:"start_time"`
	EndTime          time.Time     `db:"end_time"`
	TimeLimitMinutes int           `db:"time_limit_minutes"`
	Status           string        `db:"status"`
	CompletedAt      sql.NullTime  `db:"completed_at"`
	ActualTimeTaken  sql.NullInt64 `db:"actual_time_taken"`
	CreatedAt        time.Time     `db:"created_at"`
}

// QuizResult row in the quiz_results table. Answer maps and the per-question
// analysis are serialized as JSON text.
type QuizResult struct {
	ID                string    `db:"id"`
	TenantID          string    `db:"tenant_id"`
	QuizID            string    `db:"quiz_id"`
	UserID            string    `db:"user_id"`
	SessionID         string    `db:"session_id"`
	Score             int       `db:"score"`
	TotalQuestions    int       `db:"total_questions"`
	Percentage        float64   `db:"percentage"`
	Grade             string    `db:"grade"`
	TimeTaken         int       `db:"time_taken"`
	UserAnswers       string    `db:"user_answers"`
	CorrectAnswers    string    `db:"correct_answers"`
	QuestionsAnalysis string    `db:"questions_analysis"`
	CompletedAt       time.Time `db:"completed_at"`
}

// ResultSummary is the joined row backing the quiz-history view.
type ResultSummary struct {
	ResultID       string    `db:"result_id"`
	QuizID         string    `db:"quiz_id"`
	QuizTitle      string    `db:"quiz_title"`
	TopicName      string    `db:"topic_name"`
	Score          int       `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	Percentage     float64   `db:"percentage"`
	Grade          string    `db:"grade"`
	TimeTaken      int       `db:"time_taken"`
	CompletedAt    time.Time `db:"completed_at"`
}

// QuestionHistory row in the user_question_history table.
type QuestionHistory struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	QuestionID    string         `db:"question_id"`
	TenantID      string         `db:"tenant_id"`
	QuizID        string         `db:"quiz_id"`
	SessionID     sql.NullString `db:"quiz_session_id"`
	QuestionText  string         `db:"question_text"`
	TopicName     string         `db:"topic_name"`
	Difficulty    string         `db:"difficulty"`
	UserAnswer    string         `db:"user_answer"`
	CorrectAnswer string         `db:"correct_answer"`
	IsCorrect     bool           `db:"is_correct"`
	TimeTaken     int            `db:"time_taken_seconds"`
	AnsweredAt    time.Time      `db:"answered_at"`
}
