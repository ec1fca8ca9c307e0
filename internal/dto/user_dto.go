package dto

import "time"

// AuthClaims is the identity extracted from a verified access token.
type AuthClaims struct {
	UserID   string
	TenantID string
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	TenantID  string `json:"tenant_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	TenantID  string    `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAnalyticsResponse is the lifetime analytics view for one user.
type UserAnalyticsResponse struct {
	TotalQuizzesTaken      int                           `json:"total_quizzes_taken"`
	TotalQuestionsAnswered int                           `json:"total_questions_answered"`
	TotalCorrectAnswers    int                           `json:"total_correct_answers"`
	AccuracyPercentage     float64                       `json:"accuracy_percentage"`
	AverageScore           float64                       `json:"average_score"`
	BestScore              float64                       `json:"best_score"`
	LastQuizDate           *time.Time                    `json:"last_quiz_date,omitempty"`
	ByDifficulty           map[string]DifficultyAccuracy `json:"by_difficulty"`
}

// DifficultyAccuracy is the per-difficulty breakdown derived from the
// question history ledger.
type DifficultyAccuracy struct {
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}
