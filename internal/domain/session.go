package domain

import "time"

// SessionStatus is the lifecycle state of a quiz session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionExpired   SessionStatus = "expired"
	// SessionAbandoned is reserved in the schema; no transition currently
	// reaches it.
	SessionAbandoned SessionStatus = "abandoned"
)

// QuizSession is one timed attempt by one user against one quiz. EndTime is
// computed once at creation (StartTime + duration) and never recalculated.
// The only transitions out of active are completed (successful submission)
// and expired (deadline observed by a status read or a submit); both are
// terminal.
type QuizSession struct {
	ID               string
	QuizID           string
	UserID           string
	TenantID         string
	StartTime        time.Time
	EndTime          time.Time
	TimeLimitMinutes int
	Status           SessionStatus
	CompletedAt      *time.Time
	ActualTimeTaken  *int // seconds, client-reported, clamped to the limit
	CreatedAt        time.Time
}

// NewQuizSession creates an active session whose deadline is fixed at
// start + duration minutes.
func NewQuizSession(id string, quiz *Quiz, userID string, start time.Time) *QuizSession {
	return &QuizSession{
		ID:               id,
		QuizID:           quiz.ID,
		UserID:           userID,
		TenantID:         quiz.TenantID,
		StartTime:        start,
		EndTime:          start.Add(time.Duration(quiz.Duration) * time.Minute),
		TimeLimitMinutes: quiz.Duration,
		Status:           SessionActive,
		CreatedAt:        start,
	}
}

// RemainingSeconds returns the whole seconds left before the deadline at the
// given instant, clamped at zero.
func (s *QuizSession) RemainingSeconds(now time.Time) int {
	remaining := int(s.EndTime.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsPastDeadline reports whether the wall clock has passed the session's
// fixed end time, regardless of the stored status. Expiry is lazy: the stored
// status only catches up when something reads or submits the session.
func (s *QuizSession) IsPastDeadline(now time.Time) bool {
	return now.After(s.EndTime)
}

// Expire transitions an active session to expired. Terminal states are never
// left.
func (s *QuizSession) Expire() {
	if s.Status == SessionActive {
		s.Status = SessionExpired
	}
}

// Complete transitions an active session to completed, recording when and how
// long the client reported taking. The reported seconds are clamped to the
// session's time limit.
func (s *QuizSession) Complete(now time.Time, reportedSeconds int) {
	limit := s.TimeLimitMinutes * 60
	if reportedSeconds > limit {
		reportedSeconds = limit
	}
	if reportedSeconds < 0 {
		reportedSeconds = 0
	}
	s.Status = SessionCompleted
	s.CompletedAt = &now
	s.ActualTimeTaken = &reportedSeconds
}
