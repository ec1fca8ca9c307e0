package domain

import (
	"context"
	"errors"
)

// ErrActiveSessionExists is returned by SessionRepository.CreateSession when
// the insert is dropped against the partial unique index on
// (quiz_id, user_id, status='active'). Callers re-select the surviving
// session, making concurrent starts converge on one timer.
var ErrActiveSessionExists = errors.New("an active session already exists for this quiz and user")

// ErrTopicExists is returned by TopicRepository.Create when another caller
// already created a topic with the same (tenant, name). Callers re-select
// the surviving row.
var ErrTopicExists = errors.New("a topic with this name already exists for this tenant")

// TransactionManager runs fn within a single storage transaction. The
// transaction travels through the context; repositories pick it up
// transparently. One transaction per public operation.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TopicRepository persists tenant-scoped topics.
type TopicRepository interface {
	GetByName(ctx context.Context, tenantID, name string) (*Topic, error)
	GetByID(ctx context.Context, id string) (*Topic, error)
	// Create inserts a new topic. Returns ErrTopicExists when a topic with
	// the same (tenant, name) already exists.
	Create(ctx context.Context, topic *Topic) error
	ListActive(ctx context.Context, tenantID string) ([]*Topic, error)
	IncrementQuizzesCreated(ctx context.Context, topicID string) error
}

// QuizRepository persists quiz definitions and their questions.
type QuizRepository interface {
	// CreateWithQuestions persists the quiz and its attached questions.
	CreateWithQuestions(ctx context.Context, quiz *Quiz) error
	// GetByID returns the quiz with its questions in presentation order, or
	// nil when no quiz with that ID exists for the tenant.
	GetByID(ctx context.Context, tenantID, id string) (*Quiz, error)
	// AvailableQuestions returns questions belonging to active quizzes of the
	// topic, excluding the given question IDs, in storage order, up to limit.
	AvailableQuestions(ctx context.Context, tenantID, topicID string, excluded []string, limit int) ([]Question, error)
	// ApplyResult updates the quiz's denormalized attempt counters.
	ApplyResult(ctx context.Context, quizID string, totalAttempts int, averageScore float64) error
}

// SessionRepository persists quiz sessions.
type SessionRepository interface {
	// CreateSession inserts a new active session. Returns
	// ErrActiveSessionExists when an active session for (quiz, user) already
	// exists.
	CreateSession(ctx context.Context, session *QuizSession) error
	// GetActiveSession returns the active session for (quiz, user), or nil.
	GetActiveSession(ctx context.Context, quizID, userID string) (*QuizSession, error)
	// GetSession returns the session with the given ID scoped to user and
	// tenant, or nil.
	GetSession(ctx context.Context, sessionID, userID, tenantID string) (*QuizSession, error)
	// UpdateSession persists status, completion time and reported duration.
	UpdateSession(ctx context.Context, session *QuizSession) error
}

// ResultRepository persists quiz results.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *QuizResult) error
	ListByUser(ctx context.Context, userID, tenantID string, limit int) ([]*QuizResult, error)
	// ListSummariesByUser returns the user's most recent results joined with
	// quiz title and topic name, newest first.
	ListSummariesByUser(ctx context.Context, userID, tenantID string, limit int) ([]ResultSummary, error)
}

// HistoryRepository persists the append-only question history ledger.
type HistoryRepository interface {
	// AnsweredQuestionIDs returns every question ID the user has ever
	// answered in this tenant, regardless of topic.
	AnsweredQuestionIDs(ctx context.Context, userID, tenantID string) ([]string, error)
	AppendEntries(ctx context.Context, entries []QuestionHistory) error
	ListByUser(ctx context.Context, userID, tenantID string) ([]QuestionHistory, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, tenantID, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateAggregates persists the user's denormalized lifetime counters.
	UpdateAggregates(ctx context.Context, user *User) error
}
