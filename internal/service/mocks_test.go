package service

import (
	"context"
	"os"
	"testing"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test", Level: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// passthroughTxManager runs the function directly; tests assert repository
// interactions, not transaction plumbing.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) CreateSession(ctx context.Context, session *domain.QuizSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetActiveSession(ctx context.Context, quizID, userID string) (*domain.QuizSession, error) {
	args := m.Called(ctx, quizID, userID)
	if s := args.Get(0); s != nil {
		return s.(*domain.QuizSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, sessionID, userID, tenantID string) (*domain.QuizSession, error) {
	args := m.Called(ctx, sessionID, userID, tenantID)
	if s := args.Get(0); s != nil {
		return s.(*domain.QuizSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepository) UpdateSession(ctx context.Context, session *domain.QuizSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type MockQuizRepository struct{ mock.Mock }

func (m *MockQuizRepository) CreateWithQuestions(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, tenantID, id)
	if q := args.Get(0); q != nil {
		return q.(*domain.Quiz), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepository) AvailableQuestions(ctx context.Context, tenantID, topicID string, excluded []string, limit int) ([]domain.Question, error) {
	args := m.Called(ctx, tenantID, topicID, excluded, limit)
	if q := args.Get(0); q != nil {
		return q.([]domain.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepository) ApplyResult(ctx context.Context, quizID string, totalAttempts int, averageScore float64) error {
	args := m.Called(ctx, quizID, totalAttempts, averageScore)
	return args.Error(0)
}

type MockTopicRepository struct{ mock.Mock }

func (m *MockTopicRepository) GetByName(ctx context.Context, tenantID, name string) (*domain.Topic, error) {
	args := m.Called(ctx, tenantID, name)
	if t := args.Get(0); t != nil {
		return t.(*domain.Topic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicRepository) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*domain.Topic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) ListActive(ctx context.Context, tenantID string) ([]*domain.Topic, error) {
	args := m.Called(ctx, tenantID)
	if t := args.Get(0); t != nil {
		return t.([]*domain.Topic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicRepository) IncrementQuizzesCreated(ctx context.Context, topicID string) error {
	args := m.Called(ctx, topicID)
	return args.Error(0)
}

type MockResultRepository struct{ mock.Mock }

func (m *MockResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) ListByUser(ctx context.Context, userID, tenantID string, limit int) ([]*domain.QuizResult, error) {
	args := m.Called(ctx, userID, tenantID, limit)
	if r := args.Get(0); r != nil {
		return r.([]*domain.QuizResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResultRepository) ListSummariesByUser(ctx context.Context, userID, tenantID string, limit int) ([]domain.ResultSummary, error) {
	args := m.Called(ctx, userID, tenantID, limit)
	if r := args.Get(0); r != nil {
		return r.([]domain.ResultSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) AnsweredQuestionIDs(ctx context.Context, userID, tenantID string) ([]string, error) {
	args := m.Called(ctx, userID, tenantID)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockHistoryRepository) AppendEntries(ctx context.Context, entries []domain.QuestionHistory) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByUser(ctx context.Context, userID, tenantID string) ([]domain.QuestionHistory, error) {
	args := m.Called(ctx, userID, tenantID)
	if e := args.Get(0); e != nil {
		return e.([]domain.QuestionHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	args := m.Called(ctx, tenantID, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateAggregates(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// noopCache is for tests that do not care about caching.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (string, error) {
	return "", domain.ErrCacheMiss
}
func (noopCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, key string) error { return nil }
func (noopCache) Ping(ctx context.Context) error               { return nil }

type MockQuestionSupplier struct{ mock.Mock }

func (m *MockQuestionSupplier) GenerateQuestions(ctx context.Context, topic, difficulty string, count int, seed string) ([]domain.GeneratedQuestion, error) {
	args := m.Called(ctx, topic, difficulty, count, seed)
	if q := args.Get(0); q != nil {
		return q.([]domain.GeneratedQuestion), args.Error(1)
	}
	return nil, args.Error(1)
}
