package service

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserAnalytics(t *testing.T) {
	users := new(MockUserRepository)
	history := new(MockHistoryRepository)
	svc := NewAnalyticsService(users, new(MockResultRepository), history)

	lastQuiz := baseTime
	users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{
		ID:                     "user-1",
		TenantID:               "acme",
		TotalQuizzesTaken:      2,
		TotalQuestionsAnswered: 8,
		TotalCorrectAnswers:    6,
		AverageScore:           75,
		BestScore:              100,
		LastQuizDate:           &lastQuiz,
	}, nil)
	history.On("ListByUser", mock.Anything, "user-1", "acme").Return([]domain.QuestionHistory{
		{Difficulty: "easy", IsCorrect: true},
		{Difficulty: "easy", IsCorrect: true},
		{Difficulty: "hard", IsCorrect: true},
		{Difficulty: "hard", IsCorrect: false},
	}, nil)

	resp, err := svc.UserAnalytics(context.Background(), testClaims)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalQuizzesTaken)
	assert.Equal(t, 75.0, resp.AccuracyPercentage)
	assert.Equal(t, 100.0, resp.BestScore)
	assert.Equal(t, 100.0, resp.ByDifficulty["easy"].Accuracy)
	assert.Equal(t, 50.0, resp.ByDifficulty["hard"].Accuracy)
}

func TestQuizHistory(t *testing.T) {
	results := new(MockResultRepository)
	svc := NewAnalyticsService(new(MockUserRepository), results, new(MockHistoryRepository))

	results.On("ListSummariesByUser", mock.Anything, "user-1", "acme", 20).Return([]domain.ResultSummary{
		{ResultID: "r-1", QuizID: "quiz-1", QuizTitle: "Quiz about Go", TopicName: "Go", Score: 3, TotalQuestions: 3, Percentage: 100, Grade: "A", TimeTaken: 120, CompletedAt: baseTime.Add(time.Hour)},
		{ResultID: "r-2", QuizID: "quiz-2", QuizTitle: "Quiz about SQL", TopicName: "SQL", Score: 1, TotalQuestions: 4, Percentage: 25, Grade: "F", TimeTaken: 300, CompletedAt: baseTime},
	}, nil)

	entries, err := svc.QuizHistory(context.Background(), testClaims, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Grade)
	assert.Equal(t, "Go", entries[0].Topic)
	assert.Equal(t, "quiz-2", entries[1].QuizID)
}
