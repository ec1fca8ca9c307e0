package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testQuiz(duration int) *Quiz {
	return &Quiz{
		ID:           "quiz1",
		TenantID:     "tenant1",
		TopicID:      "topic1",
		Difficulty:   DifficultyMedium,
		NumQuestions: 1,
		Duration:     duration,
		Questions: []Question{
			{
				ID:            "q1",
				QuizID:        "quiz1",
				Text:          "What is the capital of France?",
				Options:       [4]string{"Paris", "London", "Berlin", "Madrid"},
				CorrectAnswer: "Paris",
			},
		},
	}
}

func TestNewQuizSession(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := NewQuizSession("s1", testQuiz(10), "user1", start)

	assert.Equal(t, SessionActive, session.Status)
	assert.Equal(t, start, session.StartTime)
	assert.Equal(t, start.Add(10*time.Minute), session.EndTime)
	assert.Equal(t, "tenant1", session.TenantID)
	assert.Equal(t, 10, session.TimeLimitMinutes)
}

func TestRemainingSecondsClampsAtZero(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := NewQuizSession("s1", testQuiz(10), "user1", start)

	assert.Equal(t, 600, session.RemainingSeconds(start))
	assert.Equal(t, 300, session.RemainingSeconds(start.Add(5*time.Minute)))
	assert.Equal(t, 0, session.RemainingSeconds(start.Add(11*time.Minute)))
}

func TestIsPastDeadline(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := NewQuizSession("s1", testQuiz(1), "user1", start)

	assert.False(t, session.IsPastDeadline(start))
	assert.False(t, session.IsPastDeadline(start.Add(time.Minute)))
	assert.True(t, session.IsPastDeadline(start.Add(time.Minute+time.Second)))
}

func TestExpireOnlyLeavesActive(t *testing.T) {
	start := time.Now()
	session := NewQuizSession("s1", testQuiz(1), "user1", start)

	session.Expire()
	assert.Equal(t, SessionExpired, session.Status)

	// Terminal states never transition.
	session.Status = SessionCompleted
	session.Expire()
	assert.Equal(t, SessionCompleted, session.Status)
}

func TestCompleteClampsReportedTime(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := NewQuizSession("s1", testQuiz(2), "user1", start)

	now := start.Add(90 * time.Second)
	session.Complete(now, 500)

	assert.Equal(t, SessionCompleted, session.Status)
	assert.NotNil(t, session.CompletedAt)
	assert.Equal(t, now, *session.CompletedAt)
	// 500s reported against a 120s limit is clamped.
	assert.Equal(t, 120, *session.ActualTimeTaken)

	session2 := NewQuizSession("s2", testQuiz(2), "user1", start)
	session2.Complete(now, -5)
	assert.Equal(t, 0, *session2.ActualTimeTaken)
}
