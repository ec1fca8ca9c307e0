package repository

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:           "01HQUIZ000000000000000001",
		TenantID:     "acme",
		TopicID:      "01HTOPIC00000000000000001",
		Title:        "Quiz about Go",
		Description:  "AI-generated quiz about Go",
		Difficulty:   domain.DifficultyMedium,
		NumQuestions: 2,
		Duration:     10,
		QuestionSeed: "abc123",
		Source:       domain.QuestionSourceGenerated,
		IsActive:     true,
		CreatedAt:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestQuizRepository_CreateWithQuestions(t *testing.T) {
	t.Run("inserts owned questions and membership rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizRepositoryAdapter(db)

		quiz := testQuiz()
		quiz.Questions = []domain.Question{
			{ID: "q-1", QuizID: quiz.ID, Text: "t1", Options: [4]string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
			{ID: "q-2", QuizID: quiz.ID, Text: "t2", Options: [4]string{"a", "b", "c", "d"}, CorrectAnswer: "b"},
		}

		mock.ExpectExec(`INSERT INTO quizzes`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO questions`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO quiz_questions`).WithArgs(quiz.ID, "q-1", 0).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO questions`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO quiz_questions`).WithArgs(quiz.ID, "q-2", 1).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.CreateWithQuestions(context.Background(), quiz)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reused questions get membership rows but no question insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizRepositoryAdapter(db)

		quiz := testQuiz()
		quiz.NumQuestions = 1
		quiz.Source = domain.QuestionSourceReused
		quiz.Questions = []domain.Question{
			// Owned by the quiz that first generated it.
			{ID: "q-old", QuizID: "01HQUIZ00000000000000OLD1", Text: "t", Options: [4]string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		}

		mock.ExpectExec(`INSERT INTO quizzes`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO quiz_questions`).WithArgs(quiz.ID, "q-old", 0).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.CreateWithQuestions(context.Background(), quiz)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuizRepository_GetByID(t *testing.T) {
	quizColumns := []string{
		"id", "tenant_id", "topic_id", "title", "description", "difficulty", "num_questions",
		"duration", "question_seed", "source", "is_active", "created_at", "total_attempts", "average_score",
	}
	questionColumns := []string{
		"id", "quiz_id", "question_text", "option_a", "option_b", "option_c", "option_d",
		"correct_answer", "explanation", "difficulty", "category", "times_asked", "times_correct",
	}

	t.Run("returns the quiz with questions in membership order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizRepositoryAdapter(db)
		q := testQuiz()

		mock.ExpectQuery(`(?s)SELECT .+ FROM quizzes WHERE id = \$1 AND tenant_id = \$2`).
			WithArgs(q.ID, q.TenantID).
			WillReturnRows(sqlmock.NewRows(quizColumns).AddRow(
				q.ID, q.TenantID, q.TopicID, q.Title, q.Description, q.Difficulty, q.NumQuestions,
				q.Duration, q.QuestionSeed, q.Source, q.IsActive, q.CreatedAt, 0, 0.0,
			))
		mock.ExpectQuery(`(?s)SELECT .+ FROM questions q\s+JOIN quiz_questions qq ON qq\.question_id = q\.id\s+WHERE qq\.quiz_id = \$1 ORDER BY qq\.position`).
			WithArgs(q.ID).
			WillReturnRows(sqlmock.NewRows(questionColumns).
				AddRow("q-1", q.ID, "t1", "a", "b", "c", "d", "a", "", "medium", "", 0, 0).
				AddRow("q-2", "01HQUIZ00000000000000OLD1", "t2", "a", "b", "c", "d", "b", "", "medium", "", 0, 0))

		got, err := repo.GetByID(context.Background(), q.TenantID, q.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Questions, 2)
		assert.Equal(t, "q-1", got.Questions[0].ID)
		// Reused question resolved through membership despite foreign ownership.
		assert.Equal(t, "q-2", got.Questions[1].ID)
	})

	t.Run("returns nil for an unknown or cross-tenant ID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizRepositoryAdapter(db)

		mock.ExpectQuery(`(?s)SELECT .+ FROM quizzes`).
			WillReturnRows(sqlmock.NewRows(quizColumns))

		got, err := repo.GetByID(context.Background(), "other-tenant", "01HQUIZ000000000000000001")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestQuizRepository_AvailableQuestions(t *testing.T) {
	questionColumns := []string{
		"id", "quiz_id", "question_text", "option_a", "option_b", "option_c", "option_d",
		"correct_answer", "explanation", "difficulty", "category", "times_asked", "times_correct",
	}

	t.Run("expands the exclusion set into the query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizRepositoryAdapter(db)

		mock.ExpectQuery(`(?s)SELECT .+ FROM questions q\s+JOIN quizzes z ON z\.id = q\.quiz_id.+NOT IN \(\$3, \$4\).+LIMIT \$5`).
			WithArgs("acme", "topic-1", "q-seen-1", "q-seen-2", 3).
			WillReturnRows(sqlmock.NewRows(questionColumns).
				AddRow("q-3", "quiz-x", "t", "a", "b", "c", "d", "a", "", "medium", "", 0, 0))

		questions, err := repo.AvailableQuestions(context.Background(), "acme", "topic-1", []string{"q-seen-1", "q-seen-2"}, 3)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, "q-3", questions[0].ID)
	})

	t.Run("omits the NOT IN clause for a fresh user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizRepositoryAdapter(db)

		mock.ExpectQuery(`(?s)SELECT .+ FROM questions q.+WHERE z\.tenant_id = \$1 AND z\.topic_id = \$2 AND z\.is_active = TRUE ORDER BY q\.id LIMIT \$3`).
			WithArgs("acme", "topic-1", 5).
			WillReturnRows(sqlmock.NewRows(questionColumns))

		questions, err := repo.AvailableQuestions(context.Background(), "acme", "topic-1", nil, 5)
		assert.NoError(t, err)
		assert.Empty(t, questions)
	})
}
