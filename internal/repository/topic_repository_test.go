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

func testTopic() *domain.Topic {
	return &domain.Topic{
		ID:         "01HTOPIC00000000000000001",
		TenantID:   "acme",
		Name:       "Networking",
		Category:   "Dynamic",
		Difficulty: "medium",
		IsActive:   true,
		CreatedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestTopicRepository_Create(t *testing.T) {
	t.Run("inserts a new topic", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTopicRepositoryAdapter(db)

		mock.ExpectExec(`(?s)INSERT INTO topics.+ON CONFLICT ON CONSTRAINT topics_name_tenant_unique DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), testTopic())
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a dropped conflicting insert leaves the connection usable", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTopicRepositoryAdapter(db)
		topic := testTopic()

		// ON CONFLICT DO NOTHING: the losing insert affects zero rows but
		// raises no statement error, so the winner can be re-selected on
		// the same connection afterwards.
		mock.ExpectExec(`(?s)INSERT INTO topics.+ON CONFLICT ON CONSTRAINT topics_name_tenant_unique DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`(?s)SELECT .+ FROM topics WHERE tenant_id = \$1 AND name = \$2`).
			WithArgs(topic.TenantID, topic.Name).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "tenant_id", "name", "description", "category", "difficulty",
				"is_active", "created_at", "total_quizzes_created",
			}).AddRow(
				"01HTOPICWINNER00000000001", topic.TenantID, topic.Name, "", topic.Category,
				topic.Difficulty, true, topic.CreatedAt, 0,
			))

		err := repo.Create(context.Background(), topic)
		assert.ErrorIs(t, err, domain.ErrTopicExists)

		winner, err := repo.GetByName(context.Background(), topic.TenantID, topic.Name)
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.Equal(t, "01HTOPICWINNER00000000001", winner.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTopicRepository_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTopicRepositoryAdapter(db)
	topic := testTopic()

	mock.ExpectQuery(`(?s)SELECT .+ FROM topics WHERE tenant_id = \$1 AND is_active = TRUE ORDER BY name`).
		WithArgs(topic.TenantID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "name", "description", "category", "difficulty",
			"is_active", "created_at", "total_quizzes_created",
		}).AddRow(
			topic.ID, topic.TenantID, topic.Name, "", topic.Category,
			topic.Difficulty, true, topic.CreatedAt, 2,
		))

	topics, err := repo.ListActive(context.Background(), topic.TenantID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Networking", topics[0].Name)
	assert.Equal(t, 2, topics[0].TotalQuizzesCreated)
}
