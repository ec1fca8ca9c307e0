package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// TopicRepositoryAdapter implements domain.TopicRepository over Postgres.
type TopicRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTopicRepositoryAdapter(db *sqlx.DB) domain.TopicRepository {
	return &TopicRepositoryAdapter{db: db}
}

func (r *TopicRepositoryAdapter) GetByName(ctx context.Context, tenantID, name string) (*domain.Topic, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Topic
	query := `SELECT id, tenant_id, name, description, category, difficulty, is_active, created_at, total_quizzes_created
		FROM topics WHERE tenant_id = $1 AND name = $2`
	err := executor.GetContext(ctx, &m, query, tenantID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by name: %w", err)
	}
	return topicToDomain(&m), nil
}

func (r *TopicRepositoryAdapter) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Topic
	query := `SELECT id, tenant_id, name, description, category, difficulty, is_active, created_at, total_quizzes_created
		FROM topics WHERE id = $1`
	err := executor.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return topicToDomain(&m), nil
}

// Create inserts a new topic. A concurrent insert for the same
// (tenant_id, name) is dropped by ON CONFLICT DO NOTHING and surfaces as
// domain.ErrTopicExists; DO NOTHING keeps the enclosing transaction usable,
// so the caller can re-select the surviving row on the same connection.
func (r *TopicRepositoryAdapter) Create(ctx context.Context, topic *domain.Topic) error {
	executor := GetExecutor(ctx, r.db)
	m := topicToModel(topic)
	query := `INSERT INTO topics (id, tenant_id, name, description, category, difficulty, is_active, created_at, total_quizzes_created)
		VALUES (:id, :tenant_id, :name, :description, :category, :difficulty, :is_active, :created_at, :total_quizzes_created)
		ON CONFLICT ON CONSTRAINT topics_name_tenant_unique DO NOTHING`
	result, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check topic insert: %w", err)
	}
	if affected == 0 {
		return domain.ErrTopicExists
	}
	return nil
}

func (r *TopicRepositoryAdapter) ListActive(ctx context.Context, tenantID string) ([]*domain.Topic, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.Topic
	query := `SELECT id, tenant_id, name, description, category, difficulty, is_active, created_at, total_quizzes_created
		FROM topics WHERE tenant_id = $1 AND is_active = TRUE ORDER BY name`
	if err := executor.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	topics := make([]*domain.Topic, len(rows))
	for i := range rows {
		topics[i] = topicToDomain(&rows[i])
	}
	return topics, nil
}

func (r *TopicRepositoryAdapter) IncrementQuizzesCreated(ctx context.Context, topicID string) error {
	executor := GetExecutor(ctx, r.db)
	query := `UPDATE topics SET total_quizzes_created = total_quizzes_created + 1 WHERE id = $1`
	if _, err := executor.ExecContext(ctx, query, topicID); err != nil {
		return fmt.Errorf("failed to increment topic counter: %w", err)
	}
	return nil
}

func topicToDomain(m *models.Topic) *domain.Topic {
	return &domain.Topic{
		ID:                  m.ID,
		TenantID:            m.TenantID,
		Name:                m.Name,
		Description:         m.Description,
		Category:            m.Category,
		Difficulty:          m.Difficulty,
		IsActive:            m.IsActive,
		CreatedAt:           m.CreatedAt,
		TotalQuizzesCreated: m.TotalQuizzesCreated,
	}
}

func topicToModel(t *domain.Topic) *models.Topic {
	return &models.Topic{
		ID:                  t.ID,
		TenantID:            t.TenantID,
		Name:                t.Name,
		Description:         t.Description,
		Category:            t.Category,
		Difficulty:          t.Difficulty,
		IsActive:            t.IsActive,
		CreatedAt:           t.CreatedAt,
		TotalQuizzesCreated: t.TotalQuizzesCreated,
	}
}
