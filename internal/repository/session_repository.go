package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// SessionRepositoryAdapter implements domain.SessionRepository over Postgres.
type SessionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewSessionRepositoryAdapter(db *sqlx.DB) domain.SessionRepository {
	return &SessionRepositoryAdapter{db: db}
}

// CreateSession inserts a new active session. A concurrent insert for the
// same (quiz_id, user_id) hits the partial unique index and is dropped by
// ON CONFLICT DO NOTHING, which surfaces as domain.ErrActiveSessionExists.
// DO NOTHING keeps the enclosing transaction usable, so the caller can
// re-select the winning row on the same connection.
func (r *SessionRepositoryAdapter) CreateSession(ctx context.Context, session *domain.QuizSession) error {
	executor := GetExecutor(ctx, r.db)
	m := sessionToModel(session)
	query := `INSERT INTO quiz_sessions (id, quiz_id, user_id, tenant_id, start_time, end_time,
			time_limit_minutes, status, completed_at, actual_time_taken, created_at)
		VALUES (:id, :quiz_id, :user_id, :tenant_id, :start_time, :end_time,
			:time_limit_minutes, :status, :completed_at, :actual_time_taken, :created_at)
		ON CONFLICT (quiz_id, user_id) WHERE status = 'active' DO NOTHING`
	result, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check session insert: %w", err)
	}
	if affected == 0 {
		return domain.ErrActiveSessionExists
	}
	return nil
}

func (r *SessionRepositoryAdapter) GetActiveSession(ctx context.Context, quizID, userID string) (*domain.QuizSession, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.QuizSession
	query := `SELECT id, quiz_id, user_id, tenant_id, start_time, end_time, time_limit_minutes,
			status, completed_at, actual_time_taken, created_at
		FROM quiz_sessions WHERE quiz_id = $1 AND user_id = $2 AND status = 'active'`
	err := executor.GetContext(ctx, &m, query, quizID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return sessionToDomain(&m), nil
}

func (r *SessionRepositoryAdapter) GetSession(ctx context.Context, sessionID, userID, tenantID string) (*domain.QuizSession, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.QuizSession
	query := `SELECT id, quiz_id, user_id, tenant_id, start_time, end_time, time_limit_minutes,
			status, completed_at, actual_time_taken, created_at
		FROM quiz_sessions WHERE id = $1 AND user_id = $2 AND tenant_id = $3`
	err := executor.GetContext(ctx, &m, query, sessionID, userID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sessionToDomain(&m), nil
}

func (r *SessionRepositoryAdapter) UpdateSession(ctx context.Context, session *domain.QuizSession) error {
	executor := GetExecutor(ctx, r.db)
	m := sessionToModel(session)
	query := `UPDATE quiz_sessions SET status = :status, completed_at = :completed_at, actual_time_taken = :actual_time_taken
		WHERE id = :id`
	result, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check session update: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("quiz session")
	}
	return nil
}

func sessionToDomain(m *models.QuizSession) *domain.QuizSession {
	s := &domain.QuizSession{
		ID:               m.ID,
		QuizID:           m.QuizID,
		UserID:           m.UserID,
		TenantID:         m.TenantID,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		TimeLimitMinutes: m.TimeLimitMinutes,
		Status:           domain.SessionStatus(m.Status),
		CreatedAt:        m.CreatedAt,
	}
	if m.CompletedAt.Valid {
		t := m.CompletedAt.Time
		s.CompletedAt = &t
	}
	if m.ActualTimeTaken.Valid {
		v := int(m.ActualTimeTaken.Int64)
		s.ActualTimeTaken = &v
	}
	return s
}

func sessionToModel(s *domain.QuizSession) *models.QuizSession {
	m := &models.QuizSession{
		ID:               s.ID,
		QuizID:           s.QuizID,
		UserID:           s.UserID,
		TenantID:         s.TenantID,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		TimeLimitMinutes: s.TimeLimitMinutes,
		Status:           string(s.Status),
		CreatedAt:        s.CreatedAt,
	}
	if s.CompletedAt != nil {
		m.CompletedAt = util.TimeToNullTime(*s.CompletedAt)
	}
	m.ActualTimeTaken = util.IntToNullInt64(s.ActualTimeTaken)
	return m
}
