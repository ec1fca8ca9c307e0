package repository

import (
	"context"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// HistoryRepositoryAdapter implements domain.HistoryRepository over Postgres.
// The ledger is append-only; there are no update or delete paths.
type HistoryRepositoryAdapter struct {
	db *sqlx.DB
}

func NewHistoryRepositoryAdapter(db *sqlx.DB) domain.HistoryRepository {
	return &HistoryRepositoryAdapter{db: db}
}

// AnsweredQuestionIDs returns every question the user has answered in this
// tenant across all topics. The DISTINCT matters: a question can appear in the
// ledger more than once if two quizzes reused it before the first was taken.
func (r *HistoryRepositoryAdapter) AnsweredQuestionIDs(ctx context.Context, userID, tenantID string) ([]string, error) {
	executor := GetExecutor(ctx, r.db)
	var ids []string
	query := `SELECT DISTINCT question_id FROM user_question_history WHERE user_id = $1 AND tenant_id = $2`
	if err := executor.SelectContext(ctx, &ids, query, userID, tenantID); err != nil {
		return nil, fmt.Errorf("failed to load answered question IDs: %w", err)
	}
	return ids, nil
}

func (r *HistoryRepositoryAdapter) AppendEntries(ctx context.Context, entries []domain.QuestionHistory) error {
	executor := GetExecutor(ctx, r.db)
	query := `INSERT INTO user_question_history (id, user_id, question_id, tenant_id, quiz_id, quiz_session_id,
			question_text, topic_name, difficulty, user_answer, correct_answer, is_correct, time_taken_seconds, answered_at)
		VALUES (:id, :user_id, :question_id, :tenant_id, :quiz_id, :quiz_session_id,
			:question_text, :topic_name, :difficulty, :user_answer, :correct_answer, :is_correct, :time_taken_seconds, :answered_at)`
	for i := range entries {
		m := historyToModel(&entries[i])
		if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
			return fmt.Errorf("failed to append history entry: %w", err)
		}
	}
	return nil
}

func (r *HistoryRepositoryAdapter) ListByUser(ctx context.Context, userID, tenantID string) ([]domain.QuestionHistory, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.QuestionHistory
	query := `SELECT id, user_id, question_id, tenant_id, quiz_id, quiz_session_id, question_text, topic_name,
			difficulty, user_answer, correct_answer, is_correct, time_taken_seconds, answered_at
		FROM user_question_history WHERE user_id = $1 AND tenant_id = $2 ORDER BY answered_at DESC`
	if err := executor.SelectContext(ctx, &rows, query, userID, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list question history: %w", err)
	}
	entries := make([]domain.QuestionHistory, len(rows))
	for i := range rows {
		entries[i] = *historyToDomain(&rows[i])
	}
	return entries, nil
}

func historyToDomain(m *models.QuestionHistory) *domain.QuestionHistory {
	return &domain.QuestionHistory{
		ID:            m.ID,
		UserID:        m.UserID,
		QuestionID:    m.QuestionID,
		TenantID:      m.TenantID,
		QuizID:        m.QuizID,
		SessionID:     m.SessionID.String,
		QuestionText:  m.QuestionText,
		TopicName:     m.TopicName,
		Difficulty:    m.Difficulty,
		UserAnswer:    m.UserAnswer,
		CorrectAnswer: m.CorrectAnswer,
		IsCorrect:     m.IsCorrect,
		TimeTaken:     m.TimeTaken,
		AnsweredAt:    m.AnsweredAt,
	}
}

func historyToModel(h *domain.QuestionHistory) *models.QuestionHistory {
	return &models.QuestionHistory{
		ID:            h.ID,
		UserID:        h.UserID,
		QuestionID:    h.QuestionID,
		TenantID:      h.TenantID,
		QuizID:        h.QuizID,
		SessionID:     util.StringToNullString(h.SessionID),
		QuestionText:  h.QuestionText,
		TopicName:     h.TopicName,
		Difficulty:    h.Difficulty,
		UserAnswer:    h.UserAnswer,
		CorrectAnswer: h.CorrectAnswer,
		IsCorrect:     h.IsCorrect,
		TimeTaken:     h.TimeTaken,
		AnsweredAt:    h.AnsweredAt,
	}
}
