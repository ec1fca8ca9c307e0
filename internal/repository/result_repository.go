package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// ResultRepositoryAdapter implements domain.ResultRepository over Postgres.
// Answer maps and the per-question analysis are stored as JSON text.
type ResultRepositoryAdapter struct {
	db *sqlx.DB
}

func NewResultRepositoryAdapter(db *sqlx.DB) domain.ResultRepository {
	return &ResultRepositoryAdapter{db: db}
}

func (r *ResultRepositoryAdapter) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	executor := GetExecutor(ctx, r.db)
	m, err := resultToModel(result)
	if err != nil {
		return err
	}
	query := `INSERT INTO quiz_results (id, tenant_id, quiz_id, user_id, session_id, score, total_questions,
			percentage, grade, time_taken, user_answers, correct_answers, questions_analysis, completed_at)
		VALUES (:id, :tenant_id, :quiz_id, :user_id, :session_id, :score, :total_questions,
			:percentage, :grade, :time_taken, :user_answers, :correct_answers, :questions_analysis, :completed_at)`
	if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *ResultRepositoryAdapter) ListByUser(ctx context.Context, userID, tenantID string, limit int) ([]*domain.QuizResult, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.QuizResult
	query := `SELECT id, tenant_id, quiz_id, user_id, session_id, score, total_questions,
			percentage, grade, time_taken, user_answers, correct_answers, questions_analysis, completed_at
		FROM quiz_results WHERE user_id = $1 AND tenant_id = $2 ORDER BY completed_at DESC LIMIT $3`
	if err := executor.SelectContext(ctx, &rows, query, userID, tenantID, limit); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	results := make([]*domain.QuizResult, len(rows))
	for i := range rows {
		result, err := resultToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		results[i] = result
	}
	return results, nil
}

func (r *ResultRepositoryAdapter) ListSummariesByUser(ctx context.Context, userID, tenantID string, limit int) ([]domain.ResultSummary, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.ResultSummary
	query := `SELECT r.id AS result_id, r.quiz_id, q.title AS quiz_title, t.name AS topic_name,
			r.score, r.total_questions, r.percentage, r.grade, r.time_taken, r.completed_at
		FROM quiz_results r
		JOIN quizzes q ON q.id = r.quiz_id
		JOIN topics t ON t.id = q.topic_id
		WHERE r.user_id = $1 AND r.tenant_id = $2
		ORDER BY r.completed_at DESC LIMIT $3`
	if err := executor.SelectContext(ctx, &rows, query, userID, tenantID, limit); err != nil {
		return nil, fmt.Errorf("failed to list result summaries: %w", err)
	}
	summaries := make([]domain.ResultSummary, len(rows))
	for i, row := range rows {
		summaries[i] = domain.ResultSummary{
			ResultID:       row.ResultID,
			QuizID:         row.QuizID,
			QuizTitle:      row.QuizTitle,
			TopicName:      row.TopicName,
			Score:          row.Score,
			TotalQuestions: row.TotalQuestions,
			Percentage:     row.Percentage,
			Grade:          row.Grade,
			TimeTaken:      row.TimeTaken,
			CompletedAt:    row.CompletedAt,
		}
	}
	return summaries, nil
}

func resultToModel(result *domain.QuizResult) (*models.QuizResult, error) {
	userAnswers, err := json.Marshal(result.UserAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user answers: %w", err)
	}
	correctAnswers, err := json.Marshal(result.CorrectAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal correct answers: %w", err)
	}
	analysis, err := json.Marshal(result.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question analysis: %w", err)
	}
	return &models.QuizResult{
		ID:                result.ID,
		TenantID:          result.TenantID,
		QuizID:            result.QuizID,
		UserID:            result.UserID,
		SessionID:         result.SessionID,
		Score:             result.Score,
		TotalQuestions:    result.TotalQuestions,
		Percentage:        result.Percentage,
		Grade:             result.Grade,
		TimeTaken:         result.TimeTaken,
		UserAnswers:       string(userAnswers),
		CorrectAnswers:    string(correctAnswers),
		QuestionsAnalysis: string(analysis),
		CompletedAt:       result.CompletedAt,
	}, nil
}

func resultToDomain(m *models.QuizResult) (*domain.QuizResult, error) {
	result := &domain.QuizResult{
		ID:             m.ID,
		TenantID:       m.TenantID,
		QuizID:         m.QuizID,
		UserID:         m.UserID,
		SessionID:      m.SessionID,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		Percentage:     m.Percentage,
		Grade:          m.Grade,
		TimeTaken:      m.TimeTaken,
		CompletedAt:    m.CompletedAt,
	}
	if err := json.Unmarshal([]byte(m.UserAnswers), &result.UserAnswers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user answers: %w", err)
	}
	if err := json.Unmarshal([]byte(m.CorrectAnswers), &result.CorrectAnswers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal correct answers: %w", err)
	}
	if err := json.Unmarshal([]byte(m.QuestionsAnalysis), &result.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question analysis: %w", err)
	}
	return result, nil
}
