package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
)

const pgUniqueViolation = "23505"

// UserRepositoryAdapter implements domain.UserRepository over Postgres.
type UserRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserRepositoryAdapter(db *sqlx.DB) domain.UserRepository {
	return &UserRepositoryAdapter{db: db}
}

// CreateUser inserts a new account. The (tenant_id, email) unique constraint
// surfaces as a duplicate-user error.
func (r *UserRepositoryAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	executor := GetExecutor(ctx, r.db)
	m := userToModel(user)
	query := `INSERT INTO users (id, tenant_id, email, hashed_password, first_name, last_name, is_active, created_at,
			total_quizzes_taken, total_questions_answered, total_correct_answers, average_score, best_score, last_quiz_date)
		VALUES (:id, :tenant_id, :email, :hashed_password, :first_name, :last_name, :is_active, :created_at,
			:total_quizzes_taken, :total_questions_answered, :total_correct_answers, :average_score, :best_score, :last_quiz_date)`
	if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.NewDuplicateUserError()
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryAdapter) GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.User
	query := `SELECT id, tenant_id, email, hashed_password, first_name, last_name, is_active, created_at,
			total_quizzes_taken, total_questions_answered, total_correct_answers, average_score, best_score, last_quiz_date
		FROM users WHERE tenant_id = $1 AND email = $2`
	err := executor.GetContext(ctx, &m, query, tenantID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return userToDomain(&m), nil
}

func (r *UserRepositoryAdapter) GetByID(ctx context.Context, id string) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.User
	query := `SELECT id, tenant_id, email, hashed_password, first_name, last_name, is_active, created_at,
			total_quizzes_taken, total_questions_answered, total_correct_answers, average_score, best_score, last_quiz_date
		FROM users WHERE id = $1`
	err := executor.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return userToDomain(&m), nil
}

func (r *UserRepositoryAdapter) UpdateAggregates(ctx context.Context, user *domain.User) error {
	executor := GetExecutor(ctx, r.db)
	m := userToModel(user)
	query := `UPDATE users SET total_quizzes_taken = :total_quizzes_taken,
			total_questions_answered = :total_questions_answered,
			total_correct_answers = :total_correct_answers,
			average_score = :average_score,
			best_score = :best_score,
			last_quiz_date = :last_quiz_date
		WHERE id = :id`
	result, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to update user aggregates: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check user update: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("user")
	}
	return nil
}

func userToDomain(m *models.User) *domain.User {
	u := &domain.User{
		ID:                     m.ID,
		TenantID:               m.TenantID,
		Email:                  m.Email,
		HashedPassword:         m.HashedPassword,
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		IsActive:               m.IsActive,
		CreatedAt:              m.CreatedAt,
		TotalQuizzesTaken:      m.TotalQuizzesTaken,
		TotalQuestionsAnswered: m.TotalQuestionsAnswered,
		TotalCorrectAnswers:    m.TotalCorrectAnswers,
		AverageScore:           m.AverageScore,
		BestScore:              m.BestScore,
	}
	if m.LastQuizDate.Valid {
		t := m.LastQuizDate.Time
		u.LastQuizDate = &t
	}
	return u
}

func userToModel(u *domain.User) *models.User {
	m := &models.User{
		ID:                     u.ID,
		TenantID:               u.TenantID,
		Email:                  u.Email,
		HashedPassword:         u.HashedPassword,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		IsActive:               u.IsActive,
		CreatedAt:              u.CreatedAt,
		TotalQuizzesTaken:      u.TotalQuizzesTaken,
		TotalQuestionsAnswered: u.TotalQuestionsAnswered,
		TotalCorrectAnswers:    u.TotalCorrectAnswers,
		AverageScore:           u.AverageScore,
		BestScore:              u.BestScore,
	}
	if u.LastQuizDate != nil {
		m.LastQuizDate = sql.NullTime{Time: *u.LastQuizDate, Valid: true}
	}
	return m
}
