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

// QuizRepositoryAdapter implements domain.QuizRepository over Postgres.
type QuizRepositoryAdapter struct {
	db *sqlx.DB
}

func NewQuizRepositoryAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizRepositoryAdapter{db: db}
}

// CreateWithQuestions persists the quiz row, any questions the quiz owns
// (Question.QuizID equal to the quiz's ID; reused questions stay owned by
// their original quiz), and the ordered membership rows. Callers wrap this in
// a transaction so a partial quiz is never visible.
func (r *QuizRepositoryAdapter) CreateWithQuestions(ctx context.Context, quiz *domain.Quiz) error {
	executor := GetExecutor(ctx, r.db)

	quizModel := quizToModel(quiz)
	quizQuery := `INSERT INTO quizzes (id, tenant_id, topic_id, title, description, difficulty, num_questions, duration,
			question_seed, source, is_active, created_at, total_attempts, average_score)
		VALUES (:id, :tenant_id, :topic_id, :title, :description, :difficulty, :num_questions, :duration,
			:question_seed, :source, :is_active, :created_at, :total_attempts, :average_score)`
	if _, err := executor.NamedExecContext(ctx, quizQuery, quizModel); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	questionQuery := `INSERT INTO questions (id, quiz_id, question_text, option_a, option_b, option_c, option_d,
			correct_answer, explanation, difficulty, category, times_asked, times_correct)
		VALUES (:id, :quiz_id, :question_text, :option_a, :option_b, :option_c, :option_d,
			:correct_answer, :explanation, :difficulty, :category, :times_asked, :times_correct)`
	membershipQuery := `INSERT INTO quiz_questions (quiz_id, question_id, position) VALUES ($1, $2, $3)`
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.QuizID == quiz.ID {
			qm := questionToModel(q)
			if _, err := executor.NamedExecContext(ctx, questionQuery, qm); err != nil {
				return fmt.Errorf("failed to create question: %w", err)
			}
		}
		if _, err := executor.ExecContext(ctx, membershipQuery, quiz.ID, q.ID, i); err != nil {
			return fmt.Errorf("failed to attach question to quiz: %w", err)
		}
	}
	return nil
}

func (r *QuizRepositoryAdapter) GetByID(ctx context.Context, tenantID, id string) (*domain.Quiz, error) {
	executor := GetExecutor(ctx, r.db)

	var quizModel models.Quiz
	quizQuery := `SELECT id, tenant_id, topic_id, title, description, difficulty, num_questions, duration,
			question_seed, source, is_active, created_at, total_attempts, average_score
		FROM quizzes WHERE id = $1 AND tenant_id = $2`
	err := executor.GetContext(ctx, &quizModel, quizQuery, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	var questionRows []models.Question
	questionQuery := `SELECT q.id, q.quiz_id, q.question_text, q.option_a, q.option_b, q.option_c, q.option_d,
			q.correct_answer, q.explanation, q.difficulty, q.category, q.times_asked, q.times_correct
		FROM questions q
		JOIN quiz_questions qq ON qq.question_id = q.id
		WHERE qq.quiz_id = $1 ORDER BY qq.position`
	if err := executor.SelectContext(ctx, &questionRows, questionQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}

	quiz := quizToDomain(&quizModel)
	quiz.Questions = make([]domain.Question, len(questionRows))
	for i := range questionRows {
		quiz.Questions[i] = *questionToDomain(&questionRows[i])
	}
	return quiz, nil
}

// AvailableQuestions returns questions attached to active quizzes of the
// topic, skipping any whose ID is in excluded, up to limit.
func (r *QuizRepositoryAdapter) AvailableQuestions(ctx context.Context, tenantID, topicID string, excluded []string, limit int) ([]domain.Question, error) {
	executor := GetExecutor(ctx, r.db)

	query := `SELECT q.id, q.quiz_id, q.question_text, q.option_a, q.option_b, q.option_c, q.option_d,
			q.correct_answer, q.explanation, q.difficulty, q.category, q.times_asked, q.times_correct
		FROM questions q
		JOIN quizzes z ON z.id = q.quiz_id
		WHERE z.tenant_id = ? AND z.topic_id = ? AND z.is_active = TRUE`
	args := []interface{}{tenantID, topicID}

	if len(excluded) > 0 {
		query += ` AND q.id NOT IN (?)`
		args = append(args, excluded)
	}
	query += ` ORDER BY q.id LIMIT ?`
	args = append(args, limit)

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []models.Question
	if err := executor.SelectContext(ctx, &rows, query, inArgs...); err != nil {
		return nil, fmt.Errorf("failed to select available questions: %w", err)
	}

	questions := make([]domain.Question, len(rows))
	for i := range rows {
		questions[i] = *questionToDomain(&rows[i])
	}
	return questions, nil
}

func (r *QuizRepositoryAdapter) ApplyResult(ctx context.Context, quizID string, totalAttempts int, averageScore float64) error {
	executor := GetExecutor(ctx, r.db)
	query := `UPDATE quizzes SET total_attempts = $1, average_score = $2 WHERE id = $3`
	if _, err := executor.ExecContext(ctx, query, totalAttempts, averageScore, quizID); err != nil {
		return fmt.Errorf("failed to update quiz counters: %w", err)
	}
	return nil
}

func quizToDomain(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:            m.ID,
		TenantID:      m.TenantID,
		TopicID:       m.TopicID,
		Title:         m.Title,
		Description:   m.Description,
		Difficulty:    m.Difficulty,
		NumQuestions:  m.NumQuestions,
		Duration:      m.Duration,
		QuestionSeed:  m.QuestionSeed,
		Source:        m.Source,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		TotalAttempts: m.TotalAttempts,
		AverageScore:  m.AverageScore,
	}
}

func quizToModel(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:            q.ID,
		TenantID:      q.TenantID,
		TopicID:       q.TopicID,
		Title:         q.Title,
		Description:   q.Description,
		Difficulty:    q.Difficulty,
		NumQuestions:  q.NumQuestions,
		Duration:      q.Duration,
		QuestionSeed:  q.QuestionSeed,
		Source:        q.Source,
		IsActive:      q.IsActive,
		CreatedAt:     q.CreatedAt,
		TotalAttempts: q.TotalAttempts,
		AverageScore:  q.AverageScore,
	}
}

func questionToDomain(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		Text:          m.QuestionText,
		Options:       [4]string{m.OptionA, m.OptionB, m.OptionC, m.OptionD},
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation,
		Difficulty:    m.Difficulty,
		Category:      m.Category,
		TimesAsked:    m.TimesAsked,
		TimesCorrect:  m.TimesCorrect,
	}
}

func questionToModel(q *domain.Question) *models.Question {
	return &models.Question{
		ID:            q.ID,
		QuizID:        q.QuizID,
		QuestionText:  q.Text,
		OptionA:       q.Options[0],
		OptionB:       q.Options[1],
		OptionC:       q.Options[2],
		OptionD:       q.Options[3],
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Category:      q.Category,
		TimesAsked:    q.TimesAsked,
		TimesCorrect:  q.TimesCorrect,
	}
}
