package service

import (
	"context"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
)

const defaultHistoryLimit = 20

// AnalyticsService serves the read-only views over the denormalized user
// aggregates, the result rows and the question history ledger.
type AnalyticsService struct {
	users   domain.UserRepository
	results domain.ResultRepository
	history domain.HistoryRepository
}

func NewAnalyticsService(users domain.UserRepository, results domain.ResultRepository, history domain.HistoryRepository) *AnalyticsService {
	return &AnalyticsService{
		users:   users,
		results: results,
		history: history,
	}
}

// UserAnalytics returns the user's lifetime totals plus a per-difficulty
// accuracy breakdown computed from the history ledger.
func (s *AnalyticsService) UserAnalytics(ctx context.Context, claims dto.AuthClaims) (*dto.UserAnalyticsResponse, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user")
	}

	entries, err := s.history.ListByUser(ctx, claims.UserID, claims.TenantID)
	if err != nil {
		return nil, err
	}

	byDifficulty := make(map[string]dto.DifficultyAccuracy)
	for _, e := range entries {
		acc := byDifficulty[e.Difficulty]
		acc.Answered++
		if e.IsCorrect {
			acc.Correct++
		}
		byDifficulty[e.Difficulty] = acc
	}
	for difficulty, acc := range byDifficulty {
		acc.Accuracy = float64(acc.Correct) / float64(acc.Answered) * 100
		byDifficulty[difficulty] = acc
	}

	accuracy := 0.0
	if user.TotalQuestionsAnswered > 0 {
		accuracy = float64(user.TotalCorrectAnswers) / float64(user.TotalQuestionsAnswered) * 100
	}

	return &dto.UserAnalyticsResponse{
		TotalQuizzesTaken:      user.TotalQuizzesTaken,
		TotalQuestionsAnswered: user.TotalQuestionsAnswered,
		TotalCorrectAnswers:    user.TotalCorrectAnswers,
		AccuracyPercentage:     accuracy,
		AverageScore:           user.AverageScore,
		BestScore:              user.BestScore,
		LastQuizDate:           user.LastQuizDate,
		ByDifficulty:           byDifficulty,
	}, nil
}

// QuizHistory returns the user's most recent results.
func (s *AnalyticsService) QuizHistory(ctx context.Context, claims dto.AuthClaims, limit int) ([]dto.QuizHistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	summaries, err := s.results.ListSummariesByUser(ctx, claims.UserID, claims.TenantID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.QuizHistoryEntry, len(summaries))
	for i, r := range summaries {
		entries[i] = dto.QuizHistoryEntry{
			ResultID:       r.ResultID,
			QuizID:         r.QuizID,
			QuizTitle:      r.QuizTitle,
			Topic:          r.TopicName,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			Percentage:     r.Percentage,
			Grade:          r.Grade,
			TimeTaken:      r.TimeTaken,
			CompletedAt:    r.CompletedAt,
		}
	}
	return entries, nil
}
