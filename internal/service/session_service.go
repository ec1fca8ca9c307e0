package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

const sessionStatusTTL = 5 * time.Second

// SessionService drives the quiz session state machine: start, status reads
// with lazy expiry, and gated submission. Each public operation runs inside
// one transaction.
type SessionService struct {
	txManager domain.TransactionManager
	sessions  domain.SessionRepository
	quizzes   domain.QuizRepository
	results   domain.ResultRepository
	history   domain.HistoryRepository
	users     domain.UserRepository
	topics    domain.TopicRepository
	cache     domain.Cache
	now       func() time.Time
}

func NewSessionService(
	txManager domain.TransactionManager,
	sessions domain.SessionRepository,
	quizzes domain.QuizRepository,
	results domain.ResultRepository,
	history domain.HistoryRepository,
	users domain.UserRepository,
	topics domain.TopicRepository,
	cacheClient domain.Cache,
) *SessionService {
	return &SessionService{
		txManager: txManager,
		sessions:  sessions,
		quizzes:   quizzes,
		results:   results,
		history:   history,
		users:     users,
		topics:    topics,
		cache:     cacheClient,
		now:       time.Now,
	}
}

// StartSession starts a timed attempt against a quiz. If the user already has
// an active session for the quiz that has not passed its deadline, that
// session is returned unchanged; a past-deadline one is expired first and a
// fresh session created. Two concurrent starts converge on one session: the
// second insert is dropped against the partial unique index and the loser
// re-selects the winner's row within its transaction.
func (s *SessionService) StartSession(ctx context.Context, claims dto.AuthClaims, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if req.TenantID != "" && req.TenantID != claims.TenantID {
		return nil, domain.NewAccessDeniedError()
	}
	if req.QuizID == "" {
		return nil, domain.NewValidationError("quiz ID is required")
	}

	var session *domain.QuizSession
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		quiz, err := s.quizzes.GetByID(txCtx, claims.TenantID, req.QuizID)
		if err != nil {
			return err
		}
		if quiz == nil || !quiz.IsActive {
			return domain.NewNotFoundError("quiz")
		}

		existing, err := s.sessions.GetActiveSession(txCtx, quiz.ID, claims.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.IsPastDeadline(s.now()) {
				session = existing
				return nil
			}
			existing.Expire()
			if err := s.sessions.UpdateSession(txCtx, existing); err != nil {
				return err
			}
		}

		fresh := domain.NewQuizSession(util.NewULID(), quiz, claims.UserID, s.now())
		if err := s.sessions.CreateSession(txCtx, fresh); err != nil {
			if errors.Is(err, domain.ErrActiveSessionExists) {
				winner, selErr := s.sessions.GetActiveSession(txCtx, quiz.ID, claims.UserID)
				if selErr != nil {
					return selErr
				}
				if winner == nil {
					return domain.NewInternalError("active session vanished after conflict", nil)
				}
				session = winner
				return nil
			}
			return err
		}
		session = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("session started",
		zap.String("session_id", session.ID),
		zap.String("quiz_id", session.QuizID),
		zap.String("user_id", claims.UserID))

	return s.sessionResponse(session), nil
}

// GetSessionStatus reads a session's state. Expiry is lazy: an active session
// whose deadline has passed is flipped to expired in storage as part of this
// read.
func (s *SessionService) GetSessionStatus(ctx context.Context, claims dto.AuthClaims, sessionID string) (*dto.SessionStatusResponse, error) {
	var session *domain.QuizSession
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.sessions.GetSession(txCtx, sessionID, claims.UserID, claims.TenantID)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.NewNotFoundError("quiz session")
		}
		if found.Status == domain.SessionActive && found.IsPastDeadline(s.now()) {
			found.Expire()
			if err := s.sessions.UpdateSession(txCtx, found); err != nil {
				return err
			}
		}
		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionStatusResponse{
		SessionID:        session.ID,
		Status:           string(session.Status),
		RemainingSeconds: 0,
		EndTime:          session.EndTime,
	}
	if session.Status == domain.SessionActive {
		resp.RemainingSeconds = session.RemainingSeconds(s.now())
	}

	s.cacheStatusSnapshot(ctx, resp)
	return resp, nil
}

// SubmitSession grades a complete answer set against the session's quiz. The
// gates run in a fixed order: the session must exist, be active, and be
// within its deadline; the quiz must still exist; every question must be
// answered. Scoring, the history append, the result row, the session
// completion and both aggregate updates all commit in one transaction, so a
// failed submission leaves no trace.
func (s *SessionService) SubmitSession(ctx context.Context, claims dto.AuthClaims, sessionID string, req dto.SubmitSessionRequest) (*dto.SubmitSessionResponse, error) {
	if req.TenantID != "" && req.TenantID != claims.TenantID {
		return nil, domain.NewAccessDeniedError()
	}

	var resp *dto.SubmitSessionResponse
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetSession(txCtx, sessionID, claims.UserID, claims.TenantID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.NewNotFoundError("quiz session")
		}
		if req.QuizID != "" && req.QuizID != session.QuizID {
			return domain.NewNotFoundError("quiz session")
		}
		if session.Status != domain.SessionActive {
			return domain.NewSessionNotActiveError(session.Status)
		}
		if session.IsPastDeadline(s.now()) {
			session.Expire()
			// Written against the outer context so the expiry flip survives
			// the rollback caused by the error return below.
			if err := s.sessions.UpdateSession(ctx, session); err != nil {
				return err
			}
			return domain.NewSessionExpiredError()
		}

		quiz, err := s.quizzes.GetByID(txCtx, claims.TenantID, session.QuizID)
		if err != nil {
			return err
		}
		if quiz == nil || !quiz.IsActive {
			return domain.NewNotFoundError("quiz")
		}

		required := len(quiz.Questions)
		answered := 0
		for i := range quiz.Questions {
			if a, ok := req.Answers[quiz.Questions[i].ID]; ok && a != "" {
				answered++
			}
		}
		if answered < required {
			return domain.NewIncompleteSubmissionError(answered, required)
		}

		eval := Evaluate(quiz.Questions, req.Answers, req.QuestionTimes)

		completedAt := s.now()
		session.Complete(completedAt, req.TimeTakenSeconds)
		if err := s.sessions.UpdateSession(txCtx, session); err != nil {
			return err
		}

		topicName := ""
		if topic, err := s.topics.GetByID(txCtx, quiz.TopicID); err != nil {
			return err
		} else if topic != nil {
			topicName = topic.Name
		}

		entries := make([]domain.QuestionHistory, 0, required)
		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			entries = append(entries, domain.QuestionHistory{
				ID:            util.NewULID(),
				UserID:        claims.UserID,
				QuestionID:    q.ID,
				TenantID:      claims.TenantID,
				QuizID:        quiz.ID,
				SessionID:     session.ID,
				QuestionText:  q.Text,
				TopicName:     topicName,
				Difficulty:    q.Difficulty,
				UserAnswer:    req.Answers[q.ID],
				CorrectAnswer: q.CorrectAnswer,
				IsCorrect:     req.Answers[q.ID] == q.CorrectAnswer,
				TimeTaken:     req.QuestionTimes[q.ID],
				AnsweredAt:    completedAt,
			})
		}
		if err := s.history.AppendEntries(txCtx, entries); err != nil {
			return err
		}

		result := &domain.QuizResult{
			ID:             util.NewULID(),
			TenantID:       claims.TenantID,
			QuizID:         quiz.ID,
			UserID:         claims.UserID,
			SessionID:      session.ID,
			Score:          eval.Score,
			TotalQuestions: eval.TotalQuestions,
			Percentage:     eval.Percentage,
			Grade:          eval.Grade,
			TimeTaken:      *session.ActualTimeTaken,
			UserAnswers:    req.Answers,
			CorrectAnswers: eval.CorrectAnswers,
			Analysis:       eval.Analysis,
			CompletedAt:    completedAt,
		}
		if err := s.results.CreateResult(txCtx, result); err != nil {
			return err
		}

		user, err := s.users.GetByID(txCtx, claims.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewNotFoundError("user")
		}
		user.ApplyResult(eval.TotalQuestions, eval.Score, eval.Percentage, completedAt)
		if err := s.users.UpdateAggregates(txCtx, user); err != nil {
			return err
		}

		newAttempts := quiz.TotalAttempts + 1
		newAverage := (quiz.AverageScore*float64(quiz.TotalAttempts) + eval.Percentage) / float64(newAttempts)
		if err := s.quizzes.ApplyResult(txCtx, quiz.ID, newAttempts, newAverage); err != nil {
			return err
		}

		resp = submitResponse(result, eval)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.SessionStatusKey(sessionID)); err != nil {
		logger.Get().Warn("failed to drop session status snapshot", zap.Error(err))
	}

	logger.Get().Info("session submitted",
		zap.String("session_id", sessionID),
		zap.String("user_id", claims.UserID),
		zap.Int("score", resp.Score),
		zap.String("grade", resp.Grade))

	return resp, nil
}

func (s *SessionService) sessionResponse(session *domain.QuizSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		SessionID:        session.ID,
		QuizID:           session.QuizID,
		Status:           string(session.Status),
		StartTime:        session.StartTime,
		EndTime:          session.EndTime,
		TimeLimitMinutes: session.TimeLimitMinutes,
		RemainingSeconds: session.RemainingSeconds(s.now()),
	}
}

// cacheStatusSnapshot writes a short-lived status snapshot for read-only
// consumers. Failures are logged and ignored; the cache is never on the
// correctness path.
func (s *SessionService) cacheStatusSnapshot(ctx context.Context, resp *dto.SessionStatusResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.SessionStatusKey(resp.SessionID), string(payload), sessionStatusTTL); err != nil {
		logger.Get().Warn("failed to cache session status snapshot",
			zap.String("session_id", resp.SessionID),
			zap.Error(err))
	}
}

func submitResponse(result *domain.QuizResult, eval domain.Evaluation) *dto.SubmitSessionResponse {
	views := make([]dto.QuestionResultView, len(eval.Analysis))
	for i, a := range eval.Analysis {
		views[i] = dto.QuestionResultView{
			QuestionID:    a.QuestionID,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: a.CorrectAnswer,
			IsCorrect:     a.IsCorrect,
			Explanation:   a.Explanation,
			TimeTaken:     a.TimeTaken,
		}
	}
	return &dto.SubmitSessionResponse{
		ResultID:       result.ID,
		SessionID:      result.SessionID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Grade:          result.Grade,
		TimeTaken:      result.TimeTaken,
		Analysis:       views,
		CompletedAt:    result.CompletedAt,
	}
}
