package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	quizCacheTTL   = 10 * time.Minute
	topicsCacheTTL = time.Minute

	maxQuestionsPerQuiz = 20
	maxDurationMinutes  = 180
)

// QuizService assembles quizzes: topic get-or-create, history-deduplicated
// question selection, and supplier-backed generation when the pool runs dry.
type QuizService struct {
	txManager domain.TransactionManager
	topics    domain.TopicRepository
	quizzes   domain.QuizRepository
	history   domain.HistoryRepository
	supplier  domain.QuestionSupplier
	cache     domain.Cache
	group     singleflight.Group
	now       func() time.Time
}

func NewQuizService(
	txManager domain.TransactionManager,
	topics domain.TopicRepository,
	quizzes domain.QuizRepository,
	history domain.HistoryRepository,
	supplier domain.QuestionSupplier,
	cacheClient domain.Cache,
) *QuizService {
	return &QuizService{
		txManager: txManager,
		topics:    topics,
		quizzes:   quizzes,
		history:   history,
		supplier:  supplier,
		cache:     cacheClient,
		now:       time.Now,
	}
}

// GenerateQuiz builds a quiz for the user. Questions the user has answered
// before are excluded globally, not per topic: a question ID that appears
// anywhere in the user's history never comes back. When the topic's remaining
// pool is too small, the supplier generates a fresh batch; the quiz always
// carries exactly the requested number of questions or the operation fails.
func (s *QuizService) GenerateQuiz(ctx context.Context, claims dto.AuthClaims, req dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	if req.TenantID != "" && req.TenantID != claims.TenantID {
		return nil, domain.NewAccessDeniedError()
	}
	if err := validateGenerateRequest(&req); err != nil {
		return nil, err
	}

	topicName := strings.TrimSpace(req.Topic)
	difficulty := strings.ToLower(req.Difficulty)

	topic, err := s.getOrCreateTopic(ctx, claims.TenantID, topicName, difficulty)
	if err != nil {
		return nil, err
	}

	excluded, err := s.history.AnsweredQuestionIDs(ctx, claims.UserID, claims.TenantID)
	if err != nil {
		return nil, err
	}

	available, err := s.quizzes.AvailableQuestions(ctx, claims.TenantID, topic.ID, excluded, req.NumQuestions)
	if err != nil {
		return nil, err
	}

	quizID := util.NewULID()
	seed := generationSeed(claims.UserID, topicName, claims.TenantID, s.now())
	var questions []domain.Question
	source := domain.QuestionSourceReused

	if len(available) >= req.NumQuestions {
		questions = available[:req.NumQuestions]
	} else {
		source = domain.QuestionSourceGenerated
		generated, err := s.generateQuestions(ctx, claims.TenantID, topicName, difficulty, req.NumQuestions, seed)
		if err != nil {
			return nil, domain.NewGenerationFailedError(topicName, err)
		}
		if len(generated) < req.NumQuestions {
			return nil, domain.NewGenerationFailedError(topicName,
				fmt.Errorf("supplier returned %d of %d questions", len(generated), req.NumQuestions))
		}
		questions = make([]domain.Question, req.NumQuestions)
		for i, g := range generated[:req.NumQuestions] {
			questions[i] = domain.Question{
				ID:            util.NewULID(),
				QuizID:        quizID,
				Text:          g.Text,
				Options:       [4]string{g.Options[0], g.Options[1], g.Options[2], g.Options[3]},
				CorrectAnswer: g.CorrectAnswer,
				Explanation:   g.Explanation,
				Difficulty:    difficulty,
				Category:      topic.Category,
			}
		}
	}

	quiz := &domain.Quiz{
		ID:           quizID,
		TenantID:     claims.TenantID,
		TopicID:      topic.ID,
		Title:        fmt.Sprintf("Quiz about %s", topicName),
		Description:  fmt.Sprintf("AI-generated quiz about %s", topicName),
		Difficulty:   difficulty,
		NumQuestions: req.NumQuestions,
		Duration:     req.DurationMinutes,
		QuestionSeed: seed,
		Source:       source,
		IsActive:     true,
		CreatedAt:    s.now(),
		Questions:    questions,
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizzes.CreateWithQuestions(txCtx, quiz); err != nil {
			return err
		}
		return s.topics.IncrementQuizzesCreated(txCtx, topic.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("topic", topicName),
		zap.String("source", source),
		zap.Int("num_questions", quiz.NumQuestions))

	resp := quizResponse(quiz, topic.Name)
	s.cacheQuiz(ctx, claims.TenantID, resp)
	return resp, nil
}

// GetQuiz returns the quiz with its questions in presentation order, without
// correct answers. The assembled payload is cached; quizzes are immutable
// after creation so the cached copy never goes stale.
func (s *QuizService) GetQuiz(ctx context.Context, claims dto.AuthClaims, quizID string) (*dto.QuizResponse, error) {
	key := cache.QuizKey(claims.TenantID, quizID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.QuizResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("quiz cache read failed", zap.String("quiz_id", quizID), zap.Error(err))
	}

	quiz, err := s.quizzes.GetByID(ctx, claims.TenantID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz")
	}

	topicName := ""
	if topic, err := s.topics.GetByID(ctx, quiz.TopicID); err == nil && topic != nil {
		topicName = topic.Name
	}

	resp := quizResponse(quiz, topicName)
	s.cacheQuiz(ctx, claims.TenantID, resp)
	return resp, nil
}

// ListTopics returns the tenant's active topics.
func (s *QuizService) ListTopics(ctx context.Context, claims dto.AuthClaims) ([]dto.TopicResponse, error) {
	key := cache.TopicsKey(claims.TenantID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp []dto.TopicResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return resp, nil
		}
	}

	topics, err := s.topics.ListActive(ctx, claims.TenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TopicResponse, len(topics))
	for i, t := range topics {
		resp[i] = dto.TopicResponse{
			ID:                  t.ID,
			Name:                t.Name,
			Description:         t.Description,
			Category:            t.Category,
			Difficulty:          t.Difficulty,
			TotalQuizzesCreated: t.TotalQuizzesCreated,
		}
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), topicsCacheTTL); err != nil {
			logger.Get().Warn("failed to cache topic list", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *QuizService) getOrCreateTopic(ctx context.Context, tenantID, name, difficulty string) (*domain.Topic, error) {
	topic, err := s.topics.GetByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if topic != nil {
		return topic, nil
	}
	topic = domain.NewTopic(util.NewULID(), tenantID, name, difficulty)
	if err := s.topics.Create(ctx, topic); err != nil {
		if errors.Is(err, domain.ErrTopicExists) {
			winner, selErr := s.topics.GetByName(ctx, tenantID, name)
			if selErr != nil {
				return nil, selErr
			}
			if winner == nil {
				return nil, domain.NewInternalError("topic vanished after conflict", nil)
			}
			return winner, nil
		}
		return nil, err
	}
	logger.Get().Info("dynamic topic created",
		zap.String("topic_id", topic.ID),
		zap.String("name", name))
	return topic, nil
}

// generateQuestions calls the supplier through singleflight so concurrent
// requests for the same (tenant, topic, difficulty, count) share one LLM call.
func (s *QuizService) generateQuestions(ctx context.Context, tenantID, topic, difficulty string, count int, seed string) ([]domain.GeneratedQuestion, error) {
	key := fmt.Sprintf("%s|%s|%s|%d", tenantID, topic, difficulty, count)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.supplier.GenerateQuestions(ctx, topic, difficulty, count, seed)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("generation call shared", zap.String("key", key))
	}
	return v.([]domain.GeneratedQuestion), nil
}

// generationSeed derives the deterministic variation seed persisted on the
// quiz for reproducibility.
func generationSeed(userID, topic, tenantID string, at time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%s_%d", userID, topic, tenantID, at.Unix())))
	return hex.EncodeToString(sum[:])
}

func (s *QuizService) cacheQuiz(ctx context.Context, tenantID string, resp *dto.QuizResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.QuizKey(tenantID, resp.ID), string(payload), quizCacheTTL); err != nil {
		logger.Get().Warn("failed to cache quiz payload", zap.String("quiz_id", resp.ID), zap.Error(err))
	}
}

func validateGenerateRequest(req *dto.GenerateQuizRequest) error {
	var errs domain.ValidationErrors
	if strings.TrimSpace(req.Topic) == "" {
		errs = append(errs, domain.NewMissingFieldError("topic"))
	}
	if !domain.ValidDifficulty(req.Difficulty) {
		errs = append(errs, domain.NewInvalidFormatError("difficulty", req.Difficulty))
	}
	if req.NumQuestions < 1 || req.NumQuestions > maxQuestionsPerQuiz {
		errs = append(errs, domain.NewOutOfRangeError("num_questions", req.NumQuestions, 1, maxQuestionsPerQuiz))
	}
	if req.DurationMinutes < 1 || req.DurationMinutes > maxDurationMinutes {
		errs = append(errs, domain.NewOutOfRangeError("duration_minutes", req.DurationMinutes, 1, maxDurationMinutes))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func quizResponse(quiz *domain.Quiz, topicName string) *dto.QuizResponse {
	views := make([]dto.QuestionView, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		views[i] = dto.QuestionView{
			ID:       q.ID,
			Question: q.Text,
			Options:  q.Options[:],
		}
	}
	return &dto.QuizResponse{
		ID:              quiz.ID,
		Title:           quiz.Title,
		Description:     quiz.Description,
		Topic:           topicName,
		Difficulty:      quiz.Difficulty,
		NumQuestions:    quiz.NumQuestions,
		DurationMinutes: quiz.Duration,
		Source:          quiz.Source,
		Questions:       views,
		CreatedAt:       quiz.CreatedAt,
	}
}
