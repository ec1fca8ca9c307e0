package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// ollamaQuestionSupplier implements domain.QuestionSupplier against a local
// Ollama server.
type ollamaQuestionSupplier struct {
	llmClient *ollama.LLM
	cfg       config.LLMConfig
}

// NewOllamaQuestionSupplier creates a question supplier backed by the given
// Ollama client.
func NewOllamaQuestionSupplier(llm *ollama.LLM, cfg config.LLMConfig) domain.QuestionSupplier {
	return &ollamaQuestionSupplier{llmClient: llm, cfg: cfg}
}

// NewOllamaLLM connects to the configured Ollama server. The HTTP client
// timeout bounds a single generation call end to end.
func NewOllamaLLM(cfg config.LLMConfig) (*ollama.LLM, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return llm, nil
}

// GenerateQuestions asks the model for count multiple-choice questions and
// keeps only the candidates that pass validation. It may return fewer than
// requested.
func (s *ollamaQuestionSupplier) GenerateQuestions(ctx context.Context, topic, difficulty string, count int, seed string) ([]domain.GeneratedQuestion, error) {
	l := logger.Get()

	prompt := buildPrompt(topic, difficulty, count, seed)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	response, err := s.llmClient.Call(ctx, prompt, llms.WithTemperature(0.7))
	if err != nil {
		l.Error("LLM question generation failed",
			zap.String("topic", topic),
			zap.Error(err))
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	candidates, err := ParseQuestions(response)
	if err != nil {
		l.Error("failed to parse LLM question payload",
			zap.String("topic", topic),
			zap.Error(err))
		return nil, err
	}

	valid := FilterValid(candidates)
	if len(valid) < len(candidates) {
		l.Warn("discarded invalid generated questions",
			zap.String("topic", topic),
			zap.Int("requested", count),
			zap.Int("generated", len(candidates)),
			zap.Int("valid", len(valid)))
	}
	return valid, nil
}

func buildPrompt(topic, difficulty string, count int, seed string) string {
	return fmt.Sprintf(`You are a quiz question generator. Generate exactly %d multiple-choice questions about %q at %s difficulty.
Respond with ONLY a JSON array in the following format:
[
    {
        "question": "question text here",
        "options": ["option 1", "option 2", "option 3", "option 4"],
        "correct_answer": "the exact text of the correct option",
        "explanation": "brief explanation of the answer"
    }
]

Rules:
1. Each question must have exactly 4 distinct options
2. correct_answer must exactly match one of the options
3. Questions must be factual and unambiguous
4. Variation seed: %s`, count, topic, difficulty, seed)
}

// ParseQuestions extracts the JSON array from a raw model response. Models
// sometimes wrap the payload in prose or reasoning tags, so the array is
// located by its outermost brackets.
func ParseQuestions(raw string) ([]domain.GeneratedQuestion, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "[")
	jsonEnd := strings.LastIndex(cleaned, "]")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("no JSON array found in LLM response: %s", cleaned)
	}

	var questions []domain.GeneratedQuestion
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions from LLM response: %w", err)
	}
	return questions, nil
}

// FilterValid keeps only the candidates that satisfy the question invariants.
func FilterValid(candidates []domain.GeneratedQuestion) []domain.GeneratedQuestion {
	valid := make([]domain.GeneratedQuestion, 0, len(candidates))
	for _, c := range candidates {
		if c.Valid() {
			valid = append(valid, c)
		}
	}
	return valid
}
