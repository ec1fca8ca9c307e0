package domain

import "context"

// GeneratedQuestion is one candidate question produced by a question
// supplier, before it is attached to a quiz.
type GeneratedQuestion struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Valid reports whether the candidate satisfies the question invariants:
// non-empty text, exactly 4 distinct options, exactly one equal to the
// correct answer.
func (g *GeneratedQuestion) Valid() bool {
	if g.Text == "" || len(g.Options) != 4 {
		return false
	}
	seen := make(map[string]struct{}, 4)
	matches := 0
	for _, opt := range g.Options {
		if opt == "" {
			return false
		}
		if _, dup := seen[opt]; dup {
			return false
		}
		seen[opt] = struct{}{}
		if opt == g.CorrectAnswer {
			matches++
		}
	}
	return matches == 1
}

// QuestionSupplier produces validated question candidates for a topic. It may
// return fewer than requested; the caller must treat that as a generation
// failure rather than assembling a short quiz.
type QuestionSupplier interface {
	GenerateQuestions(ctx context.Context, topic, difficulty string, count int, seed string) ([]GeneratedQuestion, error)
}
