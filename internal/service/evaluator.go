package service

import "quizforge/internal/domain"

// Evaluate scores a complete answer set against a quiz's questions. It is
// pure: same questions and answers always produce the same evaluation, and the
// analysis order follows the quiz's question order. Callers guarantee the
// answer map covers every question.
func Evaluate(questions []domain.Question, answers map[string]string, questionTimes map[string]int) domain.Evaluation {
	total := len(questions)
	correct := 0
	analysis := make([]domain.QuestionAnalysis, 0, total)
	correctAnswers := make(map[string]string, total)

	for i := range questions {
		q := &questions[i]
		userAnswer := answers[q.ID]
		isCorrect := userAnswer == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		correctAnswers[q.ID] = q.CorrectAnswer
		analysis = append(analysis, domain.QuestionAnalysis{
			QuestionID:    q.ID,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
			TimeTaken:     questionTimes[q.ID],
		})
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}

	return domain.Evaluation{
		Score:          correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Grade:          domain.GradeForPercentage(percentage),
		Analysis:       analysis,
		CorrectAnswers: correctAnswers,
	}
}
