package services

import (
	"github.com/openclass-labs/exam-engine/internal/models"
)

// negativeMarkFactor is the fraction of a question's marks deducted for an
// attempted wrong answer. Engine-wide, not per-test.
const negativeMarkFactor = 0.25

// ScoreBreakdown is the output of scoring one answer list against a question key.
type ScoreBreakdown struct {
	Score            float64
	TotalMarks       float64
	CorrectCount     int
	WrongCount       int
	UnattemptedCount int
}

// ScoreAnswers grades an answer list positionally aligned to questions.
// Unattempted answers score 0, correct answers earn the question's marks,
// wrong answers are penalized at negativeMarkFactor of the question's marks.
// The total is clamped to a floor of 0 across the whole test, not per question.
//
// Pure function: callers must pass the question snapshot taken at
// authorization time so late edits to the test cannot desynchronize scoring.
func ScoreAnswers(questions []models.Question, answers []models.Answer) ScoreBreakdown {
	var breakdown ScoreBreakdown

	for i, q := range questions {
		breakdown.TotalMarks += q.Marks

		if i >= len(answers) || answers[i].Selected == nil {
			breakdown.UnattemptedCount++
			continue
		}

		if *answers[i].Selected == q.CorrectOption {
			breakdown.CorrectCount++
			breakdown.Score += q.Marks
		} else {
			breakdown.WrongCount++
			breakdown.Score -= negativeMarkFactor * q.Marks
		}
	}

	if breakdown.Score < 0 {
		breakdown.Score = 0
	}

	return breakdown
}
