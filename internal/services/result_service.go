package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openclass-labs/exam-engine/internal/events"
	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/repositories"
	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/openclass-labs/exam-engine/internal/validator"
)

// RevealDelay is the fixed window after a test's scheduled start before
// correct answers and explanations may be disclosed. Engine-wide constant.
const RevealDelay = 12 * time.Hour

// ResultService is the attempt ledger and the disclosure gate. Exactly one
// Result may exist per (test, student) pair; the record is write-once.
type ResultService interface {
	Submit(ctx context.Context, req *SubmitRequest, studentID string) (*SubmitResponse, error)
	GetResultView(ctx context.Context, testID uint, studentID string) (*ResultView, error)
}

type SubmitRequest struct {
	TestID         uint            `json:"test_id" validate:"required"`
	Answers        []models.Answer `json:"answers" validate:"required"`
	ElapsedSeconds int             `json:"elapsed_seconds" validate:"min=0"`
	IsAuto         bool            `json:"is_auto"`
}

type SubmitResponse struct {
	ResultID         uint    `json:"result_id"`
	Score            float64 `json:"score"`
	TotalMarks       float64 `json:"total_marks"`
	CorrectCount     int     `json:"correct_count"`
	WrongCount       int     `json:"wrong_count"`
	UnattemptedCount int     `json:"unattempted_count"`
	IsAuto           bool    `json:"is_auto"`
}

// QuestionView is one question as seen through the disclosure gate. Before
// the reveal instant CorrectOption, Explanation and Outcome stay nil.
type QuestionView struct {
	ID            uint     `json:"id"`
	Position      int      `json:"position"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	Marks         float64  `json:"marks"`
	Selected      *int     `json:"selected"`
	CorrectOption *int     `json:"correct_option,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
	Outcome       *string  `json:"outcome,omitempty"` // "correct", "incorrect", "skipped"
}

type ResultView struct {
	TestID           uint           `json:"test_id"`
	Title            string         `json:"title"`
	Score            float64        `json:"score"`
	TotalMarks       float64        `json:"total_marks"`
	CorrectCount     int            `json:"correct_count"`
	WrongCount       int            `json:"wrong_count"`
	UnattemptedCount int            `json:"unattempted_count"`
	TimeTaken        int            `json:"time_taken"`
	IsAuto           bool           `json:"is_auto"`
	SubmittedAt      time.Time      `json:"submitted_at"`
	Revealed         bool           `json:"revealed"`
	RevealAt         time.Time      `json:"reveal_at"`
	Questions        []QuestionView `json:"questions"`
}

type resultService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewResultService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, v *validator.Validator) ResultService {
	return &resultService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

// Submit scores and persists the attempt. The application-level existence
// check is an optimization; the storage layer's unique constraint is the
// authoritative guard, and its violation resolves to the same Conflict
// outcome so a racing duplicate never surfaces as a crash.
func (s *resultService) Submit(ctx context.Context, req *SubmitRequest, studentID string) (*SubmitResponse, error) {
	s.logger.Info("Submitting exam attempt",
		"test_id", req.TestID,
		"student_id", studentID,
		"answers_count", len(req.Answers),
		"is_auto", req.IsAuto)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, req.TestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if len(req.Answers) != len(test.Questions) {
		return nil, ErrAnswerCountMismatch
	}
	for i, answer := range req.Answers {
		if answer.Selected != nil && (*answer.Selected < 0 || *answer.Selected >= len(test.Questions[i].Options)) {
			return nil, ErrInvalidOptionIndex
		}
	}

	exists, err := s.repo.Result().ExistsByTestAndStudent(ctx, req.TestID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing result: %w", err)
	}
	if exists {
		return nil, ErrAlreadySubmitted
	}

	breakdown := ScoreAnswers(test.Questions, req.Answers)

	result := &models.Result{
		TestID:           req.TestID,
		StudentID:        studentID,
		Answers:          req.Answers,
		Score:            breakdown.Score,
		TotalMarks:       breakdown.TotalMarks,
		CorrectCount:     breakdown.CorrectCount,
		WrongCount:       breakdown.WrongCount,
		UnattemptedCount: breakdown.UnattemptedCount,
		TimeTaken:        req.ElapsedSeconds,
		IsAuto:           req.IsAuto,
		SubmittedAt:      s.now(),
	}

	if err := s.repo.Result().Create(ctx, result); err != nil {
		if repositories.IsDuplicateError(err) {
			// Lost the race against a concurrent submit for the same pair.
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to persist result: %w", err)
	}

	s.logger.Info("Exam attempt submitted",
		"result_id", result.ID,
		"test_id", req.TestID,
		"student_id", studentID,
		"score", result.Score,
		"is_auto", result.IsAuto)

	if err := s.publisher.PublishExamEvent(ctx, events.NewResultSubmittedEvent(result)); err != nil {
		s.logger.Error("Failed to publish result event",
			"result_id", result.ID, "error", err)
	}

	return &SubmitResponse{
		ResultID:         result.ID,
		Score:            result.Score,
		TotalMarks:       result.TotalMarks,
		CorrectCount:     result.CorrectCount,
		WrongCount:       result.WrongCount,
		UnattemptedCount: result.UnattemptedCount,
		IsAuto:           result.IsAuto,
	}, nil
}

// GetResultView returns the student's own result. Before the reveal instant
// the answer key is masked but the view is still well-formed, so the caller
// can render a pending state rather than an error. The server clock is
// authoritative.
func (s *resultService) GetResultView(ctx context.Context, testID uint, studentID string) (*ResultView, error) {
	result, err := s.repo.Result().GetByTestAndStudent(ctx, testID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	revealAt := test.StartAt.Add(RevealDelay)
	revealed := !s.now().Before(revealAt)

	view := &ResultView{
		TestID:           test.ID,
		Title:            test.Title,
		Score:            result.Score,
		TotalMarks:       result.TotalMarks,
		CorrectCount:     result.CorrectCount,
		WrongCount:       result.WrongCount,
		UnattemptedCount: result.UnattemptedCount,
		TimeTaken:        result.TimeTaken,
		IsAuto:           result.IsAuto,
		SubmittedAt:      result.SubmittedAt,
		Revealed:         revealed,
		RevealAt:         revealAt,
		Questions:        make([]QuestionView, len(test.Questions)),
	}

	for i, q := range test.Questions {
		qv := QuestionView{
			ID:       q.ID,
			Position: q.Position,
			Text:     q.Text,
			Options:  q.Options,
			Marks:    q.Marks,
		}
		if i < len(result.Answers) {
			qv.Selected = result.Answers[i].Selected
		}

		if revealed {
			correct := q.CorrectOption
			qv.CorrectOption = &correct
			qv.Explanation = q.Explanation
			outcome := classifyAnswer(q, qv.Selected)
			qv.Outcome = &outcome
		}

		view.Questions[i] = qv
	}

	return view, nil
}

func classifyAnswer(q models.Question, selected *int) string {
	switch {
	case selected == nil:
		return "skipped"
	case *selected == q.CorrectOption:
		return "correct"
	default:
		return "incorrect"
	}
}
