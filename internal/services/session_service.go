package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openclass-labs/exam-engine/internal/enrollment"
	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/repositories"
	"github.com/openclass-labs/exam-engine/internal/utils"
)

// SessionService gate-keeps exam entry. StartSession is read-only: it creates
// no record, so a client may retry it freely after a dropped connection.
type SessionService interface {
	StartSession(ctx context.Context, testID uint, studentID string) (*SessionResponse, error)
}

// SanitizedQuestion is a question stripped of its answer key. This is the only
// question shape that ever leaves the engine before disclosure is permitted.
type SanitizedQuestion struct {
	ID       uint     `json:"id"`
	Position int      `json:"position"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Marks    float64  `json:"marks"`
}

type SessionResponse struct {
	TestID     uint                `json:"test_id"`
	Title      string              `json:"title"`
	Duration   int                 `json:"duration"` // minutes
	TotalMarks float64             `json:"total_marks"`
	Questions  []SanitizedQuestion `json:"questions"`
	ServerTime time.Time           `json:"server_time"`
}

type sessionService struct {
	repo       repositories.Repository
	enrollment enrollment.Provider
	logger     utils.Logger
}

func NewSessionService(repo repositories.Repository, enrollmentProvider enrollment.Provider, logger utils.Logger) SessionService {
	return &sessionService{
		repo:       repo,
		enrollment: enrollmentProvider,
		logger:     logger,
	}
}

// StartSession runs the entry checks in order, short-circuiting on the first
// failure: test exists, test is live, student is enrolled, no prior attempt.
func (s *sessionService) StartSession(ctx context.Context, testID uint, studentID string) (*SessionResponse, error) {
	s.logger.Info("Authorizing exam session",
		"test_id", testID,
		"student_id", studentID)

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if test.Status != models.StatusLive {
		return nil, ErrTestNotLive
	}

	enrolled, err := s.enrollment.IsEnrolled(ctx, studentID, test.CourseID)
	if err != nil {
		return nil, fmt.Errorf("enrollment check failed: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	exists, err := s.repo.Result().ExistsByTestAndStudent(ctx, testID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing result: %w", err)
	}
	if exists {
		return nil, ErrAlreadySubmitted
	}

	s.logger.Info("Exam session authorized",
		"test_id", testID,
		"student_id", studentID,
		"questions", len(test.Questions))

	return buildSessionResponse(test), nil
}

func buildSessionResponse(test *models.Test) *SessionResponse {
	questions := make([]SanitizedQuestion, len(test.Questions))
	for i, q := range test.Questions {
		questions[i] = SanitizedQuestion{
			ID:       q.ID,
			Position: q.Position,
			Text:     q.Text,
			Options:  q.Options,
			Marks:    q.Marks,
		}
	}

	return &SessionResponse{
		TestID:     test.ID,
		Title:      test.Title,
		Duration:   test.Duration,
		TotalMarks: test.TotalMarks,
		Questions:  questions,
		ServerTime: time.Now(),
	}
}
