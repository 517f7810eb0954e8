package services

import (
	"context"
	"fmt"

	"github.com/openclass-labs/exam-engine/internal/events"
	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/repositories"
	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/openclass-labs/exam-engine/internal/validator"
)

// TestService exposes the slice of test administration the engine owns:
// reading test state and applying status transitions. Everything else about
// test authoring belongs to the course administration service.
type TestService interface {
	GetByID(ctx context.Context, testID uint) (*models.Test, error)
	List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error)
	UpdateStatus(ctx context.Context, testID uint, req *UpdateStatusRequest) (*models.Test, error)
}

type UpdateStatusRequest struct {
	Status models.TestStatus `json:"status" validate:"required,test_status"`
	// Override permits a non-forward transition (administrative action).
	Override bool `json:"override"`
}

type testService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
}

func NewTestService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, v *validator.Validator) TestService {
	return &testService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *testService) GetByID(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return test, nil
}

func (s *testService) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	tests, total, err := s.repo.Test().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, total, nil
}

// UpdateStatus applies a status transition. A test only moves forward
// (Draft -> Scheduled -> Live -> Completed) unless Override is set.
func (s *testService) UpdateStatus(ctx context.Context, testID uint, req *UpdateStatusRequest) (*models.Test, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	oldStatus := test.Status
	if oldStatus == req.Status {
		return test, nil
	}
	if !req.Override && !oldStatus.CanTransitionTo(req.Status) {
		return nil, ErrTestInvalidTransition
	}

	if err := s.repo.Test().UpdateStatus(ctx, testID, req.Status); err != nil {
		return nil, fmt.Errorf("failed to update test status: %w", err)
	}
	test.Status = req.Status

	s.logger.Info("Test status changed",
		"test_id", testID,
		"old_status", oldStatus,
		"new_status", req.Status,
		"override", req.Override)

	if err := s.publisher.PublishExamEvent(ctx, events.NewTestStatusChangedEvent(test, oldStatus, req.Override)); err != nil {
		s.logger.Error("Failed to publish status event",
			"test_id", testID, "error", err)
	}

	return test, nil
}
