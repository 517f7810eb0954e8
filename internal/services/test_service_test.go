package services

import (
	"context"
	"testing"

	"github.com/openclass-labs/exam-engine/internal/events"
	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/openclass-labs/exam-engine/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestTestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewDevelopmentLogger()

	tests := []struct {
		name        string
		current     models.TestStatus
		request     UpdateStatusRequest
		expectWrite bool
		expectedErr error
	}{
		{
			name:        "forward transition scheduled to live",
			current:     models.StatusScheduled,
			request:     UpdateStatusRequest{Status: models.StatusLive},
			expectWrite: true,
		},
		{
			name:        "forward transition live to completed",
			current:     models.StatusLive,
			request:     UpdateStatusRequest{Status: models.StatusCompleted},
			expectWrite: true,
		},
		{
			name:        "skipping a stage is rejected",
			current:     models.StatusDraft,
			request:     UpdateStatusRequest{Status: models.StatusLive},
			expectedErr: ErrTestInvalidTransition,
		},
		{
			name:        "backward move is rejected",
			current:     models.StatusCompleted,
			request:     UpdateStatusRequest{Status: models.StatusLive},
			expectedErr: ErrTestInvalidTransition,
		},
		{
			name:        "override permits a backward move",
			current:     models.StatusCompleted,
			request:     UpdateStatusRequest{Status: models.StatusLive, Override: true},
			expectWrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			publisher := newMockPublisher()
			service := NewTestService(repo, publisher, logger, validator.New())

			test := liveTest()
			test.Status = tt.current
			repo.testRepo.On("GetByID", mock.Anything, uint(42)).
				Return(test, nil)
			if tt.expectWrite {
				repo.testRepo.On("UpdateStatus", mock.Anything, uint(42), tt.request.Status).
					Return(nil)
			}

			updated, err := service.UpdateStatus(ctx, 42, &tt.request)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, updated)
				assert.Empty(t, publisher.PublishedEvents())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.request.Status, updated.Status)

				published := publisher.PublishedEvents()
				assert.Len(t, published, 1)
				assert.Equal(t, events.EventTestStatusChanged, published[0].Type)
			}
			repo.testRepo.AssertExpectations(t)
		})
	}

	t.Run("same status is a no-op", func(t *testing.T) {
		repo := newMockRepository()
		publisher := newMockPublisher()
		service := NewTestService(repo, publisher, logger, validator.New())

		repo.testRepo.On("GetByID", mock.Anything, uint(42)).
			Return(liveTest(), nil)

		updated, err := service.UpdateStatus(ctx, 42, &UpdateStatusRequest{Status: models.StatusLive})

		assert.NoError(t, err)
		assert.Equal(t, models.StatusLive, updated.Status)
		assert.Empty(t, publisher.PublishedEvents())
	})

	t.Run("test not found", func(t *testing.T) {
		repo := newMockRepository()
		service := NewTestService(repo, newMockPublisher(), logger, validator.New())

		repo.testRepo.On("GetByID", mock.Anything, uint(42)).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := service.UpdateStatus(ctx, 42, &UpdateStatusRequest{Status: models.StatusLive})

		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}

func TestStatusCanTransitionTo(t *testing.T) {
	assert.True(t, models.StatusDraft.CanTransitionTo(models.StatusScheduled))
	assert.True(t, models.StatusScheduled.CanTransitionTo(models.StatusLive))
	assert.True(t, models.StatusLive.CanTransitionTo(models.StatusCompleted))

	assert.False(t, models.StatusDraft.CanTransitionTo(models.StatusLive))
	assert.False(t, models.StatusLive.CanTransitionTo(models.StatusScheduled))
	assert.False(t, models.StatusCompleted.CanTransitionTo(models.StatusLive))
	assert.False(t, models.StatusCompleted.CanTransitionTo(models.StatusDraft))
}
