package services

import (
	"context"

	"github.com/openclass-labs/exam-engine/internal/enrollment"
	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockTestRepository is a mock implementation of TestRepository
type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) Create(ctx context.Context, test *models.Test) error {
	args := m.Called(ctx, test)
	return args.Error(0)
}

func (m *MockTestRepository) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *MockTestRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *MockTestRepository) UpdateStatus(ctx context.Context, id uint, status models.TestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTestRepository) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Test), args.Get(1).(int64), args.Error(2)
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *models.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByTestAndStudent(ctx context.Context, testID uint, studentID string) (*models.Result, error) {
	args := m.Called(ctx, testID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Result), args.Error(1)
}

func (m *MockResultRepository) ExistsByTestAndStudent(ctx context.Context, testID uint, studentID string) (bool, error) {
	args := m.Called(ctx, testID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResultRepository) GetByTest(ctx context.Context, testID uint) ([]*models.Result, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Result), args.Error(1)
}

func (m *MockResultRepository) GetByStudent(ctx context.Context, studentID string) ([]*models.Result, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Result), args.Error(1)
}

// MockRepository is a mock implementation of the main Repository interface
type MockRepository struct {
	mock.Mock
	testRepo   *MockTestRepository
	resultRepo *MockResultRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		testRepo:   &MockTestRepository{},
		resultRepo: &MockResultRepository{},
	}
}

func (m *MockRepository) Test() repositories.TestRepository     { return m.testRepo }
func (m *MockRepository) Result() repositories.ResultRepository { return m.resultRepo }
func (m *MockRepository) Ping(ctx context.Context) error        { return nil }
func (m *MockRepository) Close() error                          { return nil }

// MockEnrollmentProvider is a mock implementation of enrollment.Provider
type MockEnrollmentProvider struct {
	mock.Mock
}

func (m *MockEnrollmentProvider) IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentProvider) ListRoster(ctx context.Context, courseID uint) ([]enrollment.RosterEntry, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.RosterEntry), args.Error(1)
}

func intPtr(i int) *int { return &i }
