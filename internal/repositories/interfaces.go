package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/openclass-labs/exam-engine/internal/models"
	"gorm.io/gorm"
)

// Repository groups the engine's data access behind one injection point.
type Repository interface {
	Test() TestRepository
	Result() ResultRepository

	Ping(ctx context.Context) error
	Close() error
}

// TestRepository owns the question vault. Read-mostly from the engine's
// perspective; only admin-triggered status transitions mutate it.
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error)
	UpdateStatus(ctx context.Context, id uint, status models.TestStatus) error
	List(ctx context.Context, filters TestFilters) ([]*models.Test, int64, error)
}

// ResultRepository is the attempt ledger: write-once records keyed by
// (test, student). Create must surface the storage-level uniqueness
// violation so callers can map it to the duplicate-attempt outcome.
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByTestAndStudent(ctx context.Context, testID uint, studentID string) (*models.Result, error)
	ExistsByTestAndStudent(ctx context.Context, testID uint, studentID string) (bool, error)
	GetByTest(ctx context.Context, testID uint) ([]*models.Result, error)
	GetByStudent(ctx context.Context, studentID string) ([]*models.Result, error)
}

type TestFilters struct {
	CourseID  *uint              `json:"course_id"`
	Status    *models.TestStatus `json:"status"`
	DateFrom  *time.Time         `json:"date_from"`
	DateTo    *time.Time         `json:"date_to"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "start_at", "created_at", "title"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError reports whether err is the storage layer's missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique constraint violation.
// Requires the gorm connection to be opened with TranslateError enabled.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
