package postgres

import (
	"context"

	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// Create inserts the write-once result record. A concurrent duplicate for the
// same (test, student) pair fails on the composite unique index; with
// TranslateError enabled the error surfaces as gorm.ErrDuplicatedKey.
func (r ResultPostgreSQL) Create(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r ResultPostgreSQL) GetByTestAndStudent(ctx context.Context, testID uint, studentID string) (*models.Result, error) {
	var result models.Result
	if err := r.db.WithContext(ctx).
		Where("test_id = ? AND student_id = ?", testID, studentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) ExistsByTestAndStudent(ctx context.Context, testID uint, studentID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("test_id = ? AND student_id = ?", testID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r ResultPostgreSQL) GetByTest(ctx context.Context, testID uint) ([]*models.Result, error) {
	var results []*models.Result
	if err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("submitted_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r ResultPostgreSQL) GetByStudent(ctx context.Context, studentID string) ([]*models.Result, error) {
	var results []*models.Result
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
