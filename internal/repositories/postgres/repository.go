package postgres

import (
	"context"

	"github.com/openclass-labs/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db     *gorm.DB
	test   repositories.TestRepository
	result repositories.ResultRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:     db,
		test:   NewTestPostgreSQL(db),
		result: NewResultPostgreSQL(db),
	}
}

func (r *repository) Test() repositories.TestRepository {
	return r.test
}

func (r *repository) Result() repositories.ResultRepository {
	return r.result
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
