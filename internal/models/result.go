package models

import (
	"time"

	"gorm.io/datatypes"
)

// Answer is one entry of a submitted answer list, positionally aligned to the
// test's question order at authorization time. A nil Selected means the
// question was left unattempted.
type Answer struct {
	Selected *int `json:"selected"`
}

// Result is the immutable record of one completed attempt. The composite
// unique index on (test_id, student_id) is the authoritative guard against
// duplicate submissions; the application-level existence check is only an
// optimization.
type Result struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TestID    uint   `json:"test_id" gorm:"not null;uniqueIndex:idx_results_test_student"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_results_test_student"`

	Answers datatypes.JSONSlice[Answer] `json:"answers" gorm:"type:jsonb"`

	Score      float64 `json:"score" gorm:"not null"`
	TotalMarks float64 `json:"total_marks" gorm:"not null"`

	CorrectCount     int `json:"correct_count"`
	WrongCount       int `json:"wrong_count"`
	UnattemptedCount int `json:"unattempted_count"`

	TimeTaken   int       `json:"time_taken"` // seconds
	IsAuto      bool      `json:"is_auto"`    // timer or violation triggered the submission
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (Result) TableName() string {
	return "results"
}
