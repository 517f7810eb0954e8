package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TestStatus string

const (
	StatusDraft     TestStatus = "Draft"
	StatusScheduled TestStatus = "Scheduled"
	StatusLive      TestStatus = "Live"
	StatusCompleted TestStatus = "Completed"
)

// forwardTransitions lists the allowed non-administrative status moves.
// A test only moves forward; anything else requires an admin override.
var forwardTransitions = map[TestStatus]TestStatus{
	StatusDraft:     StatusScheduled,
	StatusScheduled: StatusLive,
	StatusLive:      StatusCompleted,
}

// CanTransitionTo reports whether moving to next is a legal forward transition.
func (s TestStatus) CanTransitionTo(next TestStatus) bool {
	return forwardTransitions[s] == next
}

type Test struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	CourseID uint       `json:"course_id" gorm:"not null;index" validate:"required"`
	Title    string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	StartAt  time.Time  `json:"start_at" gorm:"not null"`
	Duration int        `json:"duration" gorm:"not null" validate:"required,min=1,max=300"` // minutes
	Status   TestStatus `json:"status" gorm:"default:Draft;index" validate:"omitempty,test_status"`

	TotalMarks  float64 `json:"total_marks" gorm:"not null"`
	ManualStart bool    `json:"manual_start" gorm:"default:false"`

	Questions []Question `json:"questions" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Test) TableName() string {
	return "tests"
}

// Question is embedded in a Test. The answer key fields are never serialized
// with the model; only response views expose them, and only after the
// disclosure window opens.
type Question struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	TestID   uint `json:"test_id" gorm:"not null;index"`
	Position int  `json:"position" gorm:"not null"` // zero-based order within the test

	Text    string                      `json:"text" gorm:"type:text;not null" validate:"required"`
	Options datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb" validate:"required,min=2"`

	CorrectOption int     `json:"-" gorm:"not null"`
	Marks         float64 `json:"marks" gorm:"default:1" validate:"min=0"`
	Explanation   *string `json:"-" gorm:"type:text"`
}

func (Question) TableName() string {
	return "questions"
}
