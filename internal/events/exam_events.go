package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/openclass-labs/exam-engine/internal/models"
)

// EventType identifies the exam lifecycle events the engine publishes.
type EventType string

const (
	EventResultSubmitted   EventType = "result.submitted"
	EventTestStatusChanged EventType = "test.status_changed"
)

// ExamEvent is the envelope for all published exam events.
type ExamEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type ResultSubmittedEvent struct {
	ResultID    uint      `json:"result_id"`
	TestID      uint      `json:"test_id"`
	StudentID   string    `json:"student_id"`
	Score       float64   `json:"score"`
	TotalMarks  float64   `json:"total_marks"`
	IsAuto      bool      `json:"is_auto"`
	TimeTaken   int       `json:"time_taken"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type TestStatusChangedEvent struct {
	TestID    uint              `json:"test_id"`
	CourseID  uint              `json:"course_id"`
	Title     string            `json:"title"`
	OldStatus models.TestStatus `json:"old_status"`
	NewStatus models.TestStatus `json:"new_status"`
	Override  bool              `json:"override"`
	ChangedAt time.Time         `json:"changed_at"`
}

func NewResultSubmittedEvent(result *models.Result) *ExamEvent {
	return &ExamEvent{
		ID:        watermill.NewUUID(),
		Type:      EventResultSubmitted,
		Timestamp: time.Now(),
		Source:    "exam-engine",
		Version:   "1.0",
		Data: ResultSubmittedEvent{
			ResultID:    result.ID,
			TestID:      result.TestID,
			StudentID:   result.StudentID,
			Score:       result.Score,
			TotalMarks:  result.TotalMarks,
			IsAuto:      result.IsAuto,
			TimeTaken:   result.TimeTaken,
			SubmittedAt: result.SubmittedAt,
		},
	}
}

func NewTestStatusChangedEvent(test *models.Test, oldStatus models.TestStatus, override bool) *ExamEvent {
	return &ExamEvent{
		ID:        watermill.NewUUID(),
		Type:      EventTestStatusChanged,
		Timestamp: time.Now(),
		Source:    "exam-engine",
		Version:   "1.0",
		Data: TestStatusChangedEvent{
			TestID:    test.ID,
			CourseID:  test.CourseID,
			Title:     test.Title,
			OldStatus: oldStatus,
			NewStatus: test.Status,
			Override:  override,
			ChangedAt: time.Now(),
		},
	}
}
