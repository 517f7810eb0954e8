package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openclass-labs/exam-engine/internal/enrollment"
	"github.com/openclass-labs/exam-engine/internal/repositories"
	"github.com/openclass-labs/exam-engine/internal/utils"
)

type ParticipationStatus string

const (
	StatusAttempted ParticipationStatus = "Attempted"
	StatusAbsent    ParticipationStatus = "Absent"
)

// LeaderboardService merges the enrollment roster with the attempt ledger into
// absentee-aware standings. Rank is never persisted; it is recomputed on every
// read so late-arriving results show up immediately.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, testID uint) (*Leaderboard, error)
}

type LeaderboardEntry struct {
	Rank        int                 `json:"rank"`
	StudentID   string              `json:"student_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Status      ParticipationStatus `json:"status"`
	Marks       float64             `json:"marks"`
	TimeTaken   *int                `json:"time_taken,omitempty"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
}

type Leaderboard struct {
	TestID     uint               `json:"test_id"`
	Title      string             `json:"title"`
	TotalMarks float64            `json:"total_marks"`
	Entries    []LeaderboardEntry `json:"entries"`
}

type leaderboardService struct {
	repo       repositories.Repository
	enrollment enrollment.Provider
	logger     utils.Logger
}

func NewLeaderboardService(repo repositories.Repository, enrollmentProvider enrollment.Provider, logger utils.Logger) LeaderboardService {
	return &leaderboardService{
		repo:       repo,
		enrollment: enrollmentProvider,
		logger:     logger,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, testID uint) (*Leaderboard, error) {
	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	roster, err := s.enrollment.ListRoster(ctx, test.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}

	results, err := s.repo.Result().GetByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	resultsByStudent := make(map[string]int, len(results))
	for i, r := range results {
		resultsByStudent[r.StudentID] = i
	}

	entries := make([]LeaderboardEntry, 0, len(roster))
	for _, student := range roster {
		entry := LeaderboardEntry{
			StudentID: student.StudentID,
			Name:      student.Name,
			Email:     student.Email,
			Status:    StatusAbsent,
			Marks:     0,
		}

		if i, ok := resultsByStudent[student.StudentID]; ok {
			r := results[i]
			entry.Status = StatusAttempted
			entry.Marks = r.Score
			entry.TimeTaken = &r.TimeTaken
			entry.SubmittedAt = &r.SubmittedAt
		}

		entries = append(entries, entry)
	}

	// Stable sort: ties keep roster order, no secondary key.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Marks > entries[j].Marks
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.logger.Debug("Leaderboard computed",
		"test_id", testID,
		"enrolled", len(roster),
		"attempted", len(results))

	return &Leaderboard{
		TestID:     test.ID,
		Title:      test.Title,
		TotalMarks: test.TotalMarks,
		Entries:    entries,
	}, nil
}
