package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ExportService renders test standings to downloadable formats for course
// administrators.
type ExportService interface {
	ExportLeaderboardToExcel(ctx context.Context, testID uint) ([]byte, error)
	ExportLeaderboardToCSV(ctx context.Context, testID uint) ([]byte, error)
}

type exportService struct {
	leaderboard LeaderboardService
	logger      utils.Logger
}

func NewExportService(leaderboard LeaderboardService, logger utils.Logger) ExportService {
	return &exportService{
		leaderboard: leaderboard,
		logger:      logger,
	}
}

var leaderboardHeaders = []string{
	"Rank", "Student ID", "Name", "Email", "Status", "Marks", "Time Taken (s)", "Submitted At",
}

func (s *exportService) ExportLeaderboardToExcel(ctx context.Context, testID uint) ([]byte, error) {
	board, err := s.leaderboard.GetLeaderboard(ctx, testID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Leaderboard"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range leaderboardHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range board.Entries {
		row := leaderboardRow(entry)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Leaderboard exported",
		"test_id", testID,
		"format", "xlsx",
		"entries", len(board.Entries))

	return buf.Bytes(), nil
}

func (s *exportService) ExportLeaderboardToCSV(ctx context.Context, testID uint) ([]byte, error) {
	board, err := s.leaderboard.GetLeaderboard(ctx, testID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(leaderboardHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range board.Entries {
		row := make([]string, 0, len(leaderboardHeaders))
		for _, value := range leaderboardRow(entry) {
			row = append(row, fmt.Sprintf("%v", value))
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	s.logger.Info("Leaderboard exported",
		"test_id", testID,
		"format", "csv",
		"entries", len(board.Entries))

	return buf.Bytes(), nil
}

func leaderboardRow(entry LeaderboardEntry) []interface{} {
	row := []interface{}{
		entry.Rank,
		entry.StudentID,
		entry.Name,
		entry.Email,
		string(entry.Status),
		strconv.FormatFloat(entry.Marks, 'f', 2, 64),
	}

	if entry.TimeTaken != nil {
		row = append(row, *entry.TimeTaken)
	} else {
		row = append(row, "")
	}

	if entry.SubmittedAt != nil {
		row = append(row, entry.SubmittedAt.Format("2006-01-02 15:04:05"))
	} else {
		row = append(row, "")
	}

	return row
}
