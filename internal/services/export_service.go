package services

import (
	"context"
	"fmt"

	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo        repositories.Repository
	leaderboard LeaderboardService
	logger      utils.Logger
}

func NewExportService(repo repositories.Repository, leaderboard LeaderboardService, logger utils.Logger) ExportService {
	return &exportService{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// ExportTestResults produces an XLSX workbook with one row per completed
// attempt on the test, plus a ranked summary sheet of best attempts.
func (s *exportService) ExportTestResults(ctx context.Context, testID uint, identity models.Identity) ([]byte, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "test_results", "export", "requires officer role")
	}

	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	attempts, err := s.repo.Attempt().GetCompletedByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const attemptsSheet = "Attempts"
	f.SetSheetName("Sheet1", attemptsSheet)

	attemptHeaders := []string{"Student ID", "Student Name", "Attempt", "Mark", "Wrong", "Not Answered", "Total", "Percentage", "Passed", "Time Taken (s)", "End Reason", "Completed At"}
	if err := writeHeaderRow(f, attemptsSheet, attemptHeaders); err != nil {
		return nil, err
	}

	for i, a := range attempts {
		endReason := ""
		if a.EndReason != nil {
			endReason = *a.EndReason
		}
		completedAt := ""
		if a.CompletedAt != nil {
			completedAt = a.CompletedAt.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			a.StudentID,
			a.Student.FullName,
			a.AttemptNumber,
			a.Mark,
			a.WrongCount,
			a.NotAnsweredCount,
			a.TotalQuestions,
			a.Percentage,
			a.Passed,
			a.TimeTaken,
			endReason,
			completedAt,
		}
		if err := writeDataRow(f, attemptsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	const rankingSheet = "Ranking"
	if _, err := f.NewSheet(rankingSheet); err != nil {
		return nil, fmt.Errorf("failed to create ranking sheet: %w", err)
	}

	rankingHeaders := []string{"Rank", "Student ID", "Student Name", "Mark", "Percentage", "Attempt", "Completed At"}
	if err := writeHeaderRow(f, rankingSheet, rankingHeaders); err != nil {
		return nil, err
	}

	for i, entry := range rankTestAttempts(attempts) {
		completedAt := ""
		if entry.CompletedAt != nil {
			completedAt = entry.CompletedAt.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			entry.Rank,
			entry.StudentID,
			entry.StudentName,
			entry.Mark,
			entry.Percentage,
			entry.AttemptNumber,
			completedAt,
		}
		if err := writeDataRow(f, rankingSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "test results exported",
		"test_id", testID,
		"test_name", test.Name,
		"attempts", len(attempts),
		"exported_by", identity.UserID)

	return buf.Bytes(), nil
}

// ExportLeaderboard produces an XLSX workbook of the overall standings.
func (s *exportService) ExportLeaderboard(ctx context.Context, identity models.Identity) ([]byte, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "leaderboard", "export", "requires officer role")
	}

	board, err := s.leaderboard.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leaderboard"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Student ID", "Student Name", "Total Mark", "Tests Taken", "Average Percentage"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, entry := range board.OverallRankings {
		row := []interface{}{
			entry.Rank,
			entry.StudentID,
			entry.StudentName,
			entry.TotalMark,
			entry.TestsTaken,
			entry.AveragePercentage,
		}
		if err := writeDataRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "leaderboard exported",
		"students", len(board.OverallRankings),
		"exported_by", identity.UserID)

	return buf.Bytes(), nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	return nil
}

func writeDataRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}
	return nil
}
