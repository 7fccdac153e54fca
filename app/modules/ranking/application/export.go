package rankingservice

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportLeaderboard renders the active snapshot as an xlsx workbook with one
// row per forecaster. Private forecasters are exported without their ID.
func (s *RankingService) ExportLeaderboard(ctx context.Context) ([]byte, error) {
	snapshot, err := s.repo.GetActiveSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leaderboard"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Rank", "Forecaster", "Tier", "Composite Score", "Brier Score", "Resolved", "Total", "Streak Days", "Previous Rank"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	for i, entry := range snapshot.Entries {
		forecaster := entry.ForecasterID
		if entry.IsPrivate {
			forecaster = "(private)"
		}

		previousRank := any("new")
		if entry.PreviousRank != nil {
			previousRank = *entry.PreviousRank
		}

		values := []any{
			entry.Rank,
			forecaster,
			string(entry.Tier),
			float64(entry.CompositeScore),
			entry.BrierScore,
			entry.ResolvedForecasts,
			entry.TotalForecasts,
			entry.StreakDays,
			previousRank,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export workbook: %w", err)
	}
	return buffer.Bytes(), nil
}
