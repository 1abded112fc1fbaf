package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	headerMarker      = "role description"
	dataStartMarker   = "profile description"
	headerScanRows    = 5
	dataScanRows      = 6
	timestampScanCols = 4
	consumptionPrefix = "MEASURED"
)

var yearToken = regexp.MustCompile(`20\d{2}`)

type LayoutService struct {
	logService LogWriter
}

func NewLayoutService(logService LogWriter) (*LayoutService, error) {
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &LayoutService{logService: logService}, nil
}

func (s *LayoutService) ValidateStructure(grid TabularGrid, cfg ExtractionConfig) error {
	if s == nil {
		return errors.New("layout service is nil")
	}

	if grid.Rows() < cfg.MinRows {
		return fmt.Errorf("%w: sheet has %d rows, need at least %d; this sheet may be empty or summary-only", ErrStructure, grid.Rows(), cfg.MinRows)
	}
	if grid.Cols() < cfg.MinCols {
		return fmt.Errorf("%w: sheet has %d columns, need at least %d; this sheet may be a summary or pivot table", ErrStructure, grid.Cols(), cfg.MinCols)
	}
	if grid.At(cfg.HeaderRow, cfg.HeaderCol).IsEmpty() {
		return fmt.Errorf("%w: identifier cell (%d,%d) is empty; this may not be a data sheet", ErrStructure, cfg.HeaderRow, cfg.HeaderCol)
	}

	return nil
}

func (s *LayoutService) ExtractMeterID(grid TabularGrid, cfg ExtractionConfig) (string, error) {
	if s == nil {
		return "", errors.New("layout service is nil")
	}

	cell := grid.At(cfg.HeaderRow, cfg.HeaderCol)
	if cell.IsEmpty() {
		return "", fmt.Errorf("%w: identifier cell (%d,%d) is empty", ErrIdentifier, cfg.HeaderRow, cfg.HeaderCol)
	}
	if !strings.Contains(cell.Text, "_") {
		return "", fmt.Errorf("%w: identifier cell %q has no underscore separator", ErrIdentifier, cell.Text)
	}

	meterID := strings.TrimSpace(strings.SplitN(cell.Text, "_", 2)[0])
	if meterID == "" {
		return "", fmt.Errorf("%w: identifier is empty after extraction", ErrIdentifier)
	}

	return meterID, nil
}

func (s *LayoutService) FindHeaderRow(grid TabularGrid) (int, error) {
	if s == nil {
		return 0, errors.New("layout service is nil")
	}

	if row, ok := findMarkerRow(grid, headerMarker, headerScanRows); ok {
		return row, nil
	}

	return 0, fmt.Errorf("%w: no cell containing %q in the first %d rows", ErrHeaderNotFound, "Role description", headerScanRows)
}

// FindDataStartRow degrades to the configured default instead of failing:
// a missing marker is common in degraded exports, and a wrong start row is
// visible downstream in a way a wrong value column is not.
func (s *LayoutService) FindDataStartRow(ctx context.Context, grid TabularGrid, cfg ExtractionConfig) int {
	if s == nil {
		return 0
	}

	if row, ok := findMarkerRow(grid, dataStartMarker, dataScanRows); ok {
		return row + 1
	}

	s.warn(ctx, fmt.Sprintf("could not find %q marker, using default data start row %d", "Profile description", cfg.DataStartRow))
	return cfg.DataStartRow
}

func (s *LayoutService) FindValueColumn(grid TabularGrid, consumptionType string) (int, error) {
	if s == nil {
		return 0, errors.New("layout service is nil")
	}
	if consumptionType == "" {
		return 0, errors.New("consumption type is empty")
	}

	headerRow, err := s.FindHeaderRow(grid)
	if err != nil {
		return 0, err
	}

	for col := 0; col < grid.Cols(); col++ {
		cell := grid.At(headerRow, col)
		if !cell.IsEmpty() && cell.Text == consumptionType {
			return col, nil
		}
	}

	var available []string
	for col := 0; col < grid.Cols(); col++ {
		cell := grid.At(headerRow, col)
		if !cell.IsEmpty() && strings.HasPrefix(cell.Text, consumptionPrefix) {
			available = append(available, cell.Text)
		}
	}

	return 0, fmt.Errorf("%w: consumption type %q not found in header row %d; available types: %v", ErrColumnNotFound, consumptionType, headerRow+1, available)
}

// FindTimestampColumn tries, in order: the header label, two content
// heuristics over sampled data rows, the column left of the value column,
// and a last check on column 0, before defaulting to column 0 outright.
func (s *LayoutService) FindTimestampColumn(ctx context.Context, grid TabularGrid, cfg ExtractionConfig, consumptionType string) int {
	if s == nil {
		return 0
	}

	headerRow, err := s.FindHeaderRow(grid)
	if err != nil {
		s.warn(ctx, "could not find header row, using content heuristic for timestamp column")
		dataStart := s.FindDataStartRow(ctx, grid, cfg)
		if col, ok := sampleDateColumn(grid, dataStart, 3, 2, "-:", false); ok {
			return col
		}
		s.warn(ctx, "could not detect timestamp column, using column 0")
		return 0
	}

	for col := 0; col < grid.Cols(); col++ {
		cell := grid.At(headerRow, col)
		if !cell.IsEmpty() && strings.Contains(strings.ToLower(cell.Text), "date") {
			return col
		}
	}

	dataStart := s.FindDataStartRow(ctx, grid, cfg)
	if col, ok := sampleDateColumn(grid, dataStart, 5, 3, ":", true); ok {
		return col
	}

	if valueCol, err := s.FindValueColumn(grid, consumptionType); err == nil && valueCol > 0 {
		return valueCol - 1
	}

	if looksDateLike(grid.At(dataStart, 0), ":") {
		return 0
	}

	s.warn(ctx, "could not detect timestamp column reliably, using column 0")
	return 0
}

func (s *LayoutService) warn(ctx context.Context, message string) {
	if s.logService == nil {
		return
	}
	msg := message
	_ = s.logService.CreateLog(ctx, LogActionLayoutDetect, LogOutcomeWarn, &msg)
}

func findMarkerRow(grid TabularGrid, marker string, maxRows int) (int, bool) {
	limit := maxRows
	if grid.Rows() < limit {
		limit = grid.Rows()
	}

	for row := 0; row < limit; row++ {
		for col := 0; col < grid.Cols(); col++ {
			cell := grid.At(row, col)
			if !cell.IsEmpty() && strings.Contains(strings.ToLower(cell.Text), marker) {
				return row, true
			}
		}
	}

	return 0, false
}

func sampleDateColumn(grid TabularGrid, startRow int, samples int, threshold int, separators string, requireParse bool) (int, bool) {
	maxCols := timestampScanCols
	if grid.Cols() < maxCols {
		maxCols = grid.Cols()
	}

	for col := 0; col < maxCols; col++ {
		count := 0
		for row := startRow; row < startRow+samples && row < grid.Rows(); row++ {
			cell := grid.At(row, col)
			if !looksDateLike(cell, separators) {
				continue
			}
			if requireParse && cell.Kind != CellDateTime {
				if _, ok := parseTimestamp(cell.Text); !ok {
					continue
				}
			}
			count++
		}
		if count >= threshold {
			return col, true
		}
	}

	return 0, false
}

func looksDateLike(cell Cell, separators string) bool {
	if cell.IsEmpty() {
		return false
	}
	if cell.Kind == CellDateTime {
		return true
	}
	if yearToken.MatchString(cell.Text) {
		return true
	}
	return strings.ContainsAny(cell.Text, separators)
}
