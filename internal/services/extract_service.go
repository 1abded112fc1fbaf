package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ExtractService struct {
	logService LogWriter
}

func NewExtractService(logService LogWriter) (*ExtractService, error) {
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &ExtractService{logService: logService}, nil
}

func (s *ExtractService) ExtractSeries(ctx context.Context, grid TabularGrid, timestampCol int, valueCol int, dataStartRow int, cfg ExtractionConfig) (ExtractedSeries, error) {
	if s == nil {
		return ExtractedSeries{}, errors.New("extract service is nil")
	}
	if dataStartRow < 0 || dataStartRow >= grid.Rows() {
		return ExtractedSeries{}, fmt.Errorf("%w: data start row %d is outside a sheet with %d rows", ErrStructure, dataStartRow, grid.Rows())
	}

	var series ExtractedSeries
	for row := dataStartRow; row < grid.Rows(); row++ {
		series.Timestamps = append(series.Timestamps, readTimestamp(grid.At(row, timestampCol)))
		series.Values = append(series.Values, coerceValue(grid.At(row, valueCol)))
	}

	if cfg.StartDate != nil {
		before := series.Len()
		series = filterFromDate(series, *cfg.StartDate)
		s.info(ctx, fmt.Sprintf("filtered data from %s onwards: %d of %d rows remaining", cfg.StartDate.Format("2006-01-02"), series.Len(), before))
	}

	if len(series.Timestamps) != len(series.Values) {
		return ExtractedSeries{}, fmt.Errorf("%w: %d timestamps vs %d values", ErrAlignment, len(series.Timestamps), len(series.Values))
	}

	if missing := series.MissingCount(); missing > 0 {
		s.warn(ctx, fmt.Sprintf("found %d missing values - these will be preserved", missing))
	}

	return series, nil
}

func (s *ExtractService) info(ctx context.Context, message string) {
	if s.logService == nil {
		return
	}
	msg := message
	_ = s.logService.CreateLog(ctx, LogActionSeriesExtract, LogOutcomeSuccess, &msg)
}

func (s *ExtractService) warn(ctx context.Context, message string) {
	if s.logService == nil {
		return
	}
	msg := message
	_ = s.logService.CreateLog(ctx, LogActionSeriesExtract, LogOutcomeWarn, &msg)
}

func readTimestamp(cell Cell) Timestamp {
	switch cell.Kind {
	case CellDateTime:
		return Timestamp{Raw: cell.Text, Time: cell.Time, Valid: true}
	case CellEmpty:
		return Timestamp{}
	default:
		if parsed, ok := parseTimestamp(cell.Text); ok {
			return Timestamp{Raw: cell.Text, Time: parsed, Valid: true}
		}
		return Timestamp{Raw: cell.Text}
	}
}

func coerceValue(cell Cell) *float64 {
	switch cell.Kind {
	case CellNumber:
		value := cell.Number
		return &value
	case CellText:
		if value, err := strconv.ParseFloat(strings.TrimSpace(cell.Text), 64); err == nil {
			return &value
		}
	}
	return nil
}

// filterFromDate keeps both columns in lockstep; timestamps that never
// parsed are excluded from the keep-set, matching the original behavior.
func filterFromDate(series ExtractedSeries, start time.Time) ExtractedSeries {
	var filtered ExtractedSeries
	for i, ts := range series.Timestamps {
		if !ts.Valid || ts.Time.Before(start) {
			continue
		}
		filtered.Timestamps = append(filtered.Timestamps, ts)
		filtered.Values = append(filtered.Values, series.Values[i])
	}
	return filtered
}
