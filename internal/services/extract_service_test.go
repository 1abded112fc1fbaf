package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestExtractService(t *testing.T) (*ExtractService, *stubLogWriter) {
	t.Helper()

	logWriter := &stubLogWriter{}
	service, err := NewExtractService(logWriter)
	if err != nil {
		t.Fatalf("NewExtractService: %v", err)
	}

	return service, logWriter
}

func TestNewExtractServiceNilLogService(t *testing.T) {
	if _, err := NewExtractService(nil); err == nil {
		t.Fatalf("NewExtractService nil log service: expected error")
	}
}

func TestExtractSeries(t *testing.T) {
	service, _ := newTestExtractService(t)
	cfg := DefaultExtractionConfig()

	grid := NewGrid(meterSheet(defaultDataRows()))
	series, err := service.ExtractSeries(context.Background(), grid, 1, 2, 4, cfg)
	if err != nil {
		t.Fatalf("ExtractSeries: %v", err)
	}

	if series.Len() != 3 {
		t.Fatalf("series length = %d, want 3", series.Len())
	}
	if !series.Timestamps[0].Valid {
		t.Fatalf("first timestamp not valid")
	}
	if series.Timestamps[0].Raw != "2024-01-01 00:15:00" {
		t.Fatalf("first raw = %q", series.Timestamps[0].Raw)
	}
	if series.Values[0] == nil || *series.Values[0] != 1.5 {
		t.Fatalf("first value = %v, want 1.5", series.Values[0])
	}
	if series.Values[2] == nil || *series.Values[2] != 3 {
		t.Fatalf("third value = %v, want 3", series.Values[2])
	}
}

func TestExtractSeriesPreservesMissingValues(t *testing.T) {
	service, logWriter := newTestExtractService(t)
	cfg := DefaultExtractionConfig()

	grid := NewGrid(meterSheet([][]string{
		{"", "2024-01-01 00:15:00", "1.5", "0"},
		{"", "2024-01-01 00:30:00", "", "0"},
		{"", "2024-01-01 00:45:00", "not a number", "0"},
	}))

	series, err := service.ExtractSeries(context.Background(), grid, 1, 2, 4, cfg)
	if err != nil {
		t.Fatalf("ExtractSeries: %v", err)
	}

	if series.Len() != 3 {
		t.Fatalf("series length = %d, want 3", series.Len())
	}
	if series.Values[1] != nil {
		t.Fatalf("empty cell value = %v, want nil", series.Values[1])
	}
	if series.Values[2] != nil {
		t.Fatalf("non-numeric value = %v, want nil", series.Values[2])
	}
	if series.MissingCount() != 2 {
		t.Fatalf("missing count = %d, want 2", series.MissingCount())
	}
	if len(logWriter.warnings()) == 0 {
		t.Fatalf("expected a warning about missing values")
	}
}

func TestExtractSeriesKeepsUnparseableTimestamps(t *testing.T) {
	service, _ := newTestExtractService(t)
	cfg := DefaultExtractionConfig()

	grid := NewGrid(meterSheet([][]string{
		{"", "2024-01-01 00:15:00", "1.5", "0"},
		{"", "total", "2.5", "0"},
	}))

	series, err := service.ExtractSeries(context.Background(), grid, 1, 2, 4, cfg)
	if err != nil {
		t.Fatalf("ExtractSeries: %v", err)
	}

	if series.Len() != 2 {
		t.Fatalf("series length = %d, want 2", series.Len())
	}
	if series.Timestamps[1].Valid {
		t.Fatalf("unparseable timestamp marked valid")
	}
	if series.Timestamps[1].Raw != "total" {
		t.Fatalf("raw = %q, want %q", series.Timestamps[1].Raw, "total")
	}
}

func TestExtractSeriesStartDateInclusive(t *testing.T) {
	service, _ := newTestExtractService(t)
	cfg := DefaultExtractionConfig()
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	cfg.StartDate = &start

	grid := NewGrid(meterSheet([][]string{
		{"", "2024-01-01 23:45:00", "1", "0"},
		{"", "2024-01-02 00:00:00", "2", "0"},
		{"", "2024-01-02 00:15:00", "3", "0"},
	}))

	series, err := service.ExtractSeries(context.Background(), grid, 1, 2, 4, cfg)
	if err != nil {
		t.Fatalf("ExtractSeries: %v", err)
	}

	if series.Len() != 2 {
		t.Fatalf("series length = %d, want 2", series.Len())
	}
	if series.Timestamps[0].Raw != "2024-01-02 00:00:00" {
		t.Fatalf("first kept timestamp = %q, want the exact start date", series.Timestamps[0].Raw)
	}
	if series.Values[0] == nil || *series.Values[0] != 2 {
		t.Fatalf("first kept value = %v, want 2", series.Values[0])
	}
}

func TestExtractSeriesDataStartRowOutOfRange(t *testing.T) {
	service, _ := newTestExtractService(t)
	cfg := DefaultExtractionConfig()

	grid := NewGrid(meterSheet(defaultDataRows()))
	if _, err := service.ExtractSeries(context.Background(), grid, 1, 2, grid.Rows(), cfg); !errors.Is(err, ErrStructure) {
		t.Fatalf("err = %v, want ErrStructure", err)
	}
}
