package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Column order is the downstream ingestion contract; the four blank fields
// are reserved for future enrichment.
var csvColumnNames = []string{
	"date",
	"value",
	"meternumber",
	"source_id",
	"source_serialnumber",
	"source_ean",
	"source_name",
	"mapping_config",
	"variable_id",
}

const utf8ByteOrderMark = "\uFEFF"

type CsvService struct{}

func NewCsvService() (*CsvService, error) {
	return &CsvService{}, nil
}

func (s *CsvService) WriteSeries(path string, series ExtractedSeries, meterID string, mapping MeterMapping) (WrittenFile, error) {
	if s == nil {
		return WrittenFile{}, errors.New("csv service is nil")
	}
	if path == "" {
		return WrittenFile{}, errors.New("output path is empty")
	}
	if meterID == "" {
		return WrittenFile{}, errors.New("meter identifier is empty")
	}
	if len(series.Timestamps) != len(series.Values) {
		return WrittenFile{}, fmt.Errorf("%w: %d timestamps vs %d values", ErrAlignment, len(series.Timestamps), len(series.Values))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return WrittenFile{}, fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return WrittenFile{}, fmt.Errorf("create output file: %w", err)
	}

	if _, err := file.WriteString(utf8ByteOrderMark); err != nil {
		_ = file.Close()
		return WrittenFile{}, fmt.Errorf("write byte order mark: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvColumnNames); err != nil {
		_ = file.Close()
		return WrittenFile{}, fmt.Errorf("write header: %w", err)
	}

	for i := range series.Timestamps {
		record := assembleRecord(series.Timestamps[i], series.Values[i], meterID, mapping)
		if err := writer.Write(record); err != nil {
			_ = file.Close()
			return WrittenFile{}, fmt.Errorf("write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return WrittenFile{}, fmt.Errorf("flush output: %w", err)
	}

	if err := file.Close(); err != nil {
		return WrittenFile{}, fmt.Errorf("close output file: %w", err)
	}

	return WrittenFile{Path: path, Rows: series.Len()}, nil
}

func assembleRecord(ts Timestamp, value *float64, meterID string, mapping MeterMapping) []string {
	valueText := ""
	if value != nil {
		valueText = strconv.FormatFloat(*value, 'f', -1, 64)
	}

	return []string{
		ts.Raw,
		valueText,
		meterID,
		mapping.SourceID,
		"",
		"",
		"",
		"",
		mapping.VariableID,
	}
}
