package services

import "context"

type LogWriter interface {
	CreateLog(ctx context.Context, action string, outcome string, message *string) error
}

type GridLoader interface {
	LoadGrid(ctx context.Context, path string, sheetIndex int) (TabularGrid, error)
	LoadGridFromBytes(ctx context.Context, content []byte, sheetIndex int) (TabularGrid, error)
	ExtractGridsFromZip(ctx context.Context, zipBytes []byte, sheetIndex int) ([]GridPayload, error)
}

type LayoutLocator interface {
	ValidateStructure(grid TabularGrid, cfg ExtractionConfig) error
	ExtractMeterID(grid TabularGrid, cfg ExtractionConfig) (string, error)
	FindDataStartRow(ctx context.Context, grid TabularGrid, cfg ExtractionConfig) int
	FindValueColumn(grid TabularGrid, consumptionType string) (int, error)
	FindTimestampColumn(ctx context.Context, grid TabularGrid, cfg ExtractionConfig, consumptionType string) int
}

type SeriesSlicer interface {
	ExtractSeries(ctx context.Context, grid TabularGrid, timestampCol int, valueCol int, dataStartRow int, cfg ExtractionConfig) (ExtractedSeries, error)
}

type RecordWriter interface {
	WriteSeries(path string, series ExtractedSeries, meterID string, mapping MeterMapping) (WrittenFile, error)
}

type Converter interface {
	Convert(ctx context.Context, grid TabularGrid, outputPath string, table MappingTable, cfg ExtractionConfig, consumptionType string) ([]WrittenFile, error)
}

type ProcessedRegistry interface {
	IsProcessed(ctx context.Context, filename string) (bool, error)
	MarkProcessed(ctx context.Context, filename string, outcome string) error
}
