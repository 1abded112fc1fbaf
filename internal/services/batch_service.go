package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultBatchPattern = "*.xlsx"

type BatchService struct {
	xlsxService    GridLoader
	convertService Converter
	processedFiles ProcessedRegistry
	logService     LogWriter
}

// NewBatchService accepts a nil registry: the CLI runs without a database
// and reprocesses freely, while serve mode passes the gorm-backed registry
// to dedupe scheduled runs.
func NewBatchService(xlsxService GridLoader, convertService Converter, processedFiles ProcessedRegistry, logService LogWriter) (*BatchService, error) {
	if xlsxService == nil {
		return nil, errors.New("xlsx service is nil")
	}
	if convertService == nil {
		return nil, errors.New("convert service is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &BatchService{
		xlsxService:    xlsxService,
		convertService: convertService,
		processedFiles: processedFiles,
		logService:     logService,
	}, nil
}

// ProcessDirectory converts every matching file in inputDir. One file's
// failure is recorded against that file only and never aborts the rest.
func (s *BatchService) ProcessDirectory(ctx context.Context, inputDir string, outputDir string, pattern string, table MappingTable, cfg ExtractionConfig, consumptionType string) ([]FileResult, error) {
	if s == nil {
		return nil, errors.New("batch service is nil")
	}
	if inputDir == "" {
		return nil, errors.New("input directory is empty")
	}
	if outputDir == "" {
		return nil, errors.New("output directory is empty")
	}

	files, err := listInputFiles(inputDir, pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		s.log(ctx, LogOutcomeWarn, fmt.Sprintf("no input files found in %s", inputDir))
		return nil, nil
	}

	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		name := filepath.Base(file)

		if s.processedFiles != nil {
			processed, err := s.processedFiles.IsProcessed(ctx, name)
			if err != nil {
				results = append(results, FileResult{Filename: name, Status: FileStatusError, Message: err.Error()})
				continue
			}
			if processed {
				results = append(results, FileResult{Filename: name, Status: FileStatusSkipped})
				continue
			}
		}

		if err := s.processFile(ctx, file, outputDir, table, cfg, consumptionType); err != nil {
			s.log(ctx, LogOutcomeFail, fmt.Sprintf("file=%s: %v", name, err))
			results = append(results, FileResult{Filename: name, Status: FileStatusError, Message: err.Error()})
			s.markProcessed(ctx, name, FileStatusError)
			continue
		}

		s.log(ctx, LogOutcomeSuccess, fmt.Sprintf("file=%s", name))
		results = append(results, FileResult{Filename: name, Status: FileStatusSuccess})
		s.markProcessed(ctx, name, FileStatusSuccess)
	}

	return results, nil
}

func (s *BatchService) processFile(ctx context.Context, path string, outputDir string, table MappingTable, cfg ExtractionConfig, consumptionType string) error {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return s.processZip(ctx, path, outputDir, table, cfg, consumptionType)
	}

	grid, err := s.xlsxService.LoadGrid(ctx, path, cfg.SheetIndex)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, stemOf(path)+".csv")
	_, err = s.convertService.Convert(ctx, grid, outputPath, table, cfg, consumptionType)
	return err
}

func (s *BatchService) processZip(ctx context.Context, path string, outputDir string, table MappingTable, cfg ExtractionConfig, consumptionType string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read zip: %w", err)
	}

	payloads, err := s.xlsxService.ExtractGridsFromZip(ctx, content, cfg.SheetIndex)
	if err != nil {
		return err
	}

	for _, payload := range payloads {
		outputPath := filepath.Join(outputDir, stemOf(payload.SourceFile)+".csv")
		if _, err := s.convertService.Convert(ctx, payload.Grid, outputPath, table, cfg, consumptionType); err != nil {
			return fmt.Errorf("convert %s: %w", payload.SourceFile, err)
		}
	}

	return nil
}

func (s *BatchService) markProcessed(ctx context.Context, filename string, outcome string) {
	if s.processedFiles == nil {
		return
	}
	if err := s.processedFiles.MarkProcessed(ctx, filename, outcome); err != nil {
		s.log(ctx, LogOutcomeFail, fmt.Sprintf("mark processed file=%s: %v", filename, err))
	}
}

func (s *BatchService) log(ctx context.Context, outcome string, message string) {
	msg := message
	_ = s.logService.CreateLog(ctx, LogActionBatchProcess, outcome, &msg)
}

// listInputFiles expands the default pattern to both extension cases plus
// zipped export bundles; a custom pattern is used verbatim.
func listInputFiles(dir string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = defaultBatchPattern
	}

	patterns := []string{pattern}
	if pattern == defaultBatchPattern {
		patterns = []string{"*.xlsx", "*.XLSX", "*.zip"}
	}

	var files []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, p))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}

	return files, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
