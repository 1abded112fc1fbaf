package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

type XlsxService struct{}

func NewXlsxService() (*XlsxService, error) {
	return &XlsxService{}, nil
}

func (s *XlsxService) LoadGrid(ctx context.Context, path string, sheetIndex int) (TabularGrid, error) {
	if s == nil {
		return TabularGrid{}, errors.New("xlsx service is nil")
	}
	if path == "" {
		return TabularGrid{}, errors.New("workbook path is empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return TabularGrid{}, fmt.Errorf("read workbook: %w", err)
	}

	return s.LoadGridFromBytes(ctx, content, sheetIndex)
}

func (s *XlsxService) LoadGridFromBytes(ctx context.Context, content []byte, sheetIndex int) (TabularGrid, error) {
	if s == nil {
		return TabularGrid{}, errors.New("xlsx service is nil")
	}
	if len(content) == 0 {
		return TabularGrid{}, errors.New("workbook bytes are empty")
	}
	_ = ctx

	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return TabularGrid{}, fmt.Errorf("open workbook: %w", err)
	}

	sheets := workbook.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		closeErr := workbook.Close()
		if closeErr != nil {
			return TabularGrid{}, fmt.Errorf("close workbook: %w", closeErr)
		}
		return TabularGrid{}, fmt.Errorf("sheet index %d out of range: workbook has %d sheets", sheetIndex, len(sheets))
	}

	rows, err := workbook.GetRows(sheets[sheetIndex])
	if err != nil {
		closeErr := workbook.Close()
		if closeErr != nil {
			return TabularGrid{}, fmt.Errorf("close workbook: %w", closeErr)
		}
		return TabularGrid{}, fmt.Errorf("get rows for %s: %w", sheets[sheetIndex], err)
	}

	if closeErr := workbook.Close(); closeErr != nil {
		return TabularGrid{}, fmt.Errorf("close workbook: %w", closeErr)
	}

	return NewGrid(rows), nil
}

func (s *XlsxService) ExtractGridsFromZip(ctx context.Context, zipBytes []byte, sheetIndex int) ([]GridPayload, error) {
	if s == nil {
		return nil, errors.New("xlsx service is nil")
	}
	if len(zipBytes) == 0 {
		return nil, errors.New("zip bytes are empty")
	}

	reader := bytes.NewReader(zipBytes)
	zipReader, err := zip.NewReader(reader, int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var payloads []GridPayload
	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if strings.HasPrefix(file.Name, "__MACOSX") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(file.Name), ".xlsx") {
			continue
		}

		content, err := readZipFile(file)
		if err != nil {
			return nil, err
		}

		grid, err := s.LoadGridFromBytes(ctx, content, sheetIndex)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file.Name, err)
		}

		payloads = append(payloads, GridPayload{
			SourceFile: file.Name,
			Grid:       grid,
		})
	}

	if len(payloads) == 0 {
		return nil, errors.New("no xlsx files found in zip")
	}

	return payloads, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	if file == nil {
		return nil, errors.New("zip entry is nil")
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry: %w", err)
	}

	content, readErr := io.ReadAll(reader)
	closeErr := reader.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read zip entry: %w", readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close zip entry: %w", closeErr)
	}

	return content, nil
}
