package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type ConvertService struct {
	layoutService  LayoutLocator
	extractService SeriesSlicer
	csvService     RecordWriter
	logService     LogWriter
}

func NewConvertService(layoutService LayoutLocator, extractService SeriesSlicer, csvService RecordWriter, logService LogWriter) (*ConvertService, error) {
	if layoutService == nil {
		return nil, errors.New("layout service is nil")
	}
	if extractService == nil {
		return nil, errors.New("extract service is nil")
	}
	if csvService == nil {
		return nil, errors.New("csv service is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &ConvertService{
		layoutService:  layoutService,
		extractService: extractService,
		csvService:     csvService,
		logService:     logService,
	}, nil
}

// Convert runs the full pipeline for one loaded sheet. A meter with both
// peak and offpeak mapping variants produces two files from one logical
// output path; everything else produces one.
func (s *ConvertService) Convert(ctx context.Context, grid TabularGrid, outputPath string, table MappingTable, cfg ExtractionConfig, consumptionType string) ([]WrittenFile, error) {
	if s == nil {
		return nil, errors.New("convert service is nil")
	}
	if outputPath == "" {
		return nil, errors.New("output path is empty")
	}
	if table == nil {
		return nil, errors.New("mapping table is nil")
	}
	if consumptionType == "" {
		consumptionType = DefaultConsumptionType
	}

	if err := s.layoutService.ValidateStructure(grid, cfg); err != nil {
		return nil, s.fail(ctx, err)
	}

	meterID, err := s.layoutService.ExtractMeterID(grid, cfg)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if table.HasDualTariff(meterID) {
		return s.convertDualTariff(ctx, grid, outputPath, table, cfg, consumptionType, meterID)
	}

	mapping, err := table.Resolve(meterID, nil)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	series, err := s.extractSeries(ctx, grid, cfg, consumptionType)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	written, err := s.csvService.WriteSeries(outputPath, series, meterID, mapping)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.success(ctx, fmt.Sprintf("meter=%s rows=%d file=%s", meterID, written.Rows, written.Path))
	return []WrittenFile{written}, nil
}

func (s *ConvertService) convertDualTariff(ctx context.Context, grid TabularGrid, outputPath string, table MappingTable, cfg ExtractionConfig, consumptionType string, meterID string) ([]WrittenFile, error) {
	peakPeriod := PeriodPeak
	offpeakPeriod := PeriodOffPeak

	peakMapping, err := table.Resolve(meterID, &peakPeriod)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	offpeakMapping, err := table.Resolve(meterID, &offpeakPeriod)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	series, err := s.extractSeries(ctx, grid, cfg, consumptionType)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	peak, offpeak, err := SplitByPeriod(series)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	var written []WrittenFile
	if peak.Len() > 0 {
		file, err := s.csvService.WriteSeries(periodPath(outputPath, PeriodPeak), peak, meterID, peakMapping)
		if err != nil {
			return nil, s.fail(ctx, err)
		}
		written = append(written, file)
	} else {
		s.warn(ctx, fmt.Sprintf("no peak data found for meter %s", meterID))
	}

	if offpeak.Len() > 0 {
		file, err := s.csvService.WriteSeries(periodPath(outputPath, PeriodOffPeak), offpeak, meterID, offpeakMapping)
		if err != nil {
			return nil, s.fail(ctx, err)
		}
		written = append(written, file)
	} else {
		s.warn(ctx, fmt.Sprintf("no offpeak data found for meter %s", meterID))
	}

	s.success(ctx, fmt.Sprintf("meter=%s peak_rows=%d offpeak_rows=%d", meterID, peak.Len(), offpeak.Len()))
	return written, nil
}

func (s *ConvertService) extractSeries(ctx context.Context, grid TabularGrid, cfg ExtractionConfig, consumptionType string) (ExtractedSeries, error) {
	valueCol, err := s.layoutService.FindValueColumn(grid, consumptionType)
	if err != nil {
		return ExtractedSeries{}, err
	}

	timestampCol := s.layoutService.FindTimestampColumn(ctx, grid, cfg, consumptionType)
	dataStartRow := s.layoutService.FindDataStartRow(ctx, grid, cfg)

	return s.extractService.ExtractSeries(ctx, grid, timestampCol, valueCol, dataStartRow, cfg)
}

func (s *ConvertService) success(ctx context.Context, message string) {
	msg := message
	_ = s.logService.CreateLog(ctx, LogActionConvert, LogOutcomeSuccess, &msg)
}

func (s *ConvertService) warn(ctx context.Context, message string) {
	msg := message
	_ = s.logService.CreateLog(ctx, LogActionConvert, LogOutcomeWarn, &msg)
}

func (s *ConvertService) fail(ctx context.Context, err error) error {
	msg := err.Error()
	_ = s.logService.CreateLog(ctx, LogActionConvert, LogOutcomeFail, &msg)
	return err
}

func periodPath(path string, period Period) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + string(period) + ext
}
