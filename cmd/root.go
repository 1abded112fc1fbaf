package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BricePetit/RenewgyParser/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "renewgy-parser",
	Short:         "Convert Renewgy energy-meter spreadsheets to canonical CSV",
	Long:          "Converts vendor energy-meter xlsx exports with varying internal layout into a fixed nine-field CSV stream, keyed by an external EAN mapping.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildConverter(logWriter services.LogWriter) (*services.XlsxService, *services.ConvertService, error) {
	xlsxService, err := services.NewXlsxService()
	if err != nil {
		return nil, nil, fmt.Errorf("create xlsx service: %w", err)
	}

	layoutService, err := services.NewLayoutService(logWriter)
	if err != nil {
		return nil, nil, fmt.Errorf("create layout service: %w", err)
	}

	extractService, err := services.NewExtractService(logWriter)
	if err != nil {
		return nil, nil, fmt.Errorf("create extract service: %w", err)
	}

	csvService, err := services.NewCsvService()
	if err != nil {
		return nil, nil, fmt.Errorf("create csv service: %w", err)
	}

	convertService, err := services.NewConvertService(layoutService, extractService, csvService, logWriter)
	if err != nil {
		return nil, nil, fmt.Errorf("create convert service: %w", err)
	}

	return xlsxService, convertService, nil
}

func extractionConfig(sheetIndex int, startDate string) (services.ExtractionConfig, error) {
	cfg := services.DefaultExtractionConfig()
	cfg.SheetIndex = sheetIndex

	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return services.ExtractionConfig{}, fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
		}
		cfg.StartDate = &parsed
	}

	return cfg, nil
}
