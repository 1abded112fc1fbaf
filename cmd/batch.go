package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BricePetit/RenewgyParser/internal/services"
)

var (
	batchInputDir        string
	batchOutputDir       string
	batchMapping         string
	batchPattern         string
	batchSheetIndex      int
	batchStartDate       string
	batchConsumptionType string
	batchQuiet           bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every matching export in a directory",
	RunE:  runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchInputDir, "input-dir", "", "Directory containing input xlsx files")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "Directory for output CSV files")
	batchCmd.Flags().StringVar(&batchMapping, "mapping", "", "Path to the JSON EAN mapping file")
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "*.xlsx", "File pattern to match (the default also picks up .XLSX and .zip)")
	batchCmd.Flags().IntVar(&batchSheetIndex, "sheet-index", 2, "Worksheet index to process (0-based)")
	batchCmd.Flags().StringVar(&batchStartDate, "start-date", "", "Only keep data from this date onwards (YYYY-MM-DD, inclusive)")
	batchCmd.Flags().StringVar(&batchConsumptionType, "consumption-type", services.DefaultConsumptionType, "Consumption column label to extract")
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "Suppress all output except errors")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchInputDir == "" {
		return errors.New("--input-dir is required")
	}
	if batchOutputDir == "" {
		return errors.New("--output-dir is required")
	}
	if batchMapping == "" {
		return errors.New("--mapping is required")
	}
	if _, err := os.Stat(batchInputDir); err != nil {
		return fmt.Errorf("input directory not found: %s", batchInputDir)
	}

	table, err := services.LoadMappingTable(batchMapping)
	if err != nil {
		return err
	}

	cfg, err := extractionConfig(batchSheetIndex, batchStartDate)
	if err != nil {
		return err
	}

	logWriter, err := services.NewConsoleLogWriter(cmd.ErrOrStderr(), batchQuiet)
	if err != nil {
		return fmt.Errorf("create log writer: %w", err)
	}

	xlsxService, convertService, err := buildConverter(logWriter)
	if err != nil {
		return err
	}

	batchService, err := services.NewBatchService(xlsxService, convertService, nil, logWriter)
	if err != nil {
		return fmt.Errorf("create batch service: %w", err)
	}

	results, err := batchService.ProcessDirectory(cmd.Context(), batchInputDir, batchOutputDir, batchPattern, table, cfg, batchConsumptionType)
	if err != nil {
		return err
	}

	successful := 0
	failed := 0
	for _, result := range results {
		if result.Status == services.FileStatusSuccess {
			successful++
		} else if result.Status == services.FileStatusError {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Batch processing summary")
	fmt.Fprintf(out, "Total files: %d\n", len(results))
	fmt.Fprintf(out, "Successful:  %d\n", successful)
	fmt.Fprintf(out, "Failed:      %d\n", failed)

	if failed > 0 {
		fmt.Fprintln(out, "Failed files:")
		for _, result := range results {
			if result.Status == services.FileStatusError {
				fmt.Fprintf(out, "  %s: %s\n", result.Filename, result.Message)
			}
		}
		return fmt.Errorf("%d file(s) failed", failed)
	}

	return nil
}
