package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BricePetit/RenewgyParser/internal/services"
)

var (
	convertInput           string
	convertOutput          string
	convertMapping         string
	convertSheetIndex      int
	convertStartDate       string
	convertConsumptionType string
	convertQuiet           bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a single xlsx export to CSV",
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertInput, "input", "", "Path to the input xlsx file")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "Path to the output CSV file")
	convertCmd.Flags().StringVar(&convertMapping, "mapping", "", "Path to the JSON EAN mapping file")
	convertCmd.Flags().IntVar(&convertSheetIndex, "sheet-index", 2, "Worksheet index to process (0-based)")
	convertCmd.Flags().StringVar(&convertStartDate, "start-date", "", "Only keep data from this date onwards (YYYY-MM-DD, inclusive)")
	convertCmd.Flags().StringVar(&convertConsumptionType, "consumption-type", services.DefaultConsumptionType, "Consumption column label to extract")
	convertCmd.Flags().BoolVar(&convertQuiet, "quiet", false, "Suppress all output except errors")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertInput == "" {
		return errors.New("--input is required")
	}
	if convertOutput == "" {
		return errors.New("--output is required")
	}
	if convertMapping == "" {
		return errors.New("--mapping is required")
	}

	table, err := services.LoadMappingTable(convertMapping)
	if err != nil {
		return err
	}

	cfg, err := extractionConfig(convertSheetIndex, convertStartDate)
	if err != nil {
		return err
	}

	logWriter, err := services.NewConsoleLogWriter(cmd.ErrOrStderr(), convertQuiet)
	if err != nil {
		return fmt.Errorf("create log writer: %w", err)
	}

	xlsxService, convertService, err := buildConverter(logWriter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	grid, err := xlsxService.LoadGrid(ctx, convertInput, cfg.SheetIndex)
	if err != nil {
		return err
	}

	written, err := convertService.Convert(ctx, grid, convertOutput, table, cfg, convertConsumptionType)
	if err != nil {
		return err
	}

	for _, file := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows)\n", file.Path, file.Rows)
	}

	return nil
}
