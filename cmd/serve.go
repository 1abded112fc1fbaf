package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/BricePetit/RenewgyParser/cmd/controllers"
	"github.com/BricePetit/RenewgyParser/internal/config"
	"github.com/BricePetit/RenewgyParser/internal/repo"
	"github.com/BricePetit/RenewgyParser/internal/services"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion HTTP API with a scheduled batch run",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config.json", "Path to the JSON configuration file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := repo.Connect(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := repo.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	logService, err := services.NewLogService(db)
	if err != nil {
		return fmt.Errorf("create log service: %w", err)
	}

	processedFileService, err := services.NewProcessedFileService(db)
	if err != nil {
		return fmt.Errorf("create processed file service: %w", err)
	}

	xlsxService, convertService, err := buildConverter(logService)
	if err != nil {
		return err
	}

	batchService, err := services.NewBatchService(xlsxService, convertService, processedFileService, logService)
	if err != nil {
		return fmt.Errorf("create batch service: %w", err)
	}

	table, err := services.LoadMappingTable(cfg.MappingPath)
	if err != nil {
		return err
	}

	baseConfig := services.DefaultExtractionConfig()
	baseConfig.SheetIndex = cfg.SheetIndex

	consumptionType := cfg.ConsumptionType
	if consumptionType == "" {
		consumptionType = services.DefaultConsumptionType
	}

	convertController, err := controllers.NewConvertController(xlsxService, convertService, table, baseConfig, cfg.OutputDir, consumptionType)
	if err != nil {
		return fmt.Errorf("create convert controller: %w", err)
	}

	batchController, err := controllers.NewBatchController(batchService, cfg.InputDir, cfg.OutputDir, cfg.Pattern, table, baseConfig, consumptionType)
	if err != nil {
		return fmt.Errorf("create batch controller: %w", err)
	}

	logsController, err := controllers.NewLogsController(logService)
	if err != nil {
		return fmt.Errorf("create logs controller: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if err := controllers.RegisterHealthRoutes(router); err != nil {
		return fmt.Errorf("register health routes: %w", err)
	}
	if err := convertController.RegisterRoutes(router); err != nil {
		return fmt.Errorf("register convert routes: %w", err)
	}
	if err := batchController.RegisterRoutes(router); err != nil {
		return fmt.Errorf("register batch routes: %w", err)
	}
	if err := logsController.RegisterRoutes(router); err != nil {
		return fmt.Errorf("register logs routes: %w", err)
	}

	if err := startCron(cfg, batchService, table, baseConfig, consumptionType); err != nil {
		return fmt.Errorf("start cron: %w", err)
	}

	if err := router.Run(cfg.ListenAddr); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	return nil
}

type batchRunner interface {
	ProcessDirectory(ctx context.Context, inputDir string, outputDir string, pattern string, table services.MappingTable, cfg services.ExtractionConfig, consumptionType string) ([]services.FileResult, error)
}

func startCron(cfg config.Config, service batchRunner, table services.MappingTable, extraction services.ExtractionConfig, consumptionType string) error {
	if service == nil {
		return errors.New("batch service is nil")
	}

	scheduler := cron.New()

	if _, err := scheduler.AddFunc(cfg.Schedule, func() {
		if _, err := service.ProcessDirectory(context.Background(), cfg.InputDir, cfg.OutputDir, cfg.Pattern, table, extraction, consumptionType); err != nil {
			log.Printf("scheduled batch run: %v", err)
		}
	}); err != nil {
		return err
	}

	scheduler.Start()
	return nil
}
