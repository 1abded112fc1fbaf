package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BricePetit/RenewgyParser/internal/services"
)

type BatchRunner interface {
	ProcessDirectory(ctx context.Context, inputDir string, outputDir string, pattern string, table services.MappingTable, cfg services.ExtractionConfig, consumptionType string) ([]services.FileResult, error)
}

type BatchController struct {
	service         BatchRunner
	inputDir        string
	outputDir       string
	pattern         string
	table           services.MappingTable
	cfg             services.ExtractionConfig
	consumptionType string
}

type BatchResponse struct {
	Total      int                   `json:"total"`
	Successful int                   `json:"successful"`
	Failed     int                   `json:"failed"`
	Skipped    int                   `json:"skipped"`
	Results    []services.FileResult `json:"results"`
}

func NewBatchController(service BatchRunner, inputDir string, outputDir string, pattern string, table services.MappingTable, cfg services.ExtractionConfig, consumptionType string) (*BatchController, error) {
	if service == nil {
		return nil, errors.New("batch service is nil")
	}
	if inputDir == "" {
		return nil, errors.New("input directory is empty")
	}
	if outputDir == "" {
		return nil, errors.New("output directory is empty")
	}
	if table == nil {
		return nil, errors.New("mapping table is nil")
	}

	return &BatchController{
		service:         service,
		inputDir:        inputDir,
		outputDir:       outputDir,
		pattern:         pattern,
		table:           table,
		cfg:             cfg,
		consumptionType: consumptionType,
	}, nil
}

func (c *BatchController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("batch controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.POST("/batch", c.runBatch)
	return nil
}

func (c *BatchController) runBatch(ctx *gin.Context) {
	results, err := c.service.ProcessDirectory(ctx.Request.Context(), c.inputDir, c.outputDir, c.pattern, c.table, c.cfg, c.consumptionType)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to run batch"})
		return
	}

	response := BatchResponse{Total: len(results), Results: results}
	for _, result := range results {
		switch result.Status {
		case services.FileStatusSuccess:
			response.Successful++
		case services.FileStatusSkipped:
			response.Skipped++
		default:
			response.Failed++
		}
	}

	ctx.JSON(http.StatusOK, response)
}
