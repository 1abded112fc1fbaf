package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BricePetit/RenewgyParser/internal/services"
)

type WorkbookLoader interface {
	LoadGridFromBytes(ctx context.Context, content []byte, sheetIndex int) (services.TabularGrid, error)
	ExtractGridsFromZip(ctx context.Context, zipBytes []byte, sheetIndex int) ([]services.GridPayload, error)
}

type ConvertRunner interface {
	Convert(ctx context.Context, grid services.TabularGrid, outputPath string, table services.MappingTable, cfg services.ExtractionConfig, consumptionType string) ([]services.WrittenFile, error)
}

type ConvertController struct {
	loader          WorkbookLoader
	converter       ConvertRunner
	table           services.MappingTable
	baseConfig      services.ExtractionConfig
	outputDir       string
	consumptionType string
}

type ConvertResponse struct {
	Files []services.WrittenFile `json:"files"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewConvertController(loader WorkbookLoader, converter ConvertRunner, table services.MappingTable, baseConfig services.ExtractionConfig, outputDir string, consumptionType string) (*ConvertController, error) {
	if loader == nil {
		return nil, errors.New("workbook loader is nil")
	}
	if converter == nil {
		return nil, errors.New("converter is nil")
	}
	if table == nil {
		return nil, errors.New("mapping table is nil")
	}
	if outputDir == "" {
		return nil, errors.New("output directory is empty")
	}

	return &ConvertController{
		loader:          loader,
		converter:       converter,
		table:           table,
		baseConfig:      baseConfig,
		outputDir:       outputDir,
		consumptionType: consumptionType,
	}, nil
}

func (c *ConvertController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("convert controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.POST("/convert", c.convert)
	return nil
}

func (c *ConvertController) convert(ctx *gin.Context) {
	upload, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file upload"})
		return
	}
	defer func() { _ = upload.Close() }()

	content, err := io.ReadAll(upload)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload"})
		return
	}

	cfg, err := c.requestConfig(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	consumptionType := ctx.Query("consumption_type")
	if consumptionType == "" {
		consumptionType = c.consumptionType
	}

	filename := header.Filename
	requestCtx := ctx.Request.Context()

	var written []services.WrittenFile
	if strings.EqualFold(filepath.Ext(filename), ".zip") {
		payloads, err := c.loader.ExtractGridsFromZip(requestCtx, content, cfg.SheetIndex)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		for _, payload := range payloads {
			files, err := c.converter.Convert(requestCtx, payload.Grid, c.outputPathFor(payload.SourceFile), c.table, cfg, consumptionType)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
				return
			}
			written = append(written, files...)
		}
	} else {
		grid, err := c.loader.LoadGridFromBytes(requestCtx, content, cfg.SheetIndex)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		written, err = c.converter.Convert(requestCtx, grid, c.outputPathFor(filename), c.table, cfg, consumptionType)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
	}

	ctx.JSON(http.StatusOK, ConvertResponse{Files: written})
}

func (c *ConvertController) requestConfig(ctx *gin.Context) (services.ExtractionConfig, error) {
	cfg := c.baseConfig

	if value := ctx.Query("sheet_index"); value != "" {
		index, err := strconv.Atoi(value)
		if err != nil || index < 0 {
			return services.ExtractionConfig{}, errors.New("invalid sheet_index")
		}
		cfg.SheetIndex = index
	}

	if value := ctx.Query("start_date"); value != "" {
		start, err := time.Parse("2006-01-02", value)
		if err != nil {
			return services.ExtractionConfig{}, errors.New("invalid start_date, use YYYY-MM-DD")
		}
		cfg.StartDate = &start
	}

	return cfg, nil
}

func (c *ConvertController) outputPathFor(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.outputDir, stem+".csv")
}
