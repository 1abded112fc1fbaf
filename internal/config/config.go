package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	defaultPattern    = "*.xlsx"
	defaultSchedule   = "@every 1h"
	defaultListenAddr = ":8080"
)

// Config drives serve mode. CLI runs take their settings from flags and
// never load this file.
type Config struct {
	DBDSN           string `json:"db_dsn"`
	MappingPath     string `json:"mapping_path"`
	InputDir        string `json:"input_dir"`
	OutputDir       string `json:"output_dir"`
	Pattern         string `json:"pattern"`
	SheetIndex      int    `json:"sheet_index"`
	ConsumptionType string `json:"consumption_type"`
	Schedule        string `json:"schedule"`
	ListenAddr      string `json:"listen_addr"`
}

func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("db_dsn is required")
	}
	if cfg.MappingPath == "" {
		return Config{}, fmt.Errorf("mapping_path is required")
	}
	if cfg.InputDir == "" {
		return Config{}, fmt.Errorf("input_dir is required")
	}
	if cfg.OutputDir == "" {
		return Config{}, fmt.Errorf("output_dir is required")
	}

	if cfg.Pattern == "" {
		cfg.Pattern = defaultPattern
	}
	if cfg.Schedule == "" {
		cfg.Schedule = defaultSchedule
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.SheetIndex < 0 {
		return Config{}, fmt.Errorf("sheet_index must not be negative")
	}

	return cfg, nil
}
