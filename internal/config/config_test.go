package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"db_dsn": "host=localhost user=parser dbname=parser",
		"mapping_path": "mapping.json",
		"input_dir": "in",
		"output_dir": "out"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Pattern != "*.xlsx" {
		t.Fatalf("Pattern = %q, want %q", cfg.Pattern, "*.xlsx")
	}
	if cfg.Schedule != "@every 1h" {
		t.Fatalf("Schedule = %q, want %q", cfg.Schedule, "@every 1h")
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want %q", cfg.ListenAddr, ":8080")
	}
	if cfg.SheetIndex != 0 {
		t.Fatalf("SheetIndex = %d, want 0", cfg.SheetIndex)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfigFile(t, `{
		"db_dsn": "host=localhost user=parser dbname=parser",
		"mapping_path": "mapping.json",
		"input_dir": "in",
		"output_dir": "out",
		"pattern": "*.XLSX",
		"sheet_index": 2,
		"consumption_type": "MEASURED ACTIVE PRODUCTION",
		"schedule": "@every 15m",
		"listen_addr": ":9090"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Pattern != "*.XLSX" {
		t.Fatalf("Pattern = %q", cfg.Pattern)
	}
	if cfg.SheetIndex != 2 {
		t.Fatalf("SheetIndex = %d, want 2", cfg.SheetIndex)
	}
	if cfg.ConsumptionType != "MEASURED ACTIVE PRODUCTION" {
		t.Fatalf("ConsumptionType = %q", cfg.ConsumptionType)
	}
	if cfg.Schedule != "@every 15m" {
		t.Fatalf("Schedule = %q", cfg.Schedule)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"db_dsn", `{"mapping_path": "m", "input_dir": "i", "output_dir": "o"}`, "db_dsn"},
		{"mapping_path", `{"db_dsn": "d", "input_dir": "i", "output_dir": "o"}`, "mapping_path"},
		{"input_dir", `{"db_dsn": "d", "mapping_path": "m", "output_dir": "o"}`, "input_dir"},
		{"output_dir", `{"db_dsn": "d", "mapping_path": "m", "input_dir": "i"}`, "output_dir"},
	}

	for _, tc := range cases {
		path := writeConfigFile(t, tc.content)
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v, want mention of %s", tc.name, err, tc.want)
		}
	}
}

func TestLoadNegativeSheetIndex(t *testing.T) {
	path := writeConfigFile(t, `{
		"db_dsn": "d",
		"mapping_path": "m",
		"input_dir": "i",
		"output_dir": "o",
		"sheet_index": -1
	}`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative sheet index")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
