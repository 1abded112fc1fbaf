package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/BricePetit/RenewgyParser/internal/models"
)

func createProcessedFilesTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	query := "CREATE TABLE processed_files (id TEXT PRIMARY KEY, filename TEXT NOT NULL UNIQUE, outcome TEXT NOT NULL, processed_at DATETIME NOT NULL)"
	if err := db.Exec(query).Error; err != nil {
		t.Fatalf("create processed_files table: %v", err)
	}
}

func TestNewProcessedFileServiceNilDB(t *testing.T) {
	if _, err := NewProcessedFileService(nil); err == nil {
		t.Fatalf("NewProcessedFileService nil db: expected error")
	}
}

func TestProcessedFileServiceMarkAndCheck(t *testing.T) {
	db := openTestDB(t)
	createProcessedFilesTable(t, db)

	service, err := NewProcessedFileService(db)
	if err != nil {
		t.Fatalf("NewProcessedFileService: %v", err)
	}

	processed, err := service.IsProcessed(context.Background(), "meter_a.xlsx")
	if err != nil {
		t.Fatalf("IsProcessed: %v", err)
	}
	if processed {
		t.Fatalf("fresh file reported as processed")
	}

	if err := service.MarkProcessed(context.Background(), "meter_a.xlsx", FileStatusSuccess); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	processed, err = service.IsProcessed(context.Background(), "meter_a.xlsx")
	if err != nil {
		t.Fatalf("IsProcessed: %v", err)
	}
	if !processed {
		t.Fatalf("marked file not reported as processed")
	}

	var entries []models.ProcessedFile
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("select processed files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Outcome != FileStatusSuccess {
		t.Fatalf("Outcome = %q, want %q", entries[0].Outcome, FileStatusSuccess)
	}
}

func TestProcessedFileServiceMarkProcessedIdempotent(t *testing.T) {
	db := openTestDB(t)
	createProcessedFilesTable(t, db)

	service, err := NewProcessedFileService(db)
	if err != nil {
		t.Fatalf("NewProcessedFileService: %v", err)
	}

	if err := service.MarkProcessed(context.Background(), "meter_a.xlsx", FileStatusSuccess); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if err := service.MarkProcessed(context.Background(), "meter_a.xlsx", FileStatusError); err != nil {
		t.Fatalf("MarkProcessed again: %v", err)
	}

	var entries []models.ProcessedFile
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("select processed files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
}

func TestProcessedFileServiceEmptyFilename(t *testing.T) {
	db := openTestDB(t)
	createProcessedFilesTable(t, db)

	service, err := NewProcessedFileService(db)
	if err != nil {
		t.Fatalf("NewProcessedFileService: %v", err)
	}

	if _, err := service.IsProcessed(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty filename")
	}
	if err := service.MarkProcessed(context.Background(), "", FileStatusSuccess); err == nil {
		t.Fatalf("expected error for empty filename")
	}
}
