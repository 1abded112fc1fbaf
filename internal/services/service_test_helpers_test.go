package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type loggedEntry struct {
	action  string
	outcome string
	message *string
}

type stubLogWriter struct {
	entries []loggedEntry
}

func (s *stubLogWriter) CreateLog(ctx context.Context, action string, outcome string, message *string) error {
	var copied *string
	if message != nil {
		value := *message
		copied = &value
	}

	s.entries = append(s.entries, loggedEntry{
		action:  action,
		outcome: outcome,
		message: copied,
	})
	return nil
}

func (s *stubLogWriter) warnings() []string {
	var messages []string
	for _, entry := range s.entries {
		if entry.outcome != LogOutcomeWarn {
			continue
		}
		if entry.message != nil {
			messages = append(messages, *entry.message)
		}
	}
	return messages
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	return db
}

// meterSheet mirrors a typical Renewgy export: title block, a header row
// marked by "Role description", a "Profile description" marker row, then
// timestamped data rows.
func meterSheet(dataRows [][]string) [][]string {
	rows := [][]string{
		{"", "541448911004090123_ELECTRICITY"},
		{"", ""},
		{"Role description", "Date", "MEASURED ACTIVE CONSUMPTION", "MEASURED ACTIVE PRODUCTION"},
		{"Profile description", "", "", ""},
	}
	return append(rows, dataRows...)
}

func defaultDataRows() [][]string {
	return [][]string{
		{"", "2024-01-01 00:15:00", "1.5", "0"},
		{"", "2024-01-01 00:30:00", "2.25", "0"},
		{"", "2024-01-01 00:45:00", "3", "0"},
	}
}
