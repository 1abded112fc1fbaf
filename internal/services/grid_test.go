package services

import (
	"testing"
	"time"
)

func TestNewGridClassifiesCells(t *testing.T) {
	grid := NewGrid([][]string{
		{"", "  ", "1.5", "hello", "2024-01-01 00:15:00"},
	})

	if kind := grid.At(0, 0).Kind; kind != CellEmpty {
		t.Fatalf("cell 0 kind = %d, want CellEmpty", kind)
	}
	if kind := grid.At(0, 1).Kind; kind != CellEmpty {
		t.Fatalf("whitespace cell kind = %d, want CellEmpty", kind)
	}

	number := grid.At(0, 2)
	if number.Kind != CellNumber {
		t.Fatalf("number cell kind = %d, want CellNumber", number.Kind)
	}
	if number.Number != 1.5 {
		t.Fatalf("number = %v, want 1.5", number.Number)
	}

	if kind := grid.At(0, 3).Kind; kind != CellText {
		t.Fatalf("text cell kind = %d, want CellText", kind)
	}

	stamp := grid.At(0, 4)
	if stamp.Kind != CellDateTime {
		t.Fatalf("datetime cell kind = %d, want CellDateTime", stamp.Kind)
	}
	want := time.Date(2024, time.January, 1, 0, 15, 0, 0, time.UTC)
	if !stamp.Time.Equal(want) {
		t.Fatalf("time = %v, want %v", stamp.Time, want)
	}
	if stamp.Text != "2024-01-01 00:15:00" {
		t.Fatalf("text = %q, want original value", stamp.Text)
	}
}

func TestGridDimensionsRaggedRows(t *testing.T) {
	grid := NewGrid([][]string{
		{"a"},
		{"a", "b", "c"},
		{"a", "b"},
	})

	if grid.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", grid.Rows())
	}
	if grid.Cols() != 3 {
		t.Fatalf("cols = %d, want 3", grid.Cols())
	}
}

func TestGridAtOutOfRange(t *testing.T) {
	grid := NewGrid([][]string{{"a"}})

	for _, cell := range []Cell{
		grid.At(-1, 0),
		grid.At(0, -1),
		grid.At(5, 0),
		grid.At(0, 5),
	} {
		if !cell.IsEmpty() {
			t.Fatalf("out-of-range cell = %+v, want empty", cell)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, value := range []string{
		"2024-01-02 03:04:05",
		"2024-01-02T03:04:05",
		"2024-01-02 03:04",
		"2024-01-02",
		"2/1/2024 03:04:05",
		"2/1/2024 03:04",
		"2/1/2024",
	} {
		if _, ok := parseTimestamp(value); !ok {
			t.Fatalf("parseTimestamp(%q) failed", value)
		}
	}

	if _, ok := parseTimestamp("not a date"); ok {
		t.Fatalf("parseTimestamp accepted junk")
	}
}
