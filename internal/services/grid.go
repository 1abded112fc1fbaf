package services

import (
	"strconv"
	"strings"
	"time"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellDateTime
)

// Cell distinguishes a genuinely empty cell from a cell holding zero or an
// empty-looking string, so layout heuristics never have to guess.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"1-2-06 15:04",
	"1/2/06 15:04",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func classifyCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}
	if parsed, ok := parseTimestamp(trimmed); ok {
		return Cell{Kind: CellDateTime, Text: trimmed, Time: parsed}
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Text: trimmed, Number: number}
	}
	return Cell{Kind: CellText, Text: trimmed}
}

// TabularGrid is a read-only view of one loaded worksheet. Rows may be
// ragged; any access outside the stored cells yields an empty cell.
type TabularGrid struct {
	cells [][]Cell
	cols  int
}

func NewGrid(rows [][]string) TabularGrid {
	cells := make([][]Cell, len(rows))
	cols := 0
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, raw := range row {
			cells[i][j] = classifyCell(raw)
		}
		if len(row) > cols {
			cols = len(row)
		}
	}
	return TabularGrid{cells: cells, cols: cols}
}

func (g TabularGrid) Rows() int {
	return len(g.cells)
}

func (g TabularGrid) Cols() int {
	return g.cols
}

func (g TabularGrid) At(row int, col int) Cell {
	if row < 0 || row >= len(g.cells) {
		return Cell{Kind: CellEmpty}
	}
	if col < 0 || col >= len(g.cells[row]) {
		return Cell{Kind: CellEmpty}
	}
	return g.cells[row][col]
}
