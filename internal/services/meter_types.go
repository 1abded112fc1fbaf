package services

import "time"

const DefaultConsumptionType = "MEASURED ACTIVE CONSUMPTION"

type MeterMapping struct {
	SourceID    string `json:"source_id"`
	VariableID  string `json:"variable_id"`
	Description string `json:"description"`
}

type MappingTable map[string]MeterMapping

type ExtractionConfig struct {
	SheetIndex   int
	HeaderRow    int
	HeaderCol    int
	DataStartRow int
	TimestampCol int
	ValueCol     int
	MinRows      int
	MinCols      int
	StartDate    *time.Time
}

func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		SheetIndex:   0,
		HeaderRow:    0,
		HeaderCol:    1,
		DataStartRow: 4,
		TimestampCol: 0,
		ValueCol:     2,
		MinRows:      6,
		MinCols:      3,
	}
}

// Timestamp keeps the raw cell text alongside the parsed time. Unparseable
// timestamps stay in the series as raw text with Valid false.
type Timestamp struct {
	Raw   string
	Time  time.Time
	Valid bool
}

type ExtractedSeries struct {
	Timestamps []Timestamp
	Values     []*float64
}

func (s ExtractedSeries) Len() int {
	return len(s.Timestamps)
}

func (s ExtractedSeries) MissingCount() int {
	missing := 0
	for _, value := range s.Values {
		if value == nil {
			missing++
		}
	}
	return missing
}

type Period string

const (
	PeriodPeak    Period = "peak"
	PeriodOffPeak Period = "offpeak"
)

type WrittenFile struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

type GridPayload struct {
	SourceFile string
	Grid       TabularGrid
}

const (
	FileStatusSuccess = "SUCCESS"
	FileStatusSkipped = "SKIPPED"
	FileStatusError   = "ERROR"
)

type FileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}
