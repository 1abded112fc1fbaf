package services

import (
	"fmt"
	"time"
)

// IsPeak reports whether a timestamp falls in the peak tariff period:
// 07:00-22:00 on weekdays. Weekends are always off-peak. Hour 7 is peak,
// hour 22 is off-peak.
func IsPeak(ts time.Time) bool {
	weekday := (int(ts.Weekday()) + 6) % 7
	if weekday >= 5 {
		return false
	}

	hour := ts.Hour()
	return hour >= 7 && hour < 22
}

func ClassifyPeriod(ts time.Time) Period {
	if IsPeak(ts) {
		return PeriodPeak
	}
	return PeriodOffPeak
}

// SplitByPeriod partitions a series into peak and off-peak sub-series.
// Every point lands in exactly one partition and source order is kept.
func SplitByPeriod(series ExtractedSeries) (ExtractedSeries, ExtractedSeries, error) {
	if len(series.Timestamps) != len(series.Values) {
		return ExtractedSeries{}, ExtractedSeries{}, fmt.Errorf("%w: %d timestamps vs %d values", ErrAlignment, len(series.Timestamps), len(series.Values))
	}

	var peak, offpeak ExtractedSeries
	for i, ts := range series.Timestamps {
		if !ts.Valid {
			return ExtractedSeries{}, ExtractedSeries{}, fmt.Errorf("cannot classify timestamp %q: not a parseable datetime", ts.Raw)
		}
		if IsPeak(ts.Time) {
			peak.Timestamps = append(peak.Timestamps, ts)
			peak.Values = append(peak.Values, series.Values[i])
		} else {
			offpeak.Timestamps = append(offpeak.Timestamps, ts)
			offpeak.Values = append(offpeak.Values, series.Values[i])
		}
	}

	return peak, offpeak, nil
}
