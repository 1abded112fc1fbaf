package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const mappingSampleSize = 5

func LoadMappingTable(path string) (MappingTable, error) {
	if path == "" {
		return nil, fmt.Errorf("mapping config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping config: %w", err)
	}

	var table MappingTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse mapping config: %w", err)
	}

	for key, mapping := range table {
		if mapping.SourceID == "" {
			return nil, fmt.Errorf("mapping %q: source_id is required", key)
		}
		if mapping.VariableID == "" {
			return nil, fmt.Errorf("mapping %q: variable_id is required", key)
		}
	}

	return table, nil
}

func (t MappingTable) HasDualTariff(meterID string) bool {
	_, hasPeak := t[meterID+"_"+string(PeriodPeak)]
	_, hasOffpeak := t[meterID+"_"+string(PeriodOffPeak)]
	return hasPeak && hasOffpeak
}

// Resolve finds the mapping for a meter. With a period it prefers the
// period-suffixed key and falls back to the bare one; without a period a
// meter that only has dual-tariff variants is an error, never a silent
// pick of one side.
func (t MappingTable) Resolve(meterID string, period *Period) (MeterMapping, error) {
	if meterID == "" {
		return MeterMapping{}, fmt.Errorf("%w: meter identifier is empty", ErrMapping)
	}

	if period != nil {
		if mapping, ok := t[meterID+"_"+string(*period)]; ok {
			return mapping, nil
		}
	}

	if mapping, ok := t[meterID]; ok {
		return mapping, nil
	}

	_, hasPeak := t[meterID+"_"+string(PeriodPeak)]
	_, hasOffpeak := t[meterID+"_"+string(PeriodOffPeak)]
	if hasPeak || hasOffpeak {
		if period == nil {
			return MeterMapping{}, fmt.Errorf("%w: meter %q has peak/offpeak variants but no period specified; this meter requires bi-hourly processing", ErrMapping, meterID)
		}
		return MeterMapping{}, fmt.Errorf("%w: meter %q has bi-hourly variants but %q mapping not found", ErrMapping, meterID, string(*period))
	}

	if similar := t.keysWithPrefix(meterID); len(similar) > 0 {
		return MeterMapping{}, fmt.Errorf("%w: meter %q not found; similar meters available: %v", ErrMapping, meterID, similar)
	}

	return MeterMapping{}, fmt.Errorf("%w: meter %q not found; available meters include: %v", ErrMapping, meterID, t.sampleKeys(mappingSampleSize))
}

func (t MappingTable) keysWithPrefix(prefix string) []string {
	var keys []string
	for key := range t {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (t MappingTable) sampleKeys(limit int) []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
