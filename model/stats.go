package model

import "sort"

// Stats maps a counter name to its value
type Stats map[string]int64

// Keys returns the counter names sorted
func (s Stats) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add returns the sum of both stats, neither input is modified
func (s Stats) Add(source Stats) Stats {
	result := make(Stats, len(s))
	for k, v := range s {
		result[k] = v
	}
	for k, v := range source {
		result[k] += v
	}
	return result
}

// Subtract returns s minus source. Counters that reach zero are dropped.
func (s Stats) Subtract(source Stats) Stats {
	result := make(Stats, len(s))
	for k, v := range s {
		result[k] = v
	}
	for k, v := range source {
		if _, ok := result[k]; !ok {
			continue
		}
		result[k] -= v
		if result[k] <= 0 {
			delete(result, k)
		}
	}
	return result
}

// Snapshot is the exported view of the stats, a running total plus one
// bucket per ISO week ("2026-42")
type Snapshot struct {
	LastUpdated string           `json:"lastUpdated"`
	Total       Stats            `json:"total"`
	Weekly      map[string]Stats `json:"weekly"`
}
