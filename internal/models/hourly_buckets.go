package models

import (
	"fmt"
	"time"
)

// HourlyBuckets is a fixed 24-slot histogram of request counts keyed by the
// UTC hour component of each record's timestamp.
type HourlyBuckets [24]int64

// Observe increments the bucket for t's UTC hour.
func (h *HourlyBuckets) Observe(t time.Time) {
	h[t.UTC().Hour()]++
}

// Total returns the sum across all 24 buckets.
func (h *HourlyBuckets) Total() int64 {
	var total int64
	for _, count := range h {
		total += count
	}
	return total
}

// Distribution renders the non-empty buckets as "HH:00" keys for the report.
func (h *HourlyBuckets) Distribution() map[string]int64 {
	dist := make(map[string]int64)
	for hour, count := range h {
		if count > 0 {
			dist[fmt.Sprintf("%02d:00", hour)] = count
		}
	}
	return dist
}
