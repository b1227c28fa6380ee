package analyzers

import (
	"fmt"
	"sort"
	"time"

	"apilog-analytics/internal/models"
)

//go:generate mockgen -source=rate_limit_detector.go -destination=./mocks/rate_limit_detector_mock.go -package=mocks
type RateLimitDetector interface {
	// DetectUserViolations runs the sliding window keyed by user ID.
	DetectUserViolations(records []*models.LogRecord) []models.RateLimitViolation
	// DetectEndpointViolations runs the sliding window keyed by endpoint,
	// with its own (typically higher) threshold.
	DetectEndpointViolations(records []*models.LogRecord) []models.RateLimitViolation
}

type rateLimitDetector struct {
	window            time.Duration
	userThreshold     int
	endpointThreshold int
}

// NewRateLimitDetector builds a detector. A non-positive window or threshold
// is a configuration error and fails fast here instead of silently producing
// degenerate detection output.
func NewRateLimitDetector(window time.Duration, userThreshold, endpointThreshold int) (RateLimitDetector, error) {
	if window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive, got %v", window)
	}
	if userThreshold <= 0 || endpointThreshold <= 0 {
		return nil, fmt.Errorf("rate limit thresholds must be positive, got user=%d endpoint=%d", userThreshold, endpointThreshold)
	}
	return &rateLimitDetector{
		window:            window,
		userThreshold:     userThreshold,
		endpointThreshold: endpointThreshold,
	}, nil
}

func (d *rateLimitDetector) DetectUserViolations(records []*models.LogRecord) []models.RateLimitViolation {
	return d.detect(records, func(r *models.LogRecord) string { return r.UserID }, d.userThreshold)
}

func (d *rateLimitDetector) DetectEndpointViolations(records []*models.LogRecord) []models.RateLimitViolation {
	return d.detect(records, func(r *models.LogRecord) string { return r.Endpoint }, d.endpointThreshold)
}

// detect sorts a copy of the records chronologically (stable, so identical
// timestamps keep arrival order) and maintains one timestamp queue per key.
//
// Window convention: the trailing window is (t-window, t]. An entry exactly
// window old is retained; entries strictly older are evicted. Eviction runs on
// every push so queues never grow past one over-threshold burst.
func (d *rateLimitDetector) detect(records []*models.LogRecord, keyOf func(*models.LogRecord) string, threshold int) []models.RateLimitViolation {
	sorted := make([]*models.LogRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	queues := make(map[string][]time.Time)
	var violations []models.RateLimitViolation

	for _, record := range sorted {
		key := keyOf(record)
		queue := append(queues[key], record.Timestamp)

		evict := 0
		for evict < len(queue) && record.Timestamp.Sub(queue[evict]) > d.window {
			evict++
		}
		queue = queue[evict:]
		queues[key] = queue

		if len(queue) > threshold {
			violations = append(violations, models.RateLimitViolation{
				Key:          key,
				Timestamp:    record.Timestamp,
				RequestCount: len(queue),
			})
		}
	}

	return violations
}
