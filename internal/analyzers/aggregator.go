package analyzers

import (
	"apilog-analytics/internal/models"

	"github.com/mileusna/useragent"
)

// SeverityThresholds are the strict greater-than slow-request boundaries in
// milliseconds, evaluated critical-first so a request crossing several tiers
// is tagged with the single highest one.
type SeverityThresholds struct {
	MediumMs   int64
	HighMs     int64
	CriticalMs int64
}

// Classify returns the severity tier and the crossed threshold for a response
// time, or ok=false when the request is under every boundary.
func (t SeverityThresholds) Classify(responseTimeMs int64) (models.Severity, int64, bool) {
	switch {
	case responseTimeMs > t.CriticalMs:
		return models.SeverityCritical, t.CriticalMs, true
	case responseTimeMs > t.HighMs:
		return models.SeverityHigh, t.HighMs, true
	case responseTimeMs > t.MediumMs:
		return models.SeverityMedium, t.MediumMs, true
	default:
		return "", 0, false
	}
}

// AggregationResult holds the four accumulator structures built by the single
// pass, plus the agent-family counts. Each pass constructs fresh containers;
// nothing here is process-wide state.
type AggregationResult struct {
	Endpoints map[string]*models.EndpointStats
	Hourly    models.HourlyBuckets
	Users     map[string]*models.UserActivity
	Agents    map[string]int64
	Issues    []models.PerformanceIssue
}

//go:generate mockgen -source=aggregator.go -destination=./mocks/aggregator_mock.go -package=mocks
type Aggregator interface {
	// Aggregate consumes the validated records exactly once, in arrival order.
	Aggregate(records []*models.LogRecord) *AggregationResult
}

type aggregator struct {
	thresholds SeverityThresholds
}

func NewAggregator(thresholds SeverityThresholds) Aggregator {
	return &aggregator{thresholds: thresholds}
}

func (a *aggregator) Aggregate(records []*models.LogRecord) *AggregationResult {
	result := &AggregationResult{
		Endpoints: make(map[string]*models.EndpointStats),
		Users:     make(map[string]*models.UserActivity),
		Agents:    make(map[string]int64),
	}

	for _, record := range records {
		stats, exists := result.Endpoints[record.Endpoint]
		if !exists {
			stats = models.NewEndpointStats(record.Endpoint)
			result.Endpoints[record.Endpoint] = stats
		}

		stats.RequestCount++
		stats.ResponseTimesMs = append(stats.ResponseTimesMs, record.ResponseTimeMs)
		stats.TotalTimeMs += record.ResponseTimeMs
		if stats.RequestCount == 1 {
			stats.MinTimeMs = record.ResponseTimeMs
			stats.MaxTimeMs = record.ResponseTimeMs
		} else {
			if record.ResponseTimeMs < stats.MinTimeMs {
				stats.MinTimeMs = record.ResponseTimeMs
			}
			if record.ResponseTimeMs > stats.MaxTimeMs {
				stats.MaxTimeMs = record.ResponseTimeMs
			}
		}
		stats.StatusCodes[record.StatusCode]++
		if record.IsError() {
			stats.ErrorCount++
		} else {
			stats.SuccessCount++
		}
		stats.ResponseBytes += record.ResponseBytes
		if record.Method == "GET" {
			stats.GetCount++
		}
		// Memory cost depends on each individual response size, so it must be
		// accumulated here rather than derived from endpoint totals later.
		stats.MemoryCostUSD += MemoryCostUSD(record.ResponseBytes)

		result.Hourly.Observe(record.Timestamp)

		user, exists := result.Users[record.UserID]
		if !exists {
			user = &models.UserActivity{UserID: record.UserID}
			result.Users[record.UserID] = user
		}
		user.RequestCount++

		if record.UserAgent != "" {
			result.Agents[normalizeUserAgent(record.UserAgent)]++
		}

		// Issue detection is record-local, which is what lets it share this
		// pass instead of requiring a second traversal.
		if severity, threshold, ok := a.thresholds.Classify(record.ResponseTimeMs); ok {
			result.Issues = append(result.Issues, models.PerformanceIssue{
				Type:           models.IssueTypeSlowRequest,
				Endpoint:       record.Endpoint,
				Timestamp:      record.Timestamp,
				ResponseTimeMs: record.ResponseTimeMs,
				ThresholdMs:    threshold,
				Severity:       severity,
			})
		}
	}

	return result
}

// normalizeUserAgent parses the user agent to extract its family, falling back
// to the original string when parsing yields nothing.
func normalizeUserAgent(ua string) string {
	parsed := useragent.Parse(ua)
	if parsed.Name != "" {
		return parsed.Name
	}
	return ua
}
