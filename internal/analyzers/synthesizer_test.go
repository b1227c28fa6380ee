package analyzers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apilog-analytics/internal/models"
)

func TestSynthesizer_Synthesize_EmptyBatch(t *testing.T) {
	t.Parallel()

	recommendations := NewSynthesizer(0.95).Synthesize(nil, nil, models.RateLimitReport{})

	assert.Equal(t, []string{"No logs received for analysis."}, recommendations)
}

func TestSynthesizer_Synthesize_HealthySystem(t *testing.T) {
	t.Parallel()

	metrics := []models.EndpointMetrics{
		{Endpoint: "/api/users", SuccessRate: 1.0},
		{Endpoint: "/api/orders", SuccessRate: 0.99},
	}

	recommendations := NewSynthesizer(0.95).Synthesize(metrics, nil, models.RateLimitReport{})

	assert.Empty(t, recommendations)
}

func TestSynthesizer_Synthesize_SlowEndpointsUseWorstSeverity(t *testing.T) {
	t.Parallel()

	metrics := []models.EndpointMetrics{
		{Endpoint: "/api/search", SuccessRate: 1.0},
		{Endpoint: "/api/export", SuccessRate: 1.0},
	}
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	issues := []models.PerformanceIssue{
		{Type: models.IssueTypeSlowRequest, Endpoint: "/api/search", Timestamp: now, ResponseTimeMs: 600, ThresholdMs: 500, Severity: models.SeverityMedium},
		{Type: models.IssueTypeSlowRequest, Endpoint: "/api/search", Timestamp: now, ResponseTimeMs: 1200, ThresholdMs: 1000, Severity: models.SeverityHigh},
		{Type: models.IssueTypeSlowRequest, Endpoint: "/api/export", Timestamp: now, ResponseTimeMs: 3000, ThresholdMs: 2000, Severity: models.SeverityCritical},
	}

	recommendations := NewSynthesizer(0.95).Synthesize(metrics, issues, models.RateLimitReport{})

	require.Len(t, recommendations, 2, "one line per slow endpoint, not per issue")
	assert.Equal(t, "Page on-call for /api/export: 1 request(s) crossed the critical latency threshold.", recommendations[0])
	assert.Equal(t, "Investigate /api/search performance: 2 slow request(s), worst severity high.", recommendations[1])
}

func TestSynthesizer_Synthesize_SuccessRateFloor(t *testing.T) {
	t.Parallel()

	metrics := []models.EndpointMetrics{
		{Endpoint: "/api/flaky", SuccessRate: 0.80},
		{Endpoint: "/api/at-floor", SuccessRate: 0.95},
	}

	recommendations := NewSynthesizer(0.95).Synthesize(metrics, nil, models.RateLimitReport{})

	require.Len(t, recommendations, 1, "exactly the floor is acceptable")
	assert.Equal(t, "Investigate /api/flaky reliability: success rate 80.0% is below the 95.0% floor.", recommendations[0])
}

func TestSynthesizer_Synthesize_RateLimitOffendersAreDeduplicated(t *testing.T) {
	t.Parallel()

	metrics := []models.EndpointMetrics{{Endpoint: "/api/users", SuccessRate: 1.0}}
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	rateLimit := models.RateLimitReport{
		UserViolations: []models.RateLimitViolation{
			{Key: "user_002", Timestamp: now, RequestCount: 6},
			{Key: "user_001", Timestamp: now, RequestCount: 7},
			{Key: "user_002", Timestamp: now, RequestCount: 8},
		},
		EndpointViolations: []models.RateLimitViolation{
			{Key: "/api/users", Timestamp: now, RequestCount: 600},
		},
		TotalViolations: 4,
	}

	recommendations := NewSynthesizer(0.95).Synthesize(metrics, nil, rateLimit)

	assert.Equal(t, []string{
		"Throttle user user_001: exceeded the request rate limit.",
		"Throttle user user_002: exceeded the request rate limit.",
		"Consider protective rate limiting on /api/users: endpoint traffic exceeded its limit.",
	}, recommendations)
}

func TestSynthesizer_Synthesize_IsDeterministic(t *testing.T) {
	t.Parallel()

	metrics := []models.EndpointMetrics{
		{Endpoint: "/api/a", SuccessRate: 0.5},
		{Endpoint: "/api/b", SuccessRate: 0.5},
	}
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	issues := []models.PerformanceIssue{
		{Endpoint: "/api/b", Timestamp: now, Severity: models.SeverityMedium},
		{Endpoint: "/api/a", Timestamp: now, Severity: models.SeverityHigh},
	}

	synthesizer := NewSynthesizer(0.95)
	first := synthesizer.Synthesize(metrics, issues, models.RateLimitReport{})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, synthesizer.Synthesize(metrics, issues, models.RateLimitReport{}))
	}
}
