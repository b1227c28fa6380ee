package analyzers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apilog-analytics/internal/shared/configs"
)

func newTestService(t *testing.T) AnalysisService {
	t.Helper()

	detector, err := NewRateLimitDetector(time.Minute, 5, 100)
	require.NoError(t, err)

	return NewAnalysisService(
		NewRecordValidator(),
		NewAggregator(defaultThresholds()),
		NewStatsResolver(),
		detector,
		NewCostEstimator(0.0001, 0.000002),
		NewSynthesizer(0.95),
		3,
	)
}

func rawRecordAt(endpoint, userID string, status int, responseTimeMs int64, ts string) RawRecord {
	return RawRecord{
		"timestamp":           ts,
		"endpoint":            endpoint,
		"method":              "GET",
		"response_time_ms":    float64(responseTimeMs),
		"status_code":         float64(status),
		"user_id":             userID,
		"request_size_bytes":  float64(128),
		"response_size_bytes": float64(512),
	}
}

func TestParseRawRecords(t *testing.T) {
	t.Parallel()

	raw, svcErr := ParseRawRecords([]byte(`[{"endpoint":"/api/users"},{"endpoint":"/api/orders"}]`))
	require.Nil(t, svcErr)
	require.Len(t, raw, 2)
	assert.Equal(t, "/api/users", raw[0]["endpoint"])

	raw, svcErr = ParseRawRecords([]byte(`{"not":"an array"}`))
	assert.Nil(t, raw)
	require.NotNil(t, svcErr)
	assert.Equal(t, "ANA_1000", svcErr.Code)
}

func TestAnalysisService_Analyze_EmptyBatch(t *testing.T) {
	t.Parallel()

	report, svcErr := newTestService(t).Analyze(context.Background(), nil)
	require.Nil(t, svcErr, "an empty batch is not an error")
	require.NotNil(t, report)

	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, int64(0), report.Summary.TotalRequests)
	assert.Equal(t, report.Summary.TimeRange.Start, report.Summary.TimeRange.End)
	assert.Empty(t, report.EndpointStats)
	assert.Empty(t, report.PerformanceIssues)
	assert.Empty(t, report.HourlyDistribution)
	assert.Empty(t, report.TopUsers)
	assert.Zero(t, report.RateLimit.TotalViolations)
	assert.Equal(t, []string{"No logs received for analysis."}, report.Recommendations)
}

func TestAnalysisService_Analyze_FullReport(t *testing.T) {
	t.Parallel()

	raw := []RawRecord{
		rawRecordAt("/api/users", "user_001", 200, 100, "2025-01-15T10:00:00Z"),
		rawRecordAt("/api/users", "user_001", 200, 300, "2025-01-15T10:01:00Z"),
		rawRecordAt("/api/users", "user_002", 500, 200, "2025-01-15T10:02:00Z"),
		rawRecordAt("/api/orders", "user_002", 200, 2500, "2025-01-15T11:00:00Z"),
	}

	report, svcErr := newTestService(t).Analyze(context.Background(), raw)
	require.Nil(t, svcErr)
	require.NotNil(t, report)

	assert.Equal(t, int64(4), report.Summary.TotalRequests)
	assert.Equal(t, int64(0), report.Summary.RejectedRecords)
	assert.Nil(t, report.Summary.RejectionReasons)
	assert.Equal(t, "2025-01-15T10:00:00Z", report.Summary.TimeRange.Start)
	assert.Equal(t, "2025-01-15T11:00:00Z", report.Summary.TimeRange.End)
	assert.Equal(t, float64(775), report.Summary.AvgResponseTimeMs)
	assert.Equal(t, float64(25), report.Summary.ErrorRatePct)

	require.Len(t, report.EndpointStats, 2)
	assert.Equal(t, "/api/orders", report.EndpointStats[0].Endpoint, "endpoints resolve in stable sorted order")
	assert.Equal(t, "/api/users", report.EndpointStats[1].Endpoint)
	assert.Equal(t, float64(200), report.EndpointStats[1].AvgResponseTimeMs)
	assert.Equal(t, float64(200), report.EndpointStats[1].MedianResponseTimeMs)

	require.Len(t, report.PerformanceIssues, 1)
	assert.Equal(t, "/api/orders", report.PerformanceIssues[0].Endpoint)

	assert.Equal(t, map[string]int64{"10:00": 3, "11:00": 1}, report.HourlyDistribution)

	require.Len(t, report.TopUsers, 2)
	assert.Equal(t, "user_001", report.TopUsers[0].UserID, "ties rank by user ID ascending")
	assert.Equal(t, int64(2), report.TopUsers[0].RequestCount)
	assert.Equal(t, "user_002", report.TopUsers[1].UserID)

	assert.GreaterOrEqual(t, report.CostAnalysis.OptimizationPotentialUSD, 0.0)
	require.Len(t, report.CostAnalysis.ByEndpoint, 2)
}

func TestAnalysisService_Analyze_CountsRejections(t *testing.T) {
	t.Parallel()

	bad := rawRecordAt("/api/users", "user_001", 200, 100, "not-a-timestamp")
	missing := rawRecordAt("/api/users", "user_001", 200, 100, "2025-01-15T10:00:00Z")
	delete(missing, "endpoint")

	raw := []RawRecord{
		rawRecordAt("/api/users", "user_001", 200, 100, "2025-01-15T10:00:00Z"),
		bad,
		missing,
	}

	report, svcErr := newTestService(t).Analyze(context.Background(), raw)
	require.Nil(t, svcErr)

	assert.Equal(t, int64(1), report.Summary.TotalRequests, "only valid records are analyzed")
	assert.Equal(t, int64(2), report.Summary.RejectedRecords)
	require.NotNil(t, report.Summary.RejectionReasons)

	var total int64
	for _, count := range report.Summary.RejectionReasons {
		total += count
	}
	assert.Equal(t, int64(2), total)
}

func TestAnalysisService_Analyze_DetectsViolations(t *testing.T) {
	t.Parallel()

	// Seven requests from one user inside a single minute against threshold 5.
	raw := make([]RawRecord, 0, 7)
	for i := 0; i < 7; i++ {
		raw = append(raw, rawRecordAt("/api/users", "user_001", 200, 100,
			fmt.Sprintf("2025-01-15T10:00:%02dZ", i)))
	}

	report, svcErr := newTestService(t).Analyze(context.Background(), raw)
	require.Nil(t, svcErr)

	require.Len(t, report.RateLimit.UserViolations, 2)
	assert.Empty(t, report.RateLimit.EndpointViolations)
	assert.Equal(t, 2, report.RateLimit.TotalViolations)
	assert.Contains(t, report.Recommendations, "Throttle user user_001: exceeded the request rate limit.")
}

func TestAnalysisService_Analyze_TopUserCountCapsRanking(t *testing.T) {
	t.Parallel()

	var raw []RawRecord
	for u := 0; u < 5; u++ {
		for r := 0; r <= u; r++ {
			raw = append(raw, rawRecordAt("/api/users", fmt.Sprintf("user_%03d", u), 200, 100,
				"2025-01-15T10:00:00Z"))
		}
	}

	report, svcErr := newTestService(t).Analyze(context.Background(), raw)
	require.Nil(t, svcErr)

	require.Len(t, report.TopUsers, 3)
	assert.Equal(t, "user_004", report.TopUsers[0].UserID)
	assert.Equal(t, int64(5), report.TopUsers[0].RequestCount)
	assert.Equal(t, "user_003", report.TopUsers[1].UserID)
	assert.Equal(t, "user_002", report.TopUsers[2].UserID)
}

func TestNewAnalysisServiceFromConfig_FailsFastOnBadRateLimit(t *testing.T) {
	t.Parallel()

	cfg := &configs.Config{}
	cfg.Analysis.SlowMediumMs = 500
	cfg.Analysis.SlowHighMs = 1000
	cfg.Analysis.SlowCriticalMs = 2000
	cfg.Analysis.SuccessRateFloor = 0.95
	cfg.Analysis.TopUserCount = 5
	cfg.RateLimit.WindowSeconds = 0
	cfg.RateLimit.UserThreshold = 100
	cfg.RateLimit.EndpointThreshold = 500

	service, err := NewAnalysisServiceFromConfig(cfg)
	assert.Error(t, err)
	assert.Nil(t, service)
}
