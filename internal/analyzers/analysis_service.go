package analyzers

import (
	"context"
	"sort"
	"time"

	"apilog-analytics/internal/models"
	"apilog-analytics/internal/shared/configs"
	"apilog-analytics/internal/shared/loggers"
	"apilog-analytics/internal/shared/metrics"
	"apilog-analytics/internal/shared/svcerrors"
	"apilog-analytics/internal/shared/ulid"

	"github.com/bytedance/sonic"
)

//go:generate mockgen -source=analysis_service.go -destination=./mocks/analysis_service_mock.go -package=mocks
type AnalysisService interface {
	// Analyze validates the raw records and produces the full analytics
	// report. Invalid records are counted, not fatal; an empty batch yields
	// the empty report, not an error.
	Analyze(ctx context.Context, raw []RawRecord) (*models.Report, *svcerrors.ServiceError)
}

type analysisService struct {
	validator   RecordValidator
	aggregator  Aggregator
	resolver    StatsResolver
	detector    RateLimitDetector
	estimator   CostEstimator
	synthesizer Synthesizer

	topUserCount int
}

func NewAnalysisService(
	validator RecordValidator,
	aggregator Aggregator,
	resolver StatsResolver,
	detector RateLimitDetector,
	estimator CostEstimator,
	synthesizer Synthesizer,
	topUserCount int,
) AnalysisService {
	return &analysisService{
		validator:    validator,
		aggregator:   aggregator,
		resolver:     resolver,
		detector:     detector,
		estimator:    estimator,
		synthesizer:  synthesizer,
		topUserCount: topUserCount,
	}
}

// NewAnalysisServiceFromConfig assembles the full analysis pipeline from
// configuration. Fails fast on invalid rate-limit settings.
func NewAnalysisServiceFromConfig(cfg *configs.Config) (AnalysisService, error) {
	detector, err := NewRateLimitDetector(
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.UserThreshold,
		cfg.RateLimit.EndpointThreshold,
	)
	if err != nil {
		return nil, err
	}

	thresholds := SeverityThresholds{
		MediumMs:   cfg.Analysis.SlowMediumMs,
		HighMs:     cfg.Analysis.SlowHighMs,
		CriticalMs: cfg.Analysis.SlowCriticalMs,
	}

	return NewAnalysisService(
		NewRecordValidator(),
		NewAggregator(thresholds),
		NewStatsResolver(),
		detector,
		NewCostEstimator(cfg.Cost.PerRequestUSD, cfg.Cost.PerMsUSD),
		NewSynthesizer(cfg.Analysis.SuccessRateFloor),
		cfg.Analysis.TopUserCount,
	), nil
}

// ParseRawRecords decodes a JSON array of raw log objects.
func ParseRawRecords(payload []byte) ([]RawRecord, *svcerrors.ServiceError) {
	var raw []RawRecord
	if err := sonic.Unmarshal(payload, &raw); err != nil {
		return nil, ErrInvalidPayload("payload must be a JSON array of log records", err)
	}
	return raw, nil
}

func (s *analysisService) Analyze(ctx context.Context, raw []RawRecord) (*models.Report, *svcerrors.ServiceError) {
	logger := loggers.Ctx(ctx)
	logger.Debug().Int(loggers.FieldRecordCount, len(raw)).Msg("started analyzing log batch")

	records, rejected, rejectionReasons := s.validateRecords(raw)

	aggregation := s.aggregator.Aggregate(records)

	// Derived metrics resolve only after the pass completes, in stable
	// endpoint order.
	endpointNames := make([]string, 0, len(aggregation.Endpoints))
	for name := range aggregation.Endpoints {
		endpointNames = append(endpointNames, name)
	}
	sort.Strings(endpointNames)

	endpointMetrics := make([]models.EndpointMetrics, 0, len(endpointNames))
	for _, name := range endpointNames {
		endpointMetrics = append(endpointMetrics, s.resolver.Resolve(aggregation.Endpoints[name]))
	}

	rateLimit := models.RateLimitReport{
		UserViolations:     s.detector.DetectUserViolations(records),
		EndpointViolations: s.detector.DetectEndpointViolations(records),
	}
	rateLimit.TotalViolations = len(rateLimit.UserViolations) + len(rateLimit.EndpointViolations)

	cost := s.estimator.Estimate(aggregation.Endpoints, int64(len(records)))
	recommendations := s.synthesizer.Synthesize(endpointMetrics, aggregation.Issues, rateLimit)

	report := &models.Report{
		ReportID:           ulid.NewULID(),
		GeneratedAt:        time.Now().UTC(),
		Summary:            s.buildSummary(records, aggregation, rejected, rejectionReasons),
		EndpointStats:      endpointMetrics,
		PerformanceIssues:  aggregation.Issues,
		Recommendations:    recommendations,
		HourlyDistribution: aggregation.Hourly.Distribution(),
		TopUsers:           topUsers(aggregation.Users, s.topUserCount),
		TrafficByAgent:     aggregation.Agents,
		CostAnalysis:       cost,
		RateLimit:          rateLimit,
	}

	s.observe(aggregation, rateLimit)
	metricReportsBuiltTotal.WithLabelValues(metrics.ValueNoError).Inc()

	logger.Info().
		Str(loggers.FieldReportID, report.ReportID).
		Int(loggers.FieldRecordCount, len(records)).
		Int("rejected_count", int(rejected)).
		Int("violation_count", rateLimit.TotalViolations).
		Msg("analysis report built")

	return report, nil
}

func (s *analysisService) validateRecords(raw []RawRecord) ([]*models.LogRecord, int64, map[string]int64) {
	records := make([]*models.LogRecord, 0, len(raw))
	var rejected int64
	reasons := make(map[string]int64)

	for _, candidate := range raw {
		record, reason := s.validator.Validate(candidate)
		if record == nil {
			rejected++
			reasons[reason]++
			metricRecordsValidatedTotal.WithLabelValues("rejected").Inc()
			continue
		}
		records = append(records, record)
		metricRecordsValidatedTotal.WithLabelValues("valid").Inc()
	}

	if rejected == 0 {
		reasons = nil
	}
	return records, rejected, reasons
}

func (s *analysisService) buildSummary(records []*models.LogRecord, aggregation *AggregationResult, rejected int64, rejectionReasons map[string]int64) models.Summary {
	summary := models.Summary{
		TotalRequests:    int64(len(records)),
		RejectedRecords:  rejected,
		RejectionReasons: rejectionReasons,
	}

	if len(records) == 0 {
		now := time.Now().UTC().Format(models.TimestampLayout)
		summary.TimeRange = models.TimeRange{Start: now, End: now}
		return summary
	}

	start, end := records[0].Timestamp, records[0].Timestamp
	var totalTime, errorCount int64
	for _, record := range records {
		if record.Timestamp.Before(start) {
			start = record.Timestamp
		}
		if record.Timestamp.After(end) {
			end = record.Timestamp
		}
		totalTime += record.ResponseTimeMs
		if record.IsError() {
			errorCount++
		}
	}

	summary.TimeRange = models.TimeRange{
		Start: start.Format(models.TimestampLayout),
		End:   end.Format(models.TimestampLayout),
	}
	summary.AvgResponseTimeMs = round2(float64(totalTime) / float64(len(records)))
	summary.ErrorRatePct = round2(float64(errorCount) / float64(len(records)) * 100)
	return summary
}

func (s *analysisService) observe(aggregation *AggregationResult, rateLimit models.RateLimitReport) {
	for _, issue := range aggregation.Issues {
		metricPerformanceIssuesTotal.WithLabelValues(string(issue.Severity)).Inc()
	}
	if n := len(rateLimit.UserViolations); n > 0 {
		metricRateLimitViolationsTotal.WithLabelValues("user").Add(float64(n))
	}
	if n := len(rateLimit.EndpointViolations); n > 0 {
		metricRateLimitViolationsTotal.WithLabelValues("endpoint").Add(float64(n))
	}
}

// topUsers ranks users by request count descending, user ID ascending on ties,
// and keeps the first n.
func topUsers(users map[string]*models.UserActivity, n int) []models.TopUser {
	ranked := make([]models.TopUser, 0, len(users))
	for _, user := range users {
		ranked = append(ranked, models.TopUser{UserID: user.UserID, RequestCount: user.RequestCount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RequestCount != ranked[j].RequestCount {
			return ranked[i].RequestCount > ranked[j].RequestCount
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
