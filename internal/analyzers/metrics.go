package analyzers

import (
	"apilog-analytics/internal/shared/metrics"
)

var (
	// metricRecordsValidatedTotal counts raw records by validation outcome.
	// The result label is "valid" or "rejected"; rejection reasons stay in the
	// report summary rather than in a metric label to keep cardinality fixed.
	metricRecordsValidatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "records_validated_total",
		},
		[]string{"result"},
	)

	// metricPerformanceIssuesTotal counts detected slow requests by severity tier.
	metricPerformanceIssuesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "performance_issues_total",
		},
		[]string{"severity"},
	)

	// metricRateLimitViolationsTotal counts sliding-window violations by
	// detection scope ("user" or "endpoint").
	metricRateLimitViolationsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "rate_limit_violations_total",
		},
		[]string{"scope"},
	)

	// metricReportsBuiltTotal counts completed analysis reports.
	metricReportsBuiltTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "reports_built_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
