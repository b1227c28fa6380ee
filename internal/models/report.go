package models

import "time"

// TimeRange is the observed span of record timestamps, wire-formatted.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary holds the report-level aggregates.
type Summary struct {
	TotalRequests     int64            `json:"totalRequests"`
	RejectedRecords   int64            `json:"rejectedRecords"`
	RejectionReasons  map[string]int64 `json:"rejectionReasons,omitempty"`
	TimeRange         TimeRange        `json:"timeRange"`
	AvgResponseTimeMs float64          `json:"avgResponseTimeMs"`
	ErrorRatePct      float64          `json:"errorRatePct"`
}

// CostBreakdown splits the estimated spend by billing dimension.
type CostBreakdown struct {
	RequestCostsUSD   float64 `json:"requestCostsUsd"`
	ExecutionCostsUSD float64 `json:"executionCostsUsd"`
	MemoryCostsUSD    float64 `json:"memoryCostsUsd"`
}

// EndpointCost is the per-endpoint slice of the cost estimate.
type EndpointCost struct {
	Endpoint          string  `json:"endpoint"`
	TotalCostUSD      float64 `json:"totalCostUsd"`
	CostPerRequestUSD float64 `json:"costPerRequestUsd"`
}

// CostAnalysis is the serverless cost estimate for the analyzed batch.
// OptimizationPotentialUSD is the spend attributable to failed (4xx/5xx)
// requests, i.e. cost that fixing errors would recover.
type CostAnalysis struct {
	TotalCostUSD             float64        `json:"totalCostUsd"`
	Breakdown                CostBreakdown  `json:"costBreakdown"`
	ByEndpoint               []EndpointCost `json:"costByEndpoint"`
	OptimizationPotentialUSD float64        `json:"optimizationPotentialUsd"`
}

// Report is the complete analytics report for one batch of log records.
// Immutable after assembly.
type Report struct {
	ReportID           string             `json:"reportId"`
	GeneratedAt        time.Time          `json:"generatedAt"`
	Summary            Summary            `json:"summary"`
	EndpointStats      []EndpointMetrics  `json:"endpointStats"`
	PerformanceIssues  []PerformanceIssue `json:"performanceIssues"`
	Recommendations    []string           `json:"recommendations"`
	HourlyDistribution map[string]int64   `json:"hourlyDistribution"`
	TopUsers           []TopUser          `json:"topUsers"`
	TrafficByAgent     map[string]int64   `json:"trafficByAgent,omitempty"`
	CostAnalysis       CostAnalysis       `json:"costAnalysis"`
	RateLimit          RateLimitReport    `json:"rateLimitViolations"`
}
