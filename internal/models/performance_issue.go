package models

import "time"

// Severity is the tier assigned to a performance issue based on which
// response-time threshold the request crossed.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// PerformanceIssue records a single request that crossed a slow-request
// threshold. Detection is record-local: it depends only on the request's own
// response time, never on aggregate state, which is what allows the aggregator
// to emit issues inside its single pass.
type PerformanceIssue struct {
	Type           string    `json:"type"`
	Endpoint       string    `json:"endpoint"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	ThresholdMs    int64     `json:"thresholdMs"`
	Severity       Severity  `json:"severity"`
}

// IssueTypeSlowRequest is the issue type for requests over a slow threshold.
const IssueTypeSlowRequest = "slow_request"
