package models

import "time"

// RateLimitViolation records one triggering request whose trailing window
// held more than the allowed number of requests for its key. A sustained
// over-threshold burst emits one violation per triggering request, so the
// same key may appear many times.
type RateLimitViolation struct {
	Key          string    `json:"key"`
	Timestamp    time.Time `json:"timestamp"`
	RequestCount int       `json:"requestCount"` // in-window count at violation time
}

// RateLimitReport groups violations by detection dimension.
type RateLimitReport struct {
	UserViolations     []RateLimitViolation `json:"userViolations"`
	EndpointViolations []RateLimitViolation `json:"endpointViolations"`
	TotalViolations    int                  `json:"totalViolations"`
}
