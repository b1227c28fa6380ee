package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	baseEntries  = 1600 // Deterministic base records spread over four minutes
	burstEntries = 150  // Burst records from one user inside a single minute
	badEntries   = 5    // Records missing a required field, must be rejected
)

var (
	minutes = []string{"18:03", "18:04", "18:05", "18:06"}
	paths   = []string{"/api/users", "/api/orders", "/api/search", "/api/export"}
)

// ### End - fixed configs

type logEntry struct {
	Timestamp         string `json:"timestamp"`
	Endpoint          string `json:"endpoint"`
	Method            string `json:"method"`
	UserID            string `json:"user_id,omitempty"`
	StatusCode        int    `json:"status_code"`
	ResponseTimeMs    int64  `json:"response_time_ms"`
	RequestSizeBytes  int64  `json:"request_size_bytes"`
	ResponseSizeBytes int64  `json:"response_size_bytes"`
}

type reportSummary struct {
	TotalRequests   int64   `json:"totalRequests"`
	RejectedRecords int64   `json:"rejectedRecords"`
	ErrorRatePct    float64 `json:"errorRatePct"`
}

type reportRateLimit struct {
	UserViolations     []json.RawMessage `json:"userViolations"`
	EndpointViolations []json.RawMessage `json:"endpointViolations"`
	TotalViolations    int               `json:"totalViolations"`
}

type report struct {
	ReportID           string            `json:"reportId"`
	Summary            reportSummary     `json:"summary"`
	EndpointStats      []json.RawMessage `json:"endpointStats"`
	PerformanceIssues  []json.RawMessage `json:"performanceIssues"`
	Recommendations    []string          `json:"recommendations"`
	HourlyDistribution map[string]int64  `json:"hourlyDistribution"`
	CostAnalysis       struct {
		TotalCostUSD float64 `json:"totalCostUsd"`
	} `json:"costAnalysis"`
	RateLimit reportRateLimit `json:"rateLimitViolations"`
}

// main runs the e2e scenario: 001_basic_report
//
// This scenario tests the end-to-end flow of batch log analysis via the HTTP
// API. It posts one deterministic batch of API log records to POST /reports
// and verifies the returned report.
//
// What it tests:
//   - Batch analysis via POST /reports endpoint
//   - Record validation (malformed records counted, never fatal)
//   - Per-endpoint aggregation and derived statistics
//   - Slow-request issue detection across all three severity tiers
//   - Sliding-window rate-limit detection for a bursting user
//   - Hourly distribution and cost estimation
//   - Recommendation synthesis
//
// Expected results (with the default configs/configs.yml):
//   - 1750 valid records analyzed, 5 rejected
//   - Four endpoints in the per-endpoint statistics
//   - Exactly three performance issues (medium, high, critical)
//   - Exactly 50 user rate-limit violations, zero endpoint violations
//   - All traffic lands in the 18:00 hourly bucket
//   - Recommendations include a throttle line for the bursting user and a
//     page-on-call line for the endpoint with a critical slow request
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the analytics API server
	dateUTC := "2025-12-28"            // Date used for generated record timestamps (UTC)

	fmt.Println("Starting e2e scenario: 001_basic_report")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("DATE_UTC: %s\n", dateUTC)
	fmt.Printf("BASE_ENTRIES: %d\n", baseEntries)
	fmt.Printf("BURST_ENTRIES: %d\n", burstEntries)
	fmt.Printf("BAD_ENTRIES: %d\n", badEntries)
	fmt.Println()

	entries := generateEntries(dateUTC)
	fmt.Printf("Generated %d entries (%d valid, %d malformed)\n",
		len(entries), baseEntries+burstEntries, badEntries)

	jsonData, err := json.Marshal(entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to marshal entries: %v\n", err)
		os.Exit(1)
	}

	got, err := postBatch(baseURL, jsonData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Received report %s\n", got.ReportID)
	fmt.Println()

	failures := verify(got)
	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %d checks failed\n", len(failures))
		os.Exit(1)
	}

	fmt.Println("=== Results ===")
	fmt.Printf("Total requests analyzed: %d\n", got.Summary.TotalRequests)
	fmt.Printf("Rejected records: %d\n", got.Summary.RejectedRecords)
	fmt.Printf("Performance issues: %d\n", len(got.PerformanceIssues))
	fmt.Printf("User rate-limit violations: %d\n", len(got.RateLimit.UserViolations))
	fmt.Printf("Recommendations: %d\n", len(got.Recommendations))
	fmt.Printf("Total cost USD: %.2f\n", got.CostAnalysis.TotalCostUSD)
	fmt.Println("Scenario completed successfully")
}

// generateEntries builds the deterministic batch: evenly rotated base traffic,
// a one-minute burst from a single user, three slow-request overrides, and a
// few records missing their user_id.
func generateEntries(dateUTC string) []logEntry {
	entries := make([]logEntry, 0, baseEntries+burstEntries+badEntries)

	for i := 0; i < baseEntries; i++ {
		// Users and minutes are deliberately decorrelated so no base user
		// concentrates a whole minute of traffic.
		minute := minutes[(i/8)%4]
		second := (i / 32) % 60

		status := 200
		if i%10 == 0 {
			status = 500
		}

		entries = append(entries, logEntry{
			Timestamp:         fmt.Sprintf("%sT%s:%02dZ", dateUTC, minute, second),
			Endpoint:          paths[i%4],
			Method:            "GET",
			UserID:            fmt.Sprintf("user_%02d", i%8),
			StatusCode:        status,
			ResponseTimeMs:    int64(50 + (i%40)*10),
			RequestSizeBytes:  256,
			ResponseSizeBytes: 512,
		})
	}

	// Three slow requests on one endpoint, one per severity tier.
	for j, responseTime := range []int64{600, 1500, 2500} {
		entries[200+j].Endpoint = "/api/orders"
		entries[200+j].ResponseTimeMs = responseTime
	}

	// Burst: 150 requests from one user inside a single minute. With the
	// default user threshold of 100 per 60s window, requests 101-150 each
	// trigger a violation.
	for j := 0; j < burstEntries; j++ {
		entries = append(entries, logEntry{
			Timestamp:         fmt.Sprintf("%sT18:05:%02dZ", dateUTC, (j*60)/burstEntries),
			Endpoint:          "/api/search",
			Method:            "GET",
			UserID:            "user_hot",
			StatusCode:        200,
			ResponseTimeMs:    80,
			RequestSizeBytes:  256,
			ResponseSizeBytes: 512,
		})
	}

	// Malformed records: missing user_id, must be counted as rejected.
	for j := 0; j < badEntries; j++ {
		entries = append(entries, logEntry{
			Timestamp:         fmt.Sprintf("%sT18:03:%02dZ", dateUTC, j),
			Endpoint:          "/api/users",
			Method:            "GET",
			StatusCode:        200,
			ResponseTimeMs:    100,
			RequestSizeBytes:  256,
			ResponseSizeBytes: 512,
		})
	}

	return entries
}

func postBatch(baseURL string, jsonData []byte) (*report, error) {
	req, err := http.NewRequest("POST", baseURL+"/reports", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var got report
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &got, nil
}

func verify(got *report) []string {
	var failures []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			failures = append(failures, fmt.Sprintf(format, args...))
		}
	}

	wantValid := int64(baseEntries + burstEntries)
	check(got.ReportID != "", "report ID must not be empty")
	check(got.Summary.TotalRequests == wantValid,
		"total requests: got %d, want %d", got.Summary.TotalRequests, wantValid)
	check(got.Summary.RejectedRecords == badEntries,
		"rejected records: got %d, want %d", got.Summary.RejectedRecords, badEntries)

	check(len(got.EndpointStats) == len(paths),
		"endpoint stats: got %d endpoints, want %d", len(got.EndpointStats), len(paths))
	check(len(got.PerformanceIssues) == 3,
		"performance issues: got %d, want 3", len(got.PerformanceIssues))

	check(len(got.RateLimit.UserViolations) == 50,
		"user violations: got %d, want 50", len(got.RateLimit.UserViolations))
	check(len(got.RateLimit.EndpointViolations) == 0,
		"endpoint violations: got %d, want 0", len(got.RateLimit.EndpointViolations))
	check(got.RateLimit.TotalViolations == 50,
		"total violations: got %d, want 50", got.RateLimit.TotalViolations)

	var hourlyTotal int64
	for _, count := range got.HourlyDistribution {
		hourlyTotal += count
	}
	check(hourlyTotal == wantValid,
		"hourly distribution total: got %d, want %d", hourlyTotal, wantValid)
	check(got.HourlyDistribution["18:00"] == wantValid,
		"18:00 bucket: got %d, want %d", got.HourlyDistribution["18:00"], wantValid)

	check(hasRecommendation(got.Recommendations, "Throttle user user_hot"),
		"missing throttle recommendation for user_hot; got %v", got.Recommendations)
	check(hasRecommendation(got.Recommendations, "Page on-call for /api/orders"),
		"missing page-on-call recommendation for /api/orders; got %v", got.Recommendations)

	check(got.CostAnalysis.TotalCostUSD > 0, "total cost must be positive")

	return failures
}

func hasRecommendation(recommendations []string, prefix string) bool {
	for _, r := range recommendations {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}
