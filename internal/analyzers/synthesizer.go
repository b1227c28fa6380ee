package analyzers

import (
	"fmt"
	"sort"

	"apilog-analytics/internal/models"
)

//go:generate mockgen -source=synthesizer.go -destination=./mocks/synthesizer_mock.go -package=mocks
type Synthesizer interface {
	// Synthesize turns the analysis outputs into actionable recommendations.
	// Pure rule table: inputs are never mutated and identical inputs always
	// produce the identical ordered list.
	Synthesize(metrics []models.EndpointMetrics, issues []models.PerformanceIssue, rateLimit models.RateLimitReport) []string
}

type synthesizer struct {
	successRateFloor float64
}

func NewSynthesizer(successRateFloor float64) Synthesizer {
	return &synthesizer{successRateFloor: successRateFloor}
}

func (s *synthesizer) Synthesize(metrics []models.EndpointMetrics, issues []models.PerformanceIssue, rateLimit models.RateLimitReport) []string {
	if len(metrics) == 0 {
		return []string{"No logs received for analysis."}
	}

	var recommendations []string

	// Slow endpoints: one line per endpoint at its worst observed severity.
	worst := make(map[string]models.Severity)
	slowCounts := make(map[string]int)
	for _, issue := range issues {
		slowCounts[issue.Endpoint]++
		if severityRank(issue.Severity) > severityRank(worst[issue.Endpoint]) {
			worst[issue.Endpoint] = issue.Severity
		}
	}
	for _, endpoint := range sortedKeys(worst) {
		severity := worst[endpoint]
		if severity == models.SeverityCritical {
			recommendations = append(recommendations,
				fmt.Sprintf("Page on-call for %s: %d request(s) crossed the critical latency threshold.", endpoint, slowCounts[endpoint]))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Investigate %s performance: %d slow request(s), worst severity %s.", endpoint, slowCounts[endpoint], severity))
		}
	}

	// Unhealthy endpoints by success rate.
	for _, m := range metrics {
		if m.SuccessRate < s.successRateFloor {
			recommendations = append(recommendations,
				fmt.Sprintf("Investigate %s reliability: success rate %.1f%% is below the %.1f%% floor.", m.Endpoint, m.SuccessRate*100, s.successRateFloor*100))
		}
	}

	// Rate-limit offenders, one line per distinct key.
	for _, user := range distinctKeys(rateLimit.UserViolations) {
		recommendations = append(recommendations,
			fmt.Sprintf("Throttle user %s: exceeded the request rate limit.", user))
	}
	for _, endpoint := range distinctKeys(rateLimit.EndpointViolations) {
		recommendations = append(recommendations,
			fmt.Sprintf("Consider protective rate limiting on %s: endpoint traffic exceeded its limit.", endpoint))
	}

	return recommendations
}

func severityRank(s models.Severity) int {
	switch s {
	case models.SeverityCritical:
		return 3
	case models.SeverityHigh:
		return 2
	case models.SeverityMedium:
		return 1
	default:
		return 0
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func distinctKeys(violations []models.RateLimitViolation) []string {
	seen := make(map[string]struct{}, len(violations))
	for _, v := range violations {
		seen[v.Key] = struct{}{}
	}
	return sortedKeys(seen)
}
