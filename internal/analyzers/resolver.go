package analyzers

import (
	"math"
	"slices"

	"apilog-analytics/internal/models"
)

//go:generate mockgen -source=resolver.go -destination=./mocks/resolver_mock.go -package=mocks
type StatsResolver interface {
	// Resolve computes the derived metrics for one endpoint. It must only run
	// after the aggregation pass completes: percentiles need the full sample
	// set. The accumulator is read, never mutated, so resolving twice yields
	// identical results.
	Resolve(stats *models.EndpointStats) models.EndpointMetrics
}

type statsResolver struct{}

func NewStatsResolver() StatsResolver {
	return &statsResolver{}
}

func (r *statsResolver) Resolve(stats *models.EndpointStats) models.EndpointMetrics {
	// Sort a private copy; the accumulator keeps arrival order.
	sorted := slices.Clone(stats.ResponseTimesMs)
	slices.Sort(sorted)

	count := len(sorted)
	mean := float64(stats.TotalTimeMs) / float64(count)

	var median float64
	if count%2 == 1 {
		median = float64(sorted[count/2])
	} else {
		median = (float64(sorted[count/2-1]) + float64(sorted[count/2])) / 2
	}

	// p95 index rule: ceil(0.95*n)-1, clamped to n-1 for small sample sets.
	// Percentile conventions differ by rounding rule, so this exact index
	// computation is what keeps results reproducible.
	p95Index := int(math.Ceil(0.95*float64(count))) - 1
	if p95Index < 0 {
		p95Index = 0
	}
	if p95Index > count-1 {
		p95Index = count - 1
	}

	return models.EndpointMetrics{
		Endpoint:             stats.Endpoint,
		RequestCount:         stats.RequestCount,
		AvgResponseTimeMs:    round2(mean),
		MedianResponseTimeMs: median,
		P95ResponseTimeMs:    float64(sorted[p95Index]),
		FastestRequestMs:     stats.MinTimeMs,
		SlowestRequestMs:     stats.MaxTimeMs,
		ErrorCount:           stats.ErrorCount,
		ErrorRatePct:         round2(float64(stats.ErrorCount) / float64(count) * 100),
		SuccessRate:          float64(stats.SuccessCount) / float64(stats.RequestCount),
		MostCommonStatus:     stats.MostCommonStatus(),
	}
}
