package analyzers

import (
	"sort"

	"apilog-analytics/internal/models"
)

// Memory cost tiers by response size. Each request is billed the tier cost for
// its own response size, accumulated during the aggregation pass.
const (
	memoryTierSmallMaxBytes  = 1024  // 0-1KB
	memoryTierMediumMaxBytes = 10240 // 1KB-10KB

	memoryTierSmallUSD  = 0.00001
	memoryTierMediumUSD = 0.00005
	memoryTierLargeUSD  = 0.0001 // 10KB+
)

// MemoryCostUSD returns the memory tier cost for a single request's response size.
func MemoryCostUSD(responseBytes int64) float64 {
	switch {
	case responseBytes <= memoryTierSmallMaxBytes:
		return memoryTierSmallUSD
	case responseBytes <= memoryTierMediumMaxBytes:
		return memoryTierMediumUSD
	default:
		return memoryTierLargeUSD
	}
}

//go:generate mockgen -source=cost.go -destination=./mocks/cost_estimator_mock.go -package=mocks
type CostEstimator interface {
	// Estimate computes the serverless cost estimate from the frozen
	// per-endpoint accumulators. Inputs are read, never mutated.
	Estimate(endpoints map[string]*models.EndpointStats, totalRequests int64) models.CostAnalysis
}

type costEstimator struct {
	perRequestUSD float64
	perMsUSD      float64
}

func NewCostEstimator(perRequestUSD, perMsUSD float64) CostEstimator {
	return &costEstimator{perRequestUSD: perRequestUSD, perMsUSD: perMsUSD}
}

func (e *costEstimator) Estimate(endpoints map[string]*models.EndpointStats, totalRequests int64) models.CostAnalysis {
	if totalRequests == 0 {
		return models.CostAnalysis{ByEndpoint: []models.EndpointCost{}}
	}

	requestCosts := float64(totalRequests) * e.perRequestUSD
	var executionCosts, memoryCosts, optimizationPotential float64

	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	byEndpoint := make([]models.EndpointCost, 0, len(names))
	for _, name := range names {
		stats := endpoints[name]

		executionCost := float64(stats.TotalTimeMs) * e.perMsUSD
		executionCosts += executionCost
		memoryCosts += stats.MemoryCostUSD

		endpointTotal := float64(stats.RequestCount)*e.perRequestUSD + executionCost + stats.MemoryCostUSD
		perRequest := endpointTotal / float64(stats.RequestCount)

		// Spend on failed requests is recoverable by fixing the errors.
		optimizationPotential += perRequest * float64(stats.ErrorCount)

		byEndpoint = append(byEndpoint, models.EndpointCost{
			Endpoint:          name,
			TotalCostUSD:      round2(endpointTotal),
			CostPerRequestUSD: round4(perRequest),
		})
	}

	return models.CostAnalysis{
		TotalCostUSD: round2(requestCosts + executionCosts + memoryCosts),
		Breakdown: models.CostBreakdown{
			RequestCostsUSD:   round2(requestCosts),
			ExecutionCostsUSD: round2(executionCosts),
			MemoryCostsUSD:    round2(memoryCosts),
		},
		ByEndpoint:               byEndpoint,
		OptimizationPotentialUSD: round2(optimizationPotential),
	}
}
