package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apilog-analytics/internal/models"
)

func TestMemoryCostUSD_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		responseBytes int64
		want          float64
	}{
		{name: "zero bytes is small tier", responseBytes: 0, want: 0.00001},
		{name: "small tier upper boundary", responseBytes: 1024, want: 0.00001},
		{name: "one over small boundary", responseBytes: 1025, want: 0.00005},
		{name: "medium tier upper boundary", responseBytes: 10240, want: 0.00005},
		{name: "one over medium boundary", responseBytes: 10241, want: 0.0001},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MemoryCostUSD(tt.responseBytes))
		})
	}
}

func TestCostEstimator_Estimate(t *testing.T) {
	t.Parallel()

	stats := models.NewEndpointStats("/api/users")
	stats.RequestCount = 4
	stats.TotalTimeMs = 1000
	stats.MemoryCostUSD = 0.04
	stats.ErrorCount = 1
	stats.SuccessCount = 3

	estimator := NewCostEstimator(0.01, 0.001)
	analysis := estimator.Estimate(map[string]*models.EndpointStats{"/api/users": stats}, 4)

	// request 4*0.01, execution 1000*0.001, memory as accumulated.
	assert.InDelta(t, 0.04, analysis.Breakdown.RequestCostsUSD, 1e-9)
	assert.InDelta(t, 1.00, analysis.Breakdown.ExecutionCostsUSD, 1e-9)
	assert.InDelta(t, 0.04, analysis.Breakdown.MemoryCostsUSD, 1e-9)
	assert.InDelta(t, 1.08, analysis.TotalCostUSD, 1e-9)

	require.Len(t, analysis.ByEndpoint, 1)
	assert.Equal(t, "/api/users", analysis.ByEndpoint[0].Endpoint)
	assert.InDelta(t, 1.08, analysis.ByEndpoint[0].TotalCostUSD, 1e-9)
	assert.InDelta(t, 0.27, analysis.ByEndpoint[0].CostPerRequestUSD, 1e-9)

	// One of the four requests failed, so a quarter of the endpoint spend is
	// recoverable.
	assert.InDelta(t, 0.27, analysis.OptimizationPotentialUSD, 1e-9)
}

func TestCostEstimator_Estimate_SortsEndpoints(t *testing.T) {
	t.Parallel()

	endpoints := map[string]*models.EndpointStats{}
	for _, name := range []string{"/zeta", "/alpha", "/mid"} {
		stats := models.NewEndpointStats(name)
		stats.RequestCount = 1
		stats.TotalTimeMs = 100
		stats.MemoryCostUSD = 0.00001
		stats.SuccessCount = 1
		endpoints[name] = stats
	}

	analysis := NewCostEstimator(0.01, 0.001).Estimate(endpoints, 3)

	require.Len(t, analysis.ByEndpoint, 3)
	assert.Equal(t, "/alpha", analysis.ByEndpoint[0].Endpoint)
	assert.Equal(t, "/mid", analysis.ByEndpoint[1].Endpoint)
	assert.Equal(t, "/zeta", analysis.ByEndpoint[2].Endpoint)
}

func TestCostEstimator_Estimate_NoErrorsNoOptimizationPotential(t *testing.T) {
	t.Parallel()

	stats := models.NewEndpointStats("/api/users")
	stats.RequestCount = 10
	stats.TotalTimeMs = 5000
	stats.MemoryCostUSD = 0.0001
	stats.SuccessCount = 10

	analysis := NewCostEstimator(0.01, 0.001).Estimate(map[string]*models.EndpointStats{"/api/users": stats}, 10)
	assert.Zero(t, analysis.OptimizationPotentialUSD)
}

func TestCostEstimator_Estimate_EmptyBatch(t *testing.T) {
	t.Parallel()

	analysis := NewCostEstimator(0.01, 0.001).Estimate(map[string]*models.EndpointStats{}, 0)

	assert.Zero(t, analysis.TotalCostUSD)
	assert.Zero(t, analysis.Breakdown.RequestCostsUSD)
	assert.NotNil(t, analysis.ByEndpoint)
	assert.Empty(t, analysis.ByEndpoint)
	assert.Zero(t, analysis.OptimizationPotentialUSD)
}
