package models

// EndpointStats is the mutable per-endpoint accumulator owned exclusively by
// the aggregator during its single pass. ResponseTimesMs preserves arrival
// order; the stats resolver sorts a private copy, never this slice.
type EndpointStats struct {
	Endpoint        string
	RequestCount    int64
	ResponseTimesMs []int64
	SuccessCount    int64
	ErrorCount      int64
	StatusCodes     map[int]int64
	TotalTimeMs     int64
	MinTimeMs       int64
	MaxTimeMs       int64
	ResponseBytes   int64
	GetCount        int64
	MemoryCostUSD   float64
}

func NewEndpointStats(endpoint string) *EndpointStats {
	return &EndpointStats{
		Endpoint:    endpoint,
		StatusCodes: make(map[int]int64),
	}
}

// MostCommonStatus returns the status code observed most often for this
// endpoint. Ties resolve to the lowest code so the result is deterministic.
func (s *EndpointStats) MostCommonStatus() int {
	best := 0
	var bestCount int64
	for code, count := range s.StatusCodes {
		if count > bestCount || (count == bestCount && (best == 0 || code < best)) {
			best = code
			bestCount = count
		}
	}
	return best
}

// EndpointMetrics holds the derived metrics computed once per endpoint from a
// frozen EndpointStats after the aggregation pass completes. Never mutated.
type EndpointMetrics struct {
	Endpoint             string  `json:"endpoint"`
	RequestCount         int64   `json:"requestCount"`
	AvgResponseTimeMs    float64 `json:"avgResponseTimeMs"`
	MedianResponseTimeMs float64 `json:"medianResponseTimeMs"`
	P95ResponseTimeMs    float64 `json:"p95ResponseTimeMs"`
	FastestRequestMs     int64   `json:"fastestRequestMs"`
	SlowestRequestMs     int64   `json:"slowestRequestMs"`
	ErrorCount           int64   `json:"errorCount"`
	ErrorRatePct         float64 `json:"errorRatePct"`
	SuccessRate          float64 `json:"successRate"`
	MostCommonStatus     int     `json:"mostCommonStatus"`
}
