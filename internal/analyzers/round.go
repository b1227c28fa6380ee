package analyzers

import "math"

// round2 rounds to 2 decimal places (report money/percentage fields).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to 4 decimal places (per-request cost resolution).
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
