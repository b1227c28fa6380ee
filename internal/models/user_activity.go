package models

// UserActivity is the mutable per-user accumulator owned by the aggregator.
type UserActivity struct {
	UserID       string
	RequestCount int64
}

// TopUser is a report entry in the user activity ranking.
type TopUser struct {
	UserID       string `json:"userId"`
	RequestCount int64  `json:"requestCount"`
}
