package models

import "time"

// TimestampLayout is the wire format for record timestamps (UTC, second resolution).
const TimestampLayout = "2006-01-02T15:04:05Z"

// LogRecord is a validated, normalized API log record. Records are immutable
// once built; the analysis core only ever observes records that passed the
// record validator.
type LogRecord struct {
	Timestamp      time.Time
	Endpoint       string
	Method         string
	UserID         string
	StatusCode     int
	ResponseTimeMs int64
	RequestBytes   int64
	ResponseBytes  int64
	UserAgent      string // optional, empty when the source carries no agent
}

// IsSuccess reports whether the record's status is in the success range (< 400).
func (r *LogRecord) IsSuccess() bool {
	return r.StatusCode < 400
}

// IsError reports whether the record's status is outside the success range.
func (r *LogRecord) IsError() bool {
	return r.StatusCode >= 400
}
