package analyzers

import (
	"strconv"
	"strings"
	"time"

	"apilog-analytics/internal/models"
)

// RawRecord is a single decoded JSON log object before validation. Field
// types are whatever the decoder produced; the validator normalizes them.
type RawRecord map[string]any

// Rejection reasons are opaque to the rest of the core; only the counts
// surface in the report summary.
const (
	reasonMissingField  = "missing_field"
	reasonBadType       = "malformed_field"
	reasonNegativeValue = "negative_value"
	reasonBadTimestamp  = "unparseable_timestamp"
	reasonEmptyIdentity = "empty_identity"
)

//go:generate mockgen -source=record_validator.go -destination=./mocks/record_validator_mock.go -package=mocks
type RecordValidator interface {
	// Validate checks one raw record and returns the normalized LogRecord on
	// success. On failure the record is nil and reason names the rejection.
	Validate(raw RawRecord) (*models.LogRecord, string)
}

type recordValidator struct{}

func NewRecordValidator() RecordValidator {
	return &recordValidator{}
}

func (v *recordValidator) Validate(raw RawRecord) (*models.LogRecord, string) {
	endpoint, ok := stringField(raw, "endpoint")
	if !ok {
		return nil, reasonMissingField
	}
	method, ok := stringField(raw, "method")
	if !ok {
		return nil, reasonMissingField
	}
	userID, ok := stringField(raw, "user_id")
	if !ok {
		return nil, reasonMissingField
	}

	endpoint = strings.TrimSpace(endpoint)
	userID = strings.TrimSpace(userID)
	if endpoint == "" || userID == "" {
		return nil, reasonEmptyIdentity
	}

	responseTime, reason := intField(raw, "response_time_ms")
	if reason != "" {
		return nil, reason
	}
	statusCode, reason := intField(raw, "status_code")
	if reason != "" {
		return nil, reason
	}
	requestBytes, reason := intField(raw, "request_size_bytes")
	if reason != "" {
		return nil, reason
	}
	responseBytes, reason := intField(raw, "response_size_bytes")
	if reason != "" {
		return nil, reason
	}
	if responseTime < 0 || requestBytes < 0 || responseBytes < 0 {
		return nil, reasonNegativeValue
	}

	tsValue, ok := stringField(raw, "timestamp")
	if !ok {
		return nil, reasonMissingField
	}
	timestamp, err := time.Parse(models.TimestampLayout, tsValue)
	if err != nil {
		return nil, reasonBadTimestamp
	}

	record := &models.LogRecord{
		Timestamp:      timestamp.UTC(),
		Endpoint:       endpoint,
		Method:         strings.ToUpper(strings.TrimSpace(method)),
		UserID:         userID,
		StatusCode:     int(statusCode),
		ResponseTimeMs: responseTime,
		RequestBytes:   requestBytes,
		ResponseBytes:  responseBytes,
	}

	// user_agent is optional; absence is not a rejection.
	if agent, ok := stringField(raw, "user_agent"); ok {
		record.UserAgent = strings.TrimSpace(agent)
	}

	return record, ""
}

func stringField(raw RawRecord, field string) (string, bool) {
	value, ok := raw[field]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// intField accepts the numeric shapes a JSON decoder may produce, plus
// numeric strings. Fractional values truncate toward zero.
func intField(raw RawRecord, field string) (int64, string) {
	value, ok := raw[field]
	if !ok {
		return 0, reasonMissingField
	}
	switch n := value.(type) {
	case float64:
		return int64(n), ""
	case int64:
		return n, ""
	case int:
		return int64(n), ""
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, reasonBadType
		}
		return parsed, ""
	default:
		return 0, reasonBadType
	}
}
