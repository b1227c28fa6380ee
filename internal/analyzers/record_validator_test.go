package analyzers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawRecord() RawRecord {
	return RawRecord{
		"timestamp":           "2025-01-15T10:00:00Z",
		"endpoint":            "/api/users",
		"method":              "get",
		"response_time_ms":    float64(120),
		"status_code":         float64(200),
		"user_id":             "user_001",
		"request_size_bytes":  float64(256),
		"response_size_bytes": float64(512),
	}
}

func TestRecordValidator_Validate_NormalizesValidRecord(t *testing.T) {
	t.Parallel()

	validator := NewRecordValidator()

	record, reason := validator.Validate(validRawRecord())
	require.NotNil(t, record)
	assert.Empty(t, reason)

	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), record.Timestamp)
	assert.Equal(t, "/api/users", record.Endpoint)
	assert.Equal(t, "GET", record.Method, "method should be upper-cased")
	assert.Equal(t, "user_001", record.UserID)
	assert.Equal(t, 200, record.StatusCode)
	assert.Equal(t, int64(120), record.ResponseTimeMs)
	assert.Equal(t, int64(256), record.RequestBytes)
	assert.Equal(t, int64(512), record.ResponseBytes)
	assert.Empty(t, record.UserAgent)
}

func TestRecordValidator_Validate_OptionalUserAgent(t *testing.T) {
	t.Parallel()

	validator := NewRecordValidator()

	raw := validRawRecord()
	raw["user_agent"] = "curl/7.88.1"

	record, reason := validator.Validate(raw)
	require.NotNil(t, record)
	assert.Empty(t, reason)
	assert.Equal(t, "curl/7.88.1", record.UserAgent)
}

func TestRecordValidator_Validate_NumericStrings(t *testing.T) {
	t.Parallel()

	validator := NewRecordValidator()

	raw := validRawRecord()
	raw["status_code"] = "404"
	raw["response_time_ms"] = "250"

	record, reason := validator.Validate(raw)
	require.NotNil(t, record)
	assert.Empty(t, reason)
	assert.Equal(t, 404, record.StatusCode)
	assert.Equal(t, int64(250), record.ResponseTimeMs)
}

func TestRecordValidator_Validate_Rejections(t *testing.T) {
	t.Parallel()

	validator := NewRecordValidator()

	tests := []struct {
		name   string
		mutate func(raw RawRecord)
	}{
		{
			name:   "missing timestamp",
			mutate: func(raw RawRecord) { delete(raw, "timestamp") },
		},
		{
			name:   "missing endpoint",
			mutate: func(raw RawRecord) { delete(raw, "endpoint") },
		},
		{
			name:   "missing user_id",
			mutate: func(raw RawRecord) { delete(raw, "user_id") },
		},
		{
			name:   "missing response_time_ms",
			mutate: func(raw RawRecord) { delete(raw, "response_time_ms") },
		},
		{
			name:   "unparseable timestamp",
			mutate: func(raw RawRecord) { raw["timestamp"] = "INVALID_TIME" },
		},
		{
			name:   "negative response time",
			mutate: func(raw RawRecord) { raw["response_time_ms"] = float64(-100) },
		},
		{
			name:   "negative response size",
			mutate: func(raw RawRecord) { raw["response_size_bytes"] = float64(-1) },
		},
		{
			name:   "non-numeric status code",
			mutate: func(raw RawRecord) { raw["status_code"] = "200a" },
		},
		{
			name:   "status code wrong type",
			mutate: func(raw RawRecord) { raw["status_code"] = true },
		},
		{
			name:   "blank endpoint",
			mutate: func(raw RawRecord) { raw["endpoint"] = "   " },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := validRawRecord()
			tt.mutate(raw)

			record, reason := validator.Validate(raw)
			assert.Nil(t, record)
			assert.NotEmpty(t, reason, "a rejection must carry a reason")
		})
	}
}
