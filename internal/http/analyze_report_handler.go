package http

import (
	"encoding/json"
	"io"
	"net/http"

	"apilog-analytics/internal/analyzers"
)

// maxPayloadBytes caps the accepted request body; log batches are finite and
// fully materialized in memory before analysis starts.
const maxPayloadBytes = 8 * 1024 * 1024

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

type analyzeReportHandler struct {
	analysisService analyzers.AnalysisService
}

func NewAnalyzeReportHandler(analysisService analyzers.AnalysisService) AppHttpHandler {
	return &analyzeReportHandler{
		analysisService: analysisService,
	}
}

// Handle processes POST /reports requests: the body is a JSON array of raw
// log records, the response is the full analytics report.
func (h *analyzeReportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	payload, err := readWithLimit(r.Body, maxPayloadBytes)
	if err != nil {
		return err
	}

	raw, svcErr := analyzers.ParseRawRecords(payload)
	if svcErr != nil {
		return svcErr
	}

	report, svcErr := h.analysisService.Analyze(r.Context(), raw)
	if svcErr != nil {
		return svcErr
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(report)
}

// readWithLimit reads up to max+1 bytes from r and rejects bodies over max.
func readWithLimit(r io.Reader, max int) ([]byte, error) {
	if r == nil {
		return nil, analyzers.ErrInvalidPayload("empty request body", nil)
	}
	payload, err := io.ReadAll(io.LimitReader(r, int64(max+1)))
	if err != nil {
		return nil, err
	}
	if len(payload) > max {
		return nil, analyzers.ErrPayloadTooLarge("payload too large: must be <= 8MB")
	}
	return payload, nil
}
