package analyzers

import (
	"apilog-analytics/internal/shared/svcerrors"
)

// AnalysisService errors
const (
	codeInvalidPayload  = "ANA_1000"
	codePayloadTooLarge = "ANA_1001"
)

// ErrInvalidPayload returns an error when the raw record payload cannot be decoded.
func ErrInvalidPayload(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidPayload, msg, cause)
}

// ErrPayloadTooLarge returns an error when the raw record payload exceeds the size limit.
func ErrPayloadTooLarge(msg string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codePayloadTooLarge, msg, nil)
}
