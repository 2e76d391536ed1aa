package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeAuthInvalidCredentials Code = "AUTH_INVALID_CREDENTIALS"
	CodeAuthUpstreamFailure    Code = "AUTH_UPSTREAM_FAILURE"
	CodeAuthMissingToken       Code = "AUTH_MISSING_TOKEN"
	CodeAuthMalformedToken     Code = "AUTH_MALFORMED_TOKEN"

	// Realtime errors
	CodeRealtimeAlreadyStarted Code = "REALTIME_ALREADY_STARTED"
	CodeRealtimeStopped        Code = "REALTIME_STOPPED"
	CodeRealtimeProbeFailed    Code = "REALTIME_PROBE_FAILED"
	CodeRealtimeDialFailed     Code = "REALTIME_DIAL_FAILED"

	// State errors
	CodeStateRecordMissing Code = "STATE_RECORD_MISSING"
	CodeStateRecordCorrupt Code = "STATE_RECORD_CORRUPT"
	CodeStateStoreClosed   Code = "STATE_STORE_CLOSED"

	// Request validation errors
	CodeRequestInvalidBody Code = "REQUEST_INVALID_BODY"
)

// HTTPStatus maps an error code to the HTTP status the console surfaces.
//
// Auth failures collapse onto 401 regardless of cause so the boundary never
// distinguishes bad credentials from an unreachable upstream.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeAuthInvalidCredentials, CodeAuthUpstreamFailure, CodeAuthMissingToken, CodeAuthMalformedToken:
		return http.StatusUnauthorized
	case CodeRequestInvalidBody:
		return http.StatusBadRequest
	case CodeStateRecordMissing:
		return http.StatusNotFound
	case CodeRealtimeAlreadyStarted, CodeRealtimeStopped:
		return http.StatusConflict
	case CodeRealtimeProbeFailed, CodeRealtimeDialFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
