package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes. The prefix picks the HTTP status family.
const (
	// Authentication
	ErrInvalidToken          = "AUTH_001"
	ErrExpiredToken          = "AUTH_002"
	ErrInsufficientPrivilege = "AUTH_003"

	// Validation
	ErrInvalidRequest      = "VAL_001"
	ErrMissingRequiredData = "VAL_002"
	ErrInvalidFormat       = "VAL_003"
	ErrInsufficientData    = "VAL_004"
	ErrNotFound            = "VAL_005"

	// Data availability
	ErrDataNotLoaded   = "DATA_001"
	ErrModelNotTrained = "DATA_002"

	// Server
	ErrInternalServer = "SRV_001"
	ErrStorage        = "SRV_002"
	ErrJobRunning     = "SRV_003"
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrInsufficientData:      http.StatusBadRequest,
	ErrNotFound:              http.StatusNotFound,
	ErrDataNotLoaded:         http.StatusServiceUnavailable,
	ErrModelNotTrained:       http.StatusServiceUnavailable,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrStorage:               http.StatusInternalServerError,
	ErrJobRunning:            http.StatusConflict,
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Status returns the HTTP status for code, 500 when unknown.
func Status(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps err under code.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
