package apiErrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus int
	}{
		{ErrInvalidRequest, http.StatusBadRequest},
		{ErrInsufficientData, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrDataNotLoaded, http.StatusServiceUnavailable},
		{ErrModelNotTrained, http.StatusServiceUnavailable},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrInsufficientPrivilege, http.StatusForbidden},
		{ErrJobRunning, http.StatusConflict},
		{ErrInternalServer, http.StatusInternalServerError},
		{"NOPE_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.code, "boom", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"code":"`+tt.code+`","message":"boom"}`, rec.Body.String())
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Equal(t, APIError{Code: ErrStorage, Message: "disk full"}, FromError(errors.New("disk full"), ErrStorage))
	assert.Equal(t, ErrInternalServer, FromError(nil, ErrStorage).Code)
}
