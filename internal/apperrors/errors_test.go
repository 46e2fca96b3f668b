package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	err := Required("city")
	require.EqualError(t, err, "city parameter is required")
	require.True(t, IsValidation(fmt.Errorf("wrapped: %w", err)))
	require.False(t, IsValidation(errors.New("other")))
}

func TestUpstreamStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   int
	}{
		{name: "not found is relayed", status: http.StatusNotFound, want: http.StatusNotFound},
		{name: "unauthorized is relayed", status: http.StatusUnauthorized, want: http.StatusUnauthorized},
		{name: "bad gateway is relayed", status: http.StatusBadGateway, want: http.StatusBadGateway},
		{name: "missing status", status: 0, want: http.StatusInternalServerError},
		{name: "success status is not an error status", status: http.StatusOK, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &UpstreamError{Status: tt.status}
			require.Equal(t, tt.want, err.StatusCode())
		})
	}
}

func TestAsUpstreamUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("current weather: %w", &UpstreamError{Message: "boom", Err: cause})

	up, ok := AsUpstream(err)
	require.True(t, ok)
	require.Equal(t, "boom", up.Message)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "boom: dial tcp: refused", up.Error())
}
