package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
)

const maxBodyBytes = 1 << 20

var (
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errMalformed    = errors.New("malformed provider payload")
)

// newBreaker builds the circuit breaker guarding one provider. Only transport
// failures and 5xx responses count against it: a 404 for an unknown city is the
// provider working as intended. While open, calls fail fast for Timeout and
// callers see a 500 instead of the provider's status.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			if up, ok := apperrors.AsUpstream(err); ok {
				return up.Status >= 400 && up.Status < 500
			}
			return false
		},
	})
}

// doRequest executes req through the circuit breaker and returns the response
// body of a 2xx response. Every failure comes back as *apperrors.UpstreamError.
// There are no retries.
func doRequest(client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) ([]byte, error) {
	if client == nil {
		return nil, &apperrors.UpstreamError{Err: errNoHTTPClient}
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, &apperrors.UpstreamError{Err: execErr}
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return nil, &apperrors.UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", readErr)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &apperrors.UpstreamError{
				Status:  resp.StatusCode,
				Message: upstreamMessage(body),
				Err:     fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode),
			}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &apperrors.UpstreamError{Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, &apperrors.UpstreamError{Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}
	return body, nil
}

// upstreamMessage pulls a human readable message out of a provider error body.
// OpenWeatherMap and RapidAPI use {"message": ...}; GeoDB also sends
// {"errors": [{"message": ...}]}.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	for _, e := range payload.Errors {
		if msg := strings.TrimSpace(e.Message); msg != "" {
			return msg
		}
	}
	return ""
}

func decodePayload(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &apperrors.UpstreamError{Err: fmt.Errorf("%w: %v", errMalformed, err)}
	}
	return nil
}

func malformed(reason string) error {
	return &apperrors.UpstreamError{Err: fmt.Errorf("%w: %s", errMalformed, reason)}
}
