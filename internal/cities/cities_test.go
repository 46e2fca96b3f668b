package cities

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
	"github.com/i474232898/weather-dashboard/internal/logger"
)

type stubProvider struct {
	found      []City
	err        error
	lastPrefix string
	lastLimit  int
	calls      int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(_ context.Context, prefix string, limit int) ([]City, error) {
	p.calls++
	p.lastPrefix = prefix
	p.lastLimit = limit
	return p.found, p.err
}

func TestSuggestMapsCities(t *testing.T) {
	p := &stubProvider{found: []City{{Name: "Paris", CountryCode: "FR"}, {Name: "Paris", CountryCode: "US"}}}
	svc := NewService(p, logger.Discard())

	got, err := svc.Suggest(context.Background(), " Par ")
	require.NoError(t, err)
	require.Equal(t, "Par", p.lastPrefix)
	require.Equal(t, SuggestionLimit, p.lastLimit)
	require.Equal(t, []Suggestion{
		{Name: "Paris", CountryCode: "FR", DisplayName: "Paris, FR"},
		{Name: "Paris", CountryCode: "US", DisplayName: "Paris, US"},
	}, got)
}

func TestSuggestEmptyResultIsNotNil(t *testing.T) {
	svc := NewService(&stubProvider{}, logger.Discard())

	got, err := svc.Suggest(context.Background(), "Qx")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestSuggestValidation(t *testing.T) {
	p := &stubProvider{}
	svc := NewService(p, logger.Discard())

	_, err := svc.Suggest(context.Background(), "\t ")
	require.True(t, apperrors.IsValidation(err))
	require.EqualError(t, err, "query parameter is required")
	require.Zero(t, p.calls)
}

func TestSuggestUpstreamFailure(t *testing.T) {
	p := &stubProvider{err: &apperrors.UpstreamError{Status: http.StatusTooManyRequests, Message: "quota"}}
	svc := NewService(p, logger.Discard())

	_, err := svc.Suggest(context.Background(), "Lon")
	up, ok := apperrors.AsUpstream(err)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, up.StatusCode())
}
