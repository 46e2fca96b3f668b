package cities

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
)

// SuggestionLimit is how many cities a suggestion lookup asks for.
const SuggestionLimit = 5

// City is a place returned by the city-lookup provider.
type City struct {
	Name        string
	CountryCode string
}

// Suggestion is the client-facing shape of a city match.
type Suggestion struct {
	Name        string `json:"name"`
	CountryCode string `json:"country"`
	DisplayName string `json:"fullName"`
}

// Provider looks up cities by name prefix.
type Provider interface {
	Name() string
	Search(ctx context.Context, prefix string, limit int) ([]City, error)
}

// Service serves city name suggestions. It shares no state with weather lookups.
type Service struct {
	provider Provider
	logger   *slog.Logger
}

func NewService(provider Provider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logger.With("component", "cities.service")}
}

// Suggest returns up to SuggestionLimit cities whose name starts with query.
func (s *Service) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Required("query")
	}

	found, err := s.provider.Search(ctx, query, SuggestionLimit)
	if err != nil {
		s.logger.Warn("city lookup failed", "provider", s.provider.Name(), "query", query, "error", err)
		return nil, fmt.Errorf("city suggestions for %q: %w", query, err)
	}

	out := make([]Suggestion, 0, len(found))
	for _, c := range found {
		out = append(out, Suggestion{
			Name:        c.Name,
			CountryCode: c.CountryCode,
			DisplayName: fmt.Sprintf("%s, %s", c.Name, c.CountryCode),
		})
	}
	return out, nil
}
