package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultErrorMessage is shown when a lookup fails without a server message.
const DefaultErrorMessage = "Failed to fetch weather data."

// ErrBusy is returned by Submit while another lookup is in flight.
var ErrBusy = errors.New("a lookup is already in progress")

// Phase is where the dashboard is in its lookup cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// View is a snapshot of everything the dashboard shows.
type View struct {
	Phase    Phase
	City     string
	Weather  *weather.WeatherSnapshot
	Forecast weather.Forecast
	Error    string
	History  History
	Theme    Theme
}

// Dashboard drives lookups against the proxy service and owns the persisted
// theme and search history.
type Dashboard struct {
	api     Backend
	theme   store.Accessor[Theme]
	history store.Accessor[[]string]
	logger  *slog.Logger

	mu    sync.Mutex
	state View
}

func New(api Backend, theme store.Accessor[Theme], history store.Accessor[[]string], logger *slog.Logger) *Dashboard {
	return &Dashboard{
		api:     api,
		theme:   theme,
		history: history,
		logger:  logger.With("component", "dashboard"),
		state: View{
			Theme:   ThemeLight,
			History: History{},
		},
	}
}

// Restore loads the persisted theme and search history into the view.
func (d *Dashboard) Restore() {
	theme := ParseTheme(string(d.theme.Load()), ThemeLight)
	history := History(d.history.Load()).normalize()

	d.mu.Lock()
	d.state.Theme = theme
	d.state.History = history
	d.mu.Unlock()
}

// Start restores persisted state, then looks up the most recent search in the
// background. The returned channel is closed once that lookup is done, or
// immediately when there is nothing to look up.
func (d *Dashboard) Start(ctx context.Context) <-chan struct{} {
	d.Restore()

	d.mu.Lock()
	history := d.state.History
	d.mu.Unlock()

	done := make(chan struct{})
	if len(history) == 0 {
		close(done)
		return done
	}

	last := history[0]
	go func() {
		defer close(done)
		if err := d.Submit(ctx, last); err != nil {
			d.logger.Info("restoring last search failed", "city", last, "error", err)
		}
	}()
	return done
}

// Submit looks up current weather and then the forecast for city. Blank input
// does nothing. Either call failing clears both results and sets a single
// error message. Successful lookups are recorded in the search history.
func (d *Dashboard) Submit(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	d.mu.Lock()
	if d.state.Phase == PhaseLoading {
		d.mu.Unlock()
		return ErrBusy
	}
	d.state.Phase = PhaseLoading
	d.state.City = city
	d.state.Error = ""
	d.mu.Unlock()

	snapshot, forecast, err := d.fetch(ctx, city)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state.Phase = PhaseError
		d.state.Weather = nil
		d.state.Forecast = nil
		d.state.Error = errorMessage(err)
		d.logger.Warn("lookup failed", "city", city, "error", err)
		return err
	}

	d.state.Phase = PhaseSuccess
	d.state.Weather = &snapshot
	d.state.Forecast = forecast

	if updated, changed := d.state.History.Record(city); changed {
		d.state.History = updated
		if saveErr := d.history.Save([]string(updated)); saveErr != nil {
			d.logger.Warn("persisting search history failed", "error", saveErr)
		}
	}
	return nil
}

func (d *Dashboard) fetch(ctx context.Context, city string) (weather.WeatherSnapshot, weather.Forecast, error) {
	snapshot, err := d.api.Weather(ctx, city)
	if err != nil {
		return weather.WeatherSnapshot{}, nil, fmt.Errorf("current weather: %w", err)
	}
	forecast, err := d.api.Forecast(ctx, city)
	if err != nil {
		return weather.WeatherSnapshot{}, nil, fmt.Errorf("forecast: %w", err)
	}
	if forecast == nil {
		forecast = weather.Forecast{}
	}
	return snapshot, forecast, nil
}

// ToggleTheme flips and persists the theme, returning the new one.
func (d *Dashboard) ToggleTheme() (Theme, error) {
	d.mu.Lock()
	next := d.state.Theme.Toggle()
	d.state.Theme = next
	d.mu.Unlock()

	if err := d.theme.Save(next); err != nil {
		d.logger.Warn("persisting theme failed", "error", err)
		return next, err
	}
	return next, nil
}

// Suggest returns city name suggestions for query. Blank queries return nil
// without calling the service.
func (d *Dashboard) Suggest(ctx context.Context, query string) ([]cities.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return d.api.Cities(ctx, query)
}

// View returns a copy of the current state.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.state
	v.History = append(History(nil), d.state.History...)
	if d.state.Forecast != nil {
		v.Forecast = append(weather.Forecast(nil), d.state.Forecast...)
	}
	if d.state.Weather != nil {
		w := *d.state.Weather
		v.Weather = &w
	}
	return v
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return DefaultErrorMessage
}
