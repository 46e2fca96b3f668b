package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/store"
)

const londonWeather = `{"city":"London","country":"GB","temperature":11.6,"feels_like":10.9,"humidity":81,"wind":4.1,"condition":"Clouds","description":"overcast clouds","icon":"04d"}`

const londonForecast = `[
  {"date":1709251200000,"temperature":5.1,"feels_like":2.0,"humidity":90,"wind":3.1,"condition":"Rain","description":"light rain","icon":"10n"},
  {"date":1709337600000,"temperature":7.4,"feels_like":5.0,"humidity":70,"wind":2.0,"condition":"Clear","description":"clear sky","icon":"01d"}
]`

// fakeProxy stands in for the proxy service.
type fakeProxy struct {
	mu       sync.Mutex
	hits     map[string]int
	cities   []string
	weather  func(w http.ResponseWriter, city string)
	forecast func(w http.ResponseWriter, city string)
	block    chan struct{}
}

func newFakeProxy(t *testing.T) (*fakeProxy, *httptest.Server) {
	t.Helper()
	p := &fakeProxy{
		hits: map[string]int{},
		weather: func(w http.ResponseWriter, _ string) {
			_, _ = w.Write([]byte(londonWeather))
		},
		forecast: func(w http.ResponseWriter, _ string) {
			_, _ = w.Write([]byte(londonForecast))
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.hits[r.URL.Path]++
		city := r.URL.Query().Get("city")
		if city != "" {
			p.cities = append(p.cities, city)
		}
		block := p.block
		p.mu.Unlock()

		if block != nil {
			<-block
		}

		switch r.URL.Path {
		case "/api/weather":
			p.weather(w, city)
		case "/api/forecast":
			p.forecast(w, city)
		case "/api/cities":
			_, _ = w.Write([]byte(`[{"name":"London","country":"GB","fullName":"London, GB"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return p, srv
}

func (p *fakeProxy) count(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits[path]
}

func (p *fakeProxy) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, v := range p.hits {
		n += v
	}
	return n
}

type testDashboard struct {
	*Dashboard
	kv      *store.MemoryKV
	history *store.JSONValue[[]string]
}

func newTestDashboard(t *testing.T, srv *httptest.Server) testDashboard {
	t.Helper()
	kv := store.NewMemoryKV()
	log := logger.Discard()
	theme := store.NewTextValue[Theme](kv, "theme", ThemeLight, log)
	history := store.NewJSONValue(kv, "searchHistory", func() []string { return []string{} }, log)
	api := NewAPIClient(srv.Client(), srv.URL)
	return testDashboard{Dashboard: New(api, theme, history, log), kv: kv, history: history}
}

func TestSubmitSuccess(t *testing.T) {
	_, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)

	require.NoError(t, d.Submit(context.Background(), "  London "))

	v := d.View()
	require.Equal(t, PhaseSuccess, v.Phase)
	require.Equal(t, "London", v.City)
	require.NotNil(t, v.Weather)
	require.Equal(t, "GB", v.Weather.CountryCode)
	require.Len(t, v.Forecast, 2)
	require.Empty(t, v.Error)
	require.Equal(t, History{"London"}, v.History)
	require.Equal(t, []string{"London"}, d.history.Load())
}

func TestSubmitBlankMakesNoRequest(t *testing.T) {
	p, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)

	require.NoError(t, d.Submit(context.Background(), ""))
	require.NoError(t, d.Submit(context.Background(), "   \t"))

	require.Zero(t, p.total())
	require.Equal(t, PhaseIdle, d.View().Phase)
}

func TestSubmitWeatherFailureUsesServerMessage(t *testing.T) {
	p, srv := newFakeProxy(t)
	p.weather = func(w http.ResponseWriter, _ string) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"city not found"}`))
	}
	d := newTestDashboard(t, srv)

	err := d.Submit(context.Background(), "Atlantis")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)

	v := d.View()
	require.Equal(t, PhaseError, v.Phase)
	require.Equal(t, "city not found", v.Error)
	require.Nil(t, v.Weather)
	require.Empty(t, v.History)
	require.Zero(t, p.count("/api/forecast"))
}

func TestSubmitForecastFailureDiscardsWeather(t *testing.T) {
	p, srv := newFakeProxy(t)
	p.forecast = func(w http.ResponseWriter, _ string) {
		w.WriteHeader(http.StatusBadGateway)
	}
	d := newTestDashboard(t, srv)

	require.NoError(t, d.Submit(context.Background(), "Paris"))
	require.Equal(t, PhaseSuccess, d.View().Phase)

	require.Error(t, d.Submit(context.Background(), "London"))

	v := d.View()
	require.Equal(t, PhaseError, v.Phase)
	require.Nil(t, v.Weather)
	require.Nil(t, v.Forecast)
	require.Equal(t, DefaultErrorMessage, v.Error)
	require.Equal(t, History{"Paris"}, v.History)
}

func TestSubmitUnreachableServer(t *testing.T) {
	_, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)
	srv.Close()

	require.Error(t, d.Submit(context.Background(), "London"))
	require.Equal(t, DefaultErrorMessage, d.View().Error)
}

func TestSubmitRefusedWhileLoading(t *testing.T) {
	p, srv := newFakeProxy(t)
	release := make(chan struct{})
	p.block = release
	d := newTestDashboard(t, srv)

	errc := make(chan error, 1)
	go func() { errc <- d.Submit(context.Background(), "London") }()

	require.Eventually(t, func() bool { return d.View().Phase == PhaseLoading }, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, d.Submit(context.Background(), "Paris"), ErrBusy)

	p.mu.Lock()
	p.block = nil
	p.mu.Unlock()
	close(release)

	require.NoError(t, <-errc)
	require.Equal(t, History{"London"}, d.View().History)
}

func TestHistoryIsMostRecentFirstAndCapped(t *testing.T) {
	_, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)

	for _, city := range []string{"A", "B", "C", "D", "E", "F"} {
		require.NoError(t, d.Submit(context.Background(), city))
	}
	require.Equal(t, History{"F", "E", "D", "C", "B"}, d.View().History)

	require.NoError(t, d.Submit(context.Background(), "C"))
	require.Equal(t, History{"F", "E", "D", "C", "B"}, d.View().History)
	require.Equal(t, []string{"F", "E", "D", "C", "B"}, d.history.Load())
}

func TestStartRestoresStateAndLooksUpLastCity(t *testing.T) {
	p, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)
	require.NoError(t, d.kv.Set("theme", "dark"))
	require.NoError(t, d.kv.Set("searchHistory", `["Tokyo","Paris"]`))

	<-d.Start(context.Background())

	v := d.View()
	require.Equal(t, ThemeDark, v.Theme)
	require.Equal(t, History{"Tokyo", "Paris"}, v.History)
	require.Equal(t, PhaseSuccess, v.Phase)
	require.Equal(t, "Tokyo", v.City)
	p.mu.Lock()
	defer p.mu.Unlock()
	require.Equal(t, []string{"Tokyo", "Tokyo"}, p.cities)
}

func TestStartWithEmptyStorage(t *testing.T) {
	p, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)

	select {
	case <-d.Start(context.Background()):
	case <-time.After(time.Second):
		t.Fatal("start did not finish")
	}

	v := d.View()
	require.Equal(t, ThemeLight, v.Theme)
	require.Empty(t, v.History)
	require.Equal(t, PhaseIdle, v.Phase)
	require.Zero(t, p.total())
}

func TestStartWithCorruptHistory(t *testing.T) {
	p, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)
	require.NoError(t, d.kv.Set("searchHistory", `{not json`))
	require.NoError(t, d.kv.Set("theme", "purple"))

	<-d.Start(context.Background())

	v := d.View()
	require.Empty(t, v.History)
	require.Equal(t, ThemeLight, v.Theme)
	require.Zero(t, p.total())

	_, ok, _ := d.kv.Get("searchHistory")
	require.False(t, ok)
}

func TestToggleThemePersists(t *testing.T) {
	_, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)

	next, err := d.ToggleTheme()
	require.NoError(t, err)
	require.Equal(t, ThemeDark, next)
	raw, _, _ := d.kv.Get("theme")
	require.Equal(t, "dark", raw)

	next, err = d.ToggleTheme()
	require.NoError(t, err)
	require.Equal(t, ThemeLight, next)
	raw, _, _ = d.kv.Get("theme")
	require.Equal(t, "light", raw)
}

func TestSuggest(t *testing.T) {
	p, srv := newFakeProxy(t)
	d := newTestDashboard(t, srv)

	got, err := d.Suggest(context.Background(), " ")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Zero(t, p.total())

	got, err = d.Suggest(context.Background(), "Lon")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "London, GB", got[0].DisplayName)
}

func TestAPIClientSendsEscapedQuery(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewAPIClient(srv.Client(), srv.URL+"/")
	f, err := c.Forecast(context.Background(), "São Paulo")
	require.NoError(t, err)
	require.Empty(t, f)
	require.True(t, strings.HasPrefix(gotQuery.Load().(string), "city=S%C3%A3o+Paulo"))
}
