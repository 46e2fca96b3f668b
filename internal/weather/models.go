package weather

import (
	"time"
)

// WeatherSnapshot is the normalized current-conditions view for one location.
type WeatherSnapshot struct {
	LocationName         string  `json:"city"`
	CountryCode          string  `json:"country"`
	TemperatureC         float64 `json:"temperature"`
	FeelsLikeC           float64 `json:"feels_like"`
	HumidityPct          int     `json:"humidity"`
	WindSpeedMs          float64 `json:"wind"`
	ConditionLabel       string  `json:"condition"`
	ConditionDescription string  `json:"description"`
	IconCode             string  `json:"icon"`
}

// ForecastDay is the representative sample for one calendar day.
// TimestampMs is the provider sample time in epoch milliseconds.
type ForecastDay struct {
	TimestampMs          int64   `json:"date"`
	TemperatureC         float64 `json:"temperature"`
	FeelsLikeC           float64 `json:"feels_like"`
	HumidityPct          int     `json:"humidity"`
	WindSpeedMs          float64 `json:"wind"`
	ConditionLabel       string  `json:"condition"`
	ConditionDescription string  `json:"description"`
	IconCode             string  `json:"icon"`
}

// Forecast is an ordered window of ForecastDay entries, ascending by timestamp,
// at most one per calendar date.
type Forecast []ForecastDay

// Sample is one sub-daily provider reading before windowing.
type Sample struct {
	Time                 time.Time
	TemperatureC         float64
	FeelsLikeC           float64
	HumidityPct          int
	WindSpeedMs          float64
	ConditionLabel       string
	ConditionDescription string
	IconCode             string
}

// ForecastSeries is the raw multi-sample forecast for a city.
// UTCOffsetSeconds is the city's offset as reported by the provider.
type ForecastSeries struct {
	Samples          []Sample
	UTCOffsetSeconds int
}

func (s Sample) toDay() ForecastDay {
	return ForecastDay{
		TimestampMs:          s.Time.UnixMilli(),
		TemperatureC:         s.TemperatureC,
		FeelsLikeC:           s.FeelsLikeC,
		HumidityPct:          s.HumidityPct,
		WindSpeedMs:          s.WindSpeedMs,
		ConditionLabel:       s.ConditionLabel,
		ConditionDescription: s.ConditionDescription,
		IconCode:             s.IconCode,
	}
}

// ClampHumidity bounds a humidity reading to [0, 100].
func ClampHumidity(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
