package weather

import (
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"
)

// MaxForecastDays caps the number of calendar days in a forecast window.
const MaxForecastDays = 5

// WindowForecast collapses sub-daily samples into one entry per calendar date,
// keeping the earliest sample of each date, and returns at most maxDays entries
// in ascending time order. Dates are taken in loc (UTC when nil).
func WindowForecast(samples []Sample, loc *time.Location, maxDays int) Forecast {
	if loc == nil {
		loc = time.UTC
	}
	if maxDays <= 0 || len(samples) == 0 {
		return Forecast{}
	}
	out := make(Forecast, 0, maxDays)

	// Providers send samples in order already; the stable sort keeps that order
	// and only matters when they do not.
	ordered := make([]Sample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	seen := make(map[string]struct{}, maxDays)
	for _, s := range ordered {
		key := s.Time.In(loc).Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s.toDay())
		if len(out) == maxDays {
			break
		}
	}
	return out
}

// DayBoundary selects the calendar used to bucket forecast samples.
type DayBoundary struct {
	fixed    *time.Location
	provider bool
}

// ParseDayBoundary accepts "UTC" (or empty), "provider" for the city offset the
// provider reports, "local" for the server's own zone, or an IANA zone name.
func ParseDayBoundary(name string) (DayBoundary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utc":
		return DayBoundary{fixed: time.UTC}, nil
	case "provider":
		return DayBoundary{provider: true}, nil
	case "local":
		return DayBoundary{fixed: time.Local}, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return DayBoundary{}, fmt.Errorf("unknown forecast timezone %q: %w", name, err)
	}
	return DayBoundary{fixed: loc}, nil
}

// Location resolves the bucketing location for a forecast whose city sits at
// the given UTC offset.
func (b DayBoundary) Location(utcOffsetSeconds int) *time.Location {
	if b.provider {
		return time.FixedZone(offsetName(utcOffsetSeconds), utcOffsetSeconds)
	}
	if b.fixed == nil {
		return time.UTC
	}
	return b.fixed
}

// String names the policy for logs.
func (b DayBoundary) String() string {
	if b.provider {
		return "provider"
	}
	if b.fixed == nil {
		return "UTC"
	}
	return b.fixed.String()
}

// offsetName formats an offset as "UTC+05:30".
func offsetName(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, seconds%3600/60)
}
