package dashboard

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

const dateLayout = "Mon, Jan 2"

// palette holds ANSI color numbers per role.
type palette struct {
	title, accent, muted, errText string
}

var palettes = map[Theme]palette{
	ThemeLight: {title: "4", accent: "4", muted: "8", errText: "1"},
	ThemeDark:  {title: "14", accent: "11", muted: "7", errText: "9"},
}

type styler struct {
	out *termenv.Output
	p   palette
}

func (s styler) paint(color string, bold bool, text string) string {
	style := s.out.String(text).Foreground(s.out.Color(color))
	if bold {
		style = style.Bold()
	}
	return style.String()
}

func (s styler) title(text string) string { return s.paint(s.p.title, true, text) }
func (s styler) accent(text string) string { return s.paint(s.p.accent, false, text) }
func (s styler) muted(text string) string { return s.paint(s.p.muted, false, text) }
func (s styler) err(text string) string { return s.paint(s.p.errText, false, text) }

// RenderOptions controls how a View is printed.
type RenderOptions struct {
	// Now is the date shown in the header.
	Now time.Time
	// Location is the zone forecast dates are shown in. Defaults to time.Local.
	Location *time.Location
	// Output decides the color profile. When nil it is detected from the
	// destination writer, so pipes, files and NO_COLOR get plain text.
	Output *termenv.Output
	// Plain disables colors regardless of Output.
	Plain bool
}

// IconURL returns the OpenWeatherMap image URL for an icon code, or "" if the
// code is empty.
func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("http://openweathermap.org/img/wn/%s@2x.png", code)
}

// Render writes v as text.
func Render(w io.Writer, v View, opts RenderOptions) error {
	out := opts.Output
	if out == nil {
		out = termenv.NewOutput(w)
	}
	if opts.Plain {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	st := styler{out: out, p: palettes[v.Theme]}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  [%s]\n", st.title("Weather Dashboard"), v.Theme)

	if v.Phase == PhaseLoading {
		fmt.Fprintf(&b, "%s\n", st.muted("Loading "+v.City+"..."))
	}

	if len(v.History) > 0 {
		fmt.Fprintf(&b, "%s %s\n", st.muted("Recent Searches:"), strings.Join(v.History, " | "))
	}

	if v.Error != "" {
		fmt.Fprintf(&b, "\n%s\n", st.err(v.Error))
	}

	if v.Weather != nil {
		cw := v.Weather
		name := cw.LocationName
		if name == "" {
			name = "Unknown Location"
		}
		if cw.CountryCode != "" {
			name += ", " + cw.CountryCode
		}

		fmt.Fprintf(&b, "\n%s  %s\n", st.title(name), now.In(loc).Format(dateLayout))
		fmt.Fprintf(&b, "%s  feels like %d °C\n", st.accent(fmt.Sprintf("%d °C", roundTemp(cw.TemperatureC))), roundTemp(cw.FeelsLikeC))
		fmt.Fprintf(&b, "%s (%s)\n", cw.ConditionDescription, cw.ConditionLabel)
		fmt.Fprintf(&b, "Wind: %v m/s   Humidity: %d%%   Pressure: N/A\n", cw.WindSpeedMs, cw.HumidityPct)
		if icon := IconURL(cw.IconCode); icon != "" {
			fmt.Fprintf(&b, "%s\n", st.muted("Icon: "+icon))
		}

		if len(v.Forecast) > 0 {
			fmt.Fprintf(&b, "\n%s\n", st.title("5-Day Forecast"))
			for _, day := range v.Forecast {
				date := time.UnixMilli(day.TimestampMs).In(loc).Format(dateLayout)
				temp := st.accent(fmt.Sprintf("%4d°C", roundTemp(day.TemperatureC)))
				fmt.Fprintf(&b, "  %-12s %s  %s\n", date, temp, day.ConditionDescription)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// roundTemp rounds halves up, so -2.5 shows as -2.
func roundTemp(c float64) int {
	return int(math.Floor(c + 0.5))
}
