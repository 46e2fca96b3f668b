package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	suggest := flag.String("suggest", "", "print city suggestions for a name prefix")
	toggleTheme := flag.Bool("toggle-theme", false, "switch between light and dark theme")
	plain := flag.Bool("plain", false, "disable colors")
	asJSON := flag.Bool("json", false, "print the dashboard state as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [city]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "With no city, the most recent search is shown again.")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Logs go to stderr so stdout stays clean for the dashboard.
	dotenvErr := config.LoadDotEnv()
	log := logger.NewWithWriter(os.Stderr, "weather-cli", getenv("LOG_LEVEL", "warn"))
	if dotenvErr != nil {
		log.Debug("no .env file loaded", "error", dotenvErr)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Error("failed to load config", "error", err)
		return 1
	}

	kv, err := store.OpenSQLite(cfg.StatePath)
	if err != nil {
		log.Error("failed to open state", "path", cfg.StatePath, "error", err)
		return 1
	}
	defer kv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := dashboard.NewAPIClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.APIBaseURL)
	theme := store.NewTextValue(kv, "theme", dashboard.SystemTheme(), log)
	history := store.NewJSONValue(kv, "searchHistory", func() []string { return []string{} }, log)
	d := dashboard.New(api, theme, history, log)

	if q := strings.TrimSpace(*suggest); q != "" {
		found, err := d.Suggest(ctx, q)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, s := range found {
			fmt.Println(s.DisplayName)
		}
		return 0
	}

	if city := strings.Join(flag.Args(), " "); city == "" {
		<-d.Start(ctx)
	} else {
		d.Restore()
		// failures end up in the view's error message
		_ = d.Submit(ctx, city)
	}

	if *toggleTheme {
		if _, err := d.ToggleTheme(); err != nil {
			log.Warn("could not save theme", "error", err)
		}
	}

	view := d.View()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return 1
		}
	} else if err := dashboard.Render(os.Stdout, view, dashboard.RenderOptions{Plain: *plain}); err != nil {
		return 1
	}

	if view.Phase == dashboard.PhaseError {
		return 1
	}
	return 0
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
