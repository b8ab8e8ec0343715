package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultAPIBaseURL = "https://api.football-data.org/v4/competitions/PL"
	DefaultCSVPath    = "data/premier_league_stats.csv"
	DefaultPlotsDir   = "premier_league_plots"
	DefaultListenAddr = ":8080"
	DefaultSeasons    = "2020,2021,2022,2023,2024"

	// The Premier League's first season.
	MinLeagueYear = 1992
)

// Config carries everything the pipeline needs from the environment.
// Both the fetcher and the summarizer take it at construction; nothing
// reads the environment after startup.
type Config struct {
	APIBaseURL string
	APIToken   string
	Seasons    []int
	MinYear    int
	MaxYear    int
	CSVPath    string
	PlotsDir   string
	ListenAddr string
}

// FromEnv builds a Config from environment variables, applying defaults
// for everything except the API token (which is only required to fetch).
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIBaseURL: getenv("FOOTBALL_API_BASE_URL", DefaultAPIBaseURL),
		APIToken:   os.Getenv("FOOTBALL_API_TOKEN"),
		CSVPath:    getenv("CSV_PATH", DefaultCSVPath),
		PlotsDir:   getenv("PLOTS_DIR", DefaultPlotsDir),
		ListenAddr: getenv("LISTEN_ADDR", DefaultListenAddr),
	}

	seasons, err := ParseSeasons(getenv("SEASONS", DefaultSeasons))
	if err != nil {
		return nil, err
	}
	cfg.Seasons = seasons

	cfg.MinYear, err = getenvInt("MIN_SEASON_YEAR", MinLeagueYear)
	if err != nil {
		return nil, err
	}
	cfg.MaxYear, err = getenvInt("MAX_SEASON_YEAR", time.Now().Year())
	if err != nil {
		return nil, err
	}
	if cfg.MinYear > cfg.MaxYear {
		return nil, fmt.Errorf("invalid year range: min %d > max %d", cfg.MinYear, cfg.MaxYear)
	}

	return cfg, nil
}

// ParseSeasons parses a comma-separated list of season start years.
func ParseSeasons(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", part, err)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no seasons in %q", s)
	}
	return years, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
