package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/zsb-analytics/premier-league-stats/internal/api"
	"github.com/zsb-analytics/premier-league-stats/internal/config"
	"github.com/zsb-analytics/premier-league-stats/internal/fetcher"
	"github.com/zsb-analytics/premier-league-stats/internal/query"
	"github.com/zsb-analytics/premier-league-stats/internal/summary"
)

const version = "1.0.0"

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	seasonsFlag := flag.String("seasons", "", "Comma-separated season start years (overrides SEASONS)")
	csvFlag := flag.String("csv", "", "Stats CSV path (overrides CSV_PATH)")
	plotsFlag := flag.String("plots", "", "Chart output directory (overrides PLOTS_DIR)")
	addrFlag := flag.String("addr", "", "HTTP listen address for serve (overrides LISTEN_ADDR)")
	queryFlag := flag.String("query", "", "JSON query payload for the query command")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Premier League Stats Pipeline

Fetches league standings from football-data.org, stores them as CSV,
and renders per-KPI summary charts.

Usage:
  premier-league-stats [flags] <command>

Commands:
  fetch      Fetch standings for the configured seasons and write the CSV
  summarize  Clean the CSV and render one chart per KPI
  query      Filter the CSV by year/team/KPI and print JSON
  serve      Run the HTTP service (/get_csv, /summarize, /query_kpi_from_csv)

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  FOOTBALL_API_TOKEN   API auth token (required for fetch)
  FOOTBALL_API_BASE_URL, SEASONS, MIN_SEASON_YEAR, MAX_SEASON_YEAR,
  CSV_PATH, PLOTS_DIR, LISTEN_ADDR

Examples:
  premier-league-stats fetch
  premier-league-stats -seasons=2022,2023 fetch
  premier-league-stats summarize
  premier-league-stats -query='{"StartYear":2023,"EndYear":2024,"TeamNameList":["Arsenal FC"],"KPIName":"won"}' query
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("premier-league-stats v%s\n", version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fatalf("config error: %v\n", err)
	}
	if *csvFlag != "" {
		cfg.CSVPath = *csvFlag
	}
	if *plotsFlag != "" {
		cfg.PlotsDir = *plotsFlag
	}
	if *addrFlag != "" {
		cfg.ListenAddr = *addrFlag
	}
	if *seasonsFlag != "" {
		seasons, err := config.ParseSeasons(*seasonsFlag)
		if err != nil {
			fatalf("invalid -seasons: %v\n", err)
		}
		cfg.Seasons = seasons
	}

	switch cmd := flag.Arg(0); cmd {
	case "fetch":
		runFetch(cfg)
	case "summarize":
		runSummarize(cfg)
	case "query":
		runQuery(cfg, *queryFlag)
	case "serve":
		runServe(cfg)
	default:
		fatalf("unknown command %q\n\nRun with -help for usage.\n", cmd)
	}
}

func runFetch(cfg *config.Config) {
	if cfg.APIToken == "" {
		fatalf("missing API token: set FOOTBALL_API_TOKEN\n")
	}

	fmt.Printf("Fetching %d season(s) from %s\n", len(cfg.Seasons), cfg.APIBaseURL)
	client := fetcher.New(cfg.APIBaseURL, cfg.APIToken)
	rows, err := client.FetchToCSV(cfg.Seasons, cfg.CSVPath)
	if err != nil {
		fatalf("fetch failed: %v\n", err)
	}
	fmt.Printf("Data saved as %s (%d rows)\n", cfg.CSVPath, rows)
}

func runSummarize(cfg *config.Config) {
	fmt.Printf("Summarizing %s\n", cfg.CSVPath)
	if err := summary.Summarize(cfg.CSVPath, cfg.PlotsDir, cfg.MinYear, cfg.MaxYear); err != nil {
		fatalf("summarize failed: %v\n", err)
	}
	fmt.Printf("Charts written to %s\n", cfg.PlotsDir)
}

func runQuery(cfg *config.Config, payload string) {
	// Default mirrors a typical dashboard query.
	req := query.Request{
		StartYear:    2023,
		EndYear:      2024,
		TeamNameList: []string{"Manchester City FC", "Arsenal FC"},
		KPIName:      "won",
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			fatalf("invalid -query payload: %v\n", err)
		}
	}

	resp, err := query.Run(cfg.CSVPath, req)
	if err != nil {
		fatalf("query failed: %v\n", err)
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fatalf("encoding result: %v\n", err)
	}
	fmt.Println(string(out))
}

func runServe(cfg *config.Config) {
	app := fiber.New()
	api.NewHandler(cfg).Register(app)

	fmt.Printf("Listening on %s\n", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
