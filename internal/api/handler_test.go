package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/zsb-analytics/premier-league-stats/internal/config"
	"github.com/zsb-analytics/premier-league-stats/internal/models"
	"github.com/zsb-analytics/premier-league-stats/internal/writer"
)

func setupTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHandler(cfg).Register(app)
	return app
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		APIBaseURL: "http://127.0.0.1:0",
		APIToken:   "test-token",
		Seasons:    []int{2023},
		MinYear:    1992,
		MaxYear:    2025,
		CSVPath:    filepath.Join(dir, "stats.csv"),
		PlotsDir:   filepath.Join(dir, "plots"),
	}
}

func writeFixtureCSV(t *testing.T, path string) {
	t.Helper()
	rows := []models.TeamSeasonStats{
		{Team: "Arsenal FC", Year: 2023, Won: 20, Draw: 5, Lost: 3, GoalsFor: 60, GoalsAgainst: 25},
		{Team: "Arsenal FC", Year: 2024, Won: 18, Draw: 8, Lost: 4, GoalsFor: 55, GoalsAgainst: 28},
		{Team: "Chelsea FC", Year: 2023, Won: 15, Draw: 9, Lost: 6, GoalsFor: 50, GoalsAgainst: 35},
		{Team: "Chelsea FC", Year: 2024, Won: 16, Draw: 7, Lost: 7, GoalsFor: 52, GoalsAgainst: 40},
	}
	w := &writer.CSVWriter{}
	if err := w.WriteToFile(path, rows); err != nil {
		t.Fatalf("writing fixture CSV: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t, testConfig(t))

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}
	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestCORSHeaders(t *testing.T) {
	app := setupTestApp(t, testConfig(t))

	req := httptest.NewRequest("OPTIONS", "/query_kpi_from_csv", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}

func TestGetCSVEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"standings": [{"type": "TOTAL", "table": [
				{"team": {"name": "Arsenal FC"}, "position": 1, "won": 20, "draw": 5, "lost": 3, "goalsFor": 60, "goalsAgainst": 25}
			]}]
		}`)
	}))
	defer upstream.Close()

	cfg := testConfig(t)
	cfg.APIBaseURL = upstream.URL
	app := setupTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/get_csv", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		Message string `json:"message"`
		Rows    int    `json:"rows"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Message != "CSV file saved." {
		t.Errorf("unexpected message %q", result.Message)
	}
	if result.Rows != 1 {
		t.Errorf("expected 1 row, got %d", result.Rows)
	}

	if _, err := os.Stat(cfg.CSVPath); err != nil {
		t.Errorf("expected CSV on disk: %v", err)
	}
}

func TestSummarizeEndpoint(t *testing.T) {
	cfg := testConfig(t)
	writeFixtureCSV(t, cfg.CSVPath)
	app := setupTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/summarize", nil), 30000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	entries, err := os.ReadDir(cfg.PlotsDir)
	if err != nil {
		t.Fatalf("reading plots dir: %v", err)
	}
	if len(entries) != len(models.StatsColumns) {
		t.Errorf("expected %d charts, got %d", len(models.StatsColumns), len(entries))
	}
}

func TestSummarizeEndpointMissingCSV(t *testing.T) {
	app := setupTestApp(t, testConfig(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/summarize", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("expected 500 for missing CSV, got %d", resp.StatusCode)
	}
}

func TestQueryEndpoint(t *testing.T) {
	cfg := testConfig(t)
	writeFixtureCSV(t, cfg.CSVPath)
	app := setupTestApp(t, cfg)

	payload := `{"StartYear":2023,"EndYear":2024,"TeamNameList":["Arsenal FC"],"KPIName":"won"}`
	req := httptest.NewRequest("POST", "/query_kpi_from_csv", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		Result []map[string]any `json:"Result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Result) != 2 {
		t.Fatalf("expected both Arsenal seasons, got %d", len(result.Result))
	}
	if result.Result[0]["team"] != "Arsenal FC" {
		t.Errorf("unexpected record: %v", result.Result[0])
	}
	if _, ok := result.Result[0]["won"]; !ok {
		t.Error("expected the requested KPI in the record")
	}
}

func TestQueryEndpointUnknownKPI(t *testing.T) {
	cfg := testConfig(t)
	writeFixtureCSV(t, cfg.CSVPath)
	app := setupTestApp(t, cfg)

	payload := `{"StartYear":2023,"EndYear":2024,"KPIName":"scored"}`
	req := httptest.NewRequest("POST", "/query_kpi_from_csv", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for unknown KPI, got %d", resp.StatusCode)
	}
}

func TestQueryEndpointMissingCSV(t *testing.T) {
	app := setupTestApp(t, testConfig(t))

	payload := `{"StartYear":2023,"EndYear":2024,"KPIName":"won"}`
	req := httptest.NewRequest("POST", "/query_kpi_from_csv", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("expected 500 for missing CSV, got %d", resp.StatusCode)
	}
}

func TestQueryEndpointBadPayload(t *testing.T) {
	app := setupTestApp(t, testConfig(t))

	req := httptest.NewRequest("POST", "/query_kpi_from_csv", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for bad payload, got %d", resp.StatusCode)
	}
}
