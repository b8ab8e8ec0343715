package fetcher

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/zsb-analytics/premier-league-stats/internal/models"
	"github.com/zsb-analytics/premier-league-stats/internal/writer"
)

// maxBodyBytes caps how much of a standings response we will read (1 MiB).
const maxBodyBytes = 1 << 20

// ErrSeasonUnavailable marks a season the API refused to serve, typically
// because it is outside the subscription tier. Callers skip these seasons.
type ErrSeasonUnavailable struct {
	Year   int
	Status int
}

func (e *ErrSeasonUnavailable) Error() string {
	return fmt.Sprintf("season %d unavailable: status %d", e.Year, e.Status)
}

// StandingsResponse mirrors the parts of the football-data.org v4 standings
// payload we consume.
type StandingsResponse struct {
	Season struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"season"`
	Standings []Standing `json:"standings"`
}

// Standing is one standings table variant (TOTAL, HOME, AWAY).
type Standing struct {
	Type  string          `json:"type"`
	Table []StandingEntry `json:"table"`
}

// StandingEntry is one team's line in a standings table. Stat fields are
// pointers so that a key missing from the payload is distinguishable from
// a genuine zero.
type StandingEntry struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Position     int      `json:"position"`
	Won          *float64 `json:"won"`
	Draw         *float64 `json:"draw"`
	Lost         *float64 `json:"lost"`
	GoalsFor     *float64 `json:"goalsFor"`
	GoalsAgainst *float64 `json:"goalsAgainst"`
}

func (e *StandingEntry) complete() bool {
	return e.Won != nil && e.Draw != nil && e.Lost != nil && e.GoalsFor != nil && e.GoalsAgainst != nil
}

// Client fetches league standings from the remote API.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a Client for the given API base URL and auth token.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchSeason retrieves and flattens the TOTAL standings for one season.
func (c *Client) FetchSeason(year int) ([]models.TeamSeasonStats, error) {
	url := fmt.Sprintf("%s/standings?season=%d", c.BaseURL, year)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for season %d: %w", year, err)
	}
	req.Header.Set("X-Auth-Token", c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching season %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &ErrSeasonUnavailable{Year: year, Status: resp.StatusCode}
	}

	var sr StandingsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding season %d response: %w", year, err)
	}

	return Flatten(&sr, year)
}

// FetchSeasons fetches every requested season in order. A failed season is
// logged and skipped; the remaining seasons are still fetched.
func (c *Client) FetchSeasons(years []int) []models.TeamSeasonStats {
	var all []models.TeamSeasonStats
	for _, y := range years {
		rows, err := c.FetchSeason(y)
		if err != nil {
			log.Printf("warning: skipping season %d: %v", y, err)
			continue
		}
		all = append(all, rows...)
	}
	return all
}

// FetchToCSV fetches every requested season, merges the rows into any
// existing CSV at csvPath keyed on (team, year) with fresh rows winning,
// and writes the merged table back. Returns the number of rows written.
// An empty fetch (every season failed) is an error; a write failure is
// fatal for the run.
func (c *Client) FetchToCSV(years []int, csvPath string) (int, error) {
	fresh := c.FetchSeasons(years)
	if len(fresh) == 0 {
		return 0, fmt.Errorf("no data collected from any of the %d requested season(s)", len(years))
	}

	existing, err := writer.ReadFromFile(csvPath)
	if err != nil {
		// First run: nothing to merge with.
		existing = nil
	}
	merged := writer.MergeByKey(existing, fresh)

	w := &writer.CSVWriter{}
	if err := w.WriteToFile(csvPath, merged); err != nil {
		return 0, err
	}
	return len(merged), nil
}

// Flatten maps the nested standings payload to flat per-team rows tagged
// with the requested season year. Only the TOTAL table is used; entries
// without a team name are skipped.
func Flatten(resp *StandingsResponse, year int) ([]models.TeamSeasonStats, error) {
	var total *Standing
	for i := range resp.Standings {
		if strings.EqualFold(resp.Standings[i].Type, "TOTAL") {
			total = &resp.Standings[i]
			break
		}
	}
	if total == nil {
		return nil, fmt.Errorf("no TOTAL table in standings for season %d", year)
	}

	rows := make([]models.TeamSeasonStats, 0, len(total.Table))
	for _, entry := range total.Table {
		if entry.Team.Name == "" {
			log.Printf("warning: season %d: standings entry at position %d has no team name, skipping", year, entry.Position)
			continue
		}
		if !entry.complete() {
			log.Printf("warning: season %d: incomplete stats for %s, skipping", year, entry.Team.Name)
			continue
		}
		rows = append(rows, models.TeamSeasonStats{
			Team:         entry.Team.Name,
			Year:         year,
			Won:          *entry.Won,
			Draw:         *entry.Draw,
			Lost:         *entry.Lost,
			GoalsFor:     *entry.GoalsFor,
			GoalsAgainst: *entry.GoalsAgainst,
		})
	}
	return rows, nil
}
