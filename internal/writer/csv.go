package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/zsb-analytics/premier-league-stats/internal/models"
)

// Header is the fixed column order of the stats CSV.
var Header = append([]string{"team", "year"}, models.StatsColumns...)

// CSVWriter writes team-season stat rows to CSV format.
type CSVWriter struct{}

// WriteToFile writes rows to a CSV file at the given path, creating the
// parent directory if needed and overwriting any existing file.
func (w *CSVWriter) WriteToFile(path string, rows []models.TeamSeasonStats) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rows)
}

// Write writes rows in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, rows []models.TeamSeasonStats) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, row := range rows {
		rec := []string{row.Team, strconv.Itoa(row.Year)}
		for _, col := range models.StatsColumns {
			v, err := row.Stat(col)
			if err != nil {
				return err
			}
			rec = append(rec, formatStat(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing CSV row for %s/%d: %w", row.Team, row.Year, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadFromFile loads the stats CSV at path. A missing file is an error:
// there is nothing to summarize without a prior fetch.
func ReadFromFile(path string) ([]models.TeamSeasonStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stats CSV %q: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses stat rows from CSV. The header row must contain the expected
// columns. An unparseable year is kept as 0 so that downstream year
// validation drops the row with a warning instead of aborting the load; an
// empty or unparseable numeric cell becomes NaN for later imputation.
func Read(in io.Reader) ([]models.TeamSeasonStats, error) {
	cr := csv.NewReader(in)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, want := range Header {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("malformed stats CSV: missing column %q", want)
		}
	}

	var rows []models.TeamSeasonStats
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		var row models.TeamSeasonStats
		row.Team = rec[idx["team"]]
		row.Year, _ = strconv.Atoi(rec[idx["year"]])
		for _, col := range models.StatsColumns {
			row.SetStat(col, parseStat(rec[idx[col]]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MergeByKey merges fresh rows into existing ones keyed on (team, year).
// Fresh rows win, so re-fetching a season overwrites its stale rows and the
// CSV stays idempotent across runs. Duplicate keys already on disk are
// collapsed (the later row wins) so that exactly one row per key remains.
// Surviving keys keep their original positions; new keys are appended in
// (year, team) order for determinism.
func MergeByKey(existing, fresh []models.TeamSeasonStats) []models.TeamSeasonStats {
	merged := make([]models.TeamSeasonStats, 0, len(existing))
	pos := make(map[string]int, len(existing))
	for _, row := range existing {
		if i, ok := pos[row.Key()]; ok {
			merged[i] = row
			continue
		}
		pos[row.Key()] = len(merged)
		merged = append(merged, row)
	}

	base := len(merged)
	var added []models.TeamSeasonStats
	for _, row := range fresh {
		if i, ok := pos[row.Key()]; ok {
			if i < base {
				merged[i] = row
			} else {
				added[i-base] = row
			}
			continue
		}
		pos[row.Key()] = base + len(added)
		added = append(added, row)
	}
	sort.SliceStable(added, func(i, j int) bool {
		if added[i].Year != added[j].Year {
			return added[i].Year < added[j].Year
		}
		return added[i].Team < added[j].Team
	})
	return append(merged, added...)
}

// formatStat renders a stat cell. NaN (missing) becomes an empty cell;
// whole values print without a decimal point.
func formatStat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseStat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
