// Package summary cleans and aggregates the fetched stats table: per-row
// year validation, per-column median imputation of missing cells, and the
// (team, year) grouping consumed by the chart renderer.
package summary

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/zsb-analytics/premier-league-stats/internal/chart"
	"github.com/zsb-analytics/premier-league-stats/internal/models"
	"github.com/zsb-analytics/premier-league-stats/internal/writer"
)

// ValidateYears splits rows into those whose year falls inside [minYear,
// maxYear] and those that do not. Invalid rows are dropped downstream,
// never aborting the run.
func ValidateYears(rows []models.TeamSeasonStats, minYear, maxYear int) (valid, dropped []models.TeamSeasonStats) {
	for _, row := range rows {
		if row.Year < minYear || row.Year > maxYear {
			dropped = append(dropped, row)
			continue
		}
		valid = append(valid, row)
	}
	return valid, dropped
}

// Median returns the median of values, ignoring NaN entries. With an even
// count it averages the two middle values. All-NaN or empty input yields NaN.
func Median(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid]
	}
	return (present[mid-1] + present[mid]) / 2
}

// Clean replaces missing (NaN) cells with the median of their column,
// computed over the whole table before any replacement. Columns with no
// present values at all are left untouched. The input is not modified.
func Clean(rows []models.TeamSeasonStats) []models.TeamSeasonStats {
	cleaned := make([]models.TeamSeasonStats, len(rows))
	copy(cleaned, rows)

	for _, col := range models.StatsColumns {
		values := make([]float64, len(rows))
		missing := 0
		for i, row := range rows {
			v, _ := row.Stat(col)
			values[i] = v
			if math.IsNaN(v) {
				missing++
			}
		}
		if missing == 0 {
			continue
		}

		median := Median(values)
		if math.IsNaN(median) {
			log.Printf("warning: column %s has no present values, cannot impute", col)
			continue
		}
		log.Printf("column %s: filling %d missing value(s) with median %.2f", col, missing, median)
		for i := range cleaned {
			if math.IsNaN(values[i]) {
				cleaned[i].SetStat(col, median)
			}
		}
	}
	return cleaned
}

// Sort orders rows by team name then year, ascending and stable, for
// deterministic chart output.
func Sort(rows []models.TeamSeasonStats) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Team != rows[j].Team {
			return rows[i].Team < rows[j].Team
		}
		return rows[i].Year < rows[j].Year
	})
}

// Summarize runs the full summarizer pipeline: load the CSV, drop rows with
// out-of-range years, impute missing cells, sort, and render one chart per
// KPI column into plotsDir. A missing or malformed CSV is fatal.
func Summarize(csvPath, plotsDir string, minYear, maxYear int) error {
	rows, err := writer.ReadFromFile(csvPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("stats CSV %q has no data rows", csvPath)
	}

	valid, dropped := ValidateYears(rows, minYear, maxYear)
	for _, row := range dropped {
		log.Printf("warning: dropping row %s/%d: year outside supported range [%d, %d]", row.Team, row.Year, minYear, maxYear)
	}
	if len(valid) == 0 {
		return fmt.Errorf("no rows left after year validation (range [%d, %d])", minYear, maxYear)
	}

	cleaned := Clean(valid)
	Sort(cleaned)

	return chart.RenderAll(cleaned, plotsDir)
}
