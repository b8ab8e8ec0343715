// Package chart renders the per-KPI summary charts as PNG files using
// go-chart: teams along the X axis, one series per season year.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/zsb-analytics/premier-league-stats/internal/models"
)

// Aggregate groups rows by (team, year) and sums the named stat per group.
// Returned teams and years are sorted ascending. NaN cells are skipped, so
// a (team, year) pair with only missing data simply has no point.
func Aggregate(rows []models.TeamSeasonStats, stat string) (teams []string, years []int, values map[string]map[int]float64, err error) {
	values = make(map[string]map[int]float64)
	yearSet := make(map[int]bool)

	for _, row := range rows {
		v, serr := row.Stat(stat)
		if serr != nil {
			return nil, nil, nil, serr
		}
		if math.IsNaN(v) {
			continue
		}
		if values[row.Team] == nil {
			values[row.Team] = make(map[int]float64)
			teams = append(teams, row.Team)
		}
		values[row.Team][row.Year] += v
		yearSet[row.Year] = true
	}

	sort.Strings(teams)
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)
	return teams, years, values, nil
}

// Render draws one chart for the named stat and writes it as PNG.
func Render(rows []models.TeamSeasonStats, stat string, out io.Writer) error {
	teams, years, values, err := Aggregate(rows, stat)
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		return fmt.Errorf("no data points for stat %q", stat)
	}

	// go-chart derives the X range from the tick min/max whenever ticks are
	// set, so the unlabeled padding ticks do double duty: half a slot of
	// margin for the edge dots, and a non-degenerate range when only one
	// team is present.
	ticks := make([]chart.Tick, 0, len(teams)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5, Label: ""})
	for i, team := range teams {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: team})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(teams)-1) + 0.5, Label: ""})

	var maxVal float64
	series := make([]chart.Series, 0, len(years))
	for si, year := range years {
		var xs, ys []float64
		for i, team := range teams {
			v, ok := values[team][year]
			if !ok {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, v)
			if v > maxVal {
				maxVal = v
			}
		}
		if len(xs) == 0 {
			continue
		}
		c := chart.GetDefaultColor(si)
		series = append(series, chart.ContinuousSeries{
			Name:    strconv.Itoa(year),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 1.5,
				DotColor:    c,
				DotWidth:    4,
			},
		})
	}

	if maxVal <= 0 {
		maxVal = 1
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("%s by Team and Year", stat),
		Width:  1280,
		Height: 520,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 20, Right: 20, Bottom: 90},
		},
		XAxis: chart.XAxis{
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  stat,
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.1},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, out); err != nil {
		return fmt.Errorf("rendering %s chart: %w", stat, err)
	}
	return nil
}

// RenderAll writes one PNG per KPI column into outDir, creating the
// directory if needed and overwriting existing files.
func RenderAll(rows []models.TeamSeasonStats, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating plots directory %q: %w", outDir, err)
	}

	for _, stat := range models.StatsColumns {
		path := filepath.Join(outDir, FileName(stat))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating plot file %q: %w", path, err)
		}
		if err := Render(rows, stat, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing plot file %q: %w", path, err)
		}
	}
	return nil
}

// FileName returns the output file name for a stat's chart.
func FileName(stat string) string {
	return stat + "_by_team_and_year.png"
}
