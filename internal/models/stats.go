package models

import "fmt"

// StatsColumns lists the numeric KPI columns, in CSV column order.
var StatsColumns = []string{"won", "draw", "lost", "goalsFor", "goalsAgainst"}

// IsStatColumn reports whether name is one of the KPI columns.
func IsStatColumn(name string) bool {
	for _, c := range StatsColumns {
		if c == name {
			return true
		}
	}
	return false
}

// TeamSeasonStats is one row of the stats CSV: one team's totals for one
// season. Missing numeric cells are NaN in memory and empty on disk.
type TeamSeasonStats struct {
	Team         string  `json:"team"`
	Year         int     `json:"year"`
	Won          float64 `json:"won"`
	Draw         float64 `json:"draw"`
	Lost         float64 `json:"lost"`
	GoalsFor     float64 `json:"goalsFor"`
	GoalsAgainst float64 `json:"goalsAgainst"`
}

// Key returns the (team, year) composite key used for de-duplication.
func (s TeamSeasonStats) Key() string {
	return fmt.Sprintf("%d_%s", s.Year, s.Team)
}

// Stat returns the value of the named KPI column.
func (s TeamSeasonStats) Stat(name string) (float64, error) {
	switch name {
	case "won":
		return s.Won, nil
	case "draw":
		return s.Draw, nil
	case "lost":
		return s.Lost, nil
	case "goalsFor":
		return s.GoalsFor, nil
	case "goalsAgainst":
		return s.GoalsAgainst, nil
	default:
		return 0, fmt.Errorf("unknown stat column: %q", name)
	}
}

// SetStat assigns the named KPI column.
func (s *TeamSeasonStats) SetStat(name string, v float64) error {
	switch name {
	case "won":
		s.Won = v
	case "draw":
		s.Draw = v
	case "lost":
		s.Lost = v
	case "goalsFor":
		s.GoalsFor = v
	case "goalsAgainst":
		s.GoalsAgainst = v
	default:
		return fmt.Errorf("unknown stat column: %q", name)
	}
	return nil
}
