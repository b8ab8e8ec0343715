package query

import (
	"path/filepath"
	"testing"

	"github.com/zsb-analytics/premier-league-stats/internal/models"
	"github.com/zsb-analytics/premier-league-stats/internal/writer"
)

func queryRows() []models.TeamSeasonStats {
	return []models.TeamSeasonStats{
		{Team: "Arsenal FC", Year: 2022, Won: 22, Draw: 6, Lost: 10, GoalsFor: 66, GoalsAgainst: 43},
		{Team: "Arsenal FC", Year: 2023, Won: 20, Draw: 5, Lost: 3, GoalsFor: 60, GoalsAgainst: 25},
		{Team: "Manchester City FC", Year: 2023, Won: 28, Draw: 7, Lost: 3, GoalsFor: 96, GoalsAgainst: 34},
		{Team: "Chelsea FC", Year: 2023, Won: 15, Draw: 9, Lost: 6, GoalsFor: 50, GoalsAgainst: 35},
	}
}

func TestFilterByYearAndTeam(t *testing.T) {
	req := Request{
		StartYear:    2023,
		EndYear:      2024,
		TeamNameList: []string{"Arsenal FC", "Manchester City FC"},
		KPIName:      "won",
	}

	result, err := Filter(queryRows(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result))
	}

	first := result[0]
	if first["team"] != "Arsenal FC" || first["year"] != 2023 {
		t.Errorf("wrong first record: %v", first)
	}
	if first["won"] != 20.0 {
		t.Errorf("expected won=20, got %v", first["won"])
	}
	if _, ok := first["goalsFor"]; ok {
		t.Error("records must only carry the requested KPI")
	}
}

func TestFilterEmptyTeamListMatchesAll(t *testing.T) {
	req := Request{StartYear: 2023, EndYear: 2023, KPIName: "draw"}

	result, err := Filter(queryRows(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("expected every 2023 team, got %d records", len(result))
	}
}

func TestFilterNoMatches(t *testing.T) {
	req := Request{StartYear: 1995, EndYear: 1996, KPIName: "won"}

	result, err := Filter(queryRows(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Empty result, not nil: the endpoint must marshal to [] rather than null.
	if result == nil || len(result) != 0 {
		t.Errorf("expected empty non-nil result, got %v", result)
	}
}

func TestFilterUnknownKPI(t *testing.T) {
	req := Request{StartYear: 2023, EndYear: 2023, KPIName: "scored"}
	if _, err := Filter(queryRows(), req); err == nil {
		t.Fatal("expected error for unknown KPI name")
	}
}

func TestRun(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "stats.csv")
	w := &writer.CSVWriter{}
	if err := w.WriteToFile(csvPath, queryRows()); err != nil {
		t.Fatalf("writing fixture CSV: %v", err)
	}

	resp, err := Run(csvPath, Request{StartYear: 2022, EndYear: 2023, TeamNameList: []string{"Arsenal FC"}, KPIName: "goalsFor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Result) != 2 {
		t.Errorf("expected both Arsenal seasons, got %d", len(resp.Result))
	}
}

func TestRunMissingCSV(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "nope.csv"), Request{StartYear: 2023, EndYear: 2023, KPIName: "won"})
	if err == nil {
		t.Fatal("expected error for missing CSV")
	}
}
