// Package query projects KPI values out of the stats CSV for the HTTP
// query endpoint.
package query

import (
	"fmt"
	"math"

	"github.com/zsb-analytics/premier-league-stats/internal/models"
	"github.com/zsb-analytics/premier-league-stats/internal/writer"
)

// Request selects a subset of rows and a single KPI column.
// An empty TeamNameList matches every team.
type Request struct {
	StartYear    int      `json:"StartYear"`
	EndYear      int      `json:"EndYear"`
	TeamNameList []string `json:"TeamNameList"`
	KPIName      string   `json:"KPIName"`
}

// Response wraps the matching records.
type Response struct {
	Result []Record `json:"Result"`
}

// Record is one matching row projected down to the requested KPI.
type Record map[string]any

// Filter applies req to rows. Row order is preserved.
func Filter(rows []models.TeamSeasonStats, req Request) ([]Record, error) {
	if !models.IsStatColumn(req.KPIName) {
		return nil, fmt.Errorf("unknown KPI %q, expected one of %v", req.KPIName, models.StatsColumns)
	}

	teams := make(map[string]bool, len(req.TeamNameList))
	for _, t := range req.TeamNameList {
		teams[t] = true
	}

	result := make([]Record, 0)
	for _, row := range rows {
		if row.Year < req.StartYear || row.Year > req.EndYear {
			continue
		}
		if len(teams) > 0 && !teams[row.Team] {
			continue
		}
		v, err := row.Stat(req.KPIName)
		if err != nil {
			return nil, err
		}
		rec := Record{
			"team":      row.Team,
			"year":      row.Year,
			req.KPIName: v,
		}
		// NaN has no JSON encoding; a still-missing cell surfaces as null.
		if math.IsNaN(v) {
			rec[req.KPIName] = nil
		}
		result = append(result, rec)
	}
	return result, nil
}

// Run loads the CSV at csvPath and applies req. A missing file is fatal
// for the query.
func Run(csvPath string, req Request) (*Response, error) {
	rows, err := writer.ReadFromFile(csvPath)
	if err != nil {
		return nil, err
	}
	result, err := Filter(rows, req)
	if err != nil {
		return nil, err
	}
	return &Response{Result: result}, nil
}
