// Package api exposes the pipeline over HTTP: GET /get_csv runs the
// fetcher, GET /summarize runs the summarizer, POST /query_kpi_from_csv
// projects KPI values out of the CSV.
package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/zsb-analytics/premier-league-stats/internal/config"
	"github.com/zsb-analytics/premier-league-stats/internal/fetcher"
	"github.com/zsb-analytics/premier-league-stats/internal/query"
	"github.com/zsb-analytics/premier-league-stats/internal/summary"
)

const version = "1.0.0"

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler holds the HTTP handlers for the pipeline endpoints.
type Handler struct {
	Cfg     *config.Config
	Fetcher *fetcher.Client
}

// NewHandler wires a Handler from config.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		Cfg:     cfg,
		Fetcher: fetcher.New(cfg.APIBaseURL, cfg.APIToken),
	}
}

// Register sets up routes and the CORS middleware on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Headers", "Content-Type")
		c.Set("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.Next()
	})

	app.Get("/api/health", h.HandleHealth)
	app.Get("/get_csv", h.HandleGetCSV)
	app.Get("/summarize", h.HandleSummarize)
	app.Post("/query_kpi_from_csv", h.HandleQueryKPI)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// HandleGetCSV runs the fetch pipeline and persists the CSV. A season the
// API refuses is skipped inside the fetcher; only a fully empty fetch or a
// write failure surfaces as an error here.
func (h *Handler) HandleGetCSV(c *fiber.Ctx) error {
	rows, err := h.Fetcher.FetchToCSV(h.Cfg.Seasons, h.Cfg.CSVPath)
	if err != nil {
		log.Printf("get_csv failed: %v", err)
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"message": "CSV file saved.",
		"rows":    rows,
	})
}

// HandleSummarize runs the summarize pipeline and writes the chart files.
func (h *Handler) HandleSummarize(c *fiber.Ctx) error {
	err := summary.Summarize(h.Cfg.CSVPath, h.Cfg.PlotsDir, h.Cfg.MinYear, h.Cfg.MaxYear)
	if err != nil {
		log.Printf("summarize failed: %v", err)
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"message": "Summarized",
	})
}

// HandleQueryKPI filters the CSV by year range, team list and KPI name.
func (h *Handler) HandleQueryKPI(c *fiber.Ctx) error {
	var req query.Request
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid query payload: "+err.Error())
	}
	// Reject a bad KPI name up front so it maps to a client error rather
	// than the fatal missing-CSV path.
	if _, err := query.Filter(nil, req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := query.Run(h.Cfg.CSVPath, req)
	if err != nil {
		log.Printf("query_kpi_from_csv failed: %v", err)
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(resp)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: msg})
}
