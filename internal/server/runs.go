package server

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quadrant-ai/quadrant/internal/store"
)

// RunsHandler serves the persisted run history. Only mounted when Postgres
// is configured.
type RunsHandler struct {
	store  *store.Store
	logger *log.Logger
}

func NewRunsHandler(st *store.Store) *RunsHandler {
	return &RunsHandler{store: st, logger: log.New(log.Writer(), "[RUNS] ", log.LstdFlags)}
}

func (h *RunsHandler) Register(g *echo.Group) {
	g.GET("/runs", h.list)
	g.GET("/runs/:id", h.get)
}

func (h *RunsHandler) list(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	runs, err := h.store.ListRuns(c.Request().Context(), c.QueryParam("agent"), limit)
	if err != nil {
		h.logger.Printf("list runs failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list runs")
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}

func (h *RunsHandler) get(c echo.Context) error {
	run, err := h.store.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "run not found")
		}
		h.logger.Printf("get run failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load run")
	}
	return c.JSON(http.StatusOK, run)
}
