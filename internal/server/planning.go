package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quadrant-ai/quadrant/internal/agents/planning"
	"github.com/quadrant-ai/quadrant/models"
)

// PlanningHandler exposes the planning agent over HTTP.
type PlanningHandler struct {
	agent   *planning.Agent
	rec     *recorder
	baseURL string
	logger  *log.Logger
}

func NewPlanningHandler(agent *planning.Agent, rec *recorder, baseURL string) *PlanningHandler {
	return &PlanningHandler{
		agent:   agent,
		rec:     rec,
		baseURL: baseURL,
		logger:  log.New(log.Writer(), "[PLANNING] ", log.LstdFlags),
	}
}

func (h *PlanningHandler) Register(g *echo.Group) {
	g.POST("/plan", h.plan)
	g.POST("/analyze", h.analyze)
	g.GET("/health", h.health)
	g.GET("/info", h.info)
	g.GET("/.well-known/agent.json", h.card)
}

func (h *PlanningHandler) plan(c echo.Context) error {
	var req models.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Goal) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "goal is required")
	}

	start := time.Now()
	res, usage, err := h.agent.Plan(c.Request().Context(), req)
	h.rec.record(c.Request().Context(), "planning", req.Goal, strings.Join(res.Steps, "\n"), usage, start, err)
	if err != nil {
		h.logger.Printf("planning failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Planning failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PlanningHandler) analyze(c echo.Context) error {
	var req models.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Goal) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "goal is required")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"goal":     req.Goal,
		"analysis": planning.AnalyzeGoal(req.Goal),
		"recommendations": []string{
			"Consider breaking down complex goals into smaller milestones",
			"Identify key dependencies and prerequisites",
			"Plan for validation and review phases",
			"Account for potential risks and contingencies",
		},
	})
}

func (h *PlanningHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"agent":  "Logic and Planning Agent",
		"status": "healthy",
		"capabilities": []string{
			"Goal analysis and complexity assessment",
			"Strategic planning and decomposition",
			"Step sequencing with dependencies",
			"Risk and contingency planning",
		},
	})
}

func (h *PlanningHandler) info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "Logic and Planning Agent",
		"description": "Breaks down high-level goals into logical, sequential plans of actionable steps",
		"input_format": map[string]string{
			"goal": "string - High-level goal to break down into steps",
		},
		"output_format": map[string]string{
			"steps": "array - Sequential list of actionable steps",
		},
		"example_input": map[string]string{
			"goal": "Launch a mobile app for task management",
		},
	})
}

func (h *PlanningHandler) card(c echo.Context) error {
	return c.JSON(http.StatusOK, planningCard(h.baseURL))
}
