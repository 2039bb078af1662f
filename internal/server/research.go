package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quadrant-ai/quadrant/internal/agents/research"
	"github.com/quadrant-ai/quadrant/internal/memory"
	"github.com/quadrant-ai/quadrant/models"
)

// ResearchHandler exposes the research agent over HTTP. When a memory index
// is configured, successful runs become searchable through the runs API.
type ResearchHandler struct {
	agent   *research.Agent
	rec     *recorder
	index   *memory.Index
	baseURL string
	logger  *log.Logger
}

func NewResearchHandler(agent *research.Agent, rec *recorder, index *memory.Index, baseURL string) *ResearchHandler {
	return &ResearchHandler{
		agent:   agent,
		rec:     rec,
		index:   index,
		baseURL: baseURL,
		logger:  log.New(log.Writer(), "[RESEARCH] ", log.LstdFlags),
	}
}

func (h *ResearchHandler) Register(g *echo.Group) {
	g.POST("/query", h.query)
	g.GET("/health", h.health)
	g.GET("/info", h.info)
	g.GET("/.well-known/agent.json", h.card)
}

func (h *ResearchHandler) query(c echo.Context) error {
	var req models.ResearchQuery
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	start := time.Now()
	res, usage, err := h.agent.Research(c.Request().Context(), req)
	h.rec.record(c.Request().Context(), "research", req.Query, res.Summary, usage, start, err)
	if err != nil {
		h.logger.Printf("research failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Research failed: "+err.Error())
	}
	if h.index != nil {
		if _, err := h.index.Add(memory.ResearchRecord{
			Query:      req.Query,
			Summary:    res.Summary,
			SourceURLs: res.SourceURLs,
		}); err != nil {
			h.logger.Printf("failed to index research run: %v", err)
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ResearchHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"agent":  "Research Agent",
		"status": "healthy",
		"capabilities": []string{
			"Web search",
			"Information synthesis",
			"Source citation",
		},
	})
}

func (h *ResearchHandler) info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "Research Agent",
		"description": "Answers complex queries by searching the web and synthesizing information",
		"input_format": map[string]string{
			"query": "string - The research query to investigate",
		},
		"output_format": map[string]string{
			"summary":     "string - Synthesized summary of research findings",
			"source_urls": "array - List of source URLs used in research",
		},
		"example_input": map[string]string{
			"query": "What are the latest developments in quantum computing?",
		},
	})
}

func (h *ResearchHandler) card(c echo.Context) error {
	return c.JSON(http.StatusOK, researchCard(h.baseURL))
}
