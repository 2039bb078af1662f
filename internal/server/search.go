package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quadrant-ai/quadrant/internal/memory"
)

// SearchHandler serves full-text search over past research runs. Only mounted
// when the research memory index is enabled.
type SearchHandler struct {
	index  *memory.Index
	logger *log.Logger
}

func NewSearchHandler(index *memory.Index) *SearchHandler {
	return &SearchHandler{index: index, logger: log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)}
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.GET("/research/search", h.search)
}

func (h *SearchHandler) search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	k := 0
	if raw := c.QueryParam("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid k")
		}
		k = n
	}
	hits, err := h.index.Search(q, k)
	if err != nil {
		h.logger.Printf("search failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	if hits == nil {
		hits = []memory.Hit{}
	}
	return c.JSON(http.StatusOK, map[string]any{"query": q, "hits": hits})
}
