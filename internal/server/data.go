package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quadrant-ai/quadrant/internal/agents/data"
	"github.com/quadrant-ai/quadrant/models"
)

// DataHandler exposes the data transformation agent over HTTP.
type DataHandler struct {
	agent   *data.Agent
	rec     *recorder
	baseURL string
	logger  *log.Logger
}

func NewDataHandler(agent *data.Agent, rec *recorder, baseURL string) *DataHandler {
	return &DataHandler{
		agent:   agent,
		rec:     rec,
		baseURL: baseURL,
		logger:  log.New(log.Writer(), "[DATA] ", log.LstdFlags),
	}
}

func (h *DataHandler) Register(g *echo.Group) {
	g.POST("/transform", h.transform)
	g.GET("/formats", h.formats)
	g.GET("/health", h.health)
	g.GET("/info", h.info)
	g.GET("/.well-known/agent.json", h.card)
}

func (h *DataHandler) transform(c echo.Context) error {
	var body struct {
		Data         string `json:"data"`
		TargetFormat string `json:"target_format"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(body.Data) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "data is required")
	}
	target, err := models.ParseTargetFormat(body.TargetFormat)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req := models.TransformRequest{Data: body.Data, TargetFormat: target}
	start := time.Now()
	res, usage, err := h.agent.Transform(c.Request().Context(), req)
	h.rec.record(c.Request().Context(), "data", body.Data, res.TransformedData, usage, start, err)
	if err != nil {
		h.logger.Printf("transform failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Data transformation failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *DataHandler) formats(c echo.Context) error {
	targets := models.TargetFormats()
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, string(t))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"supported_formats": names,
		"format_descriptions": map[string]string{
			"json":     "JavaScript Object Notation - structured data format",
			"csv":      "Comma-Separated Values - tabular data format",
			"xml":      "Extensible Markup Language - hierarchical data format",
			"yaml":     "YAML Ain't Markup Language - human-readable data format",
			"markdown": "Markdown - formatted text with simple syntax",
			"html":     "HyperText Markup Language - web document format",
		},
	})
}

func (h *DataHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"agent":  "Data Transformation Agent",
		"status": "healthy",
		"capabilities": []string{
			"Data format detection and parsing",
			"Data cleaning and normalization",
			"Multi-format transformation",
			"URL data fetching",
		},
	})
}

func (h *DataHandler) info(c echo.Context) error {
	targets := models.TargetFormats()
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, string(t))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "Data Transformation Agent",
		"description": "Cleans and structures raw, messy data into specified formats",
		"input_format": map[string]string{
			"data":          "string - Raw data (text or URL)",
			"target_format": "string - Target format (json, csv, xml, yaml, markdown, html)",
		},
		"output_format": map[string]string{
			"transformed_data": "string - Data transformed to the requested format",
		},
		"supported_input_formats":  []string{"JSON", "CSV", "TSV", "XML", "YAML", "Unstructured Text", "URLs"},
		"supported_output_formats": names,
		"example_input": map[string]string{
			"data":          "name,age,city\nJohn,25,New York\nJane,30,Boston",
			"target_format": "json",
		},
	})
}

func (h *DataHandler) card(c echo.Context) error {
	return c.JSON(http.StatusOK, dataCard(h.baseURL))
}
