package server

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quadrant-ai/quadrant/internal/agents/code"
	"github.com/quadrant-ai/quadrant/models"
)

// CodeHandler exposes the code agent over HTTP. Besides the unified process
// endpoint there are task-specific aliases that pin the task type.
type CodeHandler struct {
	agent   *code.Agent
	rec     *recorder
	baseURL string
	logger  *log.Logger
}

func NewCodeHandler(agent *code.Agent, rec *recorder, baseURL string) *CodeHandler {
	return &CodeHandler{
		agent:   agent,
		rec:     rec,
		baseURL: baseURL,
		logger:  log.New(log.Writer(), "[CODE] ", log.LstdFlags),
	}
}

func (h *CodeHandler) Register(g *echo.Group) {
	g.POST("/process", h.process)
	g.POST("/generate", h.generate)
	g.POST("/review", h.review)
	g.GET("/health", h.health)
	g.GET("/info", h.info)
	g.GET("/.well-known/agent.json", h.card)
}

func (h *CodeHandler) process(c echo.Context) error {
	var req models.CodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.run(c, req)
}

func (h *CodeHandler) generate(c echo.Context) error {
	var req models.CodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Task = models.TaskGenerate
	return h.run(c, req)
}

func (h *CodeHandler) review(c echo.Context) error {
	var req models.CodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Task = models.TaskReview
	return h.run(c, req)
}

func (h *CodeHandler) run(c echo.Context, req models.CodeRequest) error {
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := req.CodeDescription
	if req.Task == models.TaskReview {
		input = req.RepoURL
	}
	start := time.Now()
	res, usage, err := h.agent.Process(c.Request().Context(), req)
	output := res.GeneratedCode
	if req.Task == models.TaskReview {
		output = res.ReviewSummary
	}
	h.rec.record(c.Request().Context(), "code", input, output, usage, start, err)
	if err != nil {
		h.logger.Printf("%s task failed: %v", req.Task, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Code processing failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CodeHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"agent":  "Code Agent",
		"status": "healthy",
		"capabilities": []string{
			"Code generation from descriptions",
			"Repository review",
			"Issue detection and analysis",
		},
	})
}

func (h *CodeHandler) info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "Code Agent",
		"description": "Generates new code or reviews code from git repositories",
		"tasks": map[string]any{
			"generate": map[string]any{
				"input_format": map[string]string{
					"task":             "string - 'generate'",
					"code_description": "string - Description of code to generate",
				},
				"output_format": map[string]string{
					"generated_code": "string - The generated code",
				},
			},
			"review": map[string]any{
				"input_format": map[string]string{
					"task":       "string - 'review'",
					"github_url": "string - Repository URL",
					"branch":     "string - Optional branch name",
				},
				"output_format": map[string]string{
					"review_summary": "string - Summary of the code review",
					"issues":         "array - List of issues found with severity levels",
				},
			},
		},
		"example_inputs": map[string]any{
			"generation": map[string]string{
				"task":             "generate",
				"code_description": "Create a function to calculate Fibonacci numbers",
			},
			"review": map[string]string{
				"task":       "review",
				"github_url": "https://github.com/user/repo",
				"branch":     "main",
			},
		},
	})
}

func (h *CodeHandler) card(c echo.Context) error {
	return c.JSON(http.StatusOK, codeCard(h.baseURL))
}
