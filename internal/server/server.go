package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/golang-migrate/migrate/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/quadrant-ai/quadrant/config"
	"github.com/quadrant-ai/quadrant/internal/agents/code"
	"github.com/quadrant-ai/quadrant/internal/agents/data"
	"github.com/quadrant-ai/quadrant/internal/agents/planning"
	"github.com/quadrant-ai/quadrant/internal/agents/research"
	"github.com/quadrant-ai/quadrant/internal/memory"
	"github.com/quadrant-ai/quadrant/internal/store"
	"github.com/quadrant-ai/quadrant/internal/telemetry"
	"github.com/quadrant-ai/quadrant/provider"
	"github.com/quadrant-ai/quadrant/tools/web_fetch"
	"github.com/quadrant-ai/quadrant/tools/web_search"
)

// pageFetcherAdapter bridges the generic web fetcher onto the research
// agent's narrower page interface.
type pageFetcherAdapter struct{ f web_fetch.WebFetcher }

func (p pageFetcherAdapter) Exec(ctx context.Context, url string) (research.Page, error) {
	res, err := p.f.Exec(ctx, url)
	if err != nil {
		return research.Page{}, err
	}
	return research.Page{Title: res.Title, Text: res.Text}, nil
}

// Run wires the agents, storage and telemetry together and serves HTTP until
// the process exits.
func Run(cfg *config.Config) error {
	e := newEcho()
	ctx := context.Background()

	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), provider.Options{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		BaseURL:     cfg.LLM.BaseURL,
	})
	if err != nil {
		return err
	}

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey())
	if err != nil {
		return err
	}

	var pages research.PageFetcher
	if cfg.Fetch.PageFetchEnabled {
		f, err := web_fetch.NewWebFetcher(web_fetch.ChromedpFetcherType, cfg.Fetch.Timeout, cfg.Fetch.MaxChars)
		if err != nil {
			return err
		}
		pages = pageFetcherAdapter{f}
	}

	var st *store.Store
	if cfg.Storage.Postgres.Enabled() {
		dsn, err := cfg.Storage.Postgres.DSN()
		if err != nil {
			return err
		}
		if err := Migrate("", dsn, "up", 0); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		st, err = store.New(ctx, dsn)
		if err != nil {
			return err
		}
	}

	var rdb redis.UniversalClient
	if cfg.Storage.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
		rdb = client
	}

	tele := telemetry.NewTelemetry(cfg.Telemetry)
	rec := &recorder{store: st, tel: tele, logger: log.New(log.Writer(), "[RUNS] ", log.LstdFlags)}

	var idx *memory.Index
	if cfg.Memory.ResearchIndexEnabled {
		idx, err = memory.NewIndex()
		if err != nil {
			return err
		}
	}

	researchAgent := research.NewAgent(llm, searcher, pages, log.New(log.Writer(), "[RESEARCH] ", log.LstdFlags))
	codeAgent := code.NewAgent(llm, log.New(log.Writer(), "[CODE] ", log.LstdFlags))
	planningAgent := planning.NewAgent(llm, log.New(log.Writer(), "[PLANNING] ", log.LstdFlags))

	dataOpts := []data.Option{data.WithLLM(llm)}
	if rdb != nil {
		dataOpts = append(dataOpts, data.WithCache(rdb))
	}
	dataAgent := data.NewAgent(log.New(log.Writer(), "[DATA] ", log.LstdFlags), dataOpts...)

	baseURL := cfg.Server.BaseURL
	NewResearchHandler(researchAgent, rec, idx, baseURL).Register(e.Group("/research"))
	NewCodeHandler(codeAgent, rec, baseURL).Register(e.Group("/code"))
	NewDataHandler(dataAgent, rec, baseURL).Register(e.Group("/data"))
	NewPlanningHandler(planningAgent, rec, baseURL).Register(e.Group("/planning"))

	api := e.Group("/api")
	if cfg.Server.AuthEnabled {
		if err := cfg.Server.Validate(); err != nil {
			return err
		}
		secret := []byte(cfg.Server.JWTSecret)
		api.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	}
	if st != nil {
		NewRunsHandler(st).Register(api)
	}
	if idx != nil {
		NewSearchHandler(idx).Register(api)
	}
	api.GET("/telemetry", func(c echo.Context) error {
		return c.JSON(http.StatusOK, tele.Snapshot())
	})

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8000"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the shared HTTP scaffolding: recovery, CORS, a JSON error
// handler, health and metrics endpoints.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
