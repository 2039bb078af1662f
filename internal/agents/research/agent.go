package research

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
	"github.com/quadrant-ai/quadrant/tools/web_search"
	searchmodels "github.com/quadrant-ai/quadrant/tools/web_search/models"
)

const (
	searchAttempts  = 3
	searchResults   = 8
	maxSources      = 6
	pageFetchLimit  = 2
	systemPromptTxt = `You are a highly skilled Research Agent specializing in web search and information synthesis.

Your capabilities:
1. Analyze and synthesize information from multiple sources
2. Provide accurate, well-structured summaries
3. Cite all sources used in your research

Guidelines:
- Be thorough but concise in your summaries
- Focus on factual, verifiable information
- If information is conflicting between sources, note this
- Prioritize recent and authoritative sources
- Always maintain objectivity and avoid bias`
)

// PageFetcher pulls full page content behind a search result. Optional; when
// absent the prompt carries search snippets only.
type PageFetcher interface {
	Exec(ctx context.Context, url string) (Page, error)
}

// Page is the subset of fetched page data the agent embeds in its prompt.
type Page struct {
	Title string
	Text  string
}

// Agent searches the web for a query and synthesizes the results into a
// summary with cited sources.
type Agent struct {
	llm      provider.Provider
	searcher web_search.WebSearcher
	fetcher  PageFetcher // nil skips page enrichment
	policy   *bluemonday.Policy
	logger   *log.Logger
	pause    time.Duration
}

func NewAgent(llm provider.Provider, searcher web_search.WebSearcher, fetcher PageFetcher, logger *log.Logger) *Agent {
	return &Agent{
		llm:      llm,
		searcher: searcher,
		fetcher:  fetcher,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger,
		pause:    time.Second,
	}
}

// Research runs the search and synthesis pipeline. Model failures degrade to
// an error summary rather than an error return; a query always gets a result.
func (a *Agent) Research(ctx context.Context, req models.ResearchQuery) (models.ResearchResult, provider.Usage, error) {
	results := a.searchWithRetry(ctx, req.Query, searchResults)

	sourceURLs := collectSourceURLs(results, maxSources)

	if a.llm == nil {
		return models.ResearchResult{
			Summary:    "Unable to generate research summary.",
			SourceURLs: sourceURLs,
		}, provider.Usage{}, nil
	}

	userPrompt := a.buildPrompt(ctx, req.Query, results)
	summary, usage, err := a.llm.Complete(ctx, systemPromptTxt, userPrompt)
	if err != nil {
		a.logger.Printf("research synthesis failed: %v", err)
		return models.ResearchResult{
			Summary:    fmt.Sprintf("Unable to complete research for query: '%s'. Error: %v", req.Query, err),
			SourceURLs: nil,
		}, provider.Usage{}, nil
	}
	if strings.TrimSpace(summary) == "" {
		summary = "Unable to generate research summary."
	}

	return models.ResearchResult{Summary: summary, SourceURLs: sourceURLs}, usage, nil
}

// searchWithRetry makes up to three search attempts with a brief pause
// between them, returning the first non-empty result set.
func (a *Agent) searchWithRetry(ctx context.Context, query string, k int) []searchmodels.Result {
	for attempt := 1; attempt <= searchAttempts; attempt++ {
		results, err := a.searcher.Discover(ctx, query, k)
		if err != nil {
			a.logger.Printf("search attempt %d failed: %v", attempt, err)
		} else if len(results) > 0 {
			a.logger.Printf("search attempt %d found %d results", attempt, len(results))
			return results
		} else {
			a.logger.Printf("search attempt %d: no results", attempt)
		}

		if attempt < searchAttempts {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(a.pause):
			}
		}
	}
	a.logger.Printf("all search attempts failed for query %q", query)
	return nil
}

func (a *Agent) buildPrompt(ctx context.Context, query string, results []searchmodels.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please research the following query: %q\n\n", query)

	if len(results) == 0 {
		b.WriteString("No search results were found for the query.\n")
	} else {
		b.WriteString("Search results:\n")
		for i, r := range results {
			fmt.Fprintf(&b, "\nResult %d:\nTitle: %s\nURL: %s\nContent: %s\n---\n",
				i+1, a.policy.Sanitize(r.Title), r.URL, a.policy.Sanitize(r.Snippet))
		}
		a.appendPageContent(ctx, &b, results)
	}

	b.WriteString("\nInstructions:\n")
	b.WriteString("1. Analyze the search results carefully\n")
	b.WriteString("2. Provide a comprehensive summary of your findings\n")
	b.WriteString("3. List all the source URLs you used in your research\n")
	b.WriteString("\nYour response should be well-structured and informative.")
	return b.String()
}

// appendPageContent enriches the prompt with readable text from the top
// results when a page fetcher is configured.
func (a *Agent) appendPageContent(ctx context.Context, b *strings.Builder, results []searchmodels.Result) {
	if a.fetcher == nil {
		return
	}
	fetched := 0
	for _, r := range results {
		if fetched >= pageFetchLimit {
			break
		}
		page, err := a.fetcher.Exec(ctx, r.URL)
		if err != nil || strings.TrimSpace(page.Text) == "" {
			continue
		}
		fetched++
		fmt.Fprintf(b, "\nPage content from %s:\n%s\n---\n", r.URL, a.policy.Sanitize(page.Text))
	}
}

// collectSourceURLs keeps the valid absolute URLs from the search results, in
// order, capped at limit.
func collectSourceURLs(results []searchmodels.Result, limit int) []string {
	var out []string
	for _, r := range results {
		if len(out) >= limit {
			break
		}
		if validateURL(r.URL) {
			out = append(out, r.URL)
		}
	}
	return out
}

func validateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
