package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/google/uuid"
)

// ResearchRecord is one completed research run kept for later lookup.
type ResearchRecord struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Summary    string    `json:"summary"`
	SourceURLs []string  `json:"source_urls"`
	CreatedAt  time.Time `json:"created_at"`
}

// Hit is a full-text match against past research runs.
type Hit struct {
	ID      string  `json:"id"`
	Query   string  `json:"query"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// Index is an in-memory full-text index over past research results. It lives
// for the lifetime of the process; restarts start empty.
type Index struct {
	mu   sync.RWMutex
	idx  bleve.Index
	meta map[string]ResearchRecord
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx, meta: make(map[string]ResearchRecord)}, nil
}

// Add indexes one research record, assigning an ID when absent.
func (i *Index) Add(rec ResearchRecord) (string, error) {
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if err := i.idx.Index(rec.ID, rec); err != nil {
		return "", err
	}
	i.mu.Lock()
	i.meta[rec.ID] = rec
	i.mu.Unlock()
	return rec.ID, nil
}

// Search runs a query-string search over indexed research runs.
func (i *Index) Search(q string, k int) ([]Hit, error) {
	if k <= 0 || k > 50 {
		k = 10
	}

	query := bleve.NewQueryStringQuery(q)
	searchReq := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := i.idx.Search(searchReq)
	if err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	var out []Hit
	for rank, hit := range res.Hits {
		rec := i.meta[hit.ID]
		out = append(out, Hit{
			ID:      hit.ID,
			Query:   rec.Query,
			Snippet: snippet(rec.Summary),
			Score:   hit.Score,
			Rank:    rank + 1,
		})
	}
	return out, nil
}

// Close releases the underlying index.
func (i *Index) Close() error { return i.idx.Close() }

func snippet(text string) string {
	const max = 240
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
