package universe

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index is an in-memory prefix index over tickers
type Index struct {
	index bleve.Index
}

// NewIndex builds a memory-only index of the given tickers
func NewIndex(tickers []string) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create symbol index: %w", err)
	}

	batch := idx.NewBatch()
	for _, t := range tickers {
		if err := batch.Index(t, map[string]interface{}{"symbol": strings.ToLower(t)}); err != nil {
			idx.Close()
			return nil, fmt.Errorf("index %s: %w", t, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("index batch: %w", err)
	}

	return &Index{index: idx}, nil
}

// symbol is indexed whole so prefixes like "bajaj-" and "m&m" keep working
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	symbolMapping := bleve.NewDocumentMapping()
	symbolField := bleve.NewTextFieldMapping()
	symbolField.Analyzer = keyword.Name
	symbolField.Store = false
	symbolMapping.AddFieldMappingsAt("symbol", symbolField)

	indexMapping.DefaultMapping = symbolMapping
	return indexMapping
}

// Search returns up to limit tickers starting with prefix (case-insensitive),
// sorted alphabetically. An empty prefix lists from the start.
func (i *Index) Search(prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var req *bleve.SearchRequest
	if prefix == "" {
		req = bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), limit, 0, false)
	} else {
		q := bleve.NewPrefixQuery(prefix)
		q.SetField("symbol")
		req = bleve.NewSearchRequestOptions(q, limit, 0, false)
	}
	req.SortBy([]string{"_id"})

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("symbol search: %w", err)
	}

	out := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, hit.ID)
	}
	return out, nil
}

// Count returns the number of indexed tickers
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Close releases the index
func (i *Index) Close() error {
	return i.index.Close()
}
