package handlers

import (
	"net/http"
	"strconv"

	"github.com/jineeshjohn/market-movers/internal/universe"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

const maxSuggestions = 50

// SymbolHandler serves ticker suggestions from the universe index
type SymbolHandler struct {
	index  *universe.Index
	logger *logger.Logger
}

// NewSymbolHandler creates a new symbol handler
func NewSymbolHandler(index *universe.Index, log *logger.Logger) *SymbolHandler {
	return &SymbolHandler{
		index:  index,
		logger: log,
	}
}

// SymbolsResponse is the suggestion payload
type SymbolsResponse struct {
	Query   string   `json:"query"`
	Symbols []string `json:"symbols"`
}

// Search returns tickers starting with q
// GET /api/symbols?q=TATA&limit=10
func (h *SymbolHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxSuggestions {
		limit = maxSuggestions
	}

	symbols, err := h.index.Search(q, limit)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("Symbol search failed")
		respondError(w, http.StatusInternalServerError, "symbol search failed")
		return
	}

	respondJSON(w, http.StatusOK, SymbolsResponse{Query: q, Symbols: symbols})
}
