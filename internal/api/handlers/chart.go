package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/jineeshjohn/market-movers/internal/chart"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// ChartHandler serves the morning-window chart
type ChartHandler struct {
	generator     *chart.Generator
	defaultSymbol string
	logger        *logger.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(gen *chart.Generator, defaultSymbol string, log *logger.Logger) *ChartHandler {
	return &ChartHandler{
		generator:     gen,
		defaultSymbol: defaultSymbol,
		logger:        log,
	}
}

// Get renders the PNG
// GET /chart.png?symbol=^NSEI
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := SymbolParam(r, h.defaultSymbol)

	var buf bytes.Buffer
	if err := h.generator.Generate(r.Context(), &buf, symbol); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).WithField("symbol", symbol).Error("Failed to render chart")
		if errors.Is(err, chart.ErrNoBars) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondBody(w, http.StatusOK, "image/png", &buf)
}
