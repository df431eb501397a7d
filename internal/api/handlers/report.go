package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/jineeshjohn/market-movers/internal/report"
	"github.com/jineeshjohn/market-movers/internal/universe"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

const htmlContentType = "text/html; charset=utf-8"

// ReportHandler serves the HTML reports
// ⭐ SSOT: 리포트 HTTP 핸들러는 이 구조체에서만
type ReportHandler struct {
	builder       *report.Builder
	renderer      *report.Renderer
	universe      *universe.Universe
	defaultSymbol string
	logger        *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(builder *report.Builder, renderer *report.Renderer, u *universe.Universe, defaultSymbol string, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		builder:       builder,
		renderer:      renderer,
		universe:      u,
		defaultSymbol: defaultSymbol,
		logger:        log,
	}
}

// Symbol renders the open/close table for one symbol
// GET /?symbol=CCL.NS
func (h *ReportHandler) Symbol(w http.ResponseWriter, r *http.Request) {
	symbol := SymbolParam(r, h.defaultSymbol)
	log := h.logger.WithContext(r.Context()).WithField("symbol", symbol)

	rep, err := h.builder.SymbolReport(r.Context(), symbol)
	if err != nil {
		log.WithError(err).Error("Failed to build symbol report")
		h.renderError(w, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderSymbol(&buf, rep); err != nil {
		log.WithError(err).Error("Failed to render symbol report")
		h.renderError(w, err.Error())
		return
	}

	respondBody(w, http.StatusOK, htmlContentType, &buf)
}

// Momentum renders the weekly momentum tables over the configured universe
// GET /momentum
func (h *ReportHandler) Momentum(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithContext(r.Context())

	rep, err := h.builder.MomentumReport(r.Context(), h.universe)
	if err != nil {
		log.WithError(err).Error("Failed to build momentum report")
		http.Error(w, "momentum report unavailable: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderMomentum(&buf, rep); err != nil {
		log.WithError(err).Error("Failed to render momentum report")
		http.Error(w, "momentum report unavailable", http.StatusInternalServerError)
		return
	}

	respondBody(w, http.StatusOK, htmlContentType, &buf)
}

func (h *ReportHandler) renderError(w http.ResponseWriter, msg string) {
	var buf bytes.Buffer
	if err := h.renderer.RenderError(&buf, msg); err != nil {
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	respondBody(w, http.StatusInternalServerError, htmlContentType, &buf)
}

// SymbolParam reads ?symbol=, upper-cased, falling back to def
func SymbolParam(r *http.Request, def string) string {
	s := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if s == "" {
		return def
	}
	return s
}
