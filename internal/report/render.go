package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date":    func(t time.Time) string { return t.Format("2006-01-02") },
	"stamp":   func(t time.Time) string { return t.Format("2006-01-02 15:04 MST") },
	"price":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"rupee":   func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
	"percent": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"sign": func(v float64) string {
		if v >= 0 {
			return "pos"
		}
		return "neg"
	},
}

// Renderer writes reports as HTML documents
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderSymbol writes the single-symbol page
func (r *Renderer) RenderSymbol(w io.Writer, rep *SymbolReport) error {
	return r.execute(w, "symbol", rep)
}

// RenderMomentum writes the momentum page
func (r *Renderer) RenderMomentum(w io.Writer, rep *MomentumReport) error {
	return r.execute(w, "momentum", rep)
}

// RenderError writes the failure body shown for a broken single-symbol report
func (r *Renderer) RenderError(w io.Writer, msg string) error {
	return r.execute(w, "error", msg)
}

func (r *Renderer) execute(w io.Writer, name string, data interface{}) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
