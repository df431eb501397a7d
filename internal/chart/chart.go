package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

const (
	// Width and Height are the PNG size in pixels
	Width  = 800
	Height = 400
	dpi    = 96

	lookbackDays = 5
	labelLayout  = "02 Jan 15:04"
)

// ErrNoBars is returned when nothing falls inside the time-of-day window
var ErrNoBars = errors.New("no bars in window")

// Clock is a local time of day
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Opening window of the NSE session: 09:15 up to but excluding 09:20
var (
	MorningFrom = Clock{Hour: 9, Minute: 15}
	MorningTo   = Clock{Hour: 9, Minute: 20}
)

// FilterWindow keeps bars whose time of day in loc falls in [from, to)
func FilterWindow(bars []contracts.PriceBar, loc *time.Location, from, to Clock) []contracts.PriceBar {
	out := make([]contracts.PriceBar, 0)
	for _, b := range bars {
		t := b.Timestamp.In(loc)
		m := t.Hour()*60 + t.Minute()
		if m >= from.minutes() && m < to.minutes() {
			out = append(out, b)
		}
	}
	return out
}

// Render draws closes as a line chart and writes it as PNG
func Render(w io.Writer, bars []contracts.PriceBar, loc *time.Location, title string) error {
	if len(bars) == 0 {
		return ErrNoBars
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date & Time"
	p.Y.Label.Text = "Close Price"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(bars))
	labels := make([]string, len(bars))
	for i, b := range bars {
		pts[i].X = float64(i)
		pts[i].Y = b.Close
		labels[i] = b.Timestamp.In(loc).Format(labelLayout)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build line: %w", err)
	}
	p.Add(line)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = draw.XRight

	c := vgimg.NewWith(
		vgimg.UseWH(Width*vg.Inch/dpi, Height*vg.Inch/dpi),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// Generator fetches minute bars and renders the morning-window chart
// ⭐ SSOT: 장 초반 차트 생성은 여기서만
type Generator struct {
	fetcher contracts.SeriesFetcher
	loc     *time.Location
	logger  *logger.Logger
	now     func() time.Time
}

// NewGenerator creates a chart generator for exchange time zone loc
func NewGenerator(fetcher contracts.SeriesFetcher, loc *time.Location, log *logger.Logger) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{
		fetcher: fetcher,
		loc:     loc,
		logger:  log.WithField("module", "chart"),
		now:     time.Now,
	}
}

// Generate writes the PNG for the last five days of 1m bars of symbol
func (g *Generator) Generate(ctx context.Context, w io.Writer, symbol string) error {
	window := contracts.LastDays(g.now(), lookbackDays)

	series, err := g.fetcher.Fetch(ctx, symbol, window.Start, window.End, contracts.IntervalMinute)
	if err != nil {
		return err
	}

	bars := FilterWindow(series.Bars, g.loc, MorningFrom, MorningTo)
	g.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"fetched": series.Len(),
		"kept":    len(bars),
	}).Debug("Filtered morning bars")

	title := fmt.Sprintf("%s 1-Min Closes (Last %d Days, %s-%s)", symbol, lookbackDays, MorningFrom, lastMinute(MorningTo))
	if err := Render(w, bars, g.loc, title); err != nil {
		return fmt.Errorf("chart %s: %w", symbol, err)
	}
	return nil
}

func lastMinute(c Clock) Clock {
	m := c.minutes() - 1
	return Clock{Hour: m / 60, Minute: m % 60}
}
