package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jineeshjohn/market-movers/internal/contracts"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderMomentum(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rep := &MomentumReport{
		Universe: "nse",
		Momentum: []contracts.MomentumResult{
			{Symbol: "TCS.NS", Week1Close: 100, Week2Close: 110, Delta: 10},
			{Symbol: "INFY.NS", Week1Close: 110, Week2Close: 105, Delta: -4.545454},
		},
		LastWeekTop: []contracts.WeeklyReturns{{Symbol: "TCS.NS", PrevWeek: 1, LastWeek: 3.14159}},
		PrevWeekTop: []contracts.WeeklyReturns{{Symbol: "INFY.NS", PrevWeek: -0.5, LastWeek: 0}},
		TopK:        10,
		Total:       3,
		Failed:      1,
		GeneratedAt: fixedNow,
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderMomentum(&buf, rep))
	doc := parse(t, buf.String())

	rows := doc.Find("#momentum tbody tr")
	require.Equal(t, 2, rows.Length())

	first := rows.First().Find("td")
	assert.Equal(t, "TCS.NS", first.Eq(0).Text())
	assert.Equal(t, "₹100.00", first.Eq(1).Text())
	assert.Equal(t, "₹110.00", first.Eq(2).Text())
	assert.Equal(t, "10.00%", first.Eq(3).Text())
	assert.True(t, first.Eq(3).HasClass("pos"))

	second := rows.Eq(1).Find("td")
	assert.Equal(t, "-4.55%", second.Eq(3).Text())
	assert.True(t, second.Eq(3).HasClass("neg"))

	last := doc.Find("#last-week tbody tr td")
	assert.Equal(t, "TCS.NS", last.Eq(0).Text())
	assert.Equal(t, "3.14%", last.Eq(1).Text())

	prev := doc.Find("#prev-week tbody tr td")
	assert.Equal(t, "-0.50%", prev.Eq(1).Text())
	assert.True(t, prev.Eq(1).HasClass("neg"))

	assert.Contains(t, doc.Find("h2").Eq(1).Text(), "Top 10 Last Week Performers")
	assert.Contains(t, doc.Find(".meta").Text(), "3 symbols, 1 unavailable")
}

func TestRenderSymbol(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rep := &SymbolReport{
		Symbol: "CCL.NS",
		From:   fixedNow.AddDate(-2, 0, 0),
		To:     fixedNow,
		Rows: []contracts.BarDiff{
			{Date: fixedNow.AddDate(0, 0, -1), Open: 50, Close: 48.5, Diff: -1.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderSymbol(&buf, rep))
	doc := parse(t, buf.String())

	val, ok := doc.Find("input#symbol").Attr("value")
	assert.True(t, ok)
	assert.Equal(t, "CCL.NS", val)

	headers := doc.Find("#report thead th")
	assert.Equal(t, 4, headers.Length())
	onclick, _ := headers.Eq(3).Attr("onclick")
	assert.Equal(t, "sortTable(3)", onclick)

	cells := doc.Find("#report tbody tr td")
	assert.Equal(t, "2024-03-14", cells.Eq(0).Text())
	assert.Equal(t, "50.00", cells.Eq(1).Text())
	assert.Equal(t, "48.50", cells.Eq(2).Text())
	assert.Equal(t, "-1.50", cells.Eq(3).Text())
	assert.True(t, cells.Eq(3).HasClass("neg"))

	assert.Contains(t, doc.Find("script").Text(), "function sortTable")
}

func TestRenderSymbol_EscapesInput(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderSymbol(&buf, &SymbolReport{Symbol: `<script>alert(1)</script>`}))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestRenderError(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, "fetch NOPE: Not Found"))
	assert.Equal(t, "<pre>❌ fetch NOPE: Not Found\n(Symbol may be wrong or delisted)</pre>", buf.String())
}
