// Package charts renders the reporting aggregates as PNG images: the cash
// flow trend, per-category pies and the multi-category comparison lines.
// Inputs are already-aggregated series; the package has no store access.
package charts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"tally/internal/core"
	"tally/internal/report"
)

// Line is one comparison series: a label and per-month amounts aligned to
// the shared month axis.
type Line struct {
	Name   string
	Values []core.Money
}

// Renderer produces PNG charts at a fixed canvas size.
type Renderer struct {
	width  int
	height int
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// CashFlowTrend renders income and expense totals per month as two lines.
// An empty axis yields no image.
func (r *Renderer) CashFlowTrend(months []string, expenses, income []core.Money) ([]byte, error) {
	if len(months) == 0 {
		return nil, nil
	}

	xValues := monthTimes(months)
	expenseValues := unitValues(expenses)
	incomeValues := unitValues(income)
	if len(xValues) == 1 {
		// go-chart cannot render a degenerate single-point range.
		xValues = append(xValues, xValues[0].AddDate(0, 1, 0))
		expenseValues = append(expenseValues, expenseValues[0])
		incomeValues = append(incomeValues, incomeValues[0])
	}

	graph := chart.Chart{
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
			Style:          chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
			Style:          chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Expenses",
				XValues: xValues,
				YValues: expenseValues,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: 12, FontColor: chart.ColorBlack}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render cash flow trend: %w", err)
	}
	return buffer.Bytes(), nil
}

// CategoryPie renders a category breakdown as a pie chart. An empty
// breakdown yields no image.
func (r *Renderer) CategoryPie(title string, breakdown []report.CategoryTotal) ([]byte, error) {
	if len(breakdown) == 0 {
		return nil, nil
	}

	total := int64(0)
	for _, ct := range breakdown {
		total += ct.Amount.Cents
	}
	if total == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(breakdown))
	for _, ct := range breakdown {
		percentage := float64(ct.Amount.Cents) / float64(total) * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", ct.Category, ct.Amount, percentage),
			Value: ct.Amount.Units(),
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buffer.Bytes(), nil
}

// Comparison renders one line per selected category over the shared month
// axis. Nothing selected, or an empty axis, yields no image.
func (r *Renderer) Comparison(months []string, lines []Line) ([]byte, error) {
	if len(months) == 0 || len(lines) == 0 {
		return nil, nil
	}

	xValues := monthTimes(months)
	pad := len(xValues) == 1
	if pad {
		xValues = append(xValues, xValues[0].AddDate(0, 1, 0))
	}

	palette := []chart.Style{
		{StrokeColor: chart.ColorRed, StrokeWidth: 2},
		{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
		{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
		{StrokeColor: chart.ColorOrange, StrokeWidth: 2},
		{StrokeColor: chart.ColorCyan, StrokeWidth: 2},
	}

	series := make([]chart.Series, 0, len(lines))
	for i, line := range lines {
		yValues := unitValues(line.Values)
		if pad {
			yValues = append(yValues, yValues[0])
		}
		series = append(series, chart.TimeSeries{
			Name:    line.Name,
			XValues: xValues,
			YValues: yValues,
			Style:   palette[i%len(palette)],
		})
	}

	graph := chart.Chart{
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
			Style:          chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
			Style:          chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: 12, FontColor: chart.ColorBlack}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render category comparison: %w", err)
	}
	return buffer.Bytes(), nil
}

func amountFormatter(v interface{}) string {
	return fmt.Sprintf("%.2f", v.(float64))
}

// monthTimes maps "YYYY-MM" keys to the first day of each month. The axis
// comes from the aggregation layer, which only emits well-formed keys;
// anything else falls back to the zero time.
func monthTimes(months []string) []time.Time {
	out := make([]time.Time, len(months))
	for i, m := range months {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			t = time.Time{}
		}
		out[i] = t
	}
	return out
}

func unitValues(values []core.Money) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Units()
	}
	return out
}
