// Package charts renders the per-category spending visuals as PNGs,
// fed from the tracker's filtered expense list.
package charts

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
)

var palette = []string{
	"667eea", "764ba2", "f093fb", "f5576c", "4facfe",
	"00f2fe", "43e97b", "38f9d7", "ffecd2", "fcb69f",
	"a8edea", "fed6e3", "d299c2", "ffd89b", "19547b",
}

func colorAt(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// categoryValues sums amounts per category, keeping first-seen order so
// the chart matches the list the user is looking at.
func categoryValues(expenses []entity.Expense) []chart.Value {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, e := range expenses {
		if _, ok := totals[e.Category]; !ok {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}

	values := make([]chart.Value, 0, len(order))
	for i, name := range order {
		values = append(values, chart.Value{
			Label: name,
			Value: totals[name],
			Style: chart.Style{FillColor: colorAt(i), StrokeColor: colorAt(i)},
		})
	}
	return values
}

// RenderCategoryBar renders a bar chart of spending per category.
// Returns nil bytes when there is nothing to draw.
func RenderCategoryBar(expenses []entity.Expense) ([]byte, error) {
	values := categoryValues(expenses)
	if len(values) == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:    "Spending by Category",
		Width:    800,
		Height:   400,
		BarWidth: 48,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderCategoryDonut renders a donut chart of the category shares.
// Returns nil bytes when there is nothing to draw.
func RenderCategoryDonut(expenses []entity.Expense) ([]byte, error) {
	values := categoryValues(expenses)
	if len(values) == 0 {
		return nil, nil
	}

	graph := chart.DonutChart{
		Title:  "Category Share",
		Width:  500,
		Height: 500,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
