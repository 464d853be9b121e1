// Package plot renders learning curves as interactive HTML charts
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/rlcore/dataset"
)

type series struct {
	name   string
	values []float64
}

// LearningCurve is a line chart of one or more performance series
// over epochs or episodes
type LearningCurve struct {
	title  string
	xLabel string
	series []series
}

// NewLearningCurve returns a new, empty LearningCurve
func NewLearningCurve(title, xLabel string) *LearningCurve {
	return &LearningCurve{title: title, xLabel: xLabel}
}

// FromMetrics returns a LearningCurve of the mean, minimum, and
// maximum return of each epoch
func FromMetrics(title string, metrics []dataset.Metrics) *LearningCurve {
	l := NewLearningCurve(title, "Epoch")

	mean := make([]float64, len(metrics))
	lows := make([]float64, len(metrics))
	highs := make([]float64, len(metrics))
	for i, m := range metrics {
		mean[i], lows[i], highs[i] = m.MeanJ, m.MinJ, m.MaxJ
	}

	l.AddSeries("Mean J", mean)
	l.AddSeries("Min J", lows)
	l.AddSeries("Max J", highs)
	return l
}

// AddSeries adds a named series to the chart
func (l *LearningCurve) AddSeries(name string, values []float64) {
	v := make([]float64, len(values))
	copy(v, values)
	l.series = append(l.series, series{name: name, values: v})
}

// Len returns the length of the longest series
func (l *LearningCurve) Len() int {
	n := 0
	for _, s := range l.series {
		if len(s.values) > n {
			n = len(s.values)
		}
	}
	return n
}

// Render writes the chart as an HTML page to w
func (l *LearningCurve) Render(w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: l.title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: l.xLabel,
		}),
	)

	var x []string
	for i := 0; i < l.Len(); i++ {
		x = append(x, fmt.Sprintf("%d", i))
	}
	line = line.SetXAxis(x)

	for _, s := range l.series {
		items := make([]opts.LineData, 0, len(s.values))
		for _, v := range s.values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	return nil
}

// Save writes the chart as an HTML page to filename
func (l *LearningCurve) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer f.Close()

	return l.Render(f)
}
