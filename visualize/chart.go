// Package visualize summarizes evaluation results and renders them as a bar chart.
package visualize

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"studenteval/evaluation"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoData = errors.New("no student data available to visualize")

const Title = "Evaluation Results Distribution"

var skyBlue = drawing.Color{R: 135, G: 206, B: 235, A: 255}

// LabelCount is the number of records carrying one result.
type LabelCount struct {
	Label evaluation.Label `json:"label"`
	Count int              `json:"count"`
}

type Options struct {
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{Width: 640, Height: 480}
}

// Summarize counts records by result, most frequent first. Equal counts
// keep label order; results outside the fixed labels sort after them.
func Summarize(records []evaluation.Record) []LabelCount {
	counts := make(map[evaluation.Label]int)
	for _, rec := range records {
		counts[rec.Result]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return rank(out[i].Label) < rank(out[j].Label) ||
			(rank(out[i].Label) == rank(out[j].Label) && out[i].Label < out[j].Label)
	})
	return out
}

func rank(l evaluation.Label) int {
	if idx := l.Index(); idx >= 0 {
		return idx
	}
	return len(evaluation.Labels())
}

// Render draws the label distribution of records as a PNG bar chart.
func Render(records []evaluation.Record, opts Options) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	summary := Summarize(records)
	bars := make([]chart.Value, 0, len(summary))
	maxCount := 0
	for _, lc := range summary {
		bars = append(bars, chart.Value{
			Label: lc.Label.String(),
			Value: float64(lc.Count),
			Style: chart.Style{FillColor: skyBlue, StrokeColor: skyBlue},
		})
		if lc.Count > maxCount {
			maxCount = lc.Count
		}
	}

	bc := chart.BarChart{
		Title:  Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth: barWidth(opts.Width, len(bars)),
		XAxis:    chart.Style{StrokeColor: chart.ColorBlack},
		YAxis: chart.YAxis{
			Name:  "count",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
			Ticks: countTicks(maxCount),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barWidth(width, bars int) int {
	if bars == 0 {
		return 0
	}
	w := width / (bars * 2)
	if w > 120 {
		w = 120
	}
	if w < 20 {
		w = 20
	}
	return w
}

// countTicks puts a tick on every whole count, thinning out for large totals.
func countTicks(maxCount int) []chart.Tick {
	step := 1
	for maxCount/step > 10 {
		step *= 2
	}
	ticks := make([]chart.Tick, 0, maxCount/step+2)
	for v := 0; v <= maxCount; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	if last := ticks[len(ticks)-1].Value; last < float64(maxCount) {
		ticks = append(ticks, chart.Tick{Value: float64(maxCount), Label: fmt.Sprintf("%d", maxCount)})
	}
	return ticks
}
