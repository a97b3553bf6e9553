// Package chart renders dashboard series as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
)

// ErrNoChartData is returned for a series with nothing to draw.
var ErrNoChartData = errors.New("no chart data")

const (
	height     = 400
	minWidth   = 640
	barWidth   = 40
	barSpacing = 24
)

// Render writes s as a PNG to w.
func Render(w io.Writer, s dashboard.Series) error {
	if s.Empty() {
		return ErrNoChartData
	}
	switch s.Kind {
	case "bar":
		return renderBar(w, s)
	case "pie":
		return renderPie(w, s)
	default:
		return fmt.Errorf("unknown chart kind %q", s.Kind)
	}
}

// PNG renders s into memory.
func PNG(s dashboard.Series) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBar(w io.Writer, s dashboard.Series) error {
	var max float64
	bars := make([]gochart.Value, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Value > max {
			max = p.Value
		}
		bars = append(bars, gochart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: fill(p.Color),
		})
	}

	if max <= 0 {
		max = 1
	}

	width := len(bars)*(barWidth+barSpacing) + 160
	if width < minWidth {
		width = minWidth
	}

	bc := gochart.BarChart{
		Title:      s.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Name: s.YLabel,
			// a single bar, equal bars or all-zero bars would otherwise give a zero-width range
			Range: &gochart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", s.Title, err)
	}
	return nil
}

func renderPie(w io.Writer, s dashboard.Series) error {
	values := make([]gochart.Value, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Value <= 0 {
			continue
		}
		label := p.Label
		if p.Text != "" {
			label += " " + p.Text
		}
		st := fill(p.Color)
		st.StrokeColor = drawing.ColorWhite
		values = append(values, gochart.Value{Label: label, Value: p.Value, Style: st})
	}

	pc := gochart.PieChart{
		Title:  s.Title,
		Width:  height,
		Height: height,
		Values: values,
	}
	if err := pc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", s.Title, err)
	}
	return nil
}

func fill(hex string) gochart.Style {
	if hex == "" {
		return gochart.Style{}
	}
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return gochart.Style{FillColor: c, StrokeColor: c}
}
