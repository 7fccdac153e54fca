package rankingservice

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GenerateRankHistoryChart produces a PNG line chart of a forecaster's rank
// trajectory. The Y axis is inverted so rank 1 renders at the top.
func (s *RankingService) GenerateRankHistoryChart(ctx context.Context, forecasterID string) ([]byte, error) {
	records, err := s.repo.GetRankHistory(ctx, forecasterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for chart: %w", err)
	}

	if len(records) == 0 {
		return renderNoDataPlaceholder()
	}

	xValues := make([]time.Time, len(records))
	yValues := make([]float64, len(records))
	for i, record := range records {
		xValues[i] = record.Date
		yValues[i] = float64(record.Rank)
	}

	// go-chart cannot render a single point; pad it into a flat one-day line.
	if len(records) == 1 {
		xValues = append([]time.Time{records[0].Date.AddDate(0, 0, -1)}, xValues...)
		yValues = append([]float64{yValues[0]}, yValues...)
	}

	yRange := &chart.ContinuousRange{Descending: true} // rank 1 at the top
	minY, maxY := yValues[0], yValues[0]
	for _, y := range yValues {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	// A constant rank gives a zero-height range, which go-chart rejects.
	if minY == maxY {
		yRange.Min = minY - 1
		yRange.Max = maxY + 1
	}

	mainSeries := chart.TimeSeries{
		Name:    "Rank History",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.ColorBlue,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    chart.ColorAlternateBlue,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name:  "Rank",
			Range: yRange,
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render rank history chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder returns a blank chart so a history-less forecaster
// still gets a valid image rather than an error.
func renderNoDataPlaceholder() ([]byte, error) {
	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buffer.Bytes(), nil
}
