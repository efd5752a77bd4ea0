package charts

import (
	"bytes"
	"fmt"
	"time"

	"coronabot/sources/statistics"
	"coronabot/sources/tracing"

	"github.com/wcharczuk/go-chart/v2"
)

// Renderer turns a daily time series into a PNG buffer for the
// photo-message path.
type Renderer struct {
	log *tracing.Logger
}

func NewRenderer(log *tracing.Logger) *Renderer {
	return &Renderer{log: log}
}

func (x *Renderer) RenderTimeseries(logger *tracing.Logger, series *statistics.Series) ([]byte, error) {
	defer tracing.ProfilePoint(logger, "Chart render completed", "charts.render.timeseries", "points", len(series.Cases))()

	days := len(series.Cases)
	dates := make([]time.Time, days)
	cases := make([]float64, days)
	deaths := make([]float64, days)

	firstDate := series.LastDate.AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		dates[i] = firstDate.AddDate(0, 0, i)
		cases[i] = float64(series.Cases[i])
		deaths[i] = float64(series.Deaths[i])
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("New Covid-19 Cases in %s - %d Days", series.Name, days),
		Width:  800,
		Height: 500,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Cases",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Infections",
				XValues: dates,
				YValues: cases,
				Style: chart.Style{
					StrokeColor: chart.ColorCyan,
					FillColor:   chart.ColorCyan.WithAlpha(100),
				},
			},
			chart.TimeSeries{
				Name:    "Deaths",
				XValues: dates,
				YValues: deaths,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					FillColor:   chart.ColorRed.WithAlpha(100),
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buffer bytes.Buffer
	if err := graph.Render(chart.PNG, &buffer); err != nil {
		logger.E("Failed to render timeseries chart", tracing.InnerError, err)
		return nil, err
	}

	return buffer.Bytes(), nil
}
