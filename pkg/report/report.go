// Package report renders scheduling results as an HTML chart page.
package report

import (
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/hallsched/core/model"
)

// Render writes a page with a utilization bar chart and an occupancy line
// chart. Each result becomes one series labelled by its algorithm.
func Render(w io.Writer, results ...model.Result) error {
	if len(results) == 0 {
		return errors.New("report: no results")
	}
	page := components.NewPage()
	page.PageTitle = "Hall schedule"
	page.AddCharts(utilizationChart(results), occupancyChart(results))
	return page.Render(w)
}

func utilizationChart(results []model.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Hall utilization"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hall"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Busy (%)"}),
	)
	halls := 0
	for _, r := range results {
		if len(r.Utilization) > halls {
			halls = len(r.Utilization)
		}
	}
	labels := make([]string, halls)
	for i := range labels {
		labels[i] = "H" + strconv.Itoa(i+1)
	}
	bar.SetXAxis(labels)
	for _, r := range results {
		data := make([]opts.BarData, halls)
		for _, u := range r.Utilization {
			if u.Hall < halls {
				data[u.Hall] = opts.BarData{Value: math.Round(u.Percent*100) / 100}
			}
		}
		bar.AddSeries(seriesName(r), data)
	}
	return bar
}

// occupancyChart plots how many halls are busy at every whole time unit.
func occupancyChart(results []model.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Busy halls over time"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Halls"}),
	)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range results {
		for _, h := range r.Scheduled {
			for _, e := range h.Events {
				lo = math.Min(lo, e.Start)
				hi = math.Max(hi, e.End)
			}
		}
	}
	var ticks []float64
	if lo < hi {
		for t := math.Floor(lo); t < hi; t++ {
			ticks = append(ticks, t)
		}
	}
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = strconv.FormatFloat(t, 'f', -1, 64)
	}
	line.SetXAxis(labels)
	for _, r := range results {
		data := make([]opts.LineData, len(ticks))
		for i, t := range ticks {
			data[i] = opts.LineData{Value: Occupancy(r.Allocation, t)}
		}
		line.AddSeries(seriesName(r), data)
	}
	return line
}

// Occupancy counts the halls hosting an event that covers instant t.
func Occupancy(a model.Allocation, t float64) int {
	n := 0
	for _, h := range a.Scheduled {
		for _, e := range h.Events {
			if e.Start <= t && t < e.End {
				n++
				break
			}
		}
	}
	return n
}

func seriesName(r model.Result) string {
	if r.Algorithm == "" {
		return "run " + r.RunID
	}
	return r.Algorithm.String()
}
