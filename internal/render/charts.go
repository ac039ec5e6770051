// Package render draws the six KPI charts as PNG files. It is purely
// presentational: every number it plots was already computed by the
// aggregation engine. A chart that cannot be drawn (typically: nothing to
// plot) is reported as a RenderError and skipped; it never aborts the run.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	"support_analytics/internal/kpi"
)

// RenderError marks a single chart that could not be produced.
type RenderError struct {
	Chart string
	Err   error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render %s: %v", e.Chart, e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// Chart file names.
const (
	ChartTopAccounts    = "viz_top_accounts.png"
	ChartPriorityStatus = "viz_priority_status.png"
	ChartIndustry       = "viz_industry_analysis.png"
	ChartCountry        = "viz_country_analysis.png"
	ChartTimeSeries     = "viz_time_series.png"
	ChartResolutionTime = "viz_resolution_time.png"
)

// Renderer draws charts into Dir at the configured resolution.
type Renderer struct {
	Dir            string
	Width          int
	Height         int
	TopNAccounts   int
	TopNCountries  int
	TopNIndustries int
}

// RenderAll produces every chart and returns one RenderError per chart that
// failed. A non-empty return is a degradation, not a pipeline failure.
func (r *Renderer) RenderAll(res *kpi.Results) []error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return []error{&RenderError{Chart: r.Dir, Err: err}}
	}
	charts := []struct {
		name string
		fn   func(*kpi.Results) (*image.RGBA, error)
	}{
		{ChartTopAccounts, r.topAccounts},
		{ChartPriorityStatus, r.priorityStatus},
		{ChartIndustry, r.industryAnalysis},
		{ChartCountry, r.countryAnalysis},
		{ChartTimeSeries, r.timeSeries},
		{ChartResolutionTime, r.resolutionTime},
	}
	var errs []error
	for _, ch := range charts {
		img, err := ch.fn(res)
		if err != nil {
			errs = append(errs, &RenderError{Chart: ch.name, Err: err})
			continue
		}
		if err := r.save(ch.name, img); err != nil {
			errs = append(errs, &RenderError{Chart: ch.name, Err: err})
		}
	}
	return errs
}

func (r *Renderer) save(name string, img *image.RGBA) error {
	f, err := os.Create(filepath.Join(r.Dir, name))
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type barItem struct {
	label string
	value float64
	tag   string
}

func (r *Renderer) topAccounts(res *kpi.Results) (*image.RGBA, error) {
	rows := res.CasesPerAccount
	if len(rows) > r.TopNAccounts {
		rows = rows[:r.TopNAccounts]
	}
	items := make([]barItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, barItem{
			label: row.AccountName,
			value: float64(row.TotalCases),
			tag:   fmt.Sprintf("%d cases", row.TotalCases),
		})
	}
	return r.barChartH(fmt.Sprintf("Top %d Accounts by Case Volume", len(items)), items)
}

func (r *Renderer) industryAnalysis(res *kpi.Results) (*image.RGBA, error) {
	rows := res.Industry
	if len(rows) > r.TopNIndustries {
		rows = rows[:r.TopNIndustries]
	}
	items := make([]barItem, 0, len(rows))
	for _, row := range rows {
		v := row.CasesPerAccount
		tag := fmt.Sprintf("%.1f", v)
		if math.IsNaN(v) {
			v, tag = 0, "n/a"
		}
		items = append(items, barItem{label: row.Industry, value: v, tag: tag})
	}
	return r.barChartH("Average Cases per Account by Industry", items)
}

func (r *Renderer) countryAnalysis(res *kpi.Results) (*image.RGBA, error) {
	rows := res.Country
	if len(rows) > r.TopNCountries {
		rows = rows[:r.TopNCountries]
	}
	items := make([]barItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, barItem{
			label: row.Country,
			value: float64(row.CaseCount),
			tag:   fmt.Sprintf("%d cases", row.CaseCount),
		})
	}
	return r.barChartH(fmt.Sprintf("Top %d Countries by Support Volume", len(items)), items)
}

// barChartH draws horizontal bars, longest on top ordering preserved from the
// already-ranked KPI rows.
func (r *Renderer) barChartH(title string, items []barItem) (*image.RGBA, error) {
	if len(items) == 0 {
		return nil, errors.New("no data to plot")
	}
	img := newCanvas(r.Width, r.Height)
	drawLabel(img, marginSide, 15, title, colInk)

	maxLabel := 0
	maxVal := 0.0
	for _, it := range items {
		if w := labelWidth(it.label); w > maxLabel {
			maxLabel = w
		}
		if it.value > maxVal {
			maxVal = it.value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	labelLimit := (r.Width / 4) / glyphW
	if maxLabel > labelLimit*glyphW {
		maxLabel = labelLimit * glyphW
	}

	plotX0 := marginSide + maxLabel + 10
	plotX1 := r.Width - marginSide - 110 // room for value tags
	plotY0 := marginTop
	plotY1 := r.Height - marginTop

	// vertical gridlines with value ticks
	for i := 0; i <= 4; i++ {
		x := plotX0 + (plotX1-plotX0)*i/4
		fillRect(img, x, plotY0, x+1, plotY1, colGrid)
		tick := fmt.Sprintf("%.0f", maxVal*float64(i)/4)
		drawLabel(img, x-labelWidth(tick)/2, plotY1+6, tick, colAxis)
	}

	slot := (plotY1 - plotY0) / len(items)
	barH := slot * 7 / 10
	if barH < 2 {
		barH = 2
	}
	for i, it := range items {
		y := plotY0 + i*slot + (slot-barH)/2
		w := int(float64(plotX1-plotX0) * it.value / maxVal)
		fillRect(img, plotX0, y, plotX0+w, y+barH, colNeutral)
		label := truncateLabel(it.label, labelLimit)
		drawLabel(img, plotX0-10-labelWidth(label), y+(barH-glyphH)/2, label, colInk)
		drawLabel(img, plotX0+w+6, y+(barH-glyphH)/2, it.tag, colAxis)
	}
	return img, nil
}

func (r *Renderer) priorityStatus(res *kpi.Results) (*image.RGBA, error) {
	if len(res.PriorityStatus) == 0 {
		return nil, errors.New("no data to plot")
	}
	img := newCanvas(r.Width, r.Height)
	drawLabel(img, marginSide, 15, "Cases by Priority and Status", colInk)

	// Rows arrive sorted by priority rank then status; keep that order.
	var priorities, statuses []string
	counts := map[string]map[string]int{}
	maxCount := 0
	for _, row := range res.PriorityStatus {
		if counts[row.Priority] == nil {
			counts[row.Priority] = map[string]int{}
			priorities = append(priorities, row.Priority)
		}
		if !contains(statuses, row.Status) {
			statuses = append(statuses, row.Status)
		}
		counts[row.Priority][row.Status] = row.CaseCount
		if row.CaseCount > maxCount {
			maxCount = row.CaseCount
		}
	}
	sort.Strings(statuses)

	plotX0 := marginSide + 50
	plotX1 := r.Width - marginSide
	plotY0 := marginTop + 20
	plotY1 := r.Height - marginTop - 10

	for i := 0; i <= 4; i++ {
		y := plotY1 - (plotY1-plotY0)*i/4
		fillRect(img, plotX0, y, plotX1, y+1, colGrid)
		tick := fmt.Sprintf("%d", maxCount*i/4)
		drawLabel(img, plotX0-8-labelWidth(tick), y-glyphH/2, tick, colAxis)
	}

	groupW := (plotX1 - plotX0) / len(priorities)
	barW := groupW * 7 / 10 / len(statuses)
	if barW < 2 {
		barW = 2
	}
	for gi, p := range priorities {
		gx := plotX0 + gi*groupW + groupW*3/20
		for si, s := range statuses {
			n := counts[p][s]
			h := int(float64(plotY1-plotY0) * float64(n) / float64(maxCount))
			x := gx + si*barW
			fillRect(img, x, plotY1-h, x+barW-1, plotY1, statusColor(s))
		}
		drawLabel(img, plotX0+gi*groupW+(groupW-labelWidth(p))/2, plotY1+8, p, colInk)
	}

	// legend
	lx := plotX1 - 140
	for i, s := range statuses {
		ly := marginTop + i*(glyphH+6)
		fillRect(img, lx, ly, lx+10, ly+10, statusColor(s))
		drawLabel(img, lx+16, ly-2, s, colInk)
	}
	return img, nil
}

func (r *Renderer) timeSeries(res *kpi.Results) (*image.RGBA, error) {
	if len(res.TimeSeries) == 0 {
		return nil, errors.New("no data to plot")
	}
	img := newCanvas(r.Width, r.Height)
	drawLabel(img, marginSide, 15, "Cases Created Over Time by Priority", colInk)

	var days, priorities []string
	series := map[string]map[string]int{}
	maxCount := 0
	for _, row := range res.TimeSeries {
		if !contains(days, row.Day) {
			days = append(days, row.Day)
		}
		if series[row.Priority] == nil {
			series[row.Priority] = map[string]int{}
			priorities = append(priorities, row.Priority)
		}
		series[row.Priority][row.Day] = row.CaseCount
		if row.CaseCount > maxCount {
			maxCount = row.CaseCount
		}
	}

	plotX0 := marginSide + 50
	plotX1 := r.Width - marginSide
	plotY0 := marginTop + 20
	plotY1 := r.Height - marginTop - 20

	for i := 0; i <= 4; i++ {
		y := plotY1 - (plotY1-plotY0)*i/4
		fillRect(img, plotX0, y, plotX1, y+1, colGrid)
		tick := fmt.Sprintf("%d", maxCount*i/4)
		drawLabel(img, plotX0-8-labelWidth(tick), y-glyphH/2, tick, colAxis)
	}

	xFor := func(i int) int {
		if len(days) == 1 {
			return (plotX0 + plotX1) / 2
		}
		return plotX0 + (plotX1-plotX0)*i/(len(days)-1)
	}
	yFor := func(n int) int {
		return plotY1 - int(float64(plotY1-plotY0)*float64(n)/float64(maxCount))
	}

	// day labels, thinned so they never overlap
	step := 1
	if len(days) > 1 {
		perLabel := labelWidth("2006-01-02") + 10
		step = (len(days)*perLabel)/(plotX1-plotX0) + 1
	}
	for i := 0; i < len(days); i += step {
		drawLabel(img, xFor(i)-labelWidth(days[i])/2, plotY1+8, days[i], colAxis)
	}

	for _, p := range priorities {
		col := priorityColor(p)
		prevX, prevY, started := 0, 0, false
		for i, d := range days {
			n, ok := series[p][d]
			if !ok {
				n = 0
			}
			x, y := xFor(i), yFor(n)
			if started {
				drawLine(img, prevX, prevY, x, y, col)
			}
			drawMarker(img, x, y, 2, col)
			prevX, prevY, started = x, y, true
		}
	}

	lx := plotX1 - 140
	for i, p := range priorities {
		ly := marginTop + i*(glyphH+6)
		fillRect(img, lx, ly, lx+10, ly+10, priorityColor(p))
		drawLabel(img, lx+16, ly-2, p, colInk)
	}
	return img, nil
}

func (r *Renderer) resolutionTime(res *kpi.Results) (*image.RGBA, error) {
	var values []float64
	for _, row := range res.CasesPerAccount {
		if !math.IsNaN(row.AvgResolutionDays) {
			values = append(values, row.AvgResolutionDays)
		}
	}
	if len(values) == 0 {
		return nil, errors.New("no resolved cases to plot")
	}
	img := newCanvas(r.Width, r.Height)
	drawLabel(img, marginSide, 15, "Distribution of Average Resolution Time (days)", colInk)

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	const bins = 20
	span := max - min
	if span == 0 {
		span = 1
	}
	hist := make([]int, bins)
	for _, v := range values {
		b := int((v - min) / span * bins)
		if b >= bins {
			b = bins - 1
		}
		hist[b]++
	}
	maxBin := 0
	for _, n := range hist {
		if n > maxBin {
			maxBin = n
		}
	}

	plotX0 := marginSide + 50
	plotX1 := r.Width - marginSide
	plotY0 := marginTop + 20
	plotY1 := r.Height - marginTop - 20

	for i := 0; i <= 4; i++ {
		y := plotY1 - (plotY1-plotY0)*i/4
		fillRect(img, plotX0, y, plotX1, y+1, colGrid)
		tick := fmt.Sprintf("%d", maxBin*i/4)
		drawLabel(img, plotX0-8-labelWidth(tick), y-glyphH/2, tick, colAxis)
	}

	binW := (plotX1 - plotX0) / bins
	for i, n := range hist {
		h := int(float64(plotY1-plotY0) * float64(n) / float64(maxBin))
		x := plotX0 + i*binW
		fillRect(img, x+1, plotY1-h, x+binW-1, plotY1, colNeutral)
	}

	med := median(values)
	mx := plotX0 + int((med-min)/span*float64(plotX1-plotX0))
	fillRect(img, mx, plotY0, mx+2, plotY1, priorityColor("High"))
	drawLabel(img, mx+6, plotY0, fmt.Sprintf("median %.1fd", med), colInk)

	drawLabel(img, plotX0, plotY1+8, fmt.Sprintf("%.1f", min), colAxis)
	maxTick := fmt.Sprintf("%.1f", max)
	drawLabel(img, plotX1-labelWidth(maxTick), plotY1+8, maxTick, colAxis)
	return img, nil
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
