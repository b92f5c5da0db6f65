// Package charts renders chains as interactive HTML pages with go-echarts.
package charts

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: title,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	}
}

// Trace returns a line chart of a chain against its step number.
func Trace(title string, xs []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(title, fmt.Sprintf("%d steps", len(xs)))...)
	steps := make([]int, len(xs))
	items := make([]opts.LineData, len(xs))
	for i, x := range xs {
		steps[i] = i + 1
		items[i] = opts.LineData{Value: x}
	}
	line.SetXAxis(steps).AddSeries("x", items)
	return line
}

// Histogram returns a bar chart of the fraction of xs per bin over [lo, hi)
// next to the density evaluated at the bin centres times the bin width.
// Samples outside the range are not counted.
func Histogram(title string, xs []float64, bins int, lo, hi float64, density func(float64) float64) *charts.Bar {
	if bins <= 0 || !(hi > lo) {
		panic("charts: bad bins")
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram wants sorted data strictly inside the dividers.
	in := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x >= lo && x < hi {
			in = append(in, x)
		}
	}
	sort.Float64s(in)
	counts := stat.Histogram(nil, dividers, in, nil)

	width := (hi - lo) / float64(bins)
	labels := make([]string, bins)
	freq := make([]opts.BarData, bins)
	want := make([]opts.BarData, bins)
	for i := range counts {
		c := lo + (float64(i)+0.5)*width
		labels[i] = fmt.Sprintf("%.2f", c)
		var f float64
		if len(xs) > 0 {
			f = counts[i] / float64(len(xs))
		}
		freq[i] = opts.BarData{Value: f}
		if density != nil {
			want[i] = opts.BarData{Value: density(c) * width}
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title, fmt.Sprintf("%d samples", len(xs)))...)
	bar.SetXAxis(labels).AddSeries("samples", freq)
	if density != nil {
		bar.AddSeries("target", want)
	}
	return bar
}

// Page collects charts into a single HTML page.
type Page struct {
	page *components.Page
}

// NewPage returns an empty page.
func NewPage(title string) *Page {
	p := components.NewPage()
	p.PageTitle = title
	return &Page{page: p}
}

// Add appends charts to the page.
func (p *Page) Add(c ...components.Charter) {
	p.page.AddCharts(c...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return errors.Wrap(p.page.Render(w), "failed to render page")
}

// Save writes the page to path.
func (p *Page) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create page")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "failed to close page")
		}
	}()
	return p.Render(f)
}
