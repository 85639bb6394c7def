// Package charts turns stored answers and scores into chart data and
// go-echarts option objects.
package charts

import (
	"fmt"
	"sort"
	"strconv"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"esgboard/internal/catalog"
	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/repository"
)

// renderer is the part of every go-echarts chart we need.
type renderer interface {
	Validate()
	JSON() map[string]interface{}
}

// FromAnswers builds a pillar chart. names maps question codes to their
// localized names; values are the company's stored values over all years.
// Bar and line charts plot one series per question over years; pie charts
// plot the questions' shares in the latest year.
func FromAnswers(def catalog.ChartDef, lang i18n.Lang, names map[string]string, values []repository.YearValue) (dto.Chart, error) {
	byYear := make(map[int]map[string]float64)
	for _, v := range values {
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			continue
		}
		if byYear[v.Year] == nil {
			byYear[v.Year] = make(map[string]float64)
		}
		byYear[v.Year][v.QuestionCode] = f
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	name := func(code string) string {
		if n, ok := names[code]; ok && n != "" {
			return n
		}
		return code
	}

	out := dto.Chart{Key: def.Key, Title: i18n.T(lang, def.Title), Labels: []string{}, Series: []dto.ChartSeries{}}
	if def.Kind == catalog.KindPie {
		var latest map[string]float64
		if len(years) > 0 {
			out.Title = fmt.Sprintf("%s (%d)", out.Title, years[len(years)-1])
			latest = byYear[years[len(years)-1]]
		}
		s := dto.ChartSeries{Name: out.Title, Values: []float64{}}
		for _, code := range def.Questions {
			out.Labels = append(out.Labels, name(code))
			s.Values = append(s.Values, latest[code])
		}
		out.Series = append(out.Series, s)
	} else {
		for _, y := range years {
			out.Labels = append(out.Labels, strconv.Itoa(y))
		}
		for _, code := range def.Questions {
			s := dto.ChartSeries{Name: name(code), Values: make([]float64, 0, len(years))}
			for _, y := range years {
				s.Values = append(s.Values, byYear[y][code])
			}
			out.Series = append(out.Series, s)
		}
	}
	out.Options = Options(def.Kind, out)
	return out, nil
}

// ScoresOverTime charts the pillar and ESG scores of every year.
func ScoresOverTime(lang i18n.Lang, scores []dto.YearScore) dto.Chart {
	out := dto.Chart{
		Key:    "esg-over-time",
		Title:  i18n.T(lang, "chart.esgOverTime"),
		Labels: make([]string, 0, len(scores)),
	}
	env := dto.ChartSeries{Name: i18n.T(lang, catalog.Environment.NameKey())}
	soc := dto.ChartSeries{Name: i18n.T(lang, catalog.Social.NameKey())}
	gov := dto.ChartSeries{Name: i18n.T(lang, catalog.Governance.NameKey())}
	esg := dto.ChartSeries{Name: "ESG"}
	for _, s := range scores {
		out.Labels = append(out.Labels, strconv.Itoa(s.Year))
		env.Values = append(env.Values, percent(s.Environmental))
		soc.Values = append(soc.Values, percent(s.Social))
		gov.Values = append(gov.Values, percent(s.Governance))
		esg.Values = append(esg.Values, percent(s.ESG))
	}
	out.Series = []dto.ChartSeries{env, soc, gov, esg}
	out.Options = Options(catalog.KindLine, out)
	return out
}

// ScoreProportion charts the pillar shares of one year's score.
func ScoreProportion(lang i18n.Lang, score dto.YearScore) dto.Chart {
	out := dto.Chart{
		Key:   "esg-proportion",
		Title: fmt.Sprintf("%s (%d)", i18n.T(lang, "chart.esgProportion"), score.Year),
		Labels: []string{
			i18n.T(lang, catalog.Environment.NameKey()),
			i18n.T(lang, catalog.Social.NameKey()),
			i18n.T(lang, catalog.Governance.NameKey()),
		},
	}
	out.Series = []dto.ChartSeries{{
		Name:   out.Title,
		Values: []float64{percent(score.Environmental), percent(score.Social), percent(score.Governance)},
	}}
	out.Options = Options(catalog.KindPie, out)
	return out
}

// Options renders chart data into the go-echarts option object.
func Options(kind catalog.ChartKind, c dto.Chart) map[string]any {
	r := build(kind, c)
	r.Validate()
	return r.JSON()
}

func build(kind catalog.ChartKind, c dto.Chart) renderer {
	title := echarts.WithTitleOpts(opts.Title{Title: c.Title})
	legend := echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"})

	switch kind {
	case catalog.KindPie:
		pie := echarts.NewPie()
		pie.SetGlobalOptions(title, legend,
			echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		)
		for _, s := range c.Series {
			items := make([]opts.PieData, 0, len(s.Values))
			for i, v := range s.Values {
				if i < len(c.Labels) {
					items = append(items, opts.PieData{Name: c.Labels[i], Value: v})
				}
			}
			pie.AddSeries(s.Name, items).SetSeriesOptions(
				echarts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
				echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
			)
		}
		return pie
	case catalog.KindLine:
		line := echarts.NewLine()
		line.SetGlobalOptions(title, legend,
			echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			echarts.WithYAxisOpts(opts.YAxis{Type: "value", Scale: opts.Bool(true)}),
		)
		line.SetXAxis(c.Labels)
		for _, s := range c.Series {
			items := make([]opts.LineData, 0, len(s.Values))
			for _, v := range s.Values {
				items = append(items, opts.LineData{Value: v})
			}
			line.AddSeries(s.Name, items).SetSeriesOptions(echarts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
		}
		return line
	default:
		bar := echarts.NewBar()
		bar.SetGlobalOptions(title, legend,
			echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			echarts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		)
		bar.SetXAxis(c.Labels)
		for _, s := range c.Series {
			items := make([]opts.BarData, 0, len(s.Values))
			for _, v := range s.Values {
				items = append(items, opts.BarData{Value: v})
			}
			bar.AddSeries(s.Name, items)
		}
		return bar
	}
}

func percent(v float64) float64 {
	return float64(int(v*10000+0.5)) / 100
}
