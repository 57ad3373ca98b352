package shotchart

import "sort"

const (
	DashStyleDash  = "Dash"
	DashStyleSolid = "Solid"

	valueDecimals  = 2
	defaultOpacity = 1.0
)

// ChartSeries is a renderer-agnostic series record
type ChartSeries struct {
	Name          string  `json:"name" msgpack:"name"`
	Data          []Point `json:"data" msgpack:"data"`
	Color         string  `json:"color" msgpack:"color"`
	Visible       bool    `json:"visible" msgpack:"visible"`
	DashStyle     string  `json:"dashStyle" msgpack:"dashStyle"`
	ValueDecimals int     `json:"valueDecimals" msgpack:"valueDecimals"`
	ValueSuffix   string  `json:"valueSuffix" msgpack:"valueSuffix"`
	Opacity       float64 `json:"opacity" msgpack:"opacity"`
	SeriesType    string  `json:"seriesType" msgpack:"seriesType"`
}

// NewChartSeries builds the record for one channel
func NewChartSeries(p Presentation, points []Point) ChartSeries {
	cs := ChartSeries{
		Name:          p.Title,
		Data:          points,
		Color:         p.Color,
		Visible:       !p.Hidden,
		DashStyle:     DashStyleSolid,
		ValueDecimals: valueDecimals,
		ValueSuffix:   p.Suffix,
		Opacity:       defaultOpacity,
		SeriesType:    SeriesTypeLine,
	}
	if p.Dashed {
		cs.DashStyle = DashStyleDash
	}
	if p.Opacity != nil {
		cs.Opacity = *p.Opacity
	}
	if p.Type == SeriesTypeSpline {
		cs.SeriesType = SeriesTypeSpline
	}
	return cs
}

// Serialize converts a set of series into chart records. Channels the
// resolver has no presentation for are left out.
func Serialize(set SeriesSet, resolver *Resolver) []ChartSeries {
	out := make([]ChartSeries, 0, len(set))
	for _, s := range set {
		p, ok := resolver.Resolve(s.Name)
		if !ok {
			continue
		}
		out = append(out, NewChartSeries(p, s.Points))
	}
	return out
}

// SplitTemperature sorts a set by channel name and splits it into the main
// group and the temperature group.
func SplitTemperature(set SeriesSet) (main, temperature SeriesSet) {
	sorted := make(SeriesSet, len(set))
	copy(sorted, set)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	for _, s := range sorted {
		if IsTemperature(s.Name) {
			temperature = append(temperature, s)
		} else {
			main = append(main, s)
		}
	}
	return main, temperature
}
