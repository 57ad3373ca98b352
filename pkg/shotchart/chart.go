// Package shotchart derives chart series and stage markers from a recorded
// espresso shot.
//
// A Chart is built once per render. It normalizes every raw channel into
// display units, adds resistance, conductance and the smoothed conductance
// derivative, and splits the result into a main group and a temperature
// group. Numeric edge cases degrade single samples to null rather than
// failing the chart; the only fatal condition is a shot with no timeframe.
package shotchart

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const comparisonTitleSuffix = " (comparison)"

// Chart holds everything derived from one shot for one viewer
type Chart struct {
	id       uuid.UUID
	shot     *RawShot
	resolver *Resolver
	logger   *zap.SugaredLogger

	processed   SeriesSet
	main        SeriesSet
	temperature SeriesSet
	compMain    SeriesSet
	compTemp    SeriesSet

	stagesOnce sync.Once
	stages     []StageMarker
}

// Result is the serializable output of a chart
type Result struct {
	ShotChart        []ChartSeries `json:"shot_chart" msgpack:"shot_chart"`
	TemperatureChart []ChartSeries `json:"temperature_chart" msgpack:"temperature_chart"`
	Stages           []StageMarker `json:"stages" msgpack:"stages"`
}

// New derives the chart for shot. overrides may be nil. A nil logger
// disables logging.
func New(shot *RawShot, overrides Overrides, logger *zap.SugaredLogger) (*Chart, error) {
	c := newChart(shot, overrides, logger)

	processed, err := c.process(shot)
	if err != nil {
		return nil, err
	}
	c.processed = processed
	c.main, c.temperature = SplitTemperature(processed)

	c.logger.Debugw("derived shot chart",
		"channels", len(processed),
		"main", len(c.main),
		"temperature", len(c.temperature))
	return c, nil
}

// NewComparison derives a chart that draws other next to shot. Stages are
// taken from shot only.
func NewComparison(shot, other *RawShot, overrides Overrides, logger *zap.SugaredLogger) (*Chart, error) {
	c, err := New(shot, overrides, logger)
	if err != nil {
		return nil, err
	}

	compared, err := c.process(other)
	if err != nil {
		return nil, fmt.Errorf("comparison shot: %w", err)
	}
	c.compMain, c.compTemp = SplitTemperature(compared)
	return c, nil
}

func newChart(shot *RawShot, overrides Overrides, logger *zap.SugaredLogger) *Chart {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	id := uuid.New()
	return &Chart{
		id:       id,
		shot:     shot,
		resolver: NewResolver(overrides, shot.DisplayFahrenheit()),
		logger:   logger.With("chart_id", id.String()),
	}
}

// process normalizes a shot and appends the derived channels
func (c *Chart) process(shot *RawShot) (SeriesSet, error) {
	// Comparison shots are drawn in the primary viewer's unit
	if shot != c.shot && shot.DisplayFahrenheit() != c.shot.DisplayFahrenheit() {
		adjusted := *shot
		pref := c.shot.DisplayFahrenheit()
		adjusted.PreferFahrenheit = &pref
		shot = &adjusted
	}

	set, err := Normalize(shot)
	if err != nil {
		return nil, err
	}

	pressure, hasPressure := set.Get(ChannelPressure)
	flow, hasFlow := set.Get(ChannelFlow)
	if !hasPressure || !hasFlow {
		c.logger.Debugw("skipping derived channels",
			"has_pressure", hasPressure,
			"has_flow", hasFlow)
		return set, nil
	}

	conductance := Conductance(pressure, flow)
	set = append(set,
		Resistance(pressure, flow),
		conductance,
		ConductanceDerivative(conductance),
	)
	return set, nil
}

// ID identifies this chart invocation in logs
func (c *Chart) ID() uuid.UUID {
	return c.id
}

// Processed returns every normalized and derived series in channel order
func (c *Chart) Processed() SeriesSet {
	return c.processed
}

// ShotChart returns the pressure, flow and weight group
func (c *Chart) ShotChart() []ChartSeries {
	return c.serialize(c.main, c.compMain)
}

// TemperatureChart returns the temperature group
func (c *Chart) TemperatureChart() []ChartSeries {
	return c.serialize(c.temperature, c.compTemp)
}

func (c *Chart) serialize(set, compared SeriesSet) []ChartSeries {
	out := Serialize(set, c.resolver)
	for _, s := range compared {
		p, ok := c.resolver.Resolve(s.Name)
		if !ok {
			continue
		}
		p.Title += comparisonTitleSuffix
		p.Dashed = true
		out = append(out, NewChartSeries(p, s.Points))
	}
	return out
}

// Stages returns the stage boundaries of the primary shot. They are computed
// on first use and reused for the lifetime of the chart.
func (c *Chart) Stages() []StageMarker {
	c.stagesOnce.Do(func() {
		strategy := SelectStageStrategy(c.shot)
		indices := StageIndices(c.shot)
		c.logger.Debugw("detected stages", "strategy", strategy, "indices", indices)

		if len(c.processed) == 0 {
			c.stages = []StageMarker{}
			return
		}
		c.stages = StageMarkers(indices, c.processed[0])
	})
	return c.stages
}

// Result collects both chart groups and the stages
func (c *Chart) Result() Result {
	return Result{
		ShotChart:        c.ShotChart(),
		TemperatureChart: c.TemperatureChart(),
		Stages:           c.Stages(),
	}
}
