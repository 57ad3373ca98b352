package shotchart

// Presentation is the resolved display configuration of one channel
type Presentation struct {
	Title   string
	Color   string
	Suffix  string
	Dashed  bool
	Hidden  bool
	Opacity *float64
	Type    string
}

// Settings is a partial Presentation. Only non-nil fields take effect when
// merged over a default.
type Settings struct {
	Title   *string  `json:"title,omitempty" yaml:"title,omitempty"`
	Color   *string  `json:"color,omitempty" yaml:"color,omitempty"`
	Suffix  *string  `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Dashed  *bool    `json:"dashed,omitempty" yaml:"dashed,omitempty"`
	Hidden  *bool    `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Opacity *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Type    *string  `json:"type,omitempty" yaml:"type,omitempty"`
}

// IsEmpty reports whether s overrides nothing
func (s Settings) IsEmpty() bool {
	return s.Title == nil && s.Color == nil && s.Suffix == nil && s.Dashed == nil &&
		s.Hidden == nil && s.Opacity == nil && s.Type == nil
}

// Overrides are per-channel settings supplied by the viewer's profile
type Overrides map[string]Settings

const (
	SeriesTypeSpline = "spline"
	SeriesTypeLine   = "line"

	fahrenheitSuffix = " °F"
)

// DefaultPresentations is the built-in display table keyed by channel name
var DefaultPresentations = map[string]Presentation{
	"espresso_pressure":           {Title: "Pressure", Color: "#05c793", Suffix: " bar", Type: SeriesTypeSpline},
	"espresso_pressure_goal":      {Title: "Pressure Goal", Color: "#03634a", Suffix: " bar", Dashed: true, Type: SeriesTypeSpline},
	"espresso_water_dispensed":    {Title: "Water Dispensed", Color: "#1fb7ea", Suffix: " ml", Hidden: true, Type: SeriesTypeSpline},
	"espresso_weight":             {Title: "Weight", Color: "#8f6400", Suffix: " g", Hidden: true, Type: SeriesTypeSpline},
	"espresso_flow":               {Title: "Flow", Color: "#1fb7ea", Suffix: " ml/s", Type: SeriesTypeSpline},
	"espresso_flow_weight":        {Title: "Weight Flow", Color: "#8f6400", Suffix: " g/s", Type: SeriesTypeSpline},
	"espresso_flow_goal":          {Title: "Flow Goal", Color: "#09485d", Suffix: " ml/s", Dashed: true, Type: SeriesTypeSpline},
	ChannelResistance:             {Title: "Resistance", Color: "#e5e500", Suffix: " lΩ", Hidden: true, Type: SeriesTypeSpline},
	ChannelConductance:            {Title: "Conductance", Color: "#f2c900", Suffix: "", Hidden: true, Type: SeriesTypeSpline},
	ChannelConductanceDerivative:  {Title: "Conductance Derivative", Color: "#a2893b", Suffix: "", Hidden: true, Type: SeriesTypeSpline},
	"espresso_temperature_basket": {Title: "Temperature Basket", Color: "#e73249", Suffix: " °C", Type: SeriesTypeSpline},
	"espresso_temperature_mix":    {Title: "Temperature Mix", Color: "#ce123e", Suffix: " °C", Type: SeriesTypeSpline},
	"espresso_temperature_goal":   {Title: "Temperature Goal", Color: "#960d2d", Suffix: " °C", Dashed: true, Type: SeriesTypeSpline},
}

// Merge overlays the non-nil fields of s onto p
func (p Presentation) Merge(s Settings) Presentation {
	if s.Title != nil {
		p.Title = *s.Title
	}
	if s.Color != nil {
		p.Color = *s.Color
	}
	if s.Suffix != nil {
		p.Suffix = *s.Suffix
	}
	if s.Dashed != nil {
		p.Dashed = *s.Dashed
	}
	if s.Hidden != nil {
		p.Hidden = *s.Hidden
	}
	if s.Opacity != nil {
		o := *s.Opacity
		p.Opacity = &o
	}
	if s.Type != nil {
		p.Type = *s.Type
	}
	return p
}

// Resolver looks up the presentation of a channel: the default table first,
// then the viewer's override on top.
type Resolver struct {
	Defaults   map[string]Presentation
	Overrides  Overrides
	Fahrenheit bool
}

// NewResolver returns a resolver over DefaultPresentations
func NewResolver(overrides Overrides, fahrenheit bool) *Resolver {
	return &Resolver{
		Defaults:   DefaultPresentations,
		Overrides:  overrides,
		Fahrenheit: fahrenheit,
	}
}

// Resolve returns the presentation of a channel. ok is false when the channel
// has neither a default nor an override, in which case it is not charted.
func (r *Resolver) Resolve(channel string) (Presentation, bool) {
	def, hasDefault := r.Defaults[channel]
	override, hasOverride := r.Overrides[channel]
	if hasOverride && override.IsEmpty() {
		hasOverride = false
	}
	if !hasDefault && !hasOverride {
		return Presentation{}, false
	}

	if hasDefault && r.Fahrenheit && IsTemperature(channel) {
		def.Suffix = fahrenheitSuffix
	}
	if !hasOverride {
		return def, true
	}
	return def.Merge(override), true
}
