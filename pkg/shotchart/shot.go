package shotchart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Channel names the engine treats specially
const (
	ChannelPressure              = "espresso_pressure"
	ChannelFlow                  = "espresso_flow"
	ChannelWaterDispensed        = "espresso_water_dispensed"
	ChannelResistance            = "espresso_resistance"
	ChannelResistanceWeight      = "espresso_resistance_weight"
	ChannelStateChange           = "espresso_state_change"
	ChannelConductance           = "espresso_conductance"
	ChannelConductanceDerivative = "espresso_conductance_derivative"

	goalSuffix        = "_goal"
	temperatureMarker = "temperature"
)

// Channel is one raw telemetry channel as recorded by the machine
type Channel struct {
	Name    string
	Samples []float64
}

// Channels keeps raw channels in recording order
type Channels []Channel

// RawShot is a recorded shot. The engine never modifies it.
type RawShot struct {
	Data Channels

	// Timeframe holds sample times in seconds. It may be shorter than the
	// channels; trailing samples get extrapolated times.
	Timeframe []float64

	// Fahrenheit is true when temperature channels were recorded in Fahrenheit
	Fahrenheit bool

	// PreferFahrenheit is the viewer's display unit; nil means Celsius
	PreferFahrenheit *bool
}

// Channel returns the samples recorded for name
func (s *RawShot) Channel(name string) ([]float64, bool) {
	for _, c := range s.Data {
		if c.Name == name {
			return c.Samples, true
		}
	}
	return nil, false
}

// HasChannel reports whether the shot recorded name
func (s *RawShot) HasChannel(name string) bool {
	_, ok := s.Channel(name)
	return ok
}

// DisplayFahrenheit reports whether temperatures should be shown in Fahrenheit
func (s *RawShot) DisplayFahrenheit() bool {
	return s.PreferFahrenheit != nil && *s.PreferFahrenheit
}

// UnmarshalJSON decodes a shot document. Samples and timeframe entries may be
// numbers, numeric strings, or null.
func (s *RawShot) UnmarshalJSON(b []byte) error {
	var doc struct {
		Data             Channels          `json:"data"`
		Timeframe        []json.RawMessage `json:"timeframe"`
		Fahrenheit       bool              `json:"fahrenheit"`
		PreferFahrenheit *bool             `json:"prefer_fahrenheit"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	timeframe, err := parseSamples(doc.Timeframe)
	if err != nil {
		return fmt.Errorf("timeframe: %w", err)
	}

	s.Data = doc.Data
	s.Timeframe = timeframe
	s.Fahrenheit = doc.Fahrenheit
	s.PreferFahrenheit = doc.PreferFahrenheit
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON
func (s RawShot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data             Channels  `json:"data"`
		Timeframe        []float64 `json:"timeframe"`
		Fahrenheit       bool      `json:"fahrenheit"`
		PreferFahrenheit *bool     `json:"prefer_fahrenheit,omitempty"`
	}{s.Data, s.Timeframe, s.Fahrenheit, s.PreferFahrenheit})
}

// UnmarshalJSON decodes a JSON object of channel name -> samples while
// keeping the key order of the document.
func (c *Channels) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("channel data must be an object, got %v", tok)
	}

	var channels Channels
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected channel key %v", tok)
		}

		var raw []json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("channel %s: %w", name, err)
		}
		samples, err := parseSamples(raw)
		if err != nil {
			return fmt.Errorf("channel %s: %w", name, err)
		}
		channels = append(channels, Channel{Name: name, Samples: samples})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = channels
	return nil
}

// MarshalJSON writes channels as an object in their stored order
func (c Channels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ch := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ch.Name)
		if err != nil {
			return nil, err
		}
		samples := ch.Samples
		if samples == nil {
			samples = []float64{}
		}
		vals, err := json.Marshal(samples)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func parseSamples(raw []json.RawMessage) ([]float64, error) {
	samples := make([]float64, len(raw))
	for i, r := range raw {
		v, err := parseSample(r)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples[i] = v
	}
	return samples, nil
}

// parseSample reads a number, a numeric string or null. Strings that do not
// parse read as 0.
func parseSample(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}

	switch trimmed[0] {
	case '"':
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0, nil
		}
		return v, nil
	case 't', 'f', '[', '{':
		return 0, fmt.Errorf("unsupported sample %s", string(trimmed))
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, err
	}
	return v, nil
}
