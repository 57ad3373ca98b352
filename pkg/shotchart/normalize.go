package shotchart

import (
	"fmt"
	"strings"
)

// ignoredChannels are recomputed by the engine or consumed by stage detection
var ignoredChannels = map[string]bool{
	ChannelResistance:       true,
	ChannelResistanceWeight: true,
	ChannelStateChange:      true,
}

// waterDispensedScale corrects the unit the machine records dispensed water in
const waterDispensedScale = 10

// IsTemperature reports whether a channel carries temperatures
func IsTemperature(name string) bool {
	return strings.Contains(name, temperatureMarker)
}

// IsGoal reports whether a channel is a machine setpoint curve
func IsGoal(name string) bool {
	return strings.HasSuffix(name, goalSuffix)
}

// CelsiusToFahrenheit converts a temperature from Celsius to Fahrenheit
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a temperature from Fahrenheit to Celsius
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// convertTemperature converts v from the recorded unit to the display unit
func convertTemperature(v float64, recordedF, displayF bool) float64 {
	switch {
	case recordedF == displayF:
		return v
	case recordedF:
		return FahrenheitToCelsius(v)
	default:
		return CelsiusToFahrenheit(v)
	}
}

// Normalize converts every raw channel of the shot into display units paired
// with millisecond timestamps. Negative results are suppressed.
func Normalize(shot *RawShot) (SeriesSet, error) {
	if len(shot.Timeframe) == 0 {
		return nil, ErrEmptyTimeframe
	}
	displayF := shot.DisplayFahrenheit()

	set := make(SeriesSet, 0, len(shot.Data))
	for _, ch := range shot.Data {
		if ignoredChannels[ch.Name] {
			continue
		}

		times, err := BuildTimeAxis(shot.Timeframe, len(ch.Samples))
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", ch.Name, err)
		}

		scale := ch.Name == ChannelWaterDispensed
		temperature := IsTemperature(ch.Name)

		points := make([]Point, len(ch.Samples))
		for i, v := range ch.Samples {
			if scale {
				v *= waterDispensedScale
			}
			if temperature {
				v = convertTemperature(v, shot.Fahrenheit, displayF)
			}

			ts := times[i] * 1000
			if v < 0 {
				points[i] = NullPoint(ts)
			} else {
				points[i] = NewPoint(ts, v)
			}
		}

		set = append(set, Series{Name: ch.Name, Points: points})
	}

	return set, nil
}
