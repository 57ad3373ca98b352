package shotchart

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Point is a single chart sample. A nil Value is a suppressed sample and is
// rendered as null, never as zero.
type Point struct {
	Timestamp float64 // milliseconds since the start of the shot
	Value     *float64

	// blank points carry neither a timestamp nor a value; they only pad
	// the conductance derivative so it lines up with its input
	blank bool
}

// NewPoint returns a point with a value
func NewPoint(ts, v float64) Point {
	return Point{Timestamp: ts, Value: &v}
}

// NullPoint returns a point whose value is suppressed
func NullPoint(ts float64) Point {
	return Point{Timestamp: ts}
}

// BlankPoint returns a padding point with no timestamp and no value
func BlankPoint() Point {
	return Point{blank: true}
}

// IsBlank reports whether p is a padding point
func (p Point) IsBlank() bool {
	return p.blank
}

// IsNull reports whether the value of p is suppressed
func (p Point) IsNull() bool {
	return p.Value == nil
}

// ValueOr returns the value of p, or def when the value is suppressed
func (p Point) ValueOr(def float64) float64 {
	if p.Value == nil {
		return def
	}
	return *p.Value
}

// MarshalJSON encodes p as a [timestamp, value] pair
func (p Point) MarshalJSON() ([]byte, error) {
	pair := [2]*float64{nil, p.Value}
	if !p.blank {
		ts := p.Timestamp
		pair[0] = &ts
	}
	return json.Marshal(pair)
}

// EncodeMsgpack encodes p as a two element array
func (p Point) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if p.blank {
		if err := enc.EncodeNil(); err != nil {
			return err
		}
	} else if err := enc.EncodeFloat64(p.Timestamp); err != nil {
		return err
	}
	if p.Value == nil {
		return enc.EncodeNil()
	}
	return enc.EncodeFloat64(*p.Value)
}

// Series is one named channel of points
type Series struct {
	Name   string
	Points []Point
}

// SeriesSet is an ordered collection of series. Order follows the channel
// order of the shot the set was derived from.
type SeriesSet []Series

// Get returns the series with the given name
func (s SeriesSet) Get(name string) (Series, bool) {
	for _, series := range s {
		if series.Name == name {
			return series, true
		}
	}
	return Series{}, false
}

// Names returns the channel names in order
func (s SeriesSet) Names() []string {
	names := make([]string, len(s))
	for i, series := range s {
		names[i] = series.Name
	}
	return names
}
