package shotchart

import "gonum.org/v1/gonum/floats"

const (
	// MaxResistance is the ceiling for resistance and conductance; larger
	// values are suppressed
	MaxResistance = 19.0

	// MinConductanceDerivative is the floor for the smoothed derivative
	MinConductanceDerivative = -5.0

	// derivativeScale stretches the derivative so it reads on the pressure axis
	derivativeScale = 10.0
)

// gaussianKernel is a 9-tap Gaussian, centered on the fifth tap
var gaussianKernel = []float64{
	0.048297, 0.08393, 0.124548, 0.157829, 0.170793, 0.157829, 0.124548, 0.08393, 0.048297,
}

// kernelHalf is the number of taps either side of the kernel center
var kernelHalf = len(gaussianKernel) / 2

// valueAt returns the value of the point at i, treating suppressed and
// missing samples as 0
func valueAt(points []Point, i int) float64 {
	if i >= len(points) {
		return 0
	}
	return points[i].ValueOr(0)
}

// Resistance computes pressure / flow² per sample. Samples without flow, or
// above MaxResistance, are suppressed.
func Resistance(pressure, flow Series) Series {
	points := make([]Point, len(pressure.Points))
	for i, p := range pressure.Points {
		f := valueAt(flow.Points, i)
		if f == 0 {
			points[i] = NullPoint(p.Timestamp)
			continue
		}

		r := p.ValueOr(0) / (f * f)
		if r > MaxResistance {
			points[i] = NullPoint(p.Timestamp)
		} else {
			points[i] = NewPoint(p.Timestamp, r)
		}
	}
	return Series{Name: ChannelResistance, Points: points}
}

// Conductance computes flow² / pressure per sample. Samples without pressure,
// or above MaxResistance, are suppressed.
func Conductance(pressure, flow Series) Series {
	points := make([]Point, len(pressure.Points))
	for i, p := range pressure.Points {
		pv := p.ValueOr(0)
		if pv == 0 {
			points[i] = NullPoint(p.Timestamp)
			continue
		}

		f := valueAt(flow.Points, i)
		c := f * f / pv
		if c > MaxResistance {
			points[i] = NullPoint(p.Timestamp)
		} else {
			points[i] = NewPoint(p.Timestamp, c)
		}
	}
	return Series{Name: ChannelConductance, Points: points}
}

// derivative returns the rate of change between consecutive points, per
// second and scaled by derivativeScale. Each result is stamped with the
// later point's timestamp.
func derivative(points []Point) []Point {
	if len(points) < 2 {
		return nil
	}

	out := make([]Point, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		dt := (cur.Timestamp - prev.Timestamp) / 1000
		if prev.IsNull() || cur.IsNull() || dt == 0 {
			out = append(out, NullPoint(cur.Timestamp))
			continue
		}
		out = append(out, NewPoint(cur.Timestamp, (*cur.Value-*prev.Value)/dt*derivativeScale))
	}
	return out
}

// ConductanceDerivative smooths the derivative of conductance with a 9-tap
// Gaussian kernel. The result starts with kernelHalf blank points followed by
// one point per full kernel window, stamped with the window center. Suppressed
// samples count as 0 inside a window, so values next to a gap are pulled
// toward zero.
func ConductanceDerivative(conductance Series) Series {
	raw := derivative(conductance.Points)
	if raw == nil {
		return Series{Name: ChannelConductanceDerivative, Points: []Point{}}
	}

	padded := make([]Point, 0, len(raw)+kernelHalf)
	padded = append(padded, raw...)
	smoothed := make([]Point, 0, len(raw)+kernelHalf)
	for i := 0; i < kernelHalf; i++ {
		padded = append(padded, BlankPoint())
		smoothed = append(smoothed, BlankPoint())
	}

	window := make([]float64, len(gaussianKernel))
	for start := 0; start+len(gaussianKernel) <= len(padded); start++ {
		for k := range window {
			window[k] = padded[start+k].ValueOr(0)
		}

		center := padded[start+kernelHalf]
		v := floats.Dot(gaussianKernel, window)
		if v > MaxResistance || v < MinConductanceDerivative {
			smoothed = append(smoothed, NullPoint(center.Timestamp))
		} else {
			smoothed = append(smoothed, NewPoint(center.Timestamp, v))
		}
	}

	return Series{Name: ChannelConductanceDerivative, Points: smoothed}
}
