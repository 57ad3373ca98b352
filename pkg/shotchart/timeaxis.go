package shotchart

import "errors"

// ErrEmptyTimeframe is returned when a shot has no recorded sample times, so
// no time axis can be built for it.
var ErrEmptyTimeframe = errors.New("shot has an empty timeframe")

// BuildTimeAxis returns n sample times in seconds. Indices covered by the
// timeframe use the recorded time. Later indices continue linearly from the
// last recorded time with step (last + first) / len(timeframe).
func BuildTimeAxis(timeframe []float64, n int) ([]float64, error) {
	count := len(timeframe)
	if count == 0 {
		return nil, ErrEmptyTimeframe
	}

	last := timeframe[count-1]
	step := (last + timeframe[0]) / float64(count)

	times := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < count {
			times[i] = timeframe[i]
		} else {
			times[i] = last + float64(i-count+1)*step
		}
	}
	return times, nil
}
