package shotchart

import (
	"math"
	"sort"
)

const (
	// goalSkipSamples are leading goal samples too unstable to scan
	goalSkipSamples = 5

	// goalCurvatureThreshold is the second difference that marks a break in a
	// goal curve
	goalCurvatureThreshold = 0.1

	// minStageSeparation is the number of samples a stage must be beyond the
	// previous one to be kept
	minStageSeparation = 5
)

// StageStrategy names how stage boundaries were found
type StageStrategy string

const (
	StrategyStateChange StageStrategy = "state_change"
	StrategyGoalCurves  StageStrategy = "goal_curves"
)

// StageMarker is a detected phase boundary
type StageMarker struct {
	TimestampMs float64 `json:"timestampMs" msgpack:"timestampMs"`
}

// SelectStageStrategy picks the explicit state-change signal when the shot
// recorded one, and the goal curve scan otherwise.
func SelectStageStrategy(shot *RawShot) StageStrategy {
	if shot.HasChannel(ChannelStateChange) {
		return StrategyStateChange
	}
	return StrategyGoalCurves
}

// StageIndices returns the sample indices of the stage boundaries in a shot
func StageIndices(shot *RawShot) []int {
	if SelectStageStrategy(shot) == StrategyStateChange {
		samples, _ := shot.Channel(ChannelStateChange)
		return StagesFromStateChange(samples)
	}
	return DetectStagesFromGoals(shot.Data)
}

// StagesFromStateChange returns the indices where the machine state changes.
// Samples that truncate to zero carry no signal and never start a stage.
func StagesFromStateChange(samples []float64) []int {
	indices := []int{}
	if len(samples) == 0 {
		return indices
	}

	current := samples[0]
	for i := 1; i < len(samples); i++ {
		s := samples[i]
		if math.Trunc(s) == 0 || s == current {
			continue
		}
		indices = append(indices, i)
		current = s
	}
	return indices
}

// DetectStagesFromGoals finds breaks in the machine's goal curves. A break is
// a sample whose second difference exceeds goalCurvatureThreshold. Breaks
// from all goal channels are pooled, and a break is only kept when it is more
// than minStageSeparation samples after the previously kept one.
func DetectStagesFromGoals(channels Channels) []int {
	var candidates []int
	for _, ch := range channels {
		if !IsGoal(ch.Name) {
			continue
		}

		d := ch.Samples
		for i := goalSkipSamples; i < len(d); i++ {
			diff2 := (d[i] - d[i-1]) - (d[i-1] - d[i-2])
			if math.Abs(diff2) > goalCurvatureThreshold {
				candidates = append(candidates, i)
			}
		}
	}

	selected := []int{}
	if len(candidates) == 0 {
		return selected
	}

	sort.Ints(candidates)
	selected = append(selected, candidates[0])
	for _, idx := range candidates[1:] {
		if idx-selected[len(selected)-1] > minStageSeparation {
			selected = append(selected, idx)
		}
	}
	return selected
}

// StageMarkers maps sample indices onto the timestamps of the reference series.
// Indices beyond the series are dropped.
func StageMarkers(indices []int, reference Series) []StageMarker {
	markers := make([]StageMarker, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(reference.Points) {
			continue
		}
		markers = append(markers, StageMarker{TimestampMs: reference.Points[idx].Timestamp})
	}
	return markers
}
