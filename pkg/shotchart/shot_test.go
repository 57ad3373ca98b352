package shotchart

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRawShotUnmarshalKeepsChannelOrder(t *testing.T) {
	doc := `{
		"data": {
			"espresso_flow": [0, 1.5, 2],
			"espresso_pressure": ["0", "8.9", " 9 "],
			"espresso_weight": [null, 1, "n/a"],
			"espresso_temperature_basket": []
		},
		"timeframe": ["0.0", 0.25, 0.5],
		"fahrenheit": true,
		"prefer_fahrenheit": false
	}`

	var shot RawShot
	if err := json.Unmarshal([]byte(doc), &shot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := make([]string, len(shot.Data))
	for i, c := range shot.Data {
		names[i] = c.Name
	}
	expectedNames := []string{"espresso_flow", "espresso_pressure", "espresso_weight", "espresso_temperature_basket"}
	if !reflect.DeepEqual(names, expectedNames) {
		t.Errorf("expected channel order %v, got %v", expectedNames, names)
	}

	pressure, _ := shot.Channel("espresso_pressure")
	if !reflect.DeepEqual(pressure, []float64{0, 8.9, 9}) {
		t.Errorf("unexpected pressure samples %v", pressure)
	}
	weight, _ := shot.Channel("espresso_weight")
	if !reflect.DeepEqual(weight, []float64{0, 1, 0}) {
		t.Errorf("unexpected weight samples %v", weight)
	}
	if !reflect.DeepEqual(shot.Timeframe, []float64{0, 0.25, 0.5}) {
		t.Errorf("unexpected timeframe %v", shot.Timeframe)
	}
	if !shot.Fahrenheit || shot.PreferFahrenheit == nil || *shot.PreferFahrenheit {
		t.Errorf("unexpected unit flags %v %v", shot.Fahrenheit, shot.PreferFahrenheit)
	}
}

func TestRawShotUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "data is a list", doc: `{"data": [1, 2], "timeframe": [0]}`},
		{name: "boolean sample", doc: `{"data": {"espresso_flow": [true]}, "timeframe": [0]}`},
		{name: "nested sample", doc: `{"data": {"espresso_flow": [[1]]}, "timeframe": [0]}`},
		{name: "timeframe object", doc: `{"data": {}, "timeframe": [{"t": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var shot RawShot
			if err := json.Unmarshal([]byte(tt.doc), &shot); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestRawShotRoundTripKeepsOrder(t *testing.T) {
	prefer := true
	shot := RawShot{
		Data: Channels{
			{Name: "z_last_alphabetically", Samples: []float64{1}},
			{Name: "a_first_alphabetically", Samples: []float64{2}},
		},
		Timeframe:        []float64{0},
		PreferFahrenheit: &prefer,
	}

	b, err := json.Marshal(shot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded RawShot
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decoded, shot) {
		t.Errorf("expected %+v, got %+v", shot, decoded)
	}
}
