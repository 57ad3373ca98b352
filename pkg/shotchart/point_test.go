package shotchart

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestPointMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		point    Point
		expected string
	}{
		{name: "value", point: NewPoint(1000, 1.5), expected: `[1000,1.5]`},
		{name: "null value", point: NullPoint(2000), expected: `[2000,null]`},
		{name: "blank", point: BlankPoint(), expected: `[null,null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.point)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(b) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, b)
			}
		})
	}
}

func TestPointEncodeMsgpack(t *testing.T) {
	points := []Point{NewPoint(1000, 1.5), NullPoint(2000), BlankPoint()}

	b, err := msgpack.Marshal(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded [][]interface{}
	if err := msgpack.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := [][]interface{}{{1000.0, 1.5}, {2000.0, nil}, {nil, nil}}
	if !reflect.DeepEqual(decoded, expected) {
		t.Errorf("expected %v, got %v", expected, decoded)
	}
}
