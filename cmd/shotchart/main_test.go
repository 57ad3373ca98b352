package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/shotchart/pkg/config"
	"github.com/chrissnell/shotchart/pkg/shotchart"
)

const testShot = `{
	"data": {
		"espresso_pressure": [0, 9, 0],
		"espresso_flow": [0, 3, 0],
		"espresso_temperature_basket": [93, 94, 95],
		"espresso_state_change": [0, 1, 1]
	},
	"timeframe": [0, 1, 2]
}`

const testProfiles = `profiles:
  - name: default
    prefer_fahrenheit: true
    chart_settings:
      espresso_pressure:
        color: "#000000"
  - name: dashed
    chart_settings:
      espresso_flow:
        dashed: true
`

type result struct {
	ShotChart []struct {
		Name        string       `json:"name"`
		Color       string       `json:"color"`
		DashStyle   string       `json:"dashStyle"`
		ValueSuffix string       `json:"valueSuffix"`
		Data        [][]*float64 `json:"data"`
	} `json:"shot_chart"`
	TemperatureChart []struct {
		Name        string       `json:"name"`
		ValueSuffix string       `json:"valueSuffix"`
		Data        [][]*float64 `json:"data"`
	} `json:"temperature_chart"`
	Stages []map[string]float64 `json:"stages"`
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func runJSON(t *testing.T, opts options, stdin string) result {
	t.Helper()
	var out bytes.Buffer
	if err := run(opts, strings.NewReader(stdin), &out, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var r result
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out.String())
	}
	return r
}

func seriesNamed(t *testing.T, r result, name string) (color, dash string) {
	t.Helper()
	for _, s := range r.ShotChart {
		if s.Name == name {
			return s.Color, s.DashStyle
		}
	}
	t.Fatalf("series %q not found", name)
	return "", ""
}

func TestRunFromStdinWithoutProfile(t *testing.T) {
	r := runJSON(t, options{shotFile: "-", format: "json"}, testShot)

	color, _ := seriesNamed(t, r, "Pressure")
	if color != "#05c793" {
		t.Errorf("expected default pressure color, got %s", color)
	}
	if len(r.TemperatureChart) != 1 || r.TemperatureChart[0].ValueSuffix != " °C" {
		t.Errorf("unexpected temperature chart %+v", r.TemperatureChart)
	}
	if len(r.Stages) != 1 || r.Stages[0]["timestampMs"] != 1000 {
		t.Errorf("expected one stage at 1000ms, got %v", r.Stages)
	}
}

func TestRunAppliesDefaultProfile(t *testing.T) {
	opts := options{
		shotFile:   writeTemp(t, "shot.json", testShot),
		cfgFile:    writeTemp(t, "profiles.yaml", testProfiles),
		cfgBackend: config.BackendYAML,
		profile:    config.DefaultProfileName,
		format:     "json",
	}
	r := runJSON(t, opts, "")

	color, _ := seriesNamed(t, r, "Pressure")
	if color != "#000000" {
		t.Errorf("expected profile color, got %s", color)
	}
	temp := r.TemperatureChart[0]
	if temp.ValueSuffix != " °F" || *temp.Data[0][1] < 199 || *temp.Data[0][1] > 200 {
		t.Errorf("expected Fahrenheit from the profile, got %s %v", temp.ValueSuffix, *temp.Data[0][1])
	}

	// the flag wins over the profile
	celsius := false
	opts.preferFahrenheit = &celsius
	r = runJSON(t, opts, "")
	if r.TemperatureChart[0].ValueSuffix != " °C" {
		t.Errorf("expected the flag to force Celsius")
	}
}

func TestRunNamedProfile(t *testing.T) {
	opts := options{
		shotFile:   writeTemp(t, "shot.json", testShot),
		cfgFile:    writeTemp(t, "profiles.yaml", testProfiles),
		cfgBackend: config.BackendYAML,
		profile:    "dashed",
		format:     "json",
	}
	r := runJSON(t, opts, "")
	if _, dash := seriesNamed(t, r, "Flow"); dash != shotchart.DashStyleDash {
		t.Errorf("expected dashed flow, got %s", dash)
	}

	opts.profile = "missing"
	if err := run(opts, strings.NewReader(""), &bytes.Buffer{}, nil); err == nil {
		t.Errorf("expected an error for a missing named profile")
	}
}

func TestRunMissingDefaultProfileIsOptional(t *testing.T) {
	opts := options{
		shotFile:   writeTemp(t, "shot.json", testShot),
		cfgFile:    filepath.Join(t.TempDir(), "profiles.db"),
		cfgBackend: config.BackendSQLite,
		profile:    config.DefaultProfileName,
		format:     "json",
	}
	r := runJSON(t, opts, "")
	if len(r.ShotChart) == 0 {
		t.Errorf("expected a chart without a profile")
	}
}

func TestRunComparisonMsgPack(t *testing.T) {
	opts := options{
		shotFile:    writeTemp(t, "shot.json", testShot),
		compareFile: writeTemp(t, "other.json", testShot),
		format:      "msgpack",
	}
	var out bytes.Buffer
	if err := run(opts, strings.NewReader(""), &out, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := msgpack.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode msgpack output: %v", err)
	}
	series, ok := decoded["shot_chart"].([]interface{})
	if !ok {
		t.Fatalf("unexpected shot_chart %T", decoded["shot_chart"])
	}
	found := false
	for _, s := range series {
		if m, ok := s.(map[string]interface{}); ok && m["name"] == "Pressure (comparison)" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a comparison series in %v", series)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		opts  options
		stdin string
	}{
		{name: "bad format", opts: options{shotFile: "-", format: "xml"}, stdin: testShot},
		{name: "empty timeframe", opts: options{shotFile: "-", format: "json"}, stdin: `{"data": {}, "timeframe": []}`},
		{name: "malformed shot", opts: options{shotFile: "-", format: "json"}, stdin: `{"data": [`},
		{name: "missing file", opts: options{shotFile: "/nonexistent/shot.json", format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.opts, strings.NewReader(tt.stdin), &bytes.Buffer{}, nil); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}
