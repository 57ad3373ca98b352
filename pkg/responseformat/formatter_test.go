package responseformat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type marker struct {
	TimestampMs float64 `json:"timestampMs"`
	Label       string  `json:"label,omitempty"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format      string
		expected    string
		contentType string
		wantErr     bool
	}{
		{format: "", expected: FormatJSON, contentType: "application/json"},
		{format: "json", expected: FormatJSON, contentType: "application/json"},
		{format: "msgpack", expected: FormatMsgPack, contentType: "application/x-msgpack"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error for %q", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Format() != tt.expected || f.ContentType() != tt.contentType {
				t.Errorf("expected %s (%s), got %s (%s)", tt.expected, tt.contentType, f.Format(), f.ContentType())
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	f, _ := NewFormatter(FormatJSON)

	var buf bytes.Buffer
	if err := f.Write(&buf, []marker{{TimestampMs: 1500}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `[{"timestampMs":1500}]` {
		t.Errorf("unexpected JSON %s", got)
	}

	buf.Reset()
	if err := f.Indent(true).Write(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "{\n  \"a\": 1\n}\n" {
		t.Errorf("unexpected indented JSON %q", got)
	}
}

func TestWriteMsgPackUsesJSONTags(t *testing.T) {
	f, _ := NewFormatter(FormatMsgPack)

	var buf bytes.Buffer
	if err := f.Write(&buf, marker{TimestampMs: 1500, Label: "preinfusion"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["timestampMs"] != 1500.0 || decoded["label"] != "preinfusion" {
		t.Errorf("unexpected msgpack document %v", decoded)
	}
}
