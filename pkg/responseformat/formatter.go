// Package responseformat writes chart results as JSON or MessagePack
package responseformat

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// Formatter encodes values in one of the supported formats
type Formatter struct {
	format string
	indent bool
}

// NewFormatter returns a formatter for format. An empty format means JSON.
func NewFormatter(format string) (*Formatter, error) {
	switch format {
	case "", FormatJSON:
		return &Formatter{format: FormatJSON}, nil
	case FormatMsgPack:
		return &Formatter{format: FormatMsgPack}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q, use %q or %q", format, FormatJSON, FormatMsgPack)
	}
}

// Indent turns on indented JSON output. It has no effect on MessagePack.
func (f *Formatter) Indent(indent bool) *Formatter {
	f.indent = indent
	return f
}

// Format returns the name of the output format
func (f *Formatter) Format() string {
	return f.format
}

// ContentType returns the MIME type of the output format
func (f *Formatter) ContentType() string {
	if f.format == FormatMsgPack {
		return "application/x-msgpack"
	}
	return "application/json"
}

// Write encodes data onto w
func (f *Formatter) Write(w io.Writer, data any) error {
	if f.format == FormatMsgPack {
		return f.writeMsgPack(w, data)
	}
	return f.writeJSON(w, data)
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
