package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers items and writes them as one JSON document on Flush.
// A single item is written on its own, more than one as an array.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write buffers a single item.
func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll buffers multiple items.
func (w *JSONWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// Flush writes the buffered items and empties the buffer.
func (w *JSONWriter) Flush() error {
	var doc any = w.items
	if len(w.items) == 1 {
		doc = w.items[0]
	} else if w.items == nil {
		doc = []any{}
	}

	var out []byte
	var err error
	if w.pretty {
		out, err = json.MarshalIndent(doc, "", w.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	w.items = nil
	if err := writeLine(w.w, out); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes one JSON document per line as items arrive.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single item as a JSON line.
func (w *JSONLWriter) Write(data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := writeLine(w.w, out); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple items as JSON lines.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}

func writeLine(w *bufio.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
