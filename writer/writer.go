/*
Package writer writes records as JSON lines.
*/
package writer

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/omniscale/osmjson/shape"
	"github.com/pkg/errors"
)

// Suffix is appended to the input file name to build the output file name.
const Suffix = ".json"

// OutputName returns the output file name for the input file fname.
func OutputName(fname string) string {
	return fname + Suffix
}

// JSONWriter writes one record per line. Pretty records span multiple
// indented lines, but every record still ends with a single newline.
type JSONWriter struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	count  int64
}

// NewJSONWriter writes to w. Call Flush or Close when done.
func NewJSONWriter(w io.Writer, pretty bool) *JSONWriter {
	buf := bufio.NewWriterSize(w, 64*1024)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &JSONWriter{buf: buf, enc: enc}
}

// Create creates or truncates fname.
func Create(fname string, pretty bool) (*JSONWriter, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "creating output")
	}
	w := NewJSONWriter(f, pretty)
	w.closer = f
	return w, nil
}

func (w *JSONWriter) Write(rec *shape.Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return errors.Wrap(err, "writing record")
	}
	w.count++
	return nil
}

// Count returns the number of written records.
func (w *JSONWriter) Count() int64 {
	return w.count
}

func (w *JSONWriter) Flush() error {
	return w.buf.Flush()
}

// Close flushes all records and closes the file. The file is closed even if
// the flush fails.
func (w *JSONWriter) Close() error {
	err := w.buf.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return errors.Wrap(err, "closing output")
}
