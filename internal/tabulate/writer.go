package tabulate

import (
	"io"

	"jsontab/internal/arena"
	"jsontab/internal/errors"
	"jsontab/internal/flatten"
	"jsontab/internal/models"
)

// Writer streams CSV text to an output. Rows are written as they are
// produced; a failure mid-stream is reported as-is with no rollback of
// already-written output.
type Writer struct {
	out       io.Writer
	headers   *HeaderSet
	tmp       *arena.Arena
	buf       []byte // reusable quoting buffer
	transform func(string) string
}

// NewWriter creates a writer emitting rows aligned to headers. The
// temporary arena is marked and reset around each record.
func NewWriter(out io.Writer, headers *HeaderSet, tmp *arena.Arena) *Writer {
	return &Writer{
		out:     out,
		headers: headers,
		tmp:     tmp,
	}
}

// SetHeaderTransform installs an optional rename applied to column
// names in the printed header row only. Cell lookup always uses the
// original dotted keys.
func (w *Writer) SetHeaderTransform(fn func(string) string) {
	w.transform = fn
}

// WriteAll emits the header row followed by one row per record, in
// record order.
func (w *Writer) WriteAll(records []*models.Value) error {
	if err := w.writeHeaderRow(); err != nil {
		return err
	}
	for _, record := range records {
		if err := w.writeRecord(record); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeHeaderRow() error {
	for i, key := range w.headers.Keys() {
		if i > 0 {
			if err := w.writeByte(','); err != nil {
				return err
			}
		}
		name := key
		if w.transform != nil {
			name = []byte(w.transform(string(key)))
		}
		if err := w.writeCell(name); err != nil {
			return err
		}
	}
	return w.writeByte('\n')
}

func (w *Writer) writeRecord(record *models.Value) error {
	mark := w.tmp.Mark()
	defer w.tmp.Reset(mark)

	pairs := flatten.Flatten(record, w.tmp)
	for i, key := range w.headers.Keys() {
		if i > 0 {
			if err := w.writeByte(','); err != nil {
				return err
			}
		}
		// A missing key is an empty cell, distinct from the literal
		// text "null" produced by a null value.
		if err := w.writeCell(pairs.Get(key)); err != nil {
			return err
		}
	}
	return w.writeByte('\n')
}

// writeCell emits one cell with RFC4180-style quoting: the cell is
// wrapped in double quotes iff it contains a comma, quote, newline or
// carriage return, and embedded quotes are doubled. Anything else is
// written byte-identical.
func (w *Writer) writeCell(cell []byte) error {
	if !needsQuote(cell) {
		return w.write(cell)
	}

	w.buf = w.buf[:0]
	w.buf = append(w.buf, '"')
	for _, c := range cell {
		if c == '"' {
			w.buf = append(w.buf, '"')
		}
		w.buf = append(w.buf, c)
	}
	w.buf = append(w.buf, '"')
	return w.write(w.buf)
}

func needsQuote(cell []byte) bool {
	for _, c := range cell {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			return true
		}
	}
	return false
}

func (w *Writer) write(b []byte) error {
	if _, err := w.out.Write(b); err != nil {
		return errors.NewOutputError("failed to write CSV output", err)
	}
	return nil
}

func (w *Writer) writeByte(c byte) error {
	return w.write([]byte{c})
}
