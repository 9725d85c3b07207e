package segstore

import (
	"io"
	"strconv"

	"easyanki/internal/segment"
)

// RawHeader is the header row of a segmentation output file.
var RawHeader = []string{"start_frame", "end_frame", "text"}

// Writer writes finalized segments and implements segment.Sink.
type Writer struct {
	t *table
}

// Create starts a raw segment file at path. Nothing appears at path until
// Close succeeds.
func Create(path string) (*Writer, error) {
	t, err := createTable(path, RawHeader)
	if err != nil {
		return nil, err
	}
	return &Writer{t: t}, nil
}

// NewWriter streams raw segments to w.
func NewWriter(w io.Writer) (*Writer, error) {
	t, err := newTable(w, RawHeader)
	if err != nil {
		return nil, err
	}
	return &Writer{t: t}, nil
}

// Write implements segment.Sink.
func (w *Writer) Write(s segment.Final) error {
	return w.t.write([]string{strconv.Itoa(s.Start), strconv.Itoa(s.End), s.Text})
}

// Count returns the number of segments written.
func (w *Writer) Count() int { return w.t.rows }

// Close flushes buffered rows and publishes the file.
func (w *Writer) Close() error { return w.t.close() }

// Abort discards a file-backed writer without publishing it.
func (w *Writer) Abort() error { return w.t.abort() }

// ReadRaw loads a raw segment file.
func ReadRaw(path string) ([]segment.Final, error) {
	records, err := readTable(path, RawHeader)
	if err != nil {
		return nil, err
	}
	return rawFromRecords(records)
}

// DecodeRaw reads raw segments from r.
func DecodeRaw(r io.Reader) ([]segment.Final, error) {
	records, err := decodeTable(r, RawHeader)
	if err != nil {
		return nil, err
	}
	return rawFromRecords(records)
}

func rawFromRecords(records [][]string) ([]segment.Final, error) {
	out := make([]segment.Final, 0, len(records))
	for i, record := range records {
		start, end, err := parseSpan(record, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, segment.Final{Start: start, End: end, Text: record[2]})
	}
	return out, nil
}

var _ segment.Sink = (*Writer)(nil)
