package segstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"easyanki/internal/fileutil"
	"easyanki/internal/services"
)

// table is a CSV writer with a fixed header that either streams to an
// io.Writer or commits an atomic file.
type table struct {
	w     *csv.Writer
	file  *fileutil.AtomicFile
	width int
	rows  int
}

func createTable(path string, header []string) (*table, error) {
	file, err := fileutil.CreateAtomic(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "segstore", "create", path, err)
	}
	t, err := newTable(file, header)
	if err != nil {
		_ = file.Abort()
		return nil, err
	}
	t.file = file
	return t, nil
}

func newTable(w io.Writer, header []string) (*table, error) {
	t := &table{w: csv.NewWriter(w), width: len(header)}
	if err := t.w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return t, nil
}

func (t *table) write(record []string) error {
	if len(record) != t.width {
		return fmt.Errorf("record has %d fields, want %d", len(record), t.width)
	}
	if err := t.w.Write(record); err != nil {
		return err
	}
	t.rows++
	return nil
}

func (t *table) flush() error {
	t.w.Flush()
	return t.w.Error()
}

func (t *table) close() error {
	if err := t.flush(); err != nil {
		if t.file != nil {
			_ = t.file.Abort()
		}
		return err
	}
	if t.file != nil {
		return t.file.Commit()
	}
	return nil
}

func (t *table) abort() error {
	if t.file != nil {
		return t.file.Abort()
	}
	return nil
}

// readTable opens path, checks the header and returns the remaining records.
func readTable(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "segstore", "open", path, err)
		}
		return nil, err
	}
	defer f.Close()
	records, err := decodeTable(f, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func decodeTable(r io.Reader, header []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	got, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrValidation, "segstore", "read header", "file is empty", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "segstore", "read header", "", err)
	}
	if !slices.Equal(got, header) {
		return nil, services.Wrap(services.ErrValidation, "segstore", "read header",
			fmt.Sprintf("got %q, want %q", got, header), nil)
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "segstore", "read rows", "", err)
	}
	return records, nil
}

func parseSpan(record []string, line int) (int, int, error) {
	start, err := strconv.Atoi(record[0])
	if err != nil {
		return 0, 0, services.Wrap(services.ErrValidation, "segstore", "parse", fmt.Sprintf("row %d start_frame", line), err)
	}
	end, err := strconv.Atoi(record[1])
	if err != nil {
		return 0, 0, services.Wrap(services.ErrValidation, "segstore", "parse", fmt.Sprintf("row %d end_frame", line), err)
	}
	if start < 0 || end < start {
		return 0, 0, services.Wrap(services.ErrValidation, "segstore", "parse",
			fmt.Sprintf("row %d has invalid span [%d,%d]", line, start, end), nil)
	}
	return start, end, nil
}
