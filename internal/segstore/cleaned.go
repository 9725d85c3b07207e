package segstore

import (
	"io"
	"strconv"
)

// CleanedHeader is the header row of a cleaned segment file.
var CleanedHeader = []string{"start_frame", "end_frame", "learning", "english"}

// Cleaned is a segment split into its learning-language and English lines.
type Cleaned struct {
	Start    int
	End      int
	Learning string
	English  string
}

// WriteCleaned writes rows to path atomically.
func WriteCleaned(path string, rows []Cleaned) error {
	t, err := createTable(path, CleanedHeader)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := t.write(cleanedRecord(row)); err != nil {
			_ = t.abort()
			return err
		}
	}
	return t.close()
}

// EncodeCleaned writes rows to w.
func EncodeCleaned(w io.Writer, rows []Cleaned) error {
	t, err := newTable(w, CleanedHeader)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := t.write(cleanedRecord(row)); err != nil {
			return err
		}
	}
	return t.close()
}

// ReadCleaned loads a cleaned segment file.
func ReadCleaned(path string) ([]Cleaned, error) {
	records, err := readTable(path, CleanedHeader)
	if err != nil {
		return nil, err
	}
	out := make([]Cleaned, 0, len(records))
	for i, record := range records {
		start, end, err := parseSpan(record, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, Cleaned{Start: start, End: end, Learning: record[2], English: record[3]})
	}
	return out, nil
}

func cleanedRecord(row Cleaned) []string {
	return []string{strconv.Itoa(row.Start), strconv.Itoa(row.End), row.Learning, row.English}
}
