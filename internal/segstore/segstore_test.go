package segstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"easyanki/internal/segment"
	"easyanki/internal/services"
)

func TestRawRoundTripKeepsEmbeddedNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments_raw.csv")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	segments := []segment.Final{
		{Start: 0, End: 9, Text: "Dzień dobry\nGood morning"},
		{Start: 12, End: 17, Text: `Powiedział "tak", prawda?`},
	}
	for _, s := range segments {
		if err := w.Write(s); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file published before Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.Count() != 2 {
		t.Fatalf("Count = %d", w.Count())
	}

	got, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !reflect.DeepEqual(got, segments) {
		t.Fatalf("round trip = %+v, want %+v", got, segments)
	}
}

func TestStreamWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Write(segment.Final{Start: 3, End: 7, Text: "Hola amigo\nHello friend"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := "start_frame,end_frame,text\n3,7,\"Hola amigo\nHello friend\"\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(filepath.Join(dir, "segments_raw.csv"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = w.Write(segment.Final{Start: 0, End: 4, Text: "x"})
	if err := w.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, got %v", entries)
	}
}

func TestDecodeRawRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "start,end,text\n0,1,x\n"},
		{"cleaned header", "start_frame,end_frame,learning,english\n0,1,a,b\n"},
		{"bad number", "start_frame,end_frame,text\nzero,1,x\n"},
		{"inverted span", "start_frame,end_frame,text\n5,1,x\n"},
		{"short row", "start_frame,end_frame,text\n5,6\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRaw(strings.NewReader(tt.input))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestReadRawMissingFile(t *testing.T) {
	_, err := ReadRaw(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCleanedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments_cleaned.csv")
	rows := []Cleaned{
		{Start: 0, End: 9, Learning: "Dzień dobry", English: "Good morning"},
		{Start: 12, End: 17, Learning: "Do widzenia, panie", English: "Goodbye, sir"},
	}
	if err := WriteCleaned(path, rows); err != nil {
		t.Fatalf("WriteCleaned: %v", err)
	}
	got, err := ReadCleaned(path)
	if err != nil {
		t.Fatalf("ReadCleaned: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round trip = %+v, want %+v", got, rows)
	}

	var buf bytes.Buffer
	if err := EncodeCleaned(&buf, rows[:1]); err != nil {
		t.Fatalf("EncodeCleaned: %v", err)
	}
	if want := "start_frame,end_frame,learning,english\n0,9,Dzień dobry,Good morning\n"; buf.String() != want {
		t.Fatalf("encoded = %q", buf.String())
	}
}
