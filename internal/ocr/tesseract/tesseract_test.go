package tesseract_test

import (
	"context"
	"errors"
	"testing"

	"easyanki/internal/ocr"
	"easyanki/internal/ocr/tesseract"
	"easyanki/internal/testsupport"
)

var _ ocr.Engine = (*tesseract.Client)(nil)

func TestRecognizeHonorsCanceledContext(t *testing.T) {
	client, err := tesseract.New(tesseract.Options{})
	if err != nil {
		t.Skipf("tesseract unavailable: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Recognize(ctx, testsupport.GrayImage(8, 8, 0), "eng"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	client, err := tesseract.New(tesseract.Options{})
	if err != nil {
		t.Skipf("tesseract unavailable: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
