package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"easyanki/internal/services"
)

// Options configures a Client.
type Options struct {
	// TessdataPrefix points at the directory holding *.traineddata files.
	// Empty uses the library default.
	TessdataPrefix string
}

// Client recognizes text with libtesseract. It is safe for concurrent
// use; calls are serialized on a single gosseract client.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
	lang   string
	buf    bytes.Buffer
}

// New creates a client in single-block page segmentation mode,
// matching captions that are one or two centred lines of text.
func New(opts Options) (*Client, error) {
	client := gosseract.NewClient()
	if prefix := strings.TrimSpace(opts.TessdataPrefix); prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			client.Close()
			return nil, services.Wrap(services.ErrConfiguration, "ocr", "tessdata prefix", prefix, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "page segmentation mode", "", err)
	}
	return &Client{client: client}, nil
}

// Recognize implements ocr.Engine. Surrounding whitespace is trimmed from the result.
func (t *Client) Recognize(ctx context.Context, img *image.Gray, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if lang != t.lang {
		langs := strings.Split(lang, "+")
		if err := t.client.SetLanguage(langs...); err != nil {
			return "", services.Wrap(services.ErrConfiguration, "ocr", "set language", lang, err)
		}
		t.lang = lang
	}

	t.buf.Reset()
	if err := png.Encode(&t.buf, img); err != nil {
		return "", fmt.Errorf("encode region: %w", err)
	}
	if err := t.client.SetImageFromBytes(t.buf.Bytes()); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ocr", "set image", "", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ocr", "recognize", "", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the tesseract client.
func (t *Client) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}
