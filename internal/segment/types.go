package segment

import (
	"image"

	"easyanki/internal/textutil"
)

// Raw is a span of frames whose subtitle band did not change, with the band
// of its first frame kept for OCR.
type Raw struct {
	Start  int
	End    int
	Score  float64
	Region *image.Gray
}

// Text is a raw segment after OCR.
type Text struct {
	Start int
	End   int
	Text  string
}

// Variants is a merged span carrying every distinct OCR reading seen for it.
type Variants struct {
	Start int
	End   int
	Texts *textutil.VariantSet
}

// Final is a segment ready for the sink.
type Final struct {
	Start int
	End   int
	Text  string
}

// Duration is the number of frames the segment covers.
func (f Final) Duration() int {
	return f.End - f.Start + 1
}
