package testsupport

import "image"

// GrayImage returns a w x h grayscale image filled with a single value.
func GrayImage(w, h int, fill uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	return img
}

// BandImage returns a w x h frame whose subtitle band (rows 78% to 92% of
// the height) is filled with band and whose remaining rows are dark. Frames
// sharing a band value compare identical; distinct band values far apart
// fall well below the default SSIM cutoff.
func BandImage(w, h int, band uint8) *image.Gray {
	img := GrayImage(w, h, 16)
	top := int(0.78 * float64(h))
	bottom := int(0.92 * float64(h))
	for y := top; y < bottom; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x := range row {
			row[x] = band
		}
	}
	return img
}

// BandValue reads back the band value of a subtitle region produced from a
// BandImage frame.
func BandValue(region *image.Gray) uint8 {
	b := region.Bounds()
	return region.GrayAt(b.Min.X, b.Min.Y).Y
}
