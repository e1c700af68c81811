package ocr

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension bounds the longest side of images sent to an engine.
const DefaultMaxDimension = 2048

// Preprocess applies EXIF orientation and downsizes img so its longest side is at
// most maxDim. Images that fail to decode are returned unchanged.
func Preprocess(img Image, maxDim int) Image {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return img
	}
	decoded = fit(decoded, maxDim)

	// webp has no encoder in x/image, so it is re-encoded as png
	format, mimeType := imaging.JPEG, "image/jpeg"
	if img.MimeType == "image/png" || img.MimeType == "image/webp" {
		format, mimeType = imaging.PNG, "image/png"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, decoded, format, imaging.JPEGQuality(90)); err != nil {
		return img
	}
	return Image{Data: buf.Bytes(), MimeType: mimeType}
}

func fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
