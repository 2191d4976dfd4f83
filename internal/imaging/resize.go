package imaging

import (
	"bytes"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"

	"go-kyc-validator/internal/document"
)

// AnalysisWidth is the target width page images are scaled to before being
// sent to an external capability. Keeps payloads small without losing the
// detail the services need.
const AnalysisWidth = 600

const jpegQuality = 90

// ResizeToWidth scales an image to the given width preserving aspect ratio.
// Images at or below the target width are returned unchanged.
func ResizeToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width || bounds.Dx() == 0 {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// EncodeJPEG encodes an image as JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PrepareForAnalysis returns the bytes to send to an external capability for
// a page: the decoded raster downscaled and re-encoded as JPEG, or the raw
// embedded stream when the raster could not be decoded.
func PrepareForAnalysis(page document.Page) ([]byte, error) {
	if page.Image == nil {
		return page.Raw, nil
	}
	resized := ResizeToWidth(page.Image, AnalysisWidth)
	return EncodeJPEG(resized)
}
