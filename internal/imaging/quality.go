package imaging

import (
	"image"
	"image/draw"
)

// QualityReport carries cheap raster metrics computed on a page image before
// it is sent to an external capability. The metrics are diagnostic only; a
// poor image degrades match scores naturally rather than aborting the run.
type QualityReport struct {
	LaplacianVar float64
	AvgLuminance float64
	Blurry       bool
	TooDark      bool
	TooBright    bool
}

const (
	blurThreshold   = 100.0
	darkLuminance   = 60.0
	brightLuminance = 220.0
)

// Inspect computes blur and exposure metrics for an image.
func Inspect(img image.Image) QualityReport {
	gray := Grayscale(img)
	variance := LaplacianVariance(gray)
	luminance := AvgLuminance(gray)
	return QualityReport{
		LaplacianVar: variance,
		AvgLuminance: luminance,
		Blurry:       variance < blurThreshold,
		TooDark:      luminance < darkLuminance,
		TooBright:    luminance > brightLuminance,
	}
}

// Grayscale converts an image to 8-bit grayscale.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// LaplacianVariance measures sharpness: the variance of the image convolved
// with a 3x3 Laplacian kernel. Low variance indicates a blurry image.
func LaplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Max.X, bounds.Max.Y

	var sum, sumSq float64
	kernel := [3][3]int{{0, 1, 0}, {1, -4, 1}, {0, 1, 0}}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var val int
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := int(gray.GrayAt(x+kx, y+ky).Y)
					val += pixel * kernel[ky+1][kx+1]
				}
			}
			fVal := float64(val)
			sum += fVal
			sumSq += fVal * fVal
		}
	}

	n := float64((width - 2) * (height - 2))
	if n <= 0 {
		return 0
	}
	mean := sum / n
	return (sumSq / n) - (mean * mean)
}

// AvgLuminance returns the mean gray level on a 0-255 scale.
func AvgLuminance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	pixelCount := float64(bounds.Dx() * bounds.Dy())
	if pixelCount == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			total += float64(gray.GrayAt(x, y).Y)
		}
	}
	return total / pixelCount
}
