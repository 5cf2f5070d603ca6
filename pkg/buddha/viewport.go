// Package buddha implements Buddhabrot rendering: random orbit sampling over
// the complex plane accumulated into per-channel hit histograms.
package buddha

import "math/rand"

// Viewport maps a rectangular window of the complex plane onto a pixel grid.
// Pixels are square: the vertical pixel size equals the horizontal one.
type Viewport struct {
	PixelsX int
	PixelsY int

	// PlaneWidth and PlaneHeight are the extents of the window on the
	// complex plane. PlaneHeight follows from PlaneWidth and the pixel
	// aspect ratio.
	PlaneWidth  float64
	PlaneHeight float64

	// TopLeft is the complex number at pixel (0, 0).
	TopLeft complex128
}

// NewViewport creates a viewport of planeWidth units centered on the origin,
// shifted panRight units to the left so the set sits visually centered.
func NewViewport(pixelsX, pixelsY int, planeWidth, panRight float64) Viewport {
	planeHeight := planeWidth * float64(pixelsY) / float64(pixelsX)
	return Viewport{
		PixelsX:     pixelsX,
		PixelsY:     pixelsY,
		PlaneWidth:  planeWidth,
		PlaneHeight: planeHeight,
		TopLeft:     complex(-planeWidth/2-panRight, planeHeight/2),
	}
}

// PixelSize returns the plane distance covered by one pixel.
func (v Viewport) PixelSize() float64 {
	return v.PlaneWidth / float64(v.PixelsX)
}

// Pixel maps a complex number to pixel coordinates. ok is false when the
// point lies outside the viewport.
func (v Viewport) Pixel(c complex128) (x, y int, ok bool) {
	re, im := real(c), imag(c)
	if re < real(v.TopLeft) || re > real(v.TopLeft)+v.PlaneWidth ||
		im > imag(v.TopLeft) || im < imag(v.TopLeft)-v.PlaneHeight {
		return 0, 0, false
	}

	px := v.PixelSize()
	x = int((re - real(v.TopLeft)) / px)
	y = int((imag(v.TopLeft) - im) / px)
	if x < 0 || x >= v.PixelsX || y < 0 || y >= v.PixelsY {
		return 0, 0, false
	}
	return x, y, true
}

// Random returns a complex number uniformly distributed over the viewport.
func (v Viewport) Random(rng *rand.Rand) complex128 {
	return complex(
		real(v.TopLeft)+rng.Float64()*v.PlaneWidth,
		imag(v.TopLeft)-rng.Float64()*v.PlaneHeight,
	)
}

// ZoomedAt returns a viewport shrunk by factor around the given center,
// keeping the pixel grid and aspect ratio. factor 2 halves the plane extents.
func (v Viewport) ZoomedAt(center complex128, factor float64) Viewport {
	if factor <= 0 {
		factor = 1
	}
	w := v.PlaneWidth / factor
	h := v.PlaneHeight / factor
	return Viewport{
		PixelsX:     v.PixelsX,
		PixelsY:     v.PixelsY,
		PlaneWidth:  w,
		PlaneHeight: h,
		TopLeft:     complex(real(center)-w/2, imag(center)+h/2),
	}
}
