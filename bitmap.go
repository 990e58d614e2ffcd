package docview

import "image"

// Bitmap is a rendered pixel buffer as produced by a rasterizer.
//
// The pixel format is byte triples in B, G, R order, row-major, with
// Stride bytes per row (Stride = Width*3 for tightly packed buffers). The
// rendering core never interprets pixel values; bitmaps are immutable
// after creation and handing one from a worker to the coordinator is a
// move.
type Bitmap struct {
	Data   []byte
	Width  int
	Height int
	Stride int
}

// NewBitmap allocates a tightly packed bitmap with the given dimensions.
func NewBitmap(width, height int) Bitmap {
	stride := width * 3
	return Bitmap{
		Data:   make([]byte, stride*height),
		Width:  width,
		Height: height,
		Stride: stride,
	}
}

// Empty reports whether the bitmap holds no pixels.
func (b Bitmap) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// RGBA converts the bitmap to an image.RGBA for painting. Alpha is fully
// opaque.
func (b Bitmap) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))

	for y := 0; y < b.Height; y++ {
		src := b.Data[y*b.Stride:]
		dst := img.Pix[y*img.Stride:]

		for x := 0; x < b.Width; x++ {
			dst[x*4+0] = src[x*3+2]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+0]
			dst[x*4+3] = 0xff
		}
	}

	return img
}

// RGBA represents a color with floating point components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Black       = RGBA{R: 0, G: 0, B: 0, A: 1}
	Transparent = RGBA{}
)

// BGR returns the color as B, G, R bytes, matching the bitmap pixel
// format.
func (c RGBA) BGR() [3]byte {
	return [3]byte{
		byte(clamp01(c.B) * 255),
		byte(clamp01(c.G) * 255),
		byte(clamp01(c.R) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
