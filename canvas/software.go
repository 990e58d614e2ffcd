package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/docview"
)

// SoftwarePainter composites paint commands into an image.RGBA.
//
// Tile bitmaps are scaled into their screen rectangles with bilinear
// interpolation. The shadow is approximated as an offset translucent
// rectangle grown by the blur radius; toolkit painters render a real
// blurred shadow.
type SoftwarePainter struct {
	dst   *image.RGBA
	clips []image.Rectangle
}

var _ Painter = (*SoftwarePainter)(nil)

// NewSoftwarePainter creates a painter targeting the given image.
func NewSoftwarePainter(dst *image.RGBA) *SoftwarePainter {
	return &SoftwarePainter{dst: dst}
}

// Image returns the target image.
func (p *SoftwarePainter) Image() *image.RGBA {
	return p.dst
}

// PushClip implements Painter.
func (p *SoftwarePainter) PushClip(r docview.Rect) {
	clip := imageRect(r).Intersect(p.clip())
	p.clips = append(p.clips, clip)
}

// PopClip implements Painter.
func (p *SoftwarePainter) PopClip() {
	if len(p.clips) > 0 {
		p.clips = p.clips[:len(p.clips)-1]
	}
}

// Color implements Painter.
func (p *SoftwarePainter) Color(c docview.RGBA, r docview.Rect) {
	target := imageRect(r).Intersect(p.clip())
	if target.Empty() {
		return
	}

	draw.Draw(p.dst, target, image.NewUniform(nrgba(c)), image.Point{}, draw.Over)
}

// Texture implements Painter.
func (p *SoftwarePainter) Texture(b docview.Bitmap, r docview.Rect) {
	if b.Empty() {
		return
	}

	// Drawing into a sub-image clips without changing coordinates.
	clip := p.clip()
	if clip.Empty() {
		return
	}
	dst := p.dst.SubImage(clip).(*image.RGBA)

	src := b.RGBA()
	draw.BiLinear.Scale(dst, imageRect(r), src, src.Bounds(), draw.Src, nil)
}

// Shadow implements Painter.
func (p *SoftwarePainter) Shadow(r docview.Rect, c docview.RGBA, dx, dy, spread, blur float64) {
	grow := spread + blur
	outset := docview.NewRect(
		docview.Pt(r.Offs.X+dx-grow, r.Offs.Y+dy-grow),
		docview.V(r.Size.X+2*grow, r.Size.Y+2*grow),
	)

	p.Color(c, outset)
}

func (p *SoftwarePainter) clip() image.Rectangle {
	if len(p.clips) == 0 {
		return p.dst.Bounds()
	}
	return p.clips[len(p.clips)-1]
}

func imageRect(r docview.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Offs.X)),
		int(math.Floor(r.Offs.Y)),
		int(math.Ceil(r.Offs.X+r.Size.X)),
		int(math.Ceil(r.Offs.Y+r.Size.Y)),
	)
}

func nrgba(c docview.RGBA) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
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
