package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/tile"
)

// Placeholder is a built-in rasterizer drawing schematic page content: a
// background fill, a page border, a diagonal and a centered page label.
// It honors the requested geometry exactly, which makes it usable for
// pixel-level tests and demos; real page content comes from an external
// rasterizer.
type Placeholder struct{}

var _ Rasterizer = Placeholder{}

// SyntheticDocument is an in-memory document of empty pages, rendered by
// the Placeholder rasterizer.
type SyntheticDocument struct {
	// Sizes holds one page size per page, in points.
	Sizes []docview.Vec
}

var _ Document = (*SyntheticDocument)(nil)

type placeholderPage struct {
	index int
	size  docview.Vec
}

// PageCount implements Document.
func (d *SyntheticDocument) PageCount() int {
	return len(d.Sizes)
}

// PageSize implements Document.
func (d *SyntheticDocument) PageSize(i int) (docview.Vec, error) {
	if i < 0 || i >= len(d.Sizes) {
		return docview.Vec{}, fmt.Errorf("%w: page %d of %d",
			docview.ErrInvalidArgument, i, len(d.Sizes))
	}
	return d.Sizes[i], nil
}

// Page implements Document.
func (d *SyntheticDocument) Page(i int) (PageRef, error) {
	size, err := d.PageSize(i)
	if err != nil {
		return nil, err
	}
	return placeholderPage{index: i, size: size}, nil
}

// Placeholder draw colors.
var (
	borderColor   = docview.RGBA{R: 0.4, G: 0.4, B: 0.4, A: 1}
	diagonalColor = docview.RGBA{R: 0.78, G: 0.84, B: 0.9, A: 1}
)

// RenderPage implements Rasterizer.
func (Placeholder) RenderPage(page PageRef, pageSize docview.VecI, tileRect docview.RectI,
	opts tile.RenderOptions, dst docview.Bitmap) error {

	ref, ok := page.(placeholderPage)
	if !ok {
		return fmt.Errorf("%w: page is %T, want a synthetic page",
			docview.ErrInvalidArgument, page)
	}

	bg := opts.Background
	if bg == (docview.RGBA{}) {
		bg = docview.White
	}
	fill(dst, bg.BGR())

	w, h := pageSize.X, pageSize.Y
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: page size %dx%d", docview.ErrInvalidArgument, w, h)
	}

	// Page border.
	border := borderColor.BGR()
	for gx := int64(0); gx < w; gx++ {
		plot(dst, tileRect, gx, 0, border)
		plot(dst, tileRect, gx, h-1, border)
	}
	for gy := int64(0); gy < h; gy++ {
		plot(dst, tileRect, 0, gy, border)
		plot(dst, tileRect, w-1, gy, border)
	}

	// Diagonal from the top-left to the bottom-right page corner.
	diag := diagonalColor.BGR()
	steps := max(w, h)
	for i := int64(0); i < steps; i++ {
		plot(dst, tileRect, i*w/steps, i*h/steps, diag)
	}

	drawLabel(dst, fmt.Sprintf("Page %d", ref.index+1), pageSize, tileRect)

	return nil
}

// drawLabel rasterizes the label with the basic 7x13 face and blits it
// centered on the page, clipped to the tile.
func drawLabel(dst docview.Bitmap, text string, pageSize docview.VecI, tileRect docview.RectI) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	if width <= 0 || height <= 0 {
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	left := pageSize.X/2 - int64(width)/2
	top := pageSize.Y/2 - int64(height)/2

	ink := docview.Black.BGR()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if img.RGBAAt(x, y).A < 0x80 {
				continue
			}
			plot(dst, tileRect, left+int64(x), top+int64(y), ink)
		}
	}
}

// fill paints the whole bitmap with one color.
func fill(b docview.Bitmap, c [3]byte) {
	for y := 0; y < b.Height; y++ {
		row := b.Data[y*b.Stride : y*b.Stride+b.Width*3]
		for x := 0; x < b.Width; x++ {
			copy(row[x*3:], c[:])
		}
	}
}

// plot sets the pixel at page coordinates (gx, gy), translated into the
// tile. Out-of-tile pixels are ignored.
func plot(b docview.Bitmap, tileRect docview.RectI, gx, gy int64, c [3]byte) {
	x := gx - tileRect.Offs.X
	y := gy - tileRect.Offs.Y

	if x < 0 || x >= int64(b.Width) || y < 0 || y >= int64(b.Height) {
		return
	}

	i := int(y)*b.Stride + int(x)*3
	copy(b.Data[i:i+3], c[:])
}
