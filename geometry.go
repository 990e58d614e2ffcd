package docview

import "math"

// Point represents a 2D position.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point translated by the vector v.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec {
	return Vec{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns the point mirrored at the origin.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Vec returns the point interpreted as a vector from the origin.
func (p Point) Vec() Vec {
	return Vec{X: p.X, Y: p.Y}
}

// Vec represents a 2D vector or size.
type Vec struct {
	X, Y float64
}

// V is a convenience function to create a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Mul returns the vector scaled by s.
func (v Vec) Mul(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Max returns the larger of the two components.
func (v Vec) Max() float64 {
	return math.Max(v.X, v.Y)
}

// PointI is an integer 2D position, used for tile grid indices.
type PointI struct {
	X, Y int64
}

// VecI is an integer 2D vector, used for pixel sizes.
type VecI struct {
	X, Y int64
}

// Vec returns the vector converted to floating point.
func (v VecI) Vec() Vec {
	return Vec{X: float64(v.X), Y: float64(v.Y)}
}

// Rect is an axis-aligned rectangle described by its top-left offset and
// its size.
type Rect struct {
	Offs Point
	Size Vec
}

// NewRect creates a rectangle from offset and size.
func NewRect(offs Point, size Vec) Rect {
	return Rect{Offs: offs, Size: size}
}

// Bounds returns the rectangle as min/max bounds.
func (r Rect) Bounds() Bounds {
	return Bounds{
		XMin: r.Offs.X,
		YMin: r.Offs.Y,
		XMax: r.Offs.X + r.Size.X,
		YMax: r.Offs.Y + r.Size.Y,
	}
}

// Clip returns the intersection of two rectangles. The size of the result
// is clamped to zero if the rectangles do not overlap.
func (r Rect) Clip(other Rect) Rect {
	return r.Bounds().Clip(other.Bounds()).Rect()
}

// Translate returns the rectangle moved by the vector v.
func (r Rect) Translate(v Vec) Rect {
	return Rect{Offs: r.Offs.Add(v), Size: r.Size}
}

// Scale returns the rectangle with both offset and size scaled by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{
		Offs: Point{X: r.Offs.X * s, Y: r.Offs.Y * s},
		Size: Vec{X: r.Size.X * s, Y: r.Size.Y * s},
	}
}

// Round returns the rectangle with offset and size rounded to the nearest
// integer coordinates. Used for pixel-perfect page placement.
func (r Rect) Round() Rect {
	return Rect{
		Offs: Point{X: math.Round(r.Offs.X), Y: math.Round(r.Offs.Y)},
		Size: Vec{X: math.Round(r.Size.X), Y: math.Round(r.Size.Y)},
	}
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Bounds().Intersects(other.Bounds())
}

// RectI is an integer rectangle in pixel coordinates.
type RectI struct {
	Offs PointI
	Size VecI
}

// NewRectI creates an integer rectangle from offset and size.
func NewRectI(offs PointI, size VecI) RectI {
	return RectI{Offs: offs, Size: size}
}

// Bounds is an axis-aligned bounding box with minimum and maximum corners.
// The maximum corner is exclusive when the bounds describe a pixel or tile
// area.
type Bounds struct {
	XMin, YMin float64
	XMax, YMax float64
}

// Rect returns the bounds as a rectangle. Negative extents collapse to a
// zero size.
func (b Bounds) Rect() Rect {
	return Rect{
		Offs: Point{X: b.XMin, Y: b.YMin},
		Size: Vec{X: math.Max(b.XMax-b.XMin, 0), Y: math.Max(b.YMax-b.YMin, 0)},
	}
}

// Clip returns the intersection of two bounds.
func (b Bounds) Clip(other Bounds) Bounds {
	return Bounds{
		XMin: math.Max(b.XMin, other.XMin),
		YMin: math.Max(b.YMin, other.YMin),
		XMax: math.Min(b.XMax, other.XMax),
		YMax: math.Min(b.YMax, other.YMax),
	}
}

// Scale returns the bounds with all coordinates scaled by s.
func (b Bounds) Scale(s float64) Bounds {
	return Bounds{
		XMin: b.XMin * s,
		YMin: b.YMin * s,
		XMax: b.XMax * s,
		YMax: b.YMax * s,
	}
}

// Translate returns the bounds moved by the vector v.
func (b Bounds) Translate(v Vec) Bounds {
	return Bounds{
		XMin: b.XMin + v.X,
		YMin: b.YMin + v.Y,
		XMax: b.XMax + v.X,
		YMax: b.YMax + v.Y,
	}
}

// RoundOutwards returns the smallest bounds with integer coordinates fully
// containing b.
func (b Bounds) RoundOutwards() Bounds {
	return Bounds{
		XMin: math.Floor(b.XMin),
		YMin: math.Floor(b.YMin),
		XMax: math.Ceil(b.XMax),
		YMax: math.Ceil(b.YMax),
	}
}

// Intersects reports whether two bounds overlap with positive area.
func (b Bounds) Intersects(other Bounds) bool {
	return b.XMin < other.XMax && other.XMin < b.XMax &&
		b.YMin < other.YMax && other.YMin < b.YMax
}

// BoundsI returns the bounds truncated to integer coordinates.
func (b Bounds) BoundsI() BoundsI {
	return BoundsI{
		XMin: int64(b.XMin),
		YMin: int64(b.YMin),
		XMax: int64(b.XMax),
		YMax: int64(b.YMax),
	}
}

// BoundsI is an integer bounding box. The maximum corner is exclusive.
type BoundsI struct {
	XMin, YMin int64
	XMax, YMax int64
}

// Bounds returns the integer bounds converted to floating point.
func (b BoundsI) Bounds() Bounds {
	return Bounds{
		XMin: float64(b.XMin),
		YMin: float64(b.YMin),
		XMax: float64(b.XMax),
		YMax: float64(b.YMax),
	}
}

// Rect returns the bounds as an integer rectangle. Negative extents
// collapse to a zero size.
func (b BoundsI) Rect() RectI {
	return RectI{
		Offs: PointI{X: b.XMin, Y: b.YMin},
		Size: VecI{X: max(b.XMax-b.XMin, 0), Y: max(b.YMax-b.YMin, 0)},
	}
}

// Clip returns the intersection of two integer bounds.
func (b BoundsI) Clip(other BoundsI) BoundsI {
	return BoundsI{
		XMin: max(b.XMin, other.XMin),
		YMin: max(b.YMin, other.YMin),
		XMax: min(b.XMax, other.XMax),
		YMax: min(b.YMax, other.YMax),
	}
}

// Contains reports whether the grid cell (x, y) lies inside the bounds.
// The maximum corner is exclusive.
func (b BoundsI) Contains(x, y int64) bool {
	return x >= b.XMin && x < b.XMax && y >= b.YMin && y < b.YMax
}

// Empty reports whether the bounds contain no cells.
func (b BoundsI) Empty() bool {
	return b.XMax <= b.XMin || b.YMax <= b.YMin
}

// Tiled divides the pixel bounds into a grid of tileSize cells with
// outward rounding and returns the covered cell indices.
func (b BoundsI) Tiled(tileSize VecI) BoundsI {
	return BoundsI{
		XMin: floorDiv(b.XMin, tileSize.X),
		YMin: floorDiv(b.YMin, tileSize.Y),
		XMax: ceilDiv(b.XMax, tileSize.X),
		YMax: ceilDiv(b.YMax, tileSize.Y),
	}
}

// Range calls fn for every cell (x, y) inside the bounds, row by row.
func (b BoundsI) Range(fn func(x, y int64)) {
	for y := b.YMin; y < b.YMax; y++ {
		for x := b.XMin; x < b.XMax; x++ {
			fn(x, y)
		}
	}
}

// floorDiv divides a by b, rounding towards negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ceilDiv divides a by b, rounding towards positive infinity.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
