package canvas

import "github.com/gogpu/docview"

// Painter receives the paint commands of a frame, in order. Rectangles
// are in viewport pixels.
type Painter interface {
	// PushClip restricts subsequent commands to the given rectangle.
	// Clips nest.
	PushClip(r docview.Rect)

	// PopClip removes the innermost clip.
	PopClip()

	// Color fills the rectangle with a solid color.
	Color(c docview.RGBA, r docview.Rect)

	// Texture draws the bitmap stretched to the rectangle.
	Texture(b docview.Bitmap, r docview.Rect)

	// Shadow draws an outset drop shadow for the rectangle.
	Shadow(r docview.Rect, c docview.RGBA, dx, dy, spread, blur float64)
}

// Op identifies a recorded paint command.
type Op int

// Recorded command kinds.
const (
	OpPushClip Op = iota
	OpPopClip
	OpColor
	OpTexture
	OpShadow
)

// Command is one recorded paint command.
type Command struct {
	Op     Op
	Rect   docview.Rect
	Color  docview.RGBA
	Bitmap docview.Bitmap

	Dx, Dy, Spread, Blur float64
}

// Recorder is a Painter capturing commands for inspection or deferred
// replay.
type Recorder struct {
	Commands []Command
}

var _ Painter = (*Recorder)(nil)

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

// Replay plays the recorded commands into another painter.
func (r *Recorder) Replay(p Painter) {
	for _, c := range r.Commands {
		switch c.Op {
		case OpPushClip:
			p.PushClip(c.Rect)
		case OpPopClip:
			p.PopClip()
		case OpColor:
			p.Color(c.Color, c.Rect)
		case OpTexture:
			p.Texture(c.Bitmap, c.Rect)
		case OpShadow:
			p.Shadow(c.Rect, c.Color, c.Dx, c.Dy, c.Spread, c.Blur)
		}
	}
}

func (r *Recorder) PushClip(rect docview.Rect) {
	r.Commands = append(r.Commands, Command{Op: OpPushClip, Rect: rect})
}

func (r *Recorder) PopClip() {
	r.Commands = append(r.Commands, Command{Op: OpPopClip})
}

func (r *Recorder) Color(c docview.RGBA, rect docview.Rect) {
	r.Commands = append(r.Commands, Command{Op: OpColor, Color: c, Rect: rect})
}

func (r *Recorder) Texture(b docview.Bitmap, rect docview.Rect) {
	r.Commands = append(r.Commands, Command{Op: OpTexture, Bitmap: b, Rect: rect})
}

func (r *Recorder) Shadow(rect docview.Rect, c docview.RGBA, dx, dy, spread, blur float64) {
	r.Commands = append(r.Commands, Command{
		Op: OpShadow, Rect: rect, Color: c,
		Dx: dx, Dy: dy, Spread: spread, Blur: blur,
	})
}
