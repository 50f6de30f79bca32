// Package display composes carousel frames and pushes them to an output sink.
package display

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/smazurov/launcher/internal/carousel"
)

// Sink receives rendered frames.
type Sink interface {
	Write(frame *image.RGBA) error
	Close() error
}

// Discard is a Sink that drops frames.
type Discard struct{}

// Write implements Sink.
func (Discard) Write(*image.RGBA) error { return nil }

// Close implements Sink.
func (Discard) Close() error { return nil }

// Renderer draws the background and the carousel panels at their offsets.
type Renderer struct {
	width      int
	height     int
	background image.Image
	sink       Sink

	mu     sync.RWMutex
	last   *image.RGBA
	frames uint64
}

// NewRenderer creates a renderer for a width x height display. A nil
// background fills with black; a nil sink discards frames.
func NewRenderer(width, height int, background image.Image, sink Sink) *Renderer {
	if background == nil {
		background = image.NewUniform(color.Black)
	}
	if sink == nil {
		sink = Discard{}
	}
	return &Renderer{
		width:      width,
		height:     height,
		background: background,
		sink:       sink,
	}
}

// Render composes a frame from the given layout and writes it to the sink.
// Panels are drawn in reverse stored order so the first stored panel, which
// was added to the window last, ends up on top.
func (r *Renderer) Render(layout []carousel.Panel) error {
	frame := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(frame, frame.Bounds(), r.background, r.background.Bounds().Min, draw.Src)

	for i := len(layout) - 1; i >= 0; i-- {
		p := layout[i]
		if p.Image == nil {
			continue
		}
		dst := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.Draw(frame, dst, p.Image, p.Image.Bounds().Min, draw.Over)
	}

	r.mu.Lock()
	r.last = frame
	r.frames++
	r.mu.Unlock()

	return r.sink.Write(frame)
}

// Frame returns the most recently rendered frame, or nil before the first render.
// The returned image must not be modified.
func (r *Renderer) Frame() *image.RGBA {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Frames returns the number of frames rendered.
func (r *Renderer) Frames() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}

// Close closes the sink.
func (r *Renderer) Close() error {
	return r.sink.Close()
}
