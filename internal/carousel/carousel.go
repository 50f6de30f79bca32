// Package carousel lays out a horizontal strip of full-screen image panels.
//
// Panels are stored in reverse load order, so the last loaded image is the
// first one walked by Shift. Shift places panels contiguously from the
// current start offset, clamps them against the right edge of the display
// and recycles the strip to the origin once the last stored panel has
// scrolled past the left edge.
package carousel

import "image"

// Panel is a fixed-size tile showing one image.
type Panel struct {
	// Index is the image number the panel was loaded from.
	Index  int
	X      int
	Y      int
	Width  int
	Height int
	Image  image.Image
}

// Right returns the x coordinate of the panel's right edge.
func (p Panel) Right() int {
	return p.X + p.Width
}

// Carousel owns an ordered sequence of panels and the cumulative scroll offset.
// It is not safe for concurrent use.
type Carousel struct {
	width  int
	height int
	panels []*Panel
	start  int
}

// New creates an empty carousel for a display of the given size.
func New(width, height int) *Carousel {
	return &Carousel{
		width:  width,
		height: height,
	}
}

// Load replaces the panels with the given ones, given in load order.
// They are stored in reverse so that the last loaded panel is walked first,
// moved to the origin, and the layout is settled with Shift(0).
func (c *Carousel) Load(panels []*Panel) {
	c.panels = make([]*Panel, 0, len(panels))
	for i := len(panels) - 1; i >= 0; i-- {
		p := panels[i]
		p.X = 0
		p.Y = 0
		c.panels = append(c.panels, p)
	}

	c.start = 0
	if len(c.panels) == 0 {
		return
	}

	c.start = c.panels[0].X
	c.Shift(0)
}

// Shift moves every panel by delta and reports whether the strip was reset.
//
// Starting at start+delta, panels are walked in stored order; a panel whose
// right edge would pass the display width is clamped to it, and the next
// panel continues from its right edge. If the last stored panel ends up at a
// negative offset every panel and the start offset return to zero.
func (c *Carousel) Shift(delta int) bool {
	if len(c.panels) == 0 {
		return false
	}

	x := c.start + delta
	for _, p := range c.panels {
		if x+p.Width > c.width {
			x = c.width - p.Width
		}
		p.X = x
		x += p.Width
	}

	c.start += delta

	// The reset trigger is the last panel in stored order, which is the
	// first image loaded, not the right-most panel on screen.
	last := c.panels[len(c.panels)-1]
	if last.X < 0 {
		for _, p := range c.panels {
			p.X = 0
		}
		c.start = 0
		return true
	}

	return false
}

// Start returns the cumulative scroll offset.
func (c *Carousel) Start() int {
	return c.start
}

// Width returns the display width the carousel clamps against.
func (c *Carousel) Width() int {
	return c.width
}

// Height returns the display height.
func (c *Carousel) Height() int {
	return c.height
}

// Len returns the number of panels.
func (c *Carousel) Len() int {
	return len(c.panels)
}

// Layout returns a copy of the panels in stored order.
func (c *Carousel) Layout() []Panel {
	layout := make([]Panel, len(c.panels))
	for i, p := range c.panels {
		layout[i] = *p
	}
	return layout
}
