package launcher

import "github.com/smazurov/launcher/internal/carousel"

// Snapshot is a copy of the launcher's observable state.
type Snapshot struct {
	State    State
	LED      LEDStatus
	Carousel CarouselStatus
	Frames   uint64
}

// LEDStatus describes the LED as last written.
type LEDStatus struct {
	On     bool
	Device string
	Err    error
}

// CarouselStatus is the carousel layout in stored order.
type CarouselStatus struct {
	Start  int
	Width  int
	Height int
	Panels []carousel.Panel
}

// Snapshot copies the current state.
func (l *Launcher) Snapshot() Snapshot {
	s := Snapshot{
		State: l.state,
		LED: LEDStatus{
			On:     l.led.State(),
			Device: l.led.Device(),
			Err:    l.ledErr,
		},
		Carousel: CarouselStatus{
			Start:  l.carousel.Start(),
			Width:  l.carousel.Width(),
			Height: l.carousel.Height(),
			Panels: l.carousel.Layout(),
		},
	}
	if l.renderer != nil {
		s.Frames = l.renderer.Frames()
	}
	return s
}
