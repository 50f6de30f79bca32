package carousel

import (
	"math/rand"
	"testing"
)

func makePanels(count, width, height int) []*Panel {
	panels := make([]*Panel, count)
	for i := range panels {
		panels[i] = &Panel{Index: i, Width: width, Height: height}
	}
	return panels
}

func TestLoad_ReversesOrder(t *testing.T) {
	c := New(800, 480)
	c.Load(makePanels(10, 800, 480))

	layout := c.Layout()
	if len(layout) != 10 {
		t.Fatalf("Len() = %d, want 10", len(layout))
	}

	for i, p := range layout {
		if want := 9 - i; p.Index != want {
			t.Errorf("layout[%d].Index = %d, want %d", i, p.Index, want)
		}
	}
}

func TestLoad_FullWidthPanelsSettleAtOrigin(t *testing.T) {
	c := New(800, 480)
	c.Load(makePanels(10, 800, 480))

	for i, p := range c.Layout() {
		if p.X != 0 || p.Y != 0 {
			t.Errorf("panel %d at (%d,%d), want (0,0)", i, p.X, p.Y)
		}
	}
	if c.Start() != 0 {
		t.Errorf("Start() = %d, want 0", c.Start())
	}
}

func TestLoad_NarrowPanelsClampToRightEdge(t *testing.T) {
	c := New(800, 480)
	c.Load(makePanels(10, 480, 480))

	layout := c.Layout()
	if layout[0].X != 0 {
		t.Errorf("first stored panel X = %d, want 0", layout[0].X)
	}
	if layout[0].Index != 9 {
		t.Errorf("first stored panel Index = %d, want 9", layout[0].Index)
	}
	for i, p := range layout[1:] {
		if p.X != 320 {
			t.Errorf("panel %d X = %d, want 320", i+1, p.X)
		}
	}
}

func TestShift_Empty(t *testing.T) {
	c := New(800, 480)
	c.Load(nil)

	if reset := c.Shift(-800); reset {
		t.Error("Shift() on empty carousel reported a reset")
	}
	if c.Start() != 0 {
		t.Errorf("Start() = %d, want 0", c.Start())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestShift_AutoScrollRecycles(t *testing.T) {
	c := New(800, 480)
	c.Load(makePanels(10, 800, 480))

	for tick := 1; tick <= 9; tick++ {
		if reset := c.Shift(-800); reset {
			t.Fatalf("tick %d: unexpected reset", tick)
		}
		if want := -800 * tick; c.Start() != want {
			t.Fatalf("tick %d: Start() = %d, want %d", tick, c.Start(), want)
		}

		layout := c.Layout()
		if want := -800 * tick; layout[0].X != want {
			t.Errorf("tick %d: leading panel X = %d, want %d", tick, layout[0].X, want)
		}
		// The panel scrolled onto the screen sits at the origin.
		if layout[tick].X != 0 {
			t.Errorf("tick %d: visible panel X = %d, want 0", tick, layout[tick].X)
		}
	}

	if reset := c.Shift(-800); !reset {
		t.Fatal("tenth tick should reset the strip")
	}
	if c.Start() != 0 {
		t.Errorf("Start() after reset = %d, want 0", c.Start())
	}
	for i, p := range c.Layout() {
		if p.X != 0 {
			t.Errorf("panel %d X after reset = %d, want 0", i, p.X)
		}
	}
}

func TestShift_ResetChecksLastStoredPanel(t *testing.T) {
	c := New(800, 480)
	c.Load(makePanels(3, 400, 480))

	// Stored order is image 2, 1, 0. A shift of -800 puts image 2 at -800,
	// image 1 at -400 and image 0 at 0: no reset although two panels are
	// off screen.
	if reset := c.Shift(-800); reset {
		t.Fatal("unexpected reset while last stored panel is on screen")
	}
	layout := c.Layout()
	if layout[2].Index != 0 || layout[2].X != 0 {
		t.Errorf("last stored panel = {Index:%d X:%d}, want {Index:0 X:0}", layout[2].Index, layout[2].X)
	}

	if reset := c.Shift(-1); !reset {
		t.Error("shifting the last stored panel below zero should reset")
	}
}

func TestShift_RightEdgeClamp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, width := range []int{200, 480, 800} {
		c := New(800, 480)
		c.Load(makePanels(10, width, 480))

		for i := 0; i < 500; i++ {
			delta := rng.Intn(4001) - 2000
			reset := c.Shift(delta)

			for j, p := range c.Layout() {
				if p.Right() > c.Width() {
					t.Fatalf("width %d step %d delta %d: panel %d right edge %d > %d",
						width, i, delta, j, p.Right(), c.Width())
				}
				if reset && p.X != 0 {
					t.Fatalf("width %d step %d: panel %d X = %d after reset", width, i, j, p.X)
				}
			}
			if reset && c.Start() != 0 {
				t.Fatalf("width %d step %d: Start() = %d after reset", width, i, c.Start())
			}
		}
	}
}

func TestShift_PositiveDeltaAccumulates(t *testing.T) {
	c := New(800, 480)
	c.Load(makePanels(2, 800, 480))

	c.Shift(100)
	c.Shift(50)
	if c.Start() != 150 {
		t.Errorf("Start() = %d, want 150", c.Start())
	}
	// Both panels clamp against the right edge.
	for i, p := range c.Layout() {
		if p.X != 0 {
			t.Errorf("panel %d X = %d, want 0", i, p.X)
		}
	}
}
