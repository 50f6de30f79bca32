package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smazurov/launcher/internal/carousel"
	"github.com/spf13/cobra"
)

// CreateLayoutCmd creates the `layout` command, which prints panel offsets
// after a number of auto-scroll steps without touching any hardware.
func CreateLayoutCmd() *cobra.Command {
	var (
		width      int
		panelWidth int
		count      int
		step       int
		ticks      int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the carousel layout after a number of ticks",
		Long: `Loads a carousel of empty panels and applies the timer shift the given number of times, ` +
			`printing the panel offsets after each tick. Useful for checking clamp and wrap-around behaviour.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width <= 0 || panelWidth <= 0 || count < 0 || ticks < 0 {
				return fmt.Errorf("width and panel width must be positive, count and ticks not negative")
			}

			c := carousel.New(width, 0)
			panels := make([]*carousel.Panel, count)
			for i := range panels {
				panels[i] = &carousel.Panel{Index: i, Width: panelWidth}
			}
			c.Load(panels)

			out := cmd.OutOrStdout()
			printLayout(out, 0, c, false)
			for tick := 1; tick <= ticks; tick++ {
				reset := c.Shift(-step)
				printLayout(out, tick, c, reset)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 800, "Display width in pixels")
	cmd.Flags().IntVar(&panelWidth, "panel-width", 800, "Panel width in pixels")
	cmd.Flags().IntVar(&count, "count", 10, "Number of panels")
	cmd.Flags().IntVar(&step, "step", 800, "Pixels scrolled per tick")
	cmd.Flags().IntVar(&ticks, "ticks", 10, "Number of ticks to apply")
	return cmd
}

func printLayout(w io.Writer, tick int, c *carousel.Carousel, reset bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	suffix := ""
	if reset {
		suffix = " (reset)"
	}
	fmt.Fprintf(tw, "tick %d\tstart %d%s\n", tick, c.Start(), suffix)
	for _, p := range c.Layout() {
		fmt.Fprintf(tw, "  image%d\tx=%d\n", p.Index, p.X)
	}
	tw.Flush()
}
