package cmd

import (
	"fmt"

	"github.com/smazurov/launcher/internal/led"
	"github.com/spf13/cobra"
)

// CreateLEDCmd creates the `led on|off` command, which writes the LED once
// through the same sysfs switch the daemon uses.
func CreateLEDCmd() *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:       "led on|off",
		Short:     "Switch the LED once and exit",
		Long:      `Opens the LED brightness file, writes "1" or "0" and closes it again.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sw := led.Open(device)
			defer sw.Close()

			var err error
			if args[0] == "on" {
				err = sw.On()
			} else {
				err = sw.Off()
			}
			if err != nil {
				return fmt.Errorf("led %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", device, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", led.DefaultDevice, "LED brightness file")
	return cmd
}
