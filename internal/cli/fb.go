package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/panel/draw"
	"github.com/BeatGlow/panel/framebuffer"
)

func newFramebufferCommand(a *app) *cobra.Command {
	var hold time.Duration
	cmd := &cobra.Command{
		Use:   "fb [device]",
		Short: "Draw the test pattern on a framebuffer device",
		Long:  `Draws the test pattern on a Linux framebuffer device, /dev/fb0 by default.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "/dev/fb0"
			if len(args) > 0 {
				name = args[0]
			}

			d := framebuffer.New(name)
			if err := d.Initialize(); err != nil {
				a.log.Error("Error opening framebuffer", "device", name, "err", err)
				return err
			}
			defer func() { _ = d.Finalize() }()

			format, _ := d.Format()
			a.log.Info("Using display", "display", d, "size", d.Bounds().Size(), "format", format)
			if err := d.Draw(0, 0, draw.Pattern(d.Bounds().Size(), name, 0)); err != nil {
				return err
			}

			select {
			case <-cmd.Context().Done():
			case <-time.After(hold):
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", 0, "Time to keep the framebuffer open after drawing")
	return cmd
}
