package cli

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/draw"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		out    string
		label  string
		offset int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the test pattern to a PNG file",
		Long: `Renders the test pattern on an image display of the configured size,
format and rotation, and writes the rotated frame as PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.imageDisplay()
			if err != nil {
				return err
			}
			defer func() { _ = d.Finalize() }()

			if label == "" {
				size := d.Bounds().Size()
				label = fmt.Sprintf("%dx%d", size.X, size.Y)
			}
			if err = d.Draw(0, 0, draw.Pattern(d.Bounds().Size(), label, offset)); err != nil {
				return err
			}
			img, err := d.Image()
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err = png.Encode(f, img); err != nil {
				_ = f.Close()
				return err
			}
			if err = f.Close(); err != nil {
				return err
			}
			a.log.Info("Rendered frame", "display", d.String(), "rotation", d.Rotation(), "out", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "Output file")
	cmd.Flags().StringVar(&label, "label", "", "Label of the test pattern (default is the display size)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Gradient offset of the test pattern")
	return cmd
}

// imageDisplay returns an image display from the configuration.
func (a *app) imageDisplay() (*panel.ImageDisplay, error) {
	config, err := a.cfg.Display.Panel()
	if err != nil {
		return nil, err
	}
	return panel.NewImageDisplay(config)
}
