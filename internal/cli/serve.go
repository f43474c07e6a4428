package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/panel/draw"
	"github.com/BeatGlow/panel/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var pattern bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an image display over HTTP",
		Long: `Runs the preview server: an in-memory image display that accepts images
over HTTP and serves the rotated frame as PNG.

Routes:
  GET  /status       display status
  GET  /frame.png    current frame
  POST /draw?x=&y=   draw the image in the request body
  POST /initialize   initialize the display
  POST /restart      restart the display
  POST /finalize     finalize the display`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.imageDisplay()
			if err != nil {
				return err
			}
			if pattern {
				if err = d.Draw(0, 0, draw.Pattern(d.Bounds().Size(), "panel", 0)); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := server.New(d, a.log)
			if err = s.ListenAndServe(ctx, a.cfg.Server.Listen); err != nil {
				a.log.Error("Preview server error", "err", err)
				return err
			}
			a.log.Info("Preview server stopped", "revision", s.Revision())
			return d.Finalize()
		},
	}
	cmd.Flags().String("listen", "", "Listen address")
	cmd.Flags().BoolVar(&pattern, "pattern", false, "Start with the test pattern drawn")
	a.bind(cmd.Flags(), "server.listen", "listen")
	return cmd
}
