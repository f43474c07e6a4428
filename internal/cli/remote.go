package cli

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/internal/client"
)

func (a *app) client() *client.Client {
	return client.New(a.cfg.Server.URL)
}

func newPushCommand(a *app) *cobra.Command {
	var x, y int
	cmd := &cobra.Command{
		Use:   "push <image>",
		Short: "Draw an image on the preview server",
		Long:  `Draws a PNG, JPEG or GIF image at the given offset on a running preview server.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := decodeFile(args[0])
			if err != nil {
				return err
			}

			c := a.client()
			defer func() { _ = c.Close() }()

			rev, err := c.Push(cmd.Context(), x, y, img)
			if err != nil {
				a.log.Errorf("Error pushing image: %v", err)
				return err
			}
			a.log.Info("Pushed image", "file", args[0], "x", x, "y", y, "revision", rev)
			return nil
		},
	}
	cmd.Flags().IntVarP(&x, "x", "x", 0, "Horizontal offset")
	cmd.Flags().IntVarP(&y, "y", "y", 0, "Vertical offset")
	return cmd
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get the preview server status",
		Long:  `Returns the status of the display of a running preview server.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.client()
			defer func() { _ = c.Close() }()

			status, err := c.Status(cmd.Context())
			if err != nil {
				a.log.Errorf("Error getting status: %v", err)
				return err
			}
			if !client.Compatible(status.Version) {
				a.log.Warn("Server version differs", "server", status.Version, "client", panel.Version)
			}
			printJSONColored(a.log, status)
			return nil
		},
	}
}

func newRestartCommand(a *app) *cobra.Command {
	return newRemoteCommand(a, "restart", "Restart the display of the preview server", "Display restarted", (*client.Client).Restart)
}

func newFinalizeCommand(a *app) *cobra.Command {
	return newRemoteCommand(a, "finalize", "Finalize the display of the preview server", "Display finalized", (*client.Client).Finalize)
}

func newRemoteCommand(a *app, name, short, done string, call func(*client.Client, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.client()
			defer func() { _ = c.Close() }()

			if err := call(c, cmd.Context()); err != nil {
				a.log.Errorf("Error sending %s: %v", name, err)
				return err
			}
			a.log.Info(done, "url", a.cfg.Server.URL)
			return nil
		},
	}
}

func decodeFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}
