package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func registerFlags(root *cobra.Command, a *app) {
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./panel.yaml)")
	root.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	root.Flags().Bool("show-config", false, "Dump resolved config")
	root.Flags().BoolP("version", "v", false, "Print version")

	flags := root.PersistentFlags()
	flags.Int("width", 0, "Display width")
	flags.Int("height", 0, "Display height")
	flags.String("rotation", "", "Display rotation in degrees counter clockwise, or cw, ccw, flip")
	flags.String("format", "", "Pixel format (rgba, gray, mono, mono-vertical, gray4, rgb555, rgb565)")
	flags.String("background", "", "Background color, a name or #rrggbb")
	flags.String("url", "", "Preview server URL")
	a.bind(flags, "display.width", "width")
	a.bind(flags, "display.height", "height")
	a.bind(flags, "display.rotation", "rotation")
	a.bind(flags, "display.format", "format")
	a.bind(flags, "display.background", "background")
	a.bind(flags, "server.url", "url")
}

// bind binds flag name of flags to the configuration key.
func (a *app) bind(flags *pflag.FlagSet, key, name string) {
	if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}
