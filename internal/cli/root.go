// Package cli implements the panel command.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/internal/config"
)

// app holds the state shared by the commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	log     *log.Logger
	cfg     *config.Config
}

// NewRootCommand returns the panel command with all subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "panel",
		Short: "Drive displays and preview what is drawn on them",
		Long: `Panel drives displays with an explicit initialize/finalize lifecycle.

It renders test frames, serves an in-memory display over HTTP for previews,
pushes images to a running preview server and drives SSD1306 and SH1106 OLED
panels and Linux framebuffers.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runRoot,
	}
	registerFlags(root, a)

	root.AddCommand(
		newRenderCommand(a),
		newServeCommand(a),
		newPushCommand(a),
		newStatusCommand(a),
		newRestartCommand(a),
		newFinalizeCommand(a),
		newOLEDCommand(a),
		newFramebufferCommand(a),
	)
	return root
}

// Execute runs the panel command. This is called by main.main().
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup configures logging and loads the configuration.
func (a *app) setup(cmd *cobra.Command, _ []string) (err error) {
	a.log = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Prefix:          "panel",
	})
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		a.log.SetLevel(log.DebugLevel)
		panel.SetLogger(slog.New(a.log))
	}

	file := a.cfgFile
	if file == "" {
		file = config.DefaultFile
	}
	if a.cfg, err = config.Load(file, a.v); err != nil {
		a.log.Error("Error loading configuration", "file", file, "err", err)
		return err
	}
	a.log.Debug("Configuration loaded", "file", file)
	return nil
}

func (a *app) runRoot(cmd *cobra.Command, _ []string) error {
	if v, err := cmd.Flags().GetBool("show-config"); err == nil && v {
		a.log.Infof("Using config file: %v", a.configFile())
		a.log.Infof("All settings:")
		printJSONColored(a.log, a.cfg)
		return nil
	}
	if v, err := cmd.Flags().GetBool("version"); err == nil && v {
		printVersion(a.log)
		return nil
	}
	return cmd.Help()
}

func (a *app) configFile() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	if _, err := os.Stat(config.DefaultFile); errors.Is(err, os.ErrNotExist) {
		return "(none)"
	}
	return config.DefaultFile
}
