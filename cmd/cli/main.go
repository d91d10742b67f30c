// Command jamistate inspects and updates the local profile and transfer state.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/jami-localstate/internal/appdir"
	"github.com/and161185/jami-localstate/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env carries the resolved settings shared by subcommands.
type env struct {
	cfg  config.Config
	dirs appdir.XDG
	log  *zap.Logger
	out  io.Writer
}

func newRootCmd() *cobra.Command {
	var (
		dataDir string
		debug   bool
		e       env
	)

	cmd := &cobra.Command{
		Use:           "jamistate",
		Short:         "Local profile and file-transfer state of a messaging client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if debug {
				cfg.LogLevel = "debug"
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			e.cfg, e.dirs, e.log, e.out = cfg, appdir.XDG{Base: cfg.DataDir}, log, cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "application data directory (overrides JAMI_DATA_DIR)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jamistate %s (%s)\n", version, buildDate)
		},
	})
	cmd.AddCommand(newProfilesCmd(&e))
	cmd.AddCommand(newTransfersCmd(&e))
	return cmd
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Debug() {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
