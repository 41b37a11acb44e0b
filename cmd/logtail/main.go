package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/logtail/internal/app"
	"github.com/bft-labs/logtail/internal/cliconfig"
	"github.com/bft-labs/logtail/pkg/log"
	"github.com/bft-labs/logtail/pkg/screen"
)

const longHelp = `Follow a growing log file in the terminal.

Only lines appended after start are shown, exactly as written. Type c and
press Enter at any time to clear the screen; Ctrl+C stops streaming.

Configuration is read from the config file, then LOGTAIL_* environment
variables, then flags; later sources win.`

var exampleUsage = strings.TrimSpace(`
  logtail
  logtail /var/log/app.log --polling-interval 0.2
  logtail --file app.log --on-missing fail
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := cliconfig.Logger()
		logger.Error().Err(err).Msg("logtail")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "logtail [file]",
		Short:         "Follow a growing log file and clear the screen on demand",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if len(args) == 1 {
				if changed["file"] && cfg.File != args[0] {
					return fmt.Errorf("file given both as argument (%s) and --file (%s)", args[0], cfg.File)
				}
				cfg.File = args[0]
				changed["file"] = true
			}

			if err := loadConfig(&cfg, cfgPath, changed); err != nil {
				return err
			}

			logger := cliconfig.LevelLogger(cfg)
			logger.Debug().Interface("config", cfg).Msg("configuration")

			// Interrupt handling for graceful shutdown
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case sig := <-sigCh:
					logger.Debug().Str("signal", sig.String()).Msg("received signal, stopping")
					cancel()
				case <-ctx.Done():
				}
			}()

			return runSession(ctx, cfg, logger)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.logtail/config.toml)")
	root.Flags().StringVar(&cfg.File, "file", cfg.File, "log file to follow")
	root.Flags().Float64Var(&cfg.PollingInterval, "polling-interval", cfg.PollingInterval, "seconds to wait between empty reads")
	root.Flags().StringVar(&cfg.OnMissing, "on-missing", cfg.OnMissing, "what to do when the file does not exist: create or fail")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "wake early on file change notifications")
	root.Flags().StringVar(&cfg.ClearMode, "clear-mode", cfg.ClearMode, "how to clear the screen: auto, command or ansi")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level (written to stderr)")

	return root
}

// loadConfig layers the config file and environment under explicitly set
// flags, then validates the result.
func loadConfig(cfg *cliconfig.Config, cfgPath string, changed map[string]bool) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cliconfig.ApplyFileConfig(cfg, fc, changed)
	} else if cfgPath != "" {
		return fmt.Errorf("load config: %s does not exist", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

func runSession(ctx context.Context, cfg cliconfig.Config, logger zerolog.Logger) error {
	mode, err := screen.ParseClearMode(cfg.ClearMode)
	if err != nil {
		return err
	}
	streams := app.Streams{
		In:      os.Stdin,
		Out:     os.Stdout,
		Clearer: screen.NewClearer(mode, os.Stdout),
		Hint:    screen.IsTerminal(os.Stdin),
	}
	return app.NewSession(cfg, streams, log.NewZerologAdapter(logger)).Run(ctx)
}
