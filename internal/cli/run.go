package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barpipe/barpipe/internal/config"
	"github.com/barpipe/barpipe/internal/process"
	"github.com/barpipe/barpipe/internal/relay"
)

// runFlags holds command-line flags for the run command.
type runFlags struct {
	configPath      string
	generatorConfig string
}

// newRunCommand creates the run subcommand.
func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [flags] [-- <generator-command> [generator-args...]]",
		Short: "Relay a status-line generator to stdout",
		Long: `Run launches the generator, forces click_events on in its protocol
header, and forwards every subsequent line of the stream verbatim.

With no generator command the configuration file decides what to
launch, defaulting to i3status.

Example:
  barpipe run
  barpipe run --generator-config ~/.config/i3status/config
  barpipe run -- i3status -c /etc/i3status.conf`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelay(cmd, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to the barpipe configuration file")
	cmd.Flags().StringVar(&flags.generatorConfig, "generator-config", "", "Configuration file forwarded to the generator")

	return cmd
}

func runRelay(cmd *cobra.Command, flags *runFlags, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown gracefully
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	executable := cfg.Generator
	extraArgs := cfg.Args
	if len(args) > 0 {
		executable = args[0]
		extraArgs = args[1:]
	}

	genCmd, err := process.NewCommand(executable, extraArgs)
	if err != nil {
		return fmt.Errorf("invalid generator command: %w", err)
	}

	generatorConfig := cfg.GeneratorConfig
	if flags.generatorConfig != "" {
		generatorConfig = flags.generatorConfig
	}
	if generatorConfig != "" {
		genCmd = genCmd.WithConfigFile(generatorConfig)
	}

	logger := log.New(os.Stderr, "[barpipe] ", log.LstdFlags)
	if cfg.Debug {
		logger.Printf("relaying: %s", genCmd)
	}

	// One fatal error ends the run; nothing is retried. Log it here
	// and exit rather than crashing abnormally.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	r := relay.New(process.NewOSLauncher(), genCmd, os.Stdout, logger)
	err = r.Run(ctx)

	switch {
	case ctx.Err() != nil:
		logger.Printf("shutting down")
		return nil
	case errors.Is(err, io.EOF):
		logger.Printf("generator closed its output, exiting")
		return nil
	default:
		logger.Printf("relay failed: %v", err)
		return err
	}
}
