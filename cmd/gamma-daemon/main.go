package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
)

type options struct {
	configPath string
	verbose    bool
	logTopics  string
}

func main() {
	if err := NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewCommand builds the root command. With no subcommand it runs the daemon.
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gamma-daemon",
		Short: "Adjust display brightness when the power state changes",
		Long: `gamma-daemon polls the battery and AC adapter and sets the display
brightness from a configurable table whenever the power state changes.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the TOML config file")
	f.BoolVar(&opts.verbose, "verbose", false, "enable all verbose logging (equivalent to --log=all)")
	f.StringVar(&opts.logTopics, "log", "", "comma-separated log topics: power,backlight,policy,storage,sleep,mqtt (or 'all')")

	cmd.AddCommand(
		NewRunCommand(opts),
		NewStatusCommand(),
		NewHistoryCommand(),
		NewInitConfigCommand(opts),
		NewDisplaysCommand(),
	)

	return cmd
}

// NewRunCommand runs the daemon in the foreground.
func NewRunCommand(opts *options) *cobra.Command {
	var resetDB bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resetDB {
				return resetDatabase(cmd, opts)
			}
			return runDaemon(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&resetDB, "reset-db", false, "delete the history database and exit")

	return cmd
}

func resetDatabase(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(cfg.Storage.DBPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete database: %w", err)
		}
	}
	cmd.Printf("database deleted: %s\n", cfg.Storage.DBPath)
	return nil
}
