package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/gamma-daemon/internal/backlight"
	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
	dbussvc "github.com/cptspacemanspiff/gamma-daemon/internal/dbus"
)

// NewStatusCommand prints the daemon's latest decision.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current brightness decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newDBusClient()
			if err != nil {
				return err
			}
			state, err := c.GetCurrentState()
			if err != nil {
				return fmt.Errorf("is gamma-daemon running? %w", err)
			}
			printState(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

// NewHistoryCommand prints recent decisions.
func NewHistoryCommand() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent brightness decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if since <= 0 {
				return fmt.Errorf("--since must be positive, got %s", since)
			}
			c, err := newDBusClient()
			if err != nil {
				return err
			}
			to := time.Now()
			data, err := c.GetHistory(to.Add(-since), to)
			if err != nil {
				return fmt.Errorf("is gamma-daemon running? %w", err)
			}
			printHistory(cmd.OutOrStdout(), data.Decisions)
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", time.Hour, "how far back to look")

	return cmd
}

// NewInitConfigCommand writes the default config to --config.
func NewInitConfigCommand(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			}
			if err := config.Save(opts.configPath, config.DefaultConfig()); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", opts.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// NewDisplaysCommand lists the backlight devices.
func NewDisplaysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List backlight devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devs, err := backlight.Enumerate()
			if err != nil {
				return err
			}
			printDisplays(cmd.OutOrStdout(), devs)
			return nil
		},
	}
}

func printState(w io.Writer, state *dbussvc.CurrentState) {
	fmt.Fprintf(w, "display:     %s\n", state.Display)
	b := state.Brightness
	fmt.Fprintf(w, "table:       full=%d low=%d (<=%d%%) charging=%d discharging=%d ac_in=%d unknown=%d (unused)\n",
		b.Full, b.Low, b.LowThresholdPercent, b.Charging, b.Discharging, b.ACIn, b.Unknown)
	if state.Latest == nil {
		fmt.Fprintln(w, "latest:      none recorded")
		return
	}
	fmt.Fprint(w, "latest:      ")
	printDecision(w, *state.Latest)
}

func printHistory(w io.Writer, decisions []daemon.Decision) {
	if len(decisions) == 0 {
		fmt.Fprintln(w, "no decisions in range")
		return
	}
	for _, d := range decisions {
		printDecision(w, d)
	}
}

func printDecision(w io.Writer, d daemon.Decision) {
	ac := "battery"
	if d.ACPlugged {
		ac = "ac"
	}
	ts := time.Unix(d.Timestamp, 0).Format(time.DateTime)
	if d.Applied {
		fmt.Fprintf(w, "%s  %-11s %-7s %5.1f%%  -> %s\n", ts, d.Status, ac, d.ChargePct, color.GreenString("%d", d.Value))
		return
	}
	fmt.Fprintf(w, "%s  %-11s %-7s %5.1f%%  -> %d %s %s\n", ts, d.Status, ac, d.ChargePct, d.Value,
		color.New(color.Bold, color.FgRed).Sprint("FAILED:"), d.Error)
}

func printDisplays(w io.Writer, devs []backlight.Device) {
	for _, d := range devs {
		fmt.Fprintf(w, "%s\tmax=%d\t%s\n", d.Name, d.MaxBrightness, d.Path)
	}
}
