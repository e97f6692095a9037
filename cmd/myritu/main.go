package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "myritu",
		Short: "Menstrual cycle tracking, prediction and phase insights",
		Long: `myritu tracks logged periods, predicts upcoming cycles and explains the
current cycle phase with its typical hormone pattern.

Commands:
  serve           Run the JSON API
  reset-password  Reset a user's password from the server host
  forecast        Print predictions for a cycle without a database`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		newServeCommand(&configFile),
		newResetPasswordCommand(&configFile),
		newForecastCommand(),
	)
	return root
}
