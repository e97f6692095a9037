package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/myritu/internal/cli"
	"github.com/terraincognita07/myritu/internal/config"
)

func newResetPasswordCommand(configFile *string) *cobra.Command {
	var prompt bool

	cmd := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Reset a user's password",
		Long: `Reset a user's password directly in the database.

Without --prompt a temporary password is generated and printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only the database location is needed; a missing SECRET_KEY
			// must not block maintenance.
			cfg, err := config.Read(*configFile)
			if err != nil {
				return err
			}
			return cli.RunResetPasswordCommand(cmd.Context(), cli.ResetPasswordOptions{
				DBPath:   cfg.DBPath,
				Username: args[0],
				Prompt:   prompt,
				Stdin:    os.Stdin,
				Stdout:   cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().BoolVar(&prompt, "prompt", false, "read the new password from the terminal without echo")
	return cmd
}
