package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/fapm/internal/credential"
	"github.com/nhle/fapm/internal/theme"
)

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget remembered session tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ring, err := credential.OpenKeyring(a.cfg.Keyring.FileDir)
			if err != nil {
				return err
			}
			if err := ring.Forget(); err != nil {
				return err
			}
			a.log.Info("Remembered session tokens removed")

			fmt.Fprintln(cmd.OutOrStdout(), theme.HelpStyle.Render(credential.AboutLogout))
			return nil
		},
	}
}
