package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/fapm/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var noEmojis, keepRe bool
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the whole archive to an mbox file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore(s, &err)

			messages, err := s.AllMessages(cmd.Context())
			if err != nil {
				return err
			}

			f, err := openOutput(args[0])
			if err != nil {
				return err
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing %s: %w", args[0], cerr)
				}
			}()

			n, err := export.Mbox(f, messages, export.Options{Emojis: !noEmojis, KeepRe: keepRe})
			if err != nil {
				return err
			}
			a.log.WithField("file", args[0]).Infof("Exported %d message%s", n, plural(n))
			fmt.Fprintf(cmd.OutOrStdout(), "%d message%s written to %s\n", n, plural(n), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&noEmojis, "no-emojis", "e", false, "Replace smilies with BBCode text")
	cmd.Flags().BoolVarP(&keepRe, "keep-re", "r", false, "Do not strip RE: from message subjects")
	return cmd
}
