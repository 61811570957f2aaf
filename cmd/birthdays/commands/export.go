package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nightmarlin/birthdays/internal/contacts"
)

func exportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every contact to a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			if err := contacts.WriteFile(out, snap); err != nil {
				return err
			}
			slog.InfoContext(ctx, "exported birthdays", slog.String("file", out), slog.Int("count", len(snap)))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d birthdays to %s\n", len(snap), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
