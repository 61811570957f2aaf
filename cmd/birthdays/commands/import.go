package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the contacts in --file into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.file == "" {
				return errors.New("import needs --file")
			}
			ctx := cmd.Context()

			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			db, err := a.db(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.InsertBirthdays(ctx, snap); err != nil {
				return err
			}
			slog.InfoContext(ctx, "imported birthdays", slog.String("file", a.file), slog.Int("count", len(snap)))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d birthdays\n", len(snap))
			return nil
		},
	}
}
