package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nightmarlin/birthdays"
	"github.com/nightmarlin/birthdays/internal/contacts"
)

func upcomingCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the soonest birthdays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.DefaultUpcomingLimit
			}

			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			days := a.cfg.DayCounter()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tWHEN\tDAYS\tNEXT")
			for _, c := range snap.Upcoming(a.today, limit, days) {
				b := c.Birthday.Time()
				_, _ = fmt.Fprintf(
					tw,
					"%s\t%s\t%d\t%s\n",
					c.Name,
					a.classify(c),
					days(a.today, b),
					birthdays.NextOccurrence(b, a.today).Format(contacts.DateLayout),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "how many to show, 0 for all (default from config)")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one contact's birthday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			b := c.Birthday.Time()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s\n", c.Name)
			_, _ = fmt.Fprintf(out, "  born:    %s\n", c.Birthday)
			_, _ = fmt.Fprintf(out, "  when:    %s\n", a.classify(c))
			_, _ = fmt.Fprintf(out, "  next:    %s\n", birthdays.NextOccurrence(b, a.today).Format(contacts.DateLayout))
			_, _ = fmt.Fprintf(out, "  days:    %d\n", a.cfg.DayCounter()(a.today, b))
			_, _ = fmt.Fprintf(out, "  turning: %d\n", birthdays.Turning(b, a.today))
			return nil
		},
	}
}
