package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nightmarlin/birthdays"
	"github.com/nightmarlin/birthdays/internal/greeting"
)

func greetCmd(a *app) *cobra.Command {
	var memory string
	cmd := &cobra.Command{
		Use:   "greet NAME",
		Short: "Suggest birthday wishes for a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			h := greeting.NewHeadline(c.Name, a.classify(c))
			r := greeting.NewReminder(c, a.today, a.cfg.ReminderHour, a.cfg.ReminderMinute)
			wishes := greeting.Wishes(greeting.Answers{
				Name:    c.Name.String(),
				Turning: birthdays.Turning(c.Birthday.Time(), a.today),
				Memory:  memory,
			})

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s\n%s\n\n", h.Title, h.Subtitle)
			_, _ = fmt.Fprintf(out, "reminder at %s: %s\n\n", r.At.Format("2006-01-02 15:04"), r.Title)
			for _, w := range wishes {
				_, _ = fmt.Fprintf(out, "- %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&memory, "memory", "that one time", "a shared memory to mention")
	return cmd
}
