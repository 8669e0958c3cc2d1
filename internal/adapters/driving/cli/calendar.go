package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	googleconn "github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/connectors/google/calendar"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Query Google Calendar",
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming events",
	Long: `List upcoming calendar events, soonest first.

Examples:
  bastion calendar list --max 10
  bastion calendar list --calendar work@example.com --from 2026-09-01`,
	RunE: runCalendarList,
}

var (
	calendarID   string
	calendarFrom string
	calendarMax  int64
)

func init() {
	calendarListCmd.Flags().StringVar(&calendarID, "calendar", "primary", "Calendar ID")
	calendarListCmd.Flags().StringVar(&calendarFrom, "from", "", "Start of the window (YYYY-MM-DD, default now)")
	calendarListCmd.Flags().Int64Var(&calendarMax, "max", 25, "Maximum number of events")

	calendarCmd.AddCommand(calendarListCmd)
	rootCmd.AddCommand(calendarCmd)
}

func runCalendarList(cmd *cobra.Command, _ []string) error {
	provider, err := requireTokenProvider()
	if err != nil {
		return err
	}

	from := time.Now()
	if calendarFrom != "" {
		parsed, perr := time.ParseInLocation("2006-01-02", calendarFrom, time.Local)
		if perr != nil {
			return fmt.Errorf("bad --from date %q: expected YYYY-MM-DD", calendarFrom)
		}
		from = parsed
	}

	ctx := cmd.Context()
	client, err := calendar.NewClient(ctx, googleconn.NewTokenSource(ctx, provider), newGoogleInvoker(provider))
	if err != nil {
		return err
	}

	events, err := client.ListEvents(ctx, calendarID, from, calendarMax)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		cmd.Println("No upcoming events.")
		return nil
	}

	for _, ev := range events {
		s := calendar.Summarise(ev)
		when := s.Start.Local().Format("2006-01-02 15:04")
		if s.AllDay {
			when = s.Start.Format("2006-01-02") + " (all day)"
		}
		cmd.Printf("%-22s  %s\n", when, s.Title)
	}
	return nil
}
