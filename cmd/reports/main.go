// Command reports runs the attendance report jobs by hand. Emails are sent
// in-process instead of through the worker queue.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"rollcall.io/application/repository"
	report_usecase "rollcall.io/application/usecases/report"
	"rollcall.io/infrastructure/auth"
	"rollcall.io/infrastructure/database"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/env"
	"rollcall.io/infrastructure/logger"
	messagequeue "rollcall.io/infrastructure/message_queue"
	"rollcall.io/infrastructure/message_queue/inline"
	queue_tasks "rollcall.io/infrastructure/message_queue/tasks"
	"rollcall.io/infrastructure/messaging/emails"
)

func init() {
	env.LoadEnv()
}

func setUp() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	emails.InitialiseEmailService()
	broker := &inline.InlineBroker{Synchronous: true}
	broker.Start(queue_tasks.Handlers())
	messagequeue.TaskQueue = broker
}

func cleanUp() {
	datastore.CleanUp()
	logger.Sync()
}

func monthlyCommand() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Generate monthly attendance reports and email them",
		RunE: func(cmd *cobra.Command, args []string) error {
			setUp()
			defer cleanUp()
			reporter := report_usecase.NewReporter()
			target, err := report_usecase.ParseMonth(month, reporter.Clock.Now())
			if err != nil {
				return err
			}
			reports, err := reporter.GenerateMonthlyReports(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d reports for %s\n", len(reports), target.Format("2006-01"))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM, defaults to the previous month")
	return cmd
}

func dailyCommand() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Email each person a summary of the attendance they marked on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			setUp()
			defer cleanUp()
			reporter := report_usecase.NewReporter()
			day := reporter.Clock.Now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("date must look like 2006-01-02: %w", err)
				}
				day = parsed
			}
			sent, err := reporter.SendDailyReports(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d daily reports for %s\n", sent, day.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD, defaults to today")
	return cmd
}

// tokenCommand issues a bearer token for an existing person, for operators
// and integration tests. There is no login flow in the API.
func tokenCommand() *cobra.Command {
	var personID string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			setUp()
			defer cleanUp()
			person, err := repository.PersonRepo().FindByID(cmd.Context(), personID)
			if err != nil {
				return fmt.Errorf("could not load person %s: %w", personID, err)
			}
			if !person.Active {
				return fmt.Errorf("person %s is not active", personID)
			}
			token, err := auth.GenerateAuthToken(auth.ClaimsData{
				PersonID:  person.ID,
				Email:     person.Email,
				Role:      string(person.Role),
				ExpiresAt: time.Now().Add(ttl).Unix(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), *token)
			return nil
		},
	}
	cmd.Flags().StringVar(&personID, "person", "", "person id")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.MarkFlagRequired("person")
	return cmd
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "reports",
		Short:         "Attendance report jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(monthlyCommand(), dailyCommand(), tokenCommand())
	return root
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
