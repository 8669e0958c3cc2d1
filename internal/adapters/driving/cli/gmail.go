package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	googleconn "github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/connectors/google/gmail"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

var gmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Query Gmail",
}

var gmailListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages",
	Long: `List Gmail messages, newest first.

Examples:
  bastion gmail list --max 20
  bastion gmail list --query "from:billing@example.com is:unread"`,
	RunE: runGmailList,
}

var (
	gmailQuery string
	gmailMax   int64
)

func init() {
	gmailListCmd.Flags().StringVarP(&gmailQuery, "query", "q", "", "Gmail search query")
	gmailListCmd.Flags().Int64Var(&gmailMax, "max", 25, "Maximum number of messages")

	gmailCmd.AddCommand(gmailListCmd)
	rootCmd.AddCommand(gmailCmd)
}

// newGoogleInvoker builds the retry layer for Google API calls: status
// classification via googleapi errors and one credential re-validation
// on 401.
func newGoogleInvoker(provider *services.CachedTokenProvider) *services.Invoker {
	return services.NewInvoker(basePolicy).
		WithStatusFunc(googleconn.StatusOf).
		WithReauth(provider.Reauth())
}

func runGmailList(cmd *cobra.Command, _ []string) error {
	provider, err := requireTokenProvider()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := gmail.NewClient(ctx, googleconn.NewTokenSource(ctx, provider), newGoogleInvoker(provider))
	if err != nil {
		return err
	}

	msgs, err := client.ListMessages(ctx, gmailQuery, gmailMax)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}
	if len(msgs) == 0 {
		cmd.Println("No messages found.")
		return nil
	}

	for _, ref := range msgs {
		msg, err := client.GetMessage(ctx, ref.Id)
		if err != nil {
			return fmt.Errorf("fetch message %s: %w", ref.Id, err)
		}
		s := gmail.Summarise(msg)
		cmd.Printf("%s  %-30.30s  %s\n", s.Date.Local().Format("2006-01-02 15:04"), s.From, s.Subject)
	}
	return nil
}
