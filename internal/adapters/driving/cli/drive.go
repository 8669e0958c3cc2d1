package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	googleconn "github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/connectors/google/drive"
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Query Google Drive",
}

var driveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files",
	Long: `List Google Drive files.

Examples:
  bastion drive list --max 50
  bastion drive list --query "name contains 'report' and trashed = false"`,
	RunE: runDriveList,
}

var (
	driveQuery string
	driveMax   int64
)

func init() {
	driveListCmd.Flags().StringVarP(&driveQuery, "query", "q", "", "Drive search query")
	driveListCmd.Flags().Int64Var(&driveMax, "max", 50, "Maximum number of files")

	driveCmd.AddCommand(driveListCmd)
	rootCmd.AddCommand(driveCmd)
}

func runDriveList(cmd *cobra.Command, _ []string) error {
	provider, err := requireTokenProvider()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := drive.NewClient(ctx, googleconn.NewTokenSource(ctx, provider), newGoogleInvoker(provider))
	if err != nil {
		return err
	}

	files, err := client.ListFiles(ctx, driveQuery, driveMax)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if len(files) == 0 {
		cmd.Println("No files found.")
		return nil
	}

	for _, f := range files {
		s := drive.Summarise(f)
		kind := "file"
		if s.IsFolder {
			kind = "dir"
		}
		cmd.Printf("%-4s  %s  %-40.40s  %s\n", kind, s.Modified.Local().Format("2006-01-02"), s.Name, s.ID)
	}
	return nil
}
