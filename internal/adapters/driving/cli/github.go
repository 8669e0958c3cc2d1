package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bastion-cli/internal/connectors/github"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Query GitHub",
}

var githubReposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories you can access",
	RunE:  runGitHubRepos,
}

var githubIssuesCmd = &cobra.Command{
	Use:   "issues <owner>/<repo>",
	Short: "List open issues for a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runGitHubIssues,
}

var githubWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated GitHub user",
	RunE:  runGitHubWhoami,
}

var githubMax int64

func init() {
	githubReposCmd.Flags().Int64Var(&githubMax, "max", 30, "Maximum number of results")
	githubIssuesCmd.Flags().Int64Var(&githubMax, "max", 30, "Maximum number of results")

	githubCmd.AddCommand(githubReposCmd)
	githubCmd.AddCommand(githubIssuesCmd)
	githubCmd.AddCommand(githubWhoamiCmd)
	rootCmd.AddCommand(githubCmd)
}

// githubToken resolves the GitHub credential: the GITHUB_TOKEN
// environment variable wins, then the github.token config key.
func githubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if cfg != nil {
		if token := cfg.GetString("github.token"); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("no GitHub token: set GITHUB_TOKEN or github.token in %s", configPathHint())
}

func newGitHubClient() (*github.Client, error) {
	token, err := githubToken()
	if err != nil {
		return nil, err
	}

	// Personal access tokens cannot be refreshed, so no reauth callback.
	inv := services.NewInvoker(basePolicy).
		WithStatusFunc(github.StatusOf)
	return github.NewClient(services.NewStaticTokenProvider(token), inv), nil
}

func runGitHubRepos(cmd *cobra.Command, _ []string) error {
	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	repos, err := client.ListRepositories(cmd.Context(), githubMax)
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}
	if len(repos) == 0 {
		cmd.Println("No repositories found.")
		return nil
	}

	for _, r := range repos {
		s := github.SummariseRepo(r)
		visibility := "public"
		if s.Private {
			visibility = "private"
		}
		cmd.Printf("%-50.50s  %-7s  %6d★  %s\n", s.FullName, visibility, s.Stars, s.Language)
	}
	return nil
}

func runGitHubIssues(cmd *cobra.Command, args []string) error {
	owner, repo, ok := strings.Cut(args[0], "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("expected <owner>/<repo>, got %q", args[0])
	}

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	issues, err := client.ListIssues(cmd.Context(), owner, repo, githubMax)
	if err != nil {
		return fmt.Errorf("list issues: %w", err)
	}
	if len(issues) == 0 {
		cmd.Println("No open issues.")
		return nil
	}

	for _, i := range issues {
		s := github.SummariseIssue(i)
		cmd.Printf("#%-6d %-60.60s  @%s\n", s.Number, s.Title, s.Author)
	}
	return nil
}

func runGitHubWhoami(cmd *cobra.Command, _ []string) error {
	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	user, err := client.GetAuthenticatedUser(cmd.Context())
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	cmd.Printf("%s (%s)\n", user.GetLogin(), user.GetName())
	return nil
}
