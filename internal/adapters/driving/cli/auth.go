package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored OAuth credential",
	Long: `Log in, inspect, and remove the OAuth credential Bastion uses for
authenticated API calls.

Login opens the provider's consent page in your browser and captures the
authorization code on a loopback port. On headless machines use
--flow manual to paste the code instead.

Examples:
  # First-time login (opens browser)
  bastion auth login --client-secret ~/.bastion/client_secret.json

  # Headless login
  bastion auth login --flow manual

  # Inspect the stored credential
  bastion auth status

  # Remove the stored credential
  bastion auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the interactive authorization flow",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credential's state",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored credential",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured: pass --client-secret or set auth.client_secret")
	}

	cred, err := authService.Login(cmd.Context())
	if err != nil {
		var authErr *domain.AuthorizationError
		if errors.As(err, &authErr) && authErr.Code == "access_denied" {
			return fmt.Errorf("authorization was denied in the browser")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Logged in. Token valid until %s.\n", cred.Expiry.Local().Format(time.RFC1123))
	if !cred.HasRefreshToken() {
		cmd.Println("Warning: no refresh token was granted; you will need to log in again when the token expires.")
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured: pass --client-secret or set auth.client_secret")
	}

	cred, err := authService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if cred == nil {
		cmd.Println("Not logged in.")
		return nil
	}

	if cred.IsExpired() {
		if cred.HasRefreshToken() {
			cmd.Println("Token expired; it will be refreshed on next use.")
		} else {
			cmd.Println("Token expired and no refresh token is stored. Run 'bastion auth login'.")
		}
	} else {
		cmd.Printf("Logged in. Token valid until %s.\n", cred.Expiry.Local().Format(time.RFC1123))
		if info, uerr := google.GetUserInfo(cmd.Context(), cred.AccessToken); uerr == nil {
			cmd.Printf("Account: %s\n", info.Email)
		} else {
			logger.Debug("could not fetch account identity: %v", uerr)
		}
	}

	if len(cred.Scopes) > 0 {
		cmd.Println("Scopes:")
		for _, scope := range cred.Scopes {
			cmd.Printf("  %s\n", scope)
		}
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured: pass --client-secret or set auth.client_secret")
	}

	if err := authService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Credential removed.")
	return nil
}
