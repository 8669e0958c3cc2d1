// Package cli implements the bastion command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bastion-cli/internal/adapters/driven/auth"
	configfile "github.com/custodia-labs/bastion-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bastion-cli/internal/adapters/driven/oauth"
	storagefile "github.com/custodia-labs/bastion-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// defaultScopes are requested when neither config nor flags narrow them.
var defaultScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/youtube.readonly",
}

// Persistent flags.
var (
	flagVerbose      bool
	flagConfigDir    string
	flagClientSecret string
	flagScopes       string
	flagFlow         string
	flagPort         int
)

// Wired services, built by initServices. Commands nil-check what they need.
var (
	cfg           driven.ConfigStore
	credStore     *storagefile.CredentialStore
	authService   driving.AuthService
	tokenProvider *services.CachedTokenProvider
	basePolicy    domain.RetryPolicy
	tokenPath     string

	// stopWatch terminates the token file watcher on exit.
	stopWatch chan struct{}
)

var rootCmd = &cobra.Command{
	Use:   "bastion",
	Short: "Authenticated API client for Google and GitHub services",
	Long: `Bastion manages OAuth credentials and drives authenticated API calls
with automatic token refresh, retry with backoff, and capped pagination.

Credentials are stored in ~/.bastion/token.json (owner-readable only)
and refreshed transparently before they expire.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if stopWatch != nil {
			close(stopWatch)
			stopWatch = nil
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(
		&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.bastion)")
	rootCmd.PersistentFlags().StringVar(
		&flagClientSecret, "client-secret", "", "Path to the OAuth client secret JSON file")
	rootCmd.PersistentFlags().StringVar(
		&flagScopes, "scopes", "", "OAuth scopes (comma-separated, defaults to read-only Google scopes)")
	rootCmd.PersistentFlags().StringVar(
		&flagFlow, "flow", "", "Authorization flow: loopback or manual (default loopback)")
	rootCmd.PersistentFlags().IntVar(
		&flagPort, "port", 0, "Fixed loopback callback port (default: any free port)")
}

// initServices wires the service graph from config and flags. The OAuth
// exchanger is only built when a client secret is configured; commands
// that need tokens report that themselves.
func initServices() error {
	authService = nil
	tokenProvider = nil

	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = store

	basePolicy = configfile.RetryPolicy(cfg)
	credStore = storagefile.NewCredentialStore()

	tokenPath = cfg.GetString("auth.token_file")
	if tokenPath == "" {
		tokenPath = filepath.Join(filepath.Dir(store.Path()), "token.json")
	}

	secretPath := flagClientSecret
	if secretPath == "" {
		secretPath = cfg.GetString("auth.client_secret")
	}
	if secretPath == "" {
		// No OAuth app configured. Commands needing tokens will say so.
		return nil
	}

	oauthCfg, err := oauth.LoadClientSecret(secretPath, scopes())
	if err != nil {
		return fmt.Errorf("load client secret: %w", err)
	}

	flowName := flagFlow
	if flowName == "" {
		flowName = cfg.GetString("auth.flow")
	}
	flow, err := auth.NewCodeFlow(flowName, flagPort)
	if err != nil {
		return err
	}

	exch := oauth.NewExchanger(oauthCfg)
	refresher := services.NewTokenRefresher(credStore, exch, flow, services.NewInvoker(basePolicy))
	authService = services.NewAuthService(refresher, credStore, tokenPath)
	tokenProvider = services.NewCachedTokenProvider(refresher, tokenPath)

	// Drop the in-memory token cache when another process rewrites or
	// removes the token file.
	stopWatch = make(chan struct{})
	if werr := tokenProvider.WatchFile(credStore, stopWatch); werr != nil {
		logger.Debug("token file watch unavailable: %v", werr)
	}

	return nil
}

// scopes resolves the OAuth scope list from flags, config, and defaults.
func scopes() []string {
	if flagScopes != "" {
		return splitScopes(flagScopes)
	}
	if configured := cfg.GetStringSlice("auth.scopes"); len(configured) > 0 {
		return configured
	}
	return defaultScopes
}

func splitScopes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// requireTokenProvider guards commands that make authenticated calls.
func requireTokenProvider() (*services.CachedTokenProvider, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf(
			"no OAuth app configured: pass --client-secret or set auth.client_secret in %s",
			configPathHint())
	}
	return tokenProvider, nil
}

func configPathHint() string {
	if cfg != nil {
		if s, ok := cfg.(*configfile.ConfigStore); ok {
			return s.Path()
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.bastion/config.toml"
	}
	return filepath.Join(home, ".bastion", "config.toml")
}
