package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adminkit/adminctl/internal/config"
	"github.com/adminkit/adminctl/internal/core/api"
	"github.com/adminkit/adminctl/internal/core/session"
	"github.com/adminkit/adminctl/internal/util"
)

var (
	// Logging related
	debug bool

	// Backend connection
	baseURL       string
	apiKey        string
	cookieSession bool
	sessionFile   string

	// Output related
	outputFormat string
	timezone     string

	rootCmd = &cobra.Command{
		Use:   "adminctl",
		Short: "Admin console command-line client",
		Long: `adminctl is a command-line client for the admin console backend.

It covers the same surface as the web console: signing in (with MFA),
managing IAM users, browsing the activity timeline and reading the
dashboard stats.

Examples:
  adminctl login admin@example.com                   # Sign in
  adminctl users list                                # IAM user table
  adminctl activity --query login --category security_alert
  adminctl activity --from 2024-01-01 --to 2024-01-31 -o csv
  adminctl dashboard --watch                         # Live stats view`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

const defaultLogFile = "~/.adminctl/logs/app.log"

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&baseURL, "base-url", "",
		"Backend API base URL (default $ADMINCTL_BASE_URL)")
	flags.StringVar(&apiKey, "api-key", "",
		"API key sent with every request (default $ADMINCTL_API_KEY)")
	flags.BoolVar(&cookieSession, "cookie-session", false,
		"Use cookie-based sessions instead of bearer tokens")
	flags.StringVar(&sessionFile, "session-file", "",
		"Session token file (default ~/.adminctl/session.json)")
	flags.StringVarP(&outputFormat, "output", "o", "",
		"Output format (table, json, csv)")
	flags.StringVar(&timezone, "timezone", "",
		"Timezone for displayed dates (e.g., Asia/Shanghai, UTC)")
	flags.BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// setup initializes logging and the time provider before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	util.InitLogger(logLevel, logFile, debug)

	cfg := loadConfig()
	return util.InitializeTimeProvider(cfg.Timezone)
}

// loadConfig merges environment configuration with any flags the user set.
func loadConfig() config.Config {
	cfg := config.Load()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if cookieSession {
		cfg.CookieSession = true
	}
	if sessionFile != "" {
		cfg.SessionFile = sessionFile
	}
	if outputFormat != "" {
		cfg.Output = outputFormat
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	return cfg
}

// newClient builds the API client plus the file-backed session store the
// commands share.
func newClient() (*api.Client, *session.FileStore, config.Config, error) {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, cfg, err
	}

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return nil, nil, cfg, err
	}

	client, err := api.NewClient(api.Options{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		CookieSession: cfg.CookieSession,
		Timeout:       cfg.Timeout,
		Store:         store,
	})
	if err != nil {
		return nil, nil, cfg, err
	}
	return client, store, cfg, nil
}

// reportAuthError rewrites the irrecoverable-session error into a hint the
// user can act on.
func reportAuthError(err error) error {
	if api.IsAuthExpired(err) {
		return fmt.Errorf("session expired, run 'adminctl login' to sign in again")
	}
	return err
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
