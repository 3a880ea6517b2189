package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spillover/internal/config"
	"spillover/internal/jira"
	"spillover/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath     string
	baseURL        string
	credentialFile string
	logLevel       string
	logFormat      string
	timeout        time.Duration
}

// appCfg is the merged configuration, assembled in initApp before any
// subcommand runs.
var appCfg config.Config

var rootCmd = &cobra.Command{
	Use:   "spillover",
	Short: "Sprint-spillover reporting for Jira projects",
	Long: "Spillover finds issues that were worked across multiple sprints within\n" +
		"a recent window, resolves their epics, and emits a tabular report.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: initApp,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to config file (YAML or JSON)")
	pf.StringVar(&rootFlags.baseURL, "base-url", "", "Jira base URL (e.g. https://jira.example.com)")
	pf.StringVar(&rootFlags.credentialFile, "credential-file", "", "Path to the one-line user:token credential file")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format (text|json)")
	pf.DurationVar(&rootFlags.timeout, "timeout", 0, "HTTP timeout for Jira requests")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func initApp(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if rootFlags.baseURL != "" {
		cfg.BaseURL = rootFlags.baseURL
	}
	if rootFlags.credentialFile != "" {
		cfg.CredentialFile = rootFlags.credentialFile
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.LogFormat = rootFlags.logFormat
	}
	if rootFlags.timeout > 0 {
		cfg.HTTPTimeout = rootFlags.timeout
	}
	cfg.Normalize()

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	appCfg = cfg
	return nil
}

// newClient reads the credential and constructs the Jira client. A missing
// credential file is fatal before any network activity.
func newClient() (*jira.Client, error) {
	cred, err := jira.ReadCredential(appCfg.CredentialFile)
	if err != nil {
		return nil, err
	}
	if appCfg.BaseURL == "" {
		return nil, fmt.Errorf("jira base URL is required (--base-url, SPILLOVER_BASE_URL, or config file)")
	}
	return jira.New(appCfg.BaseURL, cred,
		jira.WithLogger(logging.New("jira")),
		jira.WithTimeout(appCfg.HTTPTimeout),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
