// Package config assembles the runtime configuration from defaults, an
// optional YAML/JSON config file, a .env file, and SPILLOVER_* environment
// variables, in that precedence order. Command-line flags and interactive
// prompts overlay the result in the cmd layer, before the pipeline runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultWindowDays is the recency window applied when none is configured
// or the configured value does not parse.
const DefaultWindowDays = 10

// Config holds everything one report run needs.
type Config struct {
	BaseURL        string
	CredentialFile string
	Project        string
	WindowDays     int
	PageSize       int
	ExcludedTypes  []string
	OutputFile     string

	// Instance-specific custom field ids. Discover with `spillover fields`.
	SprintField      string
	EpicLinkField    string
	EpicNameField    string
	StoryPointsField string

	EpicWorkers int
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		CredentialFile:   ".jira-credentials",
		WindowDays:       DefaultWindowDays,
		PageSize:         100,
		ExcludedTypes:    []string{"Epic", "Risk"},
		OutputFile:       "issues_output.txt",
		SprintField:      "customfield_10020",
		EpicLinkField:    "customfield_10014",
		EpicNameField:    "customfield_10011",
		StoryPointsField: "customfield_10016",
		EpicWorkers:      1,
		HTTPTimeout:      30 * time.Second,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds the configuration: defaults, then the config file at path
// (optional; the default path is used when it exists), then .env, then
// environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		if _, err := os.Stat(DefaultFilePath); err == nil {
			path = DefaultFilePath
		}
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	// .env entries become process env vars; existing vars win.
	_ = godotenv.Load()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getenv("SPILLOVER_BASE_URL", c.BaseURL)
	c.CredentialFile = getenv("SPILLOVER_CREDENTIAL_FILE", c.CredentialFile)
	c.Project = getenv("SPILLOVER_PROJECT", c.Project)
	c.WindowDays = getenvInt("SPILLOVER_WINDOW_DAYS", c.WindowDays)
	c.PageSize = getenvInt("SPILLOVER_PAGE_SIZE", c.PageSize)
	c.OutputFile = getenv("SPILLOVER_OUTPUT_FILE", c.OutputFile)
	c.SprintField = getenv("SPILLOVER_SPRINT_FIELD", c.SprintField)
	c.EpicLinkField = getenv("SPILLOVER_EPIC_LINK_FIELD", c.EpicLinkField)
	c.EpicNameField = getenv("SPILLOVER_EPIC_NAME_FIELD", c.EpicNameField)
	c.StoryPointsField = getenv("SPILLOVER_POINTS_FIELD", c.StoryPointsField)
	c.EpicWorkers = getenvInt("SPILLOVER_EPIC_WORKERS", c.EpicWorkers)
	c.HTTPTimeout = getenvDuration("SPILLOVER_HTTP_TIMEOUT", c.HTTPTimeout)
	c.LogLevel = getenv("SPILLOVER_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("SPILLOVER_LOG_FORMAT", c.LogFormat)

	if v := strings.TrimSpace(os.Getenv("SPILLOVER_EXCLUDED_TYPES")); v != "" {
		c.ExcludedTypes = splitList(v)
	}
}

// Normalize clamps values to their invariants: the window stays positive
// (falling back to the default), page size and worker count stay at least 1.
func (c *Config) Normalize() {
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.EpicWorkers < 1 {
		c.EpicWorkers = 1
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
