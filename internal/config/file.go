package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFilePath is the config file picked up when present and no
// explicit --config path is given.
const DefaultFilePath = "spillover.yaml"

// fileConfig mirrors Config for file decoding. Zero values mean "not set"
// and leave the current value in place.
type fileConfig struct {
	BaseURL        string   `yaml:"base_url" json:"base_url"`
	CredentialFile string   `yaml:"credential_file" json:"credential_file"`
	Project        string   `yaml:"project" json:"project"`
	WindowDays     int      `yaml:"window_days" json:"window_days"`
	PageSize       int      `yaml:"page_size" json:"page_size"`
	ExcludedTypes  []string `yaml:"excluded_types" json:"excluded_types"`
	OutputFile     string   `yaml:"output_file" json:"output_file"`

	Fields struct {
		Sprint      string `yaml:"sprint" json:"sprint"`
		EpicLink    string `yaml:"epic_link" json:"epic_link"`
		EpicName    string `yaml:"epic_name" json:"epic_name"`
		StoryPoints string `yaml:"story_points" json:"story_points"`
	} `yaml:"fields" json:"fields"`

	EpicWorkers int    `yaml:"epic_workers" json:"epic_workers"`
	HTTPTimeout string `yaml:"http_timeout" json:"http_timeout"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// applyFile overlays a YAML or JSON config file onto c. Format is detected
// by extension (.yaml/.yml/.json) or by content (leading '{' means JSON).
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	ext := strings.ToLower(filepath.Ext(path))
	isJSON := ext == ".json" ||
		(ext != ".yaml" && ext != ".yml" && strings.HasPrefix(strings.TrimSpace(string(data)), "{"))
	if isJSON {
		if err := json.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse config json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse config yaml: %w", err)
		}
	}

	setString(&c.BaseURL, fc.BaseURL)
	setString(&c.CredentialFile, fc.CredentialFile)
	setString(&c.Project, fc.Project)
	setInt(&c.WindowDays, fc.WindowDays)
	setInt(&c.PageSize, fc.PageSize)
	if len(fc.ExcludedTypes) > 0 {
		c.ExcludedTypes = fc.ExcludedTypes
	}
	setString(&c.OutputFile, fc.OutputFile)
	setString(&c.SprintField, fc.Fields.Sprint)
	setString(&c.EpicLinkField, fc.Fields.EpicLink)
	setString(&c.EpicNameField, fc.Fields.EpicName)
	setString(&c.StoryPointsField, fc.Fields.StoryPoints)
	setInt(&c.EpicWorkers, fc.EpicWorkers)
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("parse config http_timeout: %w", err)
		}
		c.HTTPTimeout = d
	}
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
