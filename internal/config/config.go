package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bugsdev/bugs/internal/debug"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Precedence: project .bugsrc.yaml > ~/.config/bugs/config.yaml >
	// ~/.bugs/config.yaml. The project file is found by walking up from
	// CWD so commands work from subdirectories.
	configFileSet := false

	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".bugsrc.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "bugs", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".bugs", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// Environment variables take precedence over the config file.
	// E.g. BUGS_JSON, BUGS_AUTO_STATUS, BUGS_ISSUES_LOCATION.
	v.SetEnvPrefix("BUGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("json", false)
	v.SetDefault("default-priority", "medium")
	v.SetDefault("auto-status", true)
	v.SetDefault("colored-output", true)
	v.SetDefault("issues-location", "cwd")
	v.SetDefault("quick-win-minutes", 60)
	v.SetDefault("summary-hours", 24)

	// Server settings. An empty log file means <issues>/.cache/server.log.
	v.SetDefault("server.log-file", "")
	v.SetDefault("server.log-max-size", 10)
	v.SetDefault("server.log-max-backups", 3)

	// Suggestion settings. An empty model picks the package default.
	v.SetDefault("suggest.model", "")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		debug.Logf("loaded config from %s", v.ConfigFileUsed())
	} else {
		debug.Logf("no config file found; using defaults and environment variables")
	}

	return nil
}

// IssuesDir resolves the directory holding the record tree.
//
// The issues-location value selects the base:
//   - "cwd" (default): walk up from CWD for a directory containing
//     issues/; if none exists yet, CWD itself
//   - "home": ~/.bugs
//   - anything else: treated as a path to the base directory
//
// The record tree lives at <base>/issues.
func IssuesDir() string {
	location := GetString("issues-location")
	switch location {
	case "", "cwd":
		cwd, err := os.Getwd()
		if err != nil {
			return "issues"
		}
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			candidate := filepath.Join(dir, "issues")
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				return candidate
			}
		}
		return filepath.Join(cwd, "issues")
	case "home":
		home, err := os.UserHomeDir()
		if err != nil {
			return "issues"
		}
		return filepath.Join(home, ".bugs", "issues")
	default:
		return filepath.Join(location, "issues")
	}
}

// DefaultPriority returns the configured priority for new issues.
func DefaultPriority() string {
	return GetString("default-priority")
}

// AutoStatus reports whether checkpoint notes may trigger implicit
// status transitions.
func AutoStatus() bool {
	return GetBool("auto-status")
}

// ColoredOutput reports whether styled terminal output is enabled.
func ColoredOutput() bool {
	return GetBool("colored-output")
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
