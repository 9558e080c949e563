// Package config handles persistent user configuration: the ScreenSettings
// an operator arranges (columns, sort order, tree mode, header meter
// layout) survive across runs in an XDG-located config.yml.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenPeeDeeP/xdg"
	yaml "github.com/goccy/go-yaml"
)

// AppConfig carries the process-level settings (from flags/environment)
// plus the loaded, mergeable UserConfig.
type AppConfig struct {
	Debug     bool
	Version   string
	Commit    string
	BuildDate string

	UserConfig *UserConfig
	ConfigDir  string
}

// NewAppConfig locates (creating if absent) the XDG config directory,
// loads config.yml merged over GetDefaultConfig, and returns the
// resulting AppConfig.
func NewAppConfig(version, commit, date string, debug bool) (*AppConfig, error) {
	configDir, err := findOrCreateConfigDir("proctop")
	if err != nil {
		return nil, err
	}

	userConfig, err := loadUserConfigWithDefaults(configDir)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		Version:    version,
		Commit:     commit,
		BuildDate:  date,
		Debug:      debug || os.Getenv("DEBUG") == "TRUE",
		UserConfig: userConfig,
		ConfigDir:  configDir,
	}, nil
}

func configDir(projectName string) string {
	if envDir := os.Getenv("CONFIG_DIR"); envDir != "" {
		return envDir
	}
	dirs := xdg.New("", projectName)
	return dirs.ConfigHome()
}

func findOrCreateConfigDir(projectName string) (string, error) {
	folder := configDir(projectName)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}
	return folder, nil
}

func loadUserConfigWithDefaults(configDir string) (*UserConfig, error) {
	base := GetDefaultConfig()
	return loadUserConfig(configDir, &base)
}

func loadUserConfig(configDir string, base *UserConfig) (*UserConfig, error) {
	fileName := filepath.Join(configDir, "config.yml")

	if _, err := os.Stat(fileName); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		file, err := os.Create(fileName)
		if err != nil {
			return nil, err
		}
		file.Close()
	}

	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(content)) == "" {
		return base, nil
	}
	if err := yaml.Unmarshal(content, base); err != nil {
		return nil, err
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// WriteToUserConfig applies update to the saved config.yml (re-read fresh
// so concurrent edits outside the process aren't clobbered) and persists
// the result. Its one caller is pkg/app, which saves the screen settings
// when the setup screen closes.
func (c *AppConfig) WriteToUserConfig(update func(*UserConfig) error) error {
	userConfig, err := loadUserConfig(c.ConfigDir, &UserConfig{})
	if err != nil {
		return err
	}
	if err := update(userConfig); err != nil {
		return err
	}

	file, err := os.OpenFile(c.ConfigFilename(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	defer file.Close()

	return yaml.NewEncoder(file).Encode(userConfig)
}

// ConfigFilename returns the path of the current config file.
func (c *AppConfig) ConfigFilename() string {
	return filepath.Join(c.ConfigDir, "config.yml")
}
