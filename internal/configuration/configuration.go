package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/tavisz/chatterbox/internal/file"
)

// Placeholder values written by the default config. Either one left in place
// means the backend was never configured and the tool runs in demo mode.
const (
	placeholderSubdomain = "your-subdomain"
	placeholderRegion    = "your-region"
)

var defaultConfig = Config{
	RequestTimeout: 30,

	Nhost: &NhostConfig{
		Subdomain: placeholderSubdomain,
		Region:    placeholderRegion,
	},

	Chat: &ChatConfig{
		Database: "~/.config/chatterbox/chats.db",
	},
}

// Config holds configuration for the chatterbox tool.
type Config struct {
	RequestTimeout int `json:"request_timeout"`

	Nhost *NhostConfig `json:"nhost"`
	Chat  *ChatConfig  `json:"chat"`
}

// NhostConfig identifies the Nhost backend instance to talk to.
type NhostConfig struct {
	Subdomain string `json:"subdomain"`
	Region    string `json:"region"`
}

// ChatConfig holds configuration for chatterbox chat.
type ChatConfig struct {
	// The sqlite database backing demo mode.
	Database string `json:"database"`
}

// Demo reports whether the tool should run against the local demo store
// instead of a configured backend.
func (c *Config) Demo() bool {
	if c.Nhost == nil {
		return true
	}
	if c.Nhost.Subdomain == "" || c.Nhost.Region == "" {
		return true
	}
	return c.Nhost.Subdomain == placeholderSubdomain || c.Nhost.Region == placeholderRegion
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	// Environment overrides beat the file, so a hosted backend can be pointed
	// at without editing the config.
	if subdomain := os.Getenv("NHOST_SUBDOMAIN"); subdomain != "" {
		config.Nhost.Subdomain = subdomain
	}
	if region := os.Getenv("NHOST_REGION"); region != "" {
		config.Nhost.Region = region
	}

	expandedDatabasePath, err := file.ExpandPath(config.Chat.Database)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Chat.Database = expandedDatabasePath
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
