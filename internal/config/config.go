// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML configuration file. All values act as
// defaults, command line flags override them.
type Settings struct {
	Process    ProcessSettings    `yaml:"process"`
	Watch      WatchSettings      `yaml:"watch"`
	Generation GenerationSettings `yaml:"generation"`
	Gossip     GossipSettings     `yaml:"gossip"`
	Villagers  VillagerSettings   `yaml:"villagers"`
}

// ProcessSettings selects the emulator process.
type ProcessSettings struct {
	Name string `yaml:"name"`
}

// WatchSettings holds the poll loop defaults.
type WatchSettings struct {
	Interval    Duration `yaml:"interval"`
	ReadSize    int      `yaml:"read_size"`
	Suppression Duration `yaml:"suppression"`
	PrintAll    bool     `yaml:"print_all"`
}

// GenerationSettings configures the chat completions endpoint.
type GenerationSettings struct {
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

// GossipSettings configures the rumor simulation.
type GossipSettings struct {
	Enabled   bool   `yaml:"enabled"`
	StatePath string `yaml:"state_path"`
	Topic     string `yaml:"topic"`
}

// VillagerSettings points at the character metadata store.
type VillagerSettings struct {
	Path string `yaml:"path"`
}

// Default returns the settings used without a config file.
func Default() *Settings {
	return &Settings{
		Process: ProcessSettings{
			Name: defaultProcessName,
		},
		Generation: GenerationSettings{
			Model: "gpt-4o-mini",
		},
		Gossip: GossipSettings{
			StatePath: "gossip_state.bin",
		},
	}
}

// Load reads a YAML settings file, expands ${VAR} environment
// references, and unmarshals it on top of the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	settings := Default()
	expanded := expandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return settings, nil
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "2s" or "1m30s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
