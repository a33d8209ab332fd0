package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultStepTimeout is how long one install step may run.
const DefaultStepTimeout = time.Hour

// Config represents the complete installer configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Output  OutputConfig  `toml:"output"`
}

// GeneralConfig contains execution settings.
type GeneralConfig struct {
	// StepTimeout kills a step that runs longer than this.
	StepTimeout Duration `toml:"step_timeout"`

	// TempDir is the root for web script working directories. Empty uses os.TempDir().
	TempDir string `toml:"temp_dir"`

	// Confirm asks before running the plan (like --interactive).
	Confirm bool `toml:"confirm"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose prints every command before it runs.
	Verbose bool `toml:"verbose"`
}

// Duration is a time.Duration written as a string ("1h", "90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			StepTimeout: Duration{DefaultStepTimeout},
			TempDir:     "",
			Confirm:     false,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Parse the config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if cfg.General.StepTimeout.Duration <= 0 {
		return nil, fmt.Errorf("config %s: step_timeout must be positive", path)
	}

	return cfg, nil
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}

// ScriptTempRoot returns the directory under which web scripts are downloaded.
func (c *Config) ScriptTempRoot() string {
	if c.General.TempDir != "" {
		return c.General.TempDir
	}
	return os.TempDir()
}
