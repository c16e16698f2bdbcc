package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "ropewalk.yaml"

// Config holds all ropewalk configuration.
type Config struct {
	// Simulation settings
	Simulation SimulationConfig `yaml:"simulation"`

	// Grid rendering
	Render RenderConfig `yaml:"render"`

	// Input watcher
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SimulationConfig configures rope runs.
type SimulationConfig struct {
	// Knot counts to simulate for every input; each gets an independent rope.
	Knots []int `yaml:"knots"`

	// Malformed line policy: abort or skip
	ParsePolicy string `yaml:"parse_policy"`

	// Maximum number of input files simulated at once
	Parallelism int `yaml:"parallelism"`
}

// RenderConfig configures the grid renderer.
type RenderConfig struct {
	Color        bool   `yaml:"color"`
	VisitedColor string `yaml:"visited_color"` // lipgloss color, e.g. "10" or "#00ff00"
	KnotColor    string `yaml:"knot_color"`
}

// WatchConfig configures the input watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Knots:       []int{2, 10},
			ParsePolicy: "abort",
			Parallelism: 4,
		},

		Render: RenderConfig{
			Color:        false,
			VisitedColor: "10",
			KnotColor:    "13",
		},

		Watch: WatchConfig{
			Debounce: "300ms",
		},

		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Missing file: defaults plus environment
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ROPEWALK_KNOTS"); v != "" {
		knots, err := parseKnotList(v)
		if err != nil {
			return fmt.Errorf("ROPEWALK_KNOTS: %w", err)
		}
		c.Simulation.Knots = knots
	}
	if v := os.Getenv("ROPEWALK_POLICY"); v != "" {
		c.Simulation.ParsePolicy = v
	}
	if v := os.Getenv("ROPEWALK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ROPEWALK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	return nil
}

// parseKnotList parses a comma separated list such as "2,10".
func parseKnotList(s string) ([]int, error) {
	var knots []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid knot count %q", field)
		}
		knots = append(knots, n)
	}
	return knots, nil
}

// GetWatchDebounce returns the watcher debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// ValidParsePolicies lists the accepted parse_policy values.
var ValidParsePolicies = []string{"abort", "skip"}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Simulation.Knots) == 0 {
		return fmt.Errorf("%w: simulation.knots is empty", ErrInvalid)
	}
	for _, n := range c.Simulation.Knots {
		if n < 2 {
			return fmt.Errorf("%w: knot count %d is below 2 (a rope needs a head and a tail)", ErrInvalid, n)
		}
	}

	validPolicy := false
	for _, p := range ValidParsePolicies {
		if strings.EqualFold(c.Simulation.ParsePolicy, p) {
			validPolicy = true
			break
		}
	}
	if !validPolicy {
		return fmt.Errorf("%w: parse policy %q (valid: %v)", ErrInvalid, c.Simulation.ParsePolicy, ValidParsePolicies)
	}

	if c.Simulation.Parallelism < 1 {
		return fmt.Errorf("%w: simulation.parallelism must be at least 1", ErrInvalid)
	}

	return nil
}
