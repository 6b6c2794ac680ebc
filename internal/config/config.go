// Package config loads the HCL configuration shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/klondike/internal/game"
)

// DefaultFile is the config path used when none is given.
const DefaultFile = "klondike.hcl"

// Config is the complete configuration
type Config struct {
	Rules   *RulesConfig   `hcl:"rules,block"`
	Server  *ServerConfig  `hcl:"server,block"`
	Play    *PlayConfig    `hcl:"play,block"`
	Logging *LoggingConfig `hcl:"logging,block"`
}

// RulesConfig holds the ruleset options
type RulesConfig struct {
	// MaxRecycles is unlimited when omitted
	MaxRecycles *int `hcl:"max_recycles,optional"`
}

// ServerConfig contains websocket server settings
type ServerConfig struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	IdleTimeout string `hcl:"idle_timeout,optional"`
	MaxSessions int    `hcl:"max_sessions,optional"`
}

// PlayConfig contains terminal client settings
type PlayConfig struct {
	SaveFile string `hcl:"save_file,optional"`
	NoColor  bool   `hcl:"no_color,optional"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `hcl:"level,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads an HCL file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Play == nil {
		c.Play = &PlayConfig{}
	}
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}

	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = "30m"
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = 1000
	}
	if c.Play.SaveFile == "" {
		c.Play.SaveFile = "klondike-save.yaml"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Rules.MaxRecycles != nil && *c.Rules.MaxRecycles < 0 {
		return fmt.Errorf("rules: max_recycles must not be negative, got %d", *c.Rules.MaxRecycles)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("server: max_sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if d, err := time.ParseDuration(c.Server.IdleTimeout); err != nil || d <= 0 {
		return fmt.Errorf("server: invalid idle_timeout %q", c.Server.IdleTimeout)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// GameRules converts the rules block into engine rules
func (c *Config) GameRules() game.Rules {
	if c.Rules.MaxRecycles == nil {
		return game.DefaultRules()
	}
	return game.Limited(*c.Rules.MaxRecycles)
}

// ServerAddress returns host:port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// IdleTimeout returns the parsed session idle timeout
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.IdleTimeout)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// LogLevel returns the parsed log level, defaulting to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
