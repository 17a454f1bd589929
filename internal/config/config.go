package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer" yaml:"analyzer"`
	Editor   EditorConfig   `mapstructure:"editor" yaml:"editor"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AnalyzerConfig tunes the project analyzer and the file loader feeding it.
type AnalyzerConfig struct {
	MaxFileSize   int64         `mapstructure:"max_file_size" yaml:"max_file_size"`
	IgnoreDirs    []string      `mapstructure:"ignore_dirs" yaml:"ignore_dirs"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`
}

// EditorConfig holds the tunable constants of the graph editor. The packet
// and simulation timings are cosmetic and deliberately configurable.
type EditorConfig struct {
	MinZoom           float64       `mapstructure:"min_zoom" yaml:"min_zoom"`
	MaxZoom           float64       `mapstructure:"max_zoom" yaml:"max_zoom"`
	AnimationTick     time.Duration `mapstructure:"animation_tick" yaml:"animation_tick"`
	PacketSpeed       float64       `mapstructure:"packet_speed" yaml:"packet_speed"`
	AttackSimDuration time.Duration `mapstructure:"attack_sim_duration" yaml:"attack_sim_duration"`
}

// AIConfig configures the AI node-generation client.
type AIConfig struct {
	Endpoint       string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxElapsed     time.Duration `mapstructure:"max_elapsed" yaml:"max_elapsed"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec" yaml:"requests_per_sec"`
}

// ServerConfig holds the HTTP server settings for the serve command.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "altx-canvas")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Analyzer --
	v.SetDefault("analyzer.max_file_size", int64(1<<20))
	v.SetDefault("analyzer.ignore_dirs", []string{"node_modules", ".git", "dist", "build", "vendor", "__pycache__"})
	v.SetDefault("analyzer.watch_debounce", "300ms")

	// -- Editor --
	v.SetDefault("editor.min_zoom", 0.5)
	v.SetDefault("editor.max_zoom", 2.0)
	v.SetDefault("editor.animation_tick", "50ms")
	v.SetDefault("editor.packet_speed", 0.02)
	v.SetDefault("editor.attack_sim_duration", "3s")

	// -- AI --
	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.timeout", "20s")
	v.SetDefault("ai.max_elapsed", "45s")
	v.SetDefault("ai.requests_per_sec", 1.0)

	// -- Server --
	v.SetDefault("server.addr", ":8420")
	v.SetDefault("server.shutdown_timeout", "10s")
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults above.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Editor.MinZoom <= 0 {
		return fmt.Errorf("editor.min_zoom must be positive")
	}
	if c.Editor.MaxZoom < c.Editor.MinZoom {
		return fmt.Errorf("editor.max_zoom must be >= editor.min_zoom")
	}
	if c.Editor.AnimationTick <= 0 {
		return fmt.Errorf("editor.animation_tick must be a positive duration")
	}
	if c.Editor.PacketSpeed <= 0 || c.Editor.PacketSpeed >= 1 {
		return fmt.Errorf("editor.packet_speed must be in (0, 1)")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be a positive duration")
	}
	if c.Analyzer.MaxFileSize <= 0 {
		return fmt.Errorf("analyzer.max_file_size must be positive")
	}
	return nil
}
