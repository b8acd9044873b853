package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/packetctl/internal/logging"
	"github.com/danmuck/packetctl/internal/packet"
)

// Config holds runtime settings for packetctl.
type Config struct {
	Strategy      packet.Strategy
	MaxDepth      int
	MaxInputBytes int64
	LogLevel      string
	MetricsFile   string
}

// fileConfig is the packetctl.toml key mapping.
type fileConfig struct {
	Strategy      string `toml:"strategy"`
	MaxDepth      int    `toml:"max_depth"`
	MaxInputBytes int64  `toml:"max_input_bytes"`
	LogLevel      string `toml:"log_level"`
	MetricsFile   string `toml:"metrics_file"`
}

func Default() Config {
	return Config{
		Strategy:      packet.StrategyStack,
		MaxDepth:      packet.DefaultLimits().MaxDepth,
		MaxInputBytes: 1 << 20,
		LogLevel:      "warn",
	}
}

// Limits converts the decode settings for packet.NewDecoder.
func (c Config) Limits() packet.Limits {
	return packet.Limits{MaxDepth: c.MaxDepth}
}

// Load overlays the keys defined in the TOML file at path onto Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load packetctl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load packetctl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("strategy") {
		strategy, err := packet.ParseStrategy(raw.Strategy)
		if err != nil {
			return Config{}, fmt.Errorf("load packetctl config: %w", err)
		}
		cfg.Strategy = strategy
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("max_input_bytes") {
		cfg.MaxInputBytes = raw.MaxInputBytes
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_file") {
		cfg.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load packetctl config: %w", err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, err := packet.ParseStrategy(string(cfg.Strategy)); err != nil {
		return err
	}
	if cfg.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", cfg.MaxDepth)
	}
	if cfg.MaxInputBytes < 1 {
		return fmt.Errorf("max_input_bytes must be positive, got %d", cfg.MaxInputBytes)
	}
	if cfg.LogLevel != "" {
		if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
		}
	}
	return nil
}
