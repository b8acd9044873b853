package main

import (
	"fmt"
	"strings"

	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/logging"
	"github.com/danmuck/packetctl/internal/observability"
	"github.com/danmuck/packetctl/internal/packet"
	"github.com/urfave/cli/v2"
)

const metadataConfig = "packetctl.config"

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML config file",
		EnvVars: []string{"PACKETCTL_CONFIG"},
	}
	strategyFlag = &cli.StringFlag{
		Name:  "strategy",
		Usage: "decoder traversal: stack|recursive",
	}
	maxDepthFlag = &cli.IntFlag{
		Name:  "max-depth",
		Usage: "maximum packet nesting depth",
	}
	maxInputFlag = &cli.Int64Flag{
		Name:  "max-input-bytes",
		Usage: "reject inputs larger than this many bytes",
	}
	metricsFileFlag = &cli.StringFlag{
		Name:  "metrics-file",
		Usage: "write Prometheus text metrics to this path on exit",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "trace|debug|info|warn|error|off",
	}

	globalFlags = []cli.Flag{
		configFlag,
		strategyFlag,
		maxDepthFlag,
		maxInputFlag,
		metricsFileFlag,
		logLevelFlag,
	}
)

// packetctl config resolution: defaults, then the TOML file, then flags.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := strings.TrimSpace(c.String(configFlag.Name)); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet(strategyFlag.Name) {
		strategy, err := packet.ParseStrategy(c.String(strategyFlag.Name))
		if err != nil {
			return config.Config{}, err
		}
		cfg.Strategy = strategy
	}
	if c.IsSet(maxDepthFlag.Name) {
		cfg.MaxDepth = c.Int(maxDepthFlag.Name)
	}
	if c.IsSet(maxInputFlag.Name) {
		cfg.MaxInputBytes = c.Int64(maxInputFlag.Name)
	}
	if c.IsSet(metricsFileFlag.Name) {
		cfg.MetricsFile = strings.TrimSpace(c.String(metricsFileFlag.Name))
	}
	if c.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = strings.TrimSpace(c.String(logLevelFlag.Name))
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func loadRuntime(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[metadataConfig] = cfg
	return nil
}

func runtimeConfig(c *cli.Context) config.Config {
	if cfg, ok := c.App.Metadata[metadataConfig].(config.Config); ok {
		return cfg
	}
	return config.Default()
}

func writeMetrics(c *cli.Context) error {
	cfg := runtimeConfig(c)
	if cfg.MetricsFile == "" {
		return nil
	}
	if err := observability.WriteTextfile(cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
