// Package config loads the optional fiber.yaml (or fiber.toml) project file
// and resolves engine, scheduler and logging settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/fiber"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// File names looked up by Load, in order.
const (
	YAMLFile = "fiber.yaml"
	TOMLFile = "fiber.toml"
)

// Config represents the optional project file.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler" toml:"scheduler"`
	Engine    EngineConfig    `yaml:"engine" toml:"engine"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// SchedulerConfig contains idle-slice settings as duration strings.
type SchedulerConfig struct {
	Budget         string `yaml:"budget,omitempty" toml:"budget"`
	Interval       string `yaml:"interval,omitempty" toml:"interval"`
	YieldThreshold string `yaml:"yield_threshold,omitempty" toml:"yield_threshold"`
}

// EngineConfig contains reconciliation settings.
type EngineConfig struct {
	// Prune removes native nodes of children that disappeared. Defaults to
	// true when unset.
	Prune *bool `yaml:"prune,omitempty" toml:"prune"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty" toml:"level"`
	Development bool   `yaml:"development,omitempty" toml:"development"`
}

// Resolved contains validated settings with defaults applied.
type Resolved struct {
	Source         string
	Budget         time.Duration
	Interval       time.Duration
	YieldThreshold time.Duration
	Prune          bool
	LogLevel       zapcore.Level
	Development    bool
}

// Default returns the settings used when no project file exists.
func Default() *Resolved {
	return &Resolved{
		Budget:         scheduler.DefaultBudget,
		Interval:       scheduler.DefaultInterval,
		YieldThreshold: fiber.DefaultYieldThreshold,
		Prune:          true,
		LogLevel:       zapcore.InfoLevel,
	}
}

// LoadOptional reads fiber.yaml or fiber.toml from dir if present. It
// returns an empty Config and an empty path when neither exists.
func LoadOptional(dir string) (*Config, string, error) {
	path := filepath.Join(dir, YAMLFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", configError(fmt.Errorf("failed to parse %s: %w", YAMLFile, err))
		}
		return &cfg, path, nil
	case !os.IsNotExist(err):
		return nil, "", configError(fmt.Errorf("failed to read %s: %w", YAMLFile, err))
	}

	path = filepath.Join(dir, TOMLFile)
	cfg, err := loadTOML(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, "", nil
		}
		return nil, "", configError(fmt.Errorf("failed to parse %s: %w", TOMLFile, err))
	}
	return cfg, path, nil
}

func loadTOML(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	// An explicit prune = false must survive; anything else defaults on.
	if !meta.IsDefined("engine", "prune") {
		cfg.Engine.Prune = nil
	}
	return &cfg, nil
}

// Resolve loads the project file in dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, source, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Source = source
	return r, nil
}

// Resolve validates c and fills defaults.
func (c *Config) Resolve() (*Resolved, error) {
	r := Default()

	var err error
	if r.Budget, err = parseDuration("scheduler.budget", c.Scheduler.Budget, r.Budget); err != nil {
		return nil, err
	}
	if r.Interval, err = parseDuration("scheduler.interval", c.Scheduler.Interval, r.Interval); err != nil {
		return nil, err
	}
	if r.YieldThreshold, err = parseDuration("scheduler.yield_threshold", c.Scheduler.YieldThreshold, r.YieldThreshold); err != nil {
		return nil, err
	}
	if r.Budget <= 0 || r.Interval <= 0 {
		return nil, configError(fmt.Errorf("scheduler budget and interval must be positive"))
	}
	if r.YieldThreshold < 0 || r.YieldThreshold > r.Budget {
		return nil, configError(fmt.Errorf("scheduler.yield_threshold %s must be within [0, budget]", r.YieldThreshold))
	}

	if c.Engine.Prune != nil {
		r.Prune = *c.Engine.Prune
	}

	if level := strings.TrimSpace(c.Log.Level); level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, configError(fmt.Errorf("log.level: %w", err))
		}
		r.LogLevel = lvl
	}
	r.Development = c.Log.Development
	return r, nil
}

// EngineOptions returns the fiber options matching r.
func (r *Resolved) EngineOptions(logger *zap.Logger) []fiber.Option {
	return []fiber.Option{
		fiber.WithPruning(r.Prune),
		fiber.WithYieldThreshold(r.YieldThreshold),
		fiber.WithLogger(logger),
	}
}

// NewLoop returns a host loop using r's slicing settings.
func (r *Resolved) NewLoop(logger *zap.Logger) *scheduler.Loop {
	loop := scheduler.NewLoop(r.Budget, r.Interval)
	loop.Logger = logger
	return loop
}

// NewLogger builds a zap logger at r's level.
func (r *Resolved) NewLogger() (*zap.Logger, error) {
	var zc zap.Config
	if r.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(r.LogLevel)
	return zc.Build()
}

func parseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, configError(fmt.Errorf("%s: %w", key, err))
	}
	return d, nil
}

func configError(err error) error {
	return &errors.EngineError{Op: "config.Resolve", Kind: errors.KindConfig, Err: err}
}
