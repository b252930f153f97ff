// Package cmd implements the fiberctl commands.
//
// The root command carries the flags shared by every subcommand (project
// directory and log level); subcommands register themselves from init.
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/fiber/internal/demo"
	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

const (
	dirFlag      = "dir"
	logLevelFlag = "log-level"
	appFlag      = "app"
	breadthFlag  = "breadth"
	depthFlag    = "depth"
)

// newRootCmd builds a fresh command tree, so Execute can run repeatedly.
func newRootCmd() *cli.Command {
	root := &cli.Command{
		Name:    "fiberctl",
		Usage:   "drive the incremental fiber reconciler",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Description: `fiberctl builds the sample applications with the fiber engine.

Settings are read from fiber.yaml (or fiber.toml) in the project directory.
Use "fiberctl <command> --help" for more information about a command.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  dirFlag,
				Usage: "directory containing fiber.yaml or fiber.toml",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "override the configured log level",
			},
		},
	}
	for _, newCmd := range commands {
		root.Commands = append(root.Commands, newCmd())
	}
	return root
}

// Commands registered with the CLI.
var commands []func() *cli.Command

// RegisterCommand adds a subcommand constructor to the CLI.
func RegisterCommand(newCmd func() *cli.Command) {
	commands = append(commands, newCmd)
}

// Execute runs the CLI with the given arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCmd().Run(ctx, args)
}

// appFlags are shared by commands that build a sample tree.
func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  appFlag,
			Usage: `sample to build: "demo" or "tree"`,
			Value: "demo",
		},
		&cli.IntFlag{
			Name:  breadthFlag,
			Usage: "children per node for the tree sample",
			Value: 4,
		},
		&cli.IntFlag{
			Name:  depthFlag,
			Usage: "depth of the tree sample",
			Value: 5,
		},
	}
}

// sample returns the tree selected by the app flags.
func sample(cmd *cli.Command) (*element.Node, error) {
	switch app := cmd.String(appFlag); app {
	case "demo":
		return element.C(demo.App, nil), nil
	case "tree":
		breadth, depth := int(cmd.Int(breadthFlag)), int(cmd.Int(depthFlag))
		if breadth < 1 || depth < 1 {
			return nil, fmt.Errorf("breadth and depth must be positive")
		}
		return demo.Tree(breadth, depth), nil
	default:
		return nil, fmt.Errorf("unknown app %q", app)
	}
}

// setup resolves the project settings and installs the logger used by the
// engine and the error handler.
func setup(cmd *cli.Command) (*config.Resolved, *zap.Logger, error) {
	cfg, err := config.Resolve(cmd.String(dirFlag))
	if err != nil {
		return nil, nil, err
	}
	if level := cmd.String(logLevelFlag); level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("--%s: %w", logLevelFlag, err)
		}
		cfg.LogLevel = lvl
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	errors.SetLogger(logger)
	if cfg.Source != "" {
		logger.Debug("loaded config", zap.String("path", cfg.Source))
	}
	return cfg, logger, nil
}
