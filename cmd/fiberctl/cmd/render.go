package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/go-drift/fiber/pkg/fiber"
	"github.com/go-drift/fiber/pkg/inspect"
	"github.com/go-drift/fiber/pkg/platform"
	"github.com/go-drift/fiber/pkg/terminal"
)

const (
	formatFlag  = "format"
	fibersFlag  = "fibers"
	timeoutFlag = "timeout"
)

func init() {
	RegisterCommand(func() *cli.Command {
		return &cli.Command{
			Name:  "render",
			Usage: "build a sample once and print the native tree",
			Description: `Render builds the selected sample on the host idle loop, waits for the
commit and prints the resulting native tree.

Formats: "markup" prints HTML-like text, "terminal" draws the tree with
terminal styles.`,
			Flags: append(appFlags(),
				&cli.StringFlag{
					Name:  formatFlag,
					Usage: `output format: "markup" or "terminal"`,
					Value: "markup",
				},
				&cli.BoolFlag{
					Name:  fibersFlag,
					Usage: "also print the committed fiber tree",
				},
				&cli.DurationFlag{
					Name:  timeoutFlag,
					Usage: "give up if the build does not commit in time",
					Value: 10 * time.Second,
				},
			),
			Action: runRender,
		}
	})
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	node, err := sample(cmd)
	if err != nil {
		return err
	}

	var (
		binding   platform.Binding
		container *platform.Element
		view      func() string
	)
	switch format := cmd.String(formatFlag); format {
	case "markup":
		container = platform.NewContainer("body")
		binding = platform.NewMemory()
		view = container.String
	case "terminal":
		screen := terminal.NewScreen()
		container = screen.Container()
		binding = screen
		view = screen.View
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration(timeoutFlag))
	defer cancel()

	type result struct {
		root  *fiber.Fiber
		stats fiber.BuildStats
	}
	committed := make(chan result, 1)
	failed := make(chan error, 1)

	loop := cfg.NewLoop(logger)
	opts := append(cfg.EngineOptions(logger),
		fiber.WithCommitHook(func(root *fiber.Fiber, stats fiber.BuildStats) {
			committed <- result{root, stats}
		}),
		fiber.WithErrorHook(func(err error) { failed <- err }),
	)
	engine := fiber.New(binding, loop, opts...)

	go loop.Run(ctx) //nolint:errcheck
	if err := engine.Render(node, container); err != nil {
		return err
	}

	var res result
	select {
	case res = <-committed:
	case err := <-failed:
		return err
	case <-ctx.Done():
		return fmt.Errorf("render did not commit: %w", ctx.Err())
	}

	fmt.Fprintln(os.Stdout, view())
	fmt.Fprintln(os.Stdout)
	if cmd.Bool(fibersFlag) {
		inspect.WriteFiberTable(os.Stdout, res.root)
	}
	fmt.Fprintln(os.Stdout, inspect.Summary(res.stats))
	fmt.Fprintf(os.Stdout, "digest: %016x\n", inspect.Digest(container))
	return nil
}
