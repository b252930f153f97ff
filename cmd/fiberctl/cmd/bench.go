package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/go-drift/fiber/internal/demo"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/fiber"
	"github.com/go-drift/fiber/pkg/platform"
	"github.com/go-drift/fiber/pkg/scheduler"
)

const (
	iterationsFlag = "iterations"
	costFlag       = "cost"
)

func init() {
	RegisterCommand(func() *cli.Command {
		return &cli.Command{
			Name:  "bench",
			Usage: "measure refresh builds over sample trees",
			Description: `Bench renders each sample once, then times repeated Update builds.

Every sample runs twice: once in a single unbounded slice and once sliced
with the configured budget, where each deadline check costs --cost of
simulated time.`,
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  iterationsFlag,
					Usage: "refresh builds per sample",
					Value: 200,
				},
				&cli.DurationFlag{
					Name:  costFlag,
					Usage: "simulated time consumed per unit in sliced runs",
					Value: 50 * time.Microsecond,
				},
			},
			Action: runBench,
		}
	})
}

type benchCase struct {
	name string
	node func() *element.Node
}

func runBench(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	iters := int(cmd.Int(iterationsFlag))
	if iters < 1 {
		return fmt.Errorf("--%s must be positive", iterationsFlag)
	}
	cost := cmd.Duration(costFlag)

	cases := []benchCase{
		{"demo", func() *element.Node { return element.C(demo.App, nil) }},
		{"tree 4^4", func() *element.Node { return demo.Tree(4, 4) }},
		{"tree 8^3", func() *element.Node { return demo.Tree(8, 3) }},
		{"tree 3^7", func() *element.Node { return demo.Tree(3, 7) }},
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Refresh builds")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "units", "slices", "avg", "min", "p75", "p99", "max"})

	for _, bc := range cases {
		for _, sliced := range []bool{false, true} {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := benchOne(bc, sliced, iters, cost, cfg.Budget, cfg.EngineOptions(logger))
			if err != nil {
				return err
			}
			tbl.AppendRows([]table.Row{row})
		}
	}

	tbl.Render()
	return nil
}

func benchOne(bc benchCase, sliced bool, iters int, cost, budget time.Duration, opts []fiber.Option) (table.Row, error) {
	sched := scheduler.NewManual()
	if sliced {
		sched.CostPerCheck = cost
	}

	var last fiber.BuildStats
	opts = append(opts, fiber.WithCommitHook(func(_ *fiber.Fiber, s fiber.BuildStats) { last = s }))
	engine := fiber.New(platform.NewMemory(), sched, opts...)

	drain := func() error {
		maxSlices := 1_000_000
		if !sliced {
			maxSlices = 1
		}
		step := func() bool { return sched.StepUnbounded() }
		if sliced {
			step = func() bool { return sched.Step(budget) }
		}
		for i := 0; i < maxSlices && engine.Pending(); i++ {
			step()
		}
		if engine.Pending() {
			return fmt.Errorf("%s: build did not finish", bc.name)
		}
		return engine.Err()
	}

	if err := engine.Render(bc.node(), platform.NewContainer("body")); err != nil {
		return nil, err
	}
	if err := drain(); err != nil {
		return nil, err
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := engine.Update(); err != nil {
			return nil, err
		}
		if err := drain(); err != nil {
			return nil, err
		}
		tach.AddTime(time.Since(start))
	}

	name := bc.name
	if sliced {
		name += " (sliced)"
	}
	calc := tach.Calc()
	return table.Row{
		name,
		humanize.Comma(int64(last.Units)),
		humanize.Comma(int64(last.Slices)),
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	}, nil
}
