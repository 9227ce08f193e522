package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"

	"github.com/vsinha/factoratio/pkg/catalog/file"
	"github.com/vsinha/factoratio/pkg/plan"
)

func planCmd() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Resolve machine counts and rates for a target output",
		Description: `Resolve the production setup for a target output rate: expand the
recipe graph, balance every internal item flow, and report machine
counts, energy, fuel, and pollution per node.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML catalog file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "target",
				Aliases:  []string{"t"},
				Usage:    "Target output as item=rate, in items per second (e.g. iron-gear-wheel=2)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "prefer",
				Usage: "Force a producing recipe for an item, as item=recipe (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "external",
				Usage: "Item supplied from outside the setup (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "free",
				Usage: "Byproduct item whose surplus may leave the setup (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "module",
				Usage: "Slot a module into a recipe's machines, as recipe=module (repeatable)",
			},
			&cli.StringFlag{
				Name:  "time-unit",
				Value: "second",
				Usage: "Time unit for reported rates: second, minute, or hour",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, or yaml",
			},
		},
		Action: runPlan,
	}
}

func runPlan(_ context.Context, cmd *cli.Command) error {
	target, err := parseTarget(cmd.String("target"))
	if err != nil {
		return err
	}
	timeUnit, err := parseTimeUnit(cmd.String("time-unit"))
	if err != nil {
		return err
	}

	data, err := file.Load(cmd.String("catalog"))
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Info("catalog loaded",
		"path", cmd.String("catalog"),
		"items", len(data.Catalog.Items()))

	cfg := plan.BuildConfig{}
	if prefer := cmd.StringSlice("prefer"); len(prefer) > 0 {
		choices := make(map[plan.ItemID]plan.RecipeID)
		for _, p := range prefer {
			item, recipe, ok := strings.Cut(p, "=")
			if !ok {
				return fmt.Errorf("invalid --prefer %q, expected item=recipe", p)
			}
			choices[plan.ItemID(item)] = plan.RecipeID(recipe)
		}
		cfg.Selection = plan.Prefer(choices)
	}
	for _, item := range cmd.StringSlice("external") {
		cfg.ExternalInputs = append(cfg.ExternalInputs, plan.ItemID(item))
	}
	for _, item := range cmd.StringSlice("free") {
		cfg.FreeOutputs = append(cfg.FreeOutputs, plan.ItemID(item))
	}
	if mods := cmd.StringSlice("module"); len(mods) > 0 {
		cfg.Modules = make(map[plan.RecipeID][]plan.Module)
		for _, m := range mods {
			recipe, name, ok := strings.Cut(m, "=")
			if !ok {
				return fmt.Errorf("invalid --module %q, expected recipe=module", m)
			}
			module, found := data.Modules[name]
			if !found {
				return fmt.Errorf("unknown module %q", name)
			}
			id := plan.RecipeID(recipe)
			cfg.Modules[id] = append(cfg.Modules[id], module)
		}
	}

	start := time.Now()
	graph, err := plan.Build(target, data.Catalog, cfg)
	if err != nil {
		return fmt.Errorf("failed to build flow graph: %w", err)
	}
	result, err := plan.Solve(graph)
	if err != nil {
		return fmt.Errorf("failed to solve flow graph: %w", err)
	}
	metrics := plan.Report(result, graph, timeUnit)
	slog.Info("resolved",
		"nodes", len(graph.Nodes),
		"cycles", len(graph.CycleEdges),
		"elapsed", time.Since(start).String())

	return writeOutput(cmd.String("format"), target, result, metrics, cmd.String("time-unit"))
}

func parseTarget(s string) (plan.Demand, error) {
	item, rate, ok := strings.Cut(s, "=")
	if !ok {
		return plan.Demand{}, fmt.Errorf("invalid --target %q, expected item=rate", s)
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return plan.Demand{}, fmt.Errorf("invalid target rate %q: %w", rate, err)
	}
	return plan.Demand{Item: plan.ItemID(item), Rate: r}, nil
}

func parseTimeUnit(s string) (time.Duration, error) {
	switch s {
	case "second":
		return time.Second, nil
	case "minute":
		return time.Minute, nil
	case "hour":
		return time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported time unit: %s", s)
	}
}
