package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/factoratio/pkg/plan"
)

// planReport is the serializable form of a resolved plan.
type planReport struct {
	Target    string            `json:"target" yaml:"target"`
	TimeUnit  string            `json:"timeUnit" yaml:"timeUnit"`
	Nodes     []nodeReport      `json:"nodes" yaml:"nodes"`
	Residuals map[string]string `json:"residuals" yaml:"residuals"`
}

type nodeReport struct {
	Node      int    `json:"node" yaml:"node"`
	Recipe    string `json:"recipe" yaml:"recipe"`
	Machine   string `json:"machine" yaml:"machine"`
	Count     string `json:"machineCountExact" yaml:"machineCountExact"`
	Ceiling   int64  `json:"machineCountCeiling" yaml:"machineCountCeiling"`
	Surplus   string `json:"surplusCapacity" yaml:"surplusCapacity"`
	Energy    string `json:"energyPerTimeUnit" yaml:"energyPerTimeUnit"`
	Fuel      string `json:"fuelPerTimeUnit,omitempty" yaml:"fuelPerTimeUnit,omitempty"`
	Pollution string `json:"pollutionPerTimeUnit" yaml:"pollutionPerTimeUnit"`
}

func writeOutput(format string, target plan.Demand, result *plan.ResolutionResult, metrics []plan.PerNodeMetrics, timeUnit string) error {
	report := buildReport(target, result, metrics, timeUnit)
	switch format {
	case "text":
		return writeText(report)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func buildReport(target plan.Demand, result *plan.ResolutionResult, metrics []plan.PerNodeMetrics, timeUnit string) planReport {
	report := planReport{
		Target:    fmt.Sprintf("%s=%s", target.Item, target.Rate),
		TimeUnit:  timeUnit,
		Residuals: make(map[string]string),
	}
	for _, m := range metrics {
		nr := nodeReport{
			Node:      int(m.NodeID),
			Recipe:    string(m.Recipe),
			Machine:   string(m.Machine),
			Count:     m.MachineCountExact.String(),
			Ceiling:   m.MachineCountCeiling,
			Surplus:   m.SurplusCapacity.String(),
			Energy:    m.EnergyPerTimeUnit.String(),
			Pollution: m.PollutionPerTimeUnit.String(),
		}
		if !m.FuelPerTimeUnit.IsZero() {
			nr.Fuel = m.FuelPerTimeUnit.String()
		}
		report.Nodes = append(report.Nodes, nr)
	}
	for item, residual := range result.Residuals {
		if residual.IsZero() {
			continue
		}
		report.Residuals[string(item)] = residual.String()
	}
	return report
}

func writeText(report planReport) error {
	fmt.Printf("Target: %s (per %s)\n\n", report.Target, report.TimeUnit)

	fmt.Printf("%-4s %-24s %-20s %12s %9s %14s %12s\n",
		"Node", "Recipe", "Machine", "Count", "Build", "Energy", "Pollution")
	for _, n := range report.Nodes {
		fmt.Printf("%-4d %-24s %-20s %12s %9d %14s %12s\n",
			n.Node, n.Recipe, n.Machine, n.Count, n.Ceiling, n.Energy, n.Pollution)
		if n.Fuel != "" {
			fmt.Printf("     fuel: %s per %s\n", n.Fuel, report.TimeUnit)
		}
	}

	if len(report.Residuals) > 0 {
		items := make([]string, 0, len(report.Residuals))
		for item := range report.Residuals {
			items = append(items, item)
		}
		sort.Strings(items)

		fmt.Printf("\nBoundary flows (per second):\n")
		for _, item := range items {
			fmt.Printf("  %-24s %s\n", item, report.Residuals[item])
		}
	}
	return nil
}
