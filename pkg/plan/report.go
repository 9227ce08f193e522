package plan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoratio/pkg/units"
)

// PerNodeMetrics projects one solved node into machine counts and
// resource rates. Rates are scaled to the time unit passed to Report.
type PerNodeMetrics struct {
	NodeID  NodeID
	Recipe  RecipeID
	Machine MachineID

	// MachineCountExact is the solved throughput multiplier; the
	// ceiling is the number of whole machines to build, and surplus is
	// the spare capacity those machines carry.
	MachineCountExact    decimal.Decimal
	MachineCountCeiling  int64
	SurplusCapacity      decimal.Decimal

	EnergyPerCycle       units.Energy
	EnergyPerTimeUnit    units.Energy
	FuelPerTimeUnit      decimal.Decimal
	PollutionPerTimeUnit decimal.Decimal
}

var secondsPerMinute = decimal.NewFromInt(60)

// Report computes per-node machine counts, energy, fuel, and pollution
// for a solved graph. It is a pure projection: no solving happens here,
// and neither input is mutated.
func Report(result *ResolutionResult, graph *FlowGraph, timeUnit time.Duration) []PerNodeMetrics {
	unitSeconds := decimal.NewFromFloat(timeUnit.Seconds())

	metrics := make([]PerNodeMetrics, 0, len(result.Nodes))
	for _, sol := range result.Nodes {
		node := graph.Node(sol.NodeID)
		m := PerNodeMetrics{
			NodeID:            sol.NodeID,
			Recipe:            sol.Recipe,
			Machine:           sol.Machine,
			MachineCountExact: sol.Throughput,
		}
		m.MachineCountCeiling = sol.Throughput.Ceil().IntPart()
		m.SurplusCapacity = decimal.NewFromInt(m.MachineCountCeiling).Sub(sol.Throughput)

		craftTime := node.CycleTime()
		energyMult := node.EnergyMultiplier()

		// Active power of one machine: drain plus modified usage.
		power := node.Machine.Drain.Add(node.Machine.EnergyUsage.Mul(energyMult))
		m.EnergyPerCycle = power.OverTime(craftTime)
		totalPower := power.Mul(sol.Throughput)
		m.EnergyPerTimeUnit = totalPower.OverTime(unitSeconds)

		// Divisions happen last so the rates stay exact whenever the
		// operands divide evenly.
		if fuel := node.Machine.Fuel; fuel != nil && !fuel.Energy.IsZero() {
			m.FuelPerTimeUnit = totalPower.Decimal().
				Mul(unitSeconds).
				Div(fuel.Energy.Decimal())
		}

		// The pollution stat is per minute while operating.
		m.PollutionPerTimeUnit = node.Machine.Pollution.
			Mul(node.PollutionMultiplier()).
			Mul(energyMult).
			Mul(sol.Throughput).
			Mul(unitSeconds).
			Div(secondsPerMinute)

		metrics = append(metrics, m)
	}
	return metrics
}
