// Package plan resolves production ratios: it expands a target output
// rate into a flow graph of recipe nodes and solves for the machine
// counts that balance every internal item flow, including feedback
// loops, using exact rational arithmetic.
package plan

import (
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoratio/pkg/units"
)

// ItemID identifies an item or fluid in the catalog.
type ItemID string

// RecipeID identifies a recipe in the catalog.
type RecipeID string

// MachineID identifies a machine kind in the catalog.
type MachineID string

// NodeID identifies a node within one FlowGraph. IDs are assigned in
// expansion order and are stable for a given build input.
type NodeID int

// External is the pseudo node ID used on edges that cross the graph
// boundary: the demand sink and designated external inputs.
const External NodeID = -1

// Item represents a catalog item. Items carry no mutable state and are
// referenced by ID from recipes.
type Item struct {
	ID    ItemID
	Type  string
	Order string
}

// Ingredient is an item in some per-cycle quantity, used on both sides
// of a recipe.
type Ingredient struct {
	Item   ItemID
	Amount decimal.Decimal
}

// Recipe is a timed transformation of input items into output items.
// Duration is the base cycle time in seconds at craft speed one.
type Recipe struct {
	ID       RecipeID
	Inputs   []Ingredient
	Outputs  []Ingredient
	Duration decimal.Decimal
}

// Output returns the output ingredient for the given item.
func (r Recipe) Output(item ItemID) (Ingredient, bool) {
	for _, ing := range r.Outputs {
		if ing.Item == item {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// Input returns the input ingredient for the given item.
func (r Recipe) Input(item ItemID) (Ingredient, bool) {
	for _, ing := range r.Inputs {
		if ing.Item == item {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// Module modifies the operation of the machine it is slotted into. All
// effects are additive percentages expressed as real numbers, e.g.
// +30% -> 0.30, -15% -> -0.15.
type Module struct {
	Name         string
	Tier         int
	Energy       decimal.Decimal
	Speed        decimal.Decimal
	Productivity decimal.Decimal
	Pollution    decimal.Decimal
}

// Fuel is burned by burner machines to produce energy.
type Fuel struct {
	ID     string
	Energy units.Energy
}

// Machine is a kind of producer that crafts recipes. CraftSpeed divides
// the recipe duration; Pollution is the base output per minute while
// operating. A non-nil Fuel marks a burner machine.
type Machine struct {
	ID          MachineID
	Name        string
	CraftSpeed  decimal.Decimal
	ModuleSlots int
	EnergyUsage units.Power
	Drain       units.Power
	Pollution   decimal.Decimal
	Fuel        *Fuel
}

// DefaultMachine is assumed for recipes with no machine assignment:
// unit craft speed, no slots, no energy model.
func DefaultMachine() Machine {
	return Machine{ID: "default", CraftSpeed: decimal.New(1, 0)}
}

// Node is one (recipe, machine kind, module set) instance in a
// FlowGraph. Its unknown throughput multiplier is solved by Solve; a
// multiplier of one corresponds to one machine crafting continuously.
type Node struct {
	ID      NodeID
	Recipe  Recipe
	Machine Machine
	Modules []Module
}

func (n *Node) moduleSum(pick func(Module) decimal.Decimal) decimal.Decimal {
	total := decimal.New(1, 0)
	for _, m := range n.Modules {
		total = total.Add(pick(m))
	}
	return total
}

// SpeedMultiplier returns the node's crafting speed multiplier.
func (n *Node) SpeedMultiplier() decimal.Decimal {
	return n.moduleSum(func(m Module) decimal.Decimal { return m.Speed })
}

// EnergyMultiplier returns the node's energy usage multiplier.
func (n *Node) EnergyMultiplier() decimal.Decimal {
	return n.moduleSum(func(m Module) decimal.Decimal { return m.Energy })
}

// ProductivityMultiplier returns the node's bonus-product multiplier.
// Productivity applies to outputs only.
func (n *Node) ProductivityMultiplier() decimal.Decimal {
	return n.moduleSum(func(m Module) decimal.Decimal { return m.Productivity })
}

// PollutionMultiplier returns the node's pollution multiplier.
func (n *Node) PollutionMultiplier() decimal.Decimal {
	return n.moduleSum(func(m Module) decimal.Decimal { return m.Pollution })
}

// CycleTime returns the effective duration of one crafting cycle in
// seconds: the recipe duration divided by the modified craft speed.
func (n *Node) CycleTime() decimal.Decimal {
	return n.Recipe.Duration.Div(n.Machine.CraftSpeed.Mul(n.SpeedMultiplier()))
}

// cycleTimeRat is the exact rational form of CycleTime, used by the
// solver to keep conservation equations free of rounding.
func (n *Node) cycleTimeRat() *big.Rat {
	t := n.Recipe.Duration.Rat()
	return t.Quo(t, new(big.Rat).Mul(n.Machine.CraftSpeed.Rat(), n.SpeedMultiplier().Rat()))
}

// productionCoeff returns the exact per-multiplier production rate of
// item: output amount times productivity over effective cycle time.
// Returns nil if the node does not produce the item.
func (n *Node) productionCoeff(item ItemID) *big.Rat {
	out, ok := n.Recipe.Output(item)
	if !ok {
		return nil
	}
	rate := new(big.Rat).Mul(out.Amount.Rat(), n.ProductivityMultiplier().Rat())
	return rate.Quo(rate, n.cycleTimeRat())
}

// consumptionCoeff returns the exact per-multiplier consumption rate of
// item, or nil if the node does not consume it.
func (n *Node) consumptionCoeff(item ItemID) *big.Rat {
	in, ok := n.Recipe.Input(item)
	if !ok {
		return nil
	}
	rate := new(big.Rat).Set(in.Amount.Rat())
	return rate.Quo(rate, n.cycleTimeRat())
}

// Edge is an item-flow dependency from a producing node to a consuming
// node. Amount is the consumer's per-cycle requirement, or the pinned
// rate for edges into the External sink.
type Edge struct {
	From   NodeID
	To     NodeID
	Item   ItemID
	Amount decimal.Decimal
}

// Demand is an externally pinned production rate for an item, in items
// per second.
type Demand struct {
	Item ItemID
	Rate decimal.Decimal
}

// FlowGraph is a directed multigraph of recipe nodes built for one
// resolution request. It is never mutated after solving.
type FlowGraph struct {
	// Demands are the externally pinned rates; the target demand of a
	// build is Demands[0].
	Demands []Demand
	// Nodes in expansion order. Node IDs index into this slice.
	Nodes []*Node
	// Edges records every item-flow dependency, including boundary
	// edges to and from External.
	Edges []Edge
	// ExternalInputs are items supplied from outside the graph; their
	// consumption is unconstrained and shows up as negative residual.
	ExternalInputs map[ItemID]struct{}
	// FreeOutputs are boundary items whose surplus is deliberately
	// unconstrained, e.g. byproducts vented or stored outside the
	// modeled setup.
	FreeOutputs map[ItemID]struct{}
	// CycleEdges indexes the edges that closed a feedback loop during
	// expansion.
	CycleEdges []int
}

// Node returns the node with the given ID, or nil for boundary IDs.
func (g *FlowGraph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.Nodes) {
		return nil
	}
	return g.Nodes[id]
}

// demandRate sums the pinned rates for an item as an exact rational,
// or nil when the item carries no external demand.
func (g *FlowGraph) demandRate(item ItemID) *big.Rat {
	var total *big.Rat
	for _, d := range g.Demands {
		if d.Item != item {
			continue
		}
		if total == nil {
			total = new(big.Rat)
		}
		total.Add(total, d.Rate.Rat())
	}
	return total
}

// items returns every item referenced by the graph's nodes, sorted for
// deterministic equation ordering.
func (g *FlowGraph) items() []ItemID {
	seen := make(map[ItemID]struct{})
	for _, n := range g.Nodes {
		for _, ing := range n.Recipe.Inputs {
			seen[ing.Item] = struct{}{}
		}
		for _, ing := range n.Recipe.Outputs {
			seen[ing.Item] = struct{}{}
		}
	}
	for _, d := range g.Demands {
		seen[d.Item] = struct{}{}
	}
	ids := make([]ItemID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
