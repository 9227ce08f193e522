package plan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BuildConfig configures one graph build. The zero value selects the
// first catalog match for recipes and machines, slots no modules, and
// designates no boundary items.
type BuildConfig struct {
	// Selection resolves which recipe produces each demanded item.
	Selection SelectionPolicy
	// Machines resolves which machine kind each recipe node runs in.
	Machines MachinePolicy
	// Modules lists the modules slotted into each recipe's machines.
	Modules map[RecipeID][]Module
	// ExternalInputs are items supplied from outside the setup; they
	// are not expanded and their draw appears as boundary residual.
	ExternalInputs []ItemID
	// FreeOutputs are byproduct items whose surplus is allowed to
	// leave the setup unbalanced.
	FreeOutputs []ItemID
}

// Build expands the target demand into a FlowGraph using the catalog
// and the configured policies. The returned graph is ready for Solve
// and is not shared with any other request.
func Build(target Demand, cat Catalog, cfg BuildConfig) (*FlowGraph, error) {
	if !target.Rate.IsPositive() {
		return nil, fmt.Errorf("target rate for %q must be positive, got %s", target.Item, target.Rate)
	}
	if cfg.Selection == nil {
		cfg.Selection = FirstMatch()
	}
	if cfg.Machines == nil {
		cfg.Machines = FirstMachine()
	}

	g := &FlowGraph{
		Demands:        []Demand{target},
		ExternalInputs: make(map[ItemID]struct{}),
		FreeOutputs:    make(map[ItemID]struct{}),
	}
	for _, item := range cfg.ExternalInputs {
		g.ExternalInputs[item] = struct{}{}
	}
	for _, item := range cfg.FreeOutputs {
		g.FreeOutputs[item] = struct{}{}
	}

	b := &builder{
		cat:        cat,
		cfg:        cfg,
		graph:      g,
		producerOf: make(map[ItemID]NodeID),
		onPath:     make(map[NodeID]bool),
	}
	if err := b.expand(target.Item, External, target.Rate); err != nil {
		return nil, err
	}
	return g, nil
}

// builder holds the working state of one expansion. onPath tracks the
// node identities currently being expanded, which distinguishes a
// feedback edge into an in-progress node from a plain reuse of a node
// already expanded elsewhere in the graph.
type builder struct {
	cat        Catalog
	cfg        BuildConfig
	graph      *FlowGraph
	producerOf map[ItemID]NodeID
	onPath     map[NodeID]bool
}

// expand satisfies one item demand: it wires an edge from the item's
// designated producer to the consumer, creating and recursively
// expanding the producer node on first encounter.
func (b *builder) expand(item ItemID, consumer NodeID, amount decimal.Decimal) error {
	if _, ok := b.graph.ExternalInputs[item]; ok {
		b.addEdge(External, consumer, item, amount, false)
		return nil
	}

	if id, ok := b.producerOf[item]; ok {
		// The designated producer already exists. If it is still on
		// the active expansion path this edge closes a cycle; either
		// way it is never expanded a second time.
		b.addEdge(id, consumer, item, amount, b.onPath[id])
		return nil
	}

	it, ok := b.cat.Item(item)
	if !ok {
		return &UnresolvableItemError{Item: item}
	}
	candidates := b.cat.RecipesProducing(item)
	if len(candidates) == 0 {
		return &UnresolvableItemError{Item: item}
	}

	recipe, ok := b.cfg.Selection(it, candidates)
	if !ok {
		return &AmbiguousSelectionError{Item: item, Candidates: recipeIDs(candidates)}
	}
	if _, produces := recipe.Output(item); !produces {
		return &AmbiguousSelectionError{Item: item, Candidates: recipeIDs(candidates)}
	}

	machine := DefaultMachine()
	if machines := b.cat.MachinesFor(recipe.ID); len(machines) > 0 {
		m, ok := b.cfg.Machines(recipe, machines)
		if !ok {
			return &AmbiguousSelectionError{Item: item, Candidates: []RecipeID{recipe.ID}}
		}
		machine = m
	}

	node := &Node{
		ID:      NodeID(len(b.graph.Nodes)),
		Recipe:  recipe,
		Machine: machine,
		Modules: b.cfg.Modules[recipe.ID],
	}
	b.graph.Nodes = append(b.graph.Nodes, node)
	for _, out := range recipe.Outputs {
		if _, taken := b.producerOf[out.Item]; !taken {
			b.producerOf[out.Item] = node.ID
		}
	}
	b.addEdge(node.ID, consumer, item, amount, false)

	b.onPath[node.ID] = true
	for _, in := range recipe.Inputs {
		if err := b.expand(in.Item, node.ID, in.Amount); err != nil {
			return err
		}
	}
	delete(b.onPath, node.ID)
	return nil
}

func (b *builder) addEdge(from, to NodeID, item ItemID, amount decimal.Decimal, closesCycle bool) {
	b.graph.Edges = append(b.graph.Edges, Edge{From: from, To: to, Item: item, Amount: amount})
	if closesCycle {
		b.graph.CycleEdges = append(b.graph.CycleEdges, len(b.graph.Edges)-1)
	}
}

func recipeIDs(recipes []Recipe) []RecipeID {
	ids := make([]RecipeID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
