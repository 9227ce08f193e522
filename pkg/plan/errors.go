package plan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnresolvableItemError reports an item that no known recipe produces
// and that carries no external-input designation.
type UnresolvableItemError struct {
	Item ItemID
}

func (e *UnresolvableItemError) Error() string {
	return fmt.Sprintf("no recipe produces %q and it is not an external input", e.Item)
}

// AmbiguousSelectionError reports a selection policy that failed to
// return a deterministic choice among the candidate recipes. This is a
// policy misconfiguration, not a normal runtime condition.
type AmbiguousSelectionError struct {
	Item       ItemID
	Candidates []RecipeID
}

func (e *AmbiguousSelectionError) Error() string {
	return fmt.Sprintf("selection policy returned no choice for %q among %v", e.Item, e.Candidates)
}

// UnderdeterminedSystemError reports a flow system with no unique
// solution, e.g. a self-sustaining loop with no external tie-in. Nodes
// lists the unpinned throughput multipliers.
type UnderdeterminedSystemError struct {
	Nodes []NodeID
}

func (e *UnderdeterminedSystemError) Error() string {
	return fmt.Sprintf("flow system is rank deficient: nodes %v have no unique throughput", e.Nodes)
}

// OverconstrainedSystemError reports conflicting demands that force a
// node to run at two incompatible rates. Item is the balance equation
// that became inconsistent.
type OverconstrainedSystemError struct {
	Item ItemID
}

func (e *OverconstrainedSystemError) Error() string {
	return fmt.Sprintf("conflicting flow constraints at item %q", e.Item)
}

// InfeasibleRatioError reports a solved throughput at or below zero,
// which signals the chosen recipe selection cannot satisfy the demand.
type InfeasibleRatioError struct {
	Node       NodeID
	Recipe     RecipeID
	Throughput decimal.Decimal
}

func (e *InfeasibleRatioError) Error() string {
	return fmt.Sprintf("node %d (%s) requires non-positive throughput %s", e.Node, e.Recipe, e.Throughput)
}
