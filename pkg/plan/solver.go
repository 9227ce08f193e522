package plan

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// solvePrecision is the decimal precision at which exact rational
// solutions are rendered into results. Conversion happens once, after
// solving, so the precision never compounds across the graph.
const solvePrecision = 16

// NodeSolution is one node's solved throughput multiplier. A
// multiplier of one corresponds to one machine crafting continuously.
type NodeSolution struct {
	NodeID     NodeID
	Recipe     RecipeID
	Machine    MachineID
	Throughput decimal.Decimal
}

// ResolutionResult is the solved outcome of one resolution request.
// Residuals maps every item in the graph to its net production rate:
// zero at internal items, the pinned rate at demanded items, and
// negative at external inputs.
type ResolutionResult struct {
	Nodes     []NodeSolution
	Residuals map[ItemID]decimal.Decimal
}

// equation is one item's flow-balance row: production minus consumption
// per unit throughput across all nodes, equal to the external rate.
type equation struct {
	item   ItemID
	coeffs []*big.Rat
	rhs    *big.Rat
}

// Solve computes the throughput multiplier of every node such that
// production equals consumption at each internal item and matches the
// pinned rate at each demanded item. The system is solved exactly over
// rationals; the same graph always yields a bit-identical result.
//
// Failure modes: UnderdeterminedSystemError when the system is rank
// deficient (e.g. a self-sustaining loop with no external tie-in),
// OverconstrainedSystemError when constraints conflict, and
// InfeasibleRatioError when a node's solved throughput is not positive.
func Solve(graph *FlowGraph) (*ResolutionResult, error) {
	nodes := graph.Nodes
	n := len(nodes)

	rows := buildEquations(graph)

	// Forward elimination with deterministic pivoting: columns in node
	// order, pivot row is the first remaining row with a nonzero entry.
	var pivotCols []int
	pivot := 0
	for col := 0; col < n && pivot < len(rows); col++ {
		sel := -1
		for r := pivot; r < len(rows); r++ {
			if rows[r].coeffs[col].Sign() != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		rows[pivot], rows[sel] = rows[sel], rows[pivot]

		for r := pivot + 1; r < len(rows); r++ {
			if rows[r].coeffs[col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Quo(rows[r].coeffs[col], rows[pivot].coeffs[col])
			for c := col; c < n; c++ {
				rows[r].coeffs[c].Sub(rows[r].coeffs[c], new(big.Rat).Mul(factor, rows[pivot].coeffs[c]))
			}
			rows[r].rhs.Sub(rows[r].rhs, new(big.Rat).Mul(factor, rows[pivot].rhs))
		}
		pivotCols = append(pivotCols, col)
		pivot++
	}

	// Rows left without a pivot have all-zero coefficients; a nonzero
	// right-hand side there means the constraints conflict.
	for r := pivot; r < len(rows); r++ {
		if rows[r].rhs.Sign() != 0 {
			return nil, &OverconstrainedSystemError{Item: rows[r].item}
		}
	}

	// Columns without a pivot are unpinned throughputs.
	if len(pivotCols) < n {
		pivoted := make(map[int]bool, len(pivotCols))
		for _, c := range pivotCols {
			pivoted[c] = true
		}
		var free []NodeID
		for c := 0; c < n; c++ {
			if !pivoted[c] {
				free = append(free, NodeID(c))
			}
		}
		return nil, &UnderdeterminedSystemError{Nodes: free}
	}

	// Back substitution.
	x := make([]*big.Rat, n)
	for k := len(pivotCols) - 1; k >= 0; k-- {
		col := pivotCols[k]
		row := rows[k]
		sum := new(big.Rat).Set(row.rhs)
		for c := col + 1; c < n; c++ {
			if row.coeffs[c].Sign() != 0 {
				sum.Sub(sum, new(big.Rat).Mul(row.coeffs[c], x[c]))
			}
		}
		x[col] = sum.Quo(sum, row.coeffs[col])
	}

	for i, xi := range x {
		if xi.Sign() <= 0 {
			return nil, &InfeasibleRatioError{
				Node:       NodeID(i),
				Recipe:     nodes[i].Recipe.ID,
				Throughput: decimal.NewFromBigRat(xi, solvePrecision),
			}
		}
	}

	result := &ResolutionResult{
		Nodes:     make([]NodeSolution, 0, n),
		Residuals: make(map[ItemID]decimal.Decimal),
	}
	for i, node := range nodes {
		result.Nodes = append(result.Nodes, NodeSolution{
			NodeID:     node.ID,
			Recipe:     node.Recipe.ID,
			Machine:    node.Machine.ID,
			Throughput: decimal.NewFromBigRat(x[i], solvePrecision),
		})
	}
	for _, item := range graph.items() {
		net := new(big.Rat)
		for i, node := range nodes {
			if p := node.productionCoeff(item); p != nil {
				net.Add(net, p.Mul(p, x[i]))
			}
			if q := node.consumptionCoeff(item); q != nil {
				net.Sub(net, q.Mul(q, x[i]))
			}
		}
		result.Residuals[item] = decimal.NewFromBigRat(net, solvePrecision)
	}
	return result, nil
}

// buildEquations emits one flow-balance row per constrained item. An
// item is constrained when it carries a pinned demand, or when it is
// strictly internal: produced and consumed by graph nodes without an
// external-input or free-output designation.
func buildEquations(graph *FlowGraph) []equation {
	produced := make(map[ItemID]bool)
	consumed := make(map[ItemID]bool)
	for _, node := range graph.Nodes {
		for _, ing := range node.Recipe.Outputs {
			produced[ing.Item] = true
		}
		for _, ing := range node.Recipe.Inputs {
			consumed[ing.Item] = true
		}
	}

	n := len(graph.Nodes)
	var rows []equation
	for _, item := range graph.items() {
		if _, ext := graph.ExternalInputs[item]; ext {
			continue
		}
		_, free := graph.FreeOutputs[item]
		demand := graph.demandRate(item)
		internal := produced[item] && consumed[item] && !free
		if demand == nil && !internal {
			continue
		}

		coeffs := make([]*big.Rat, n)
		for i, node := range graph.Nodes {
			c := new(big.Rat)
			if p := node.productionCoeff(item); p != nil {
				c.Add(c, p)
			}
			if q := node.consumptionCoeff(item); q != nil {
				c.Sub(c, q)
			}
			coeffs[i] = c
		}
		rhs := new(big.Rat)
		if demand != nil {
			rhs.Set(demand)
		}
		rows = append(rows, equation{item: item, coeffs: coeffs, rhs: rhs})
	}
	return rows
}
