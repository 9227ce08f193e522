// Example demonstrating the production ratio resolver on a small
// smelting and assembly chain with a burner furnace.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoratio/pkg/catalog/memory"
	"github.com/vsinha/factoratio/pkg/plan"
	"github.com/vsinha/factoratio/pkg/units"
)

func main() {
	cat := memory.New()

	for _, id := range []plan.ItemID{"iron-ore", "iron-plate", "iron-gear-wheel", "coal"} {
		cat.AddItem(plan.Item{ID: id, Type: "item"})
	}

	coal := plan.Fuel{ID: "coal", Energy: mustEnergy("4M")}
	cat.AddFuel(coal)

	smelting := plan.Recipe{
		ID:       "iron-plate",
		Inputs:   []plan.Ingredient{{Item: "iron-ore", Amount: decimal.NewFromInt(1)}},
		Outputs:  []plan.Ingredient{{Item: "iron-plate", Amount: decimal.NewFromInt(1)}},
		Duration: decimal.NewFromFloat(3.2),
	}
	gears := plan.Recipe{
		ID:       "iron-gear-wheel",
		Inputs:   []plan.Ingredient{{Item: "iron-plate", Amount: decimal.NewFromInt(2)}},
		Outputs:  []plan.Ingredient{{Item: "iron-gear-wheel", Amount: decimal.NewFromInt(1)}},
		Duration: decimal.NewFromFloat(0.5),
	}
	cat.AddRecipe(smelting)
	cat.AddRecipe(gears)

	furnace := plan.Machine{
		ID:          "stone-furnace",
		Name:        "Stone furnace",
		CraftSpeed:  decimal.NewFromInt(1),
		EnergyUsage: mustPower("90k"),
		Pollution:   decimal.NewFromInt(2),
		Fuel:        &coal,
	}
	assembler := plan.Machine{
		ID:          "assembling-machine-2",
		Name:        "Assembling machine 2",
		CraftSpeed:  decimal.NewFromFloat(0.75),
		ModuleSlots: 2,
		EnergyUsage: mustPower("150k"),
		Drain:       mustPower("5k"),
		Pollution:   decimal.NewFromInt(3),
	}
	cat.AssignMachine(furnace, smelting.ID)
	cat.AssignMachine(assembler, gears.ID)

	// Two gears per second, with ore mined outside the modeled setup.
	target := plan.Demand{Item: "iron-gear-wheel", Rate: decimal.NewFromInt(2)}
	graph, err := plan.Build(target, cat, plan.BuildConfig{
		ExternalInputs: []plan.ItemID{"iron-ore"},
	})
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}

	result, err := plan.Solve(graph)
	if err != nil {
		log.Fatalf("solve failed: %v", err)
	}

	fmt.Println("Solved throughput multipliers:")
	for _, sol := range result.Nodes {
		fmt.Printf("  node %d  %-18s on %-22s x = %s\n",
			sol.NodeID, sol.Recipe, sol.Machine, sol.Throughput)
	}

	fmt.Println("\nPer-minute metrics:")
	for _, m := range plan.Report(result, graph, time.Minute) {
		fmt.Printf("  %-18s machines: %s (build %d, surplus %s)\n",
			m.Recipe, m.MachineCountExact, m.MachineCountCeiling, m.SurplusCapacity)
		fmt.Printf("%21s energy: %s  pollution: %s", "", m.EnergyPerTimeUnit, m.PollutionPerTimeUnit)
		if !m.FuelPerTimeUnit.IsZero() {
			fmt.Printf("  fuel: %s coal", m.FuelPerTimeUnit.Round(3))
		}
		fmt.Println()
	}

	fmt.Println("\nBoundary flows (per second):")
	for item, residual := range result.Residuals {
		if !residual.IsZero() {
			fmt.Printf("  %-18s %s\n", item, residual)
		}
	}
}

func mustPower(s string) units.Power {
	p, err := units.ParsePower(s)
	if err != nil {
		panic(err)
	}
	return p
}

func mustEnergy(s string) units.Energy {
	e, err := units.ParseEnergy(s)
	if err != nil {
		panic(err)
	}
	return e
}
