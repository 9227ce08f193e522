// Package file loads a recipe catalog from a YAML definition file.
// Power and energy fields accept SI-suffixed strings ("150k", "4M");
// quantities and durations are parsed as exact decimals.
package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/factoratio/pkg/catalog/memory"
	"github.com/vsinha/factoratio/pkg/plan"
	"github.com/vsinha/factoratio/pkg/units"
)

// Data is the loaded content of one catalog file. Modules are keyed by
// name for use in a build's module plan.
type Data struct {
	Catalog *memory.Catalog
	Modules map[string]plan.Module
}

// Number is a decimal scalar that unmarshals from any YAML scalar
// form, preserving exactness for values like 0.1 that float64 cannot.
type Number struct {
	decimal.Decimal
}

// UnmarshalYAML parses the raw scalar text.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("invalid number %q", node.Value)
	}
	n.Decimal = d
	return nil
}

type catalogFile struct {
	Items    []itemDef    `yaml:"items"`
	Fuels    []fuelDef    `yaml:"fuels"`
	Modules  []moduleDef  `yaml:"modules"`
	Machines []machineDef `yaml:"machines"`
	Recipes  []recipeDef  `yaml:"recipes"`
}

type itemDef struct {
	ID    string `yaml:"id"`
	Type  string `yaml:"type"`
	Order string `yaml:"order"`
}

type fuelDef struct {
	ID     string       `yaml:"id"`
	Energy units.Energy `yaml:"energy"`
}

type moduleDef struct {
	Name         string `yaml:"name"`
	Tier         int    `yaml:"tier"`
	Energy       Number `yaml:"energy"`
	Speed        Number `yaml:"speed"`
	Productivity Number `yaml:"productivity"`
	Pollution    Number `yaml:"pollution"`
}

type machineDef struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	CraftSpeed  Number      `yaml:"craft_speed"`
	ModuleSlots int         `yaml:"module_slots"`
	EnergyUsage units.Power `yaml:"energy_usage"`
	Drain       units.Power `yaml:"drain"`
	Pollution   Number      `yaml:"pollution"`
	Fuel        string      `yaml:"fuel"`
}

type ingredientDef struct {
	Item   string `yaml:"item"`
	Amount Number `yaml:"amount"`
}

type recipeDef struct {
	ID       string          `yaml:"id"`
	Duration Number          `yaml:"duration"`
	Inputs   []ingredientDef `yaml:"inputs"`
	Outputs  []ingredientDef `yaml:"outputs"`
	Machines []string        `yaml:"machines"`
}

// Load reads and validates a catalog definition file.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var raw catalogFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return build(&raw)
}

func build(raw *catalogFile) (*Data, error) {
	cat := memory.New()
	data := &Data{Catalog: cat, Modules: make(map[string]plan.Module)}

	itemIDs := make(map[string]bool)
	for i, def := range raw.Items {
		if def.ID == "" {
			return nil, fmt.Errorf("items[%d]: missing id", i)
		}
		if itemIDs[def.ID] {
			return nil, fmt.Errorf("items[%d]: duplicate item %q", i, def.ID)
		}
		itemIDs[def.ID] = true
		cat.AddItem(plan.Item{ID: plan.ItemID(def.ID), Type: def.Type, Order: def.Order})
	}

	fuels := make(map[string]plan.Fuel)
	for i, def := range raw.Fuels {
		if def.ID == "" {
			return nil, fmt.Errorf("fuels[%d]: missing id", i)
		}
		if _, dup := fuels[def.ID]; dup {
			return nil, fmt.Errorf("fuels[%d]: duplicate fuel %q", i, def.ID)
		}
		if !def.Energy.Decimal().IsPositive() {
			return nil, fmt.Errorf("fuels[%d] (%s): energy must be positive", i, def.ID)
		}
		fuel := plan.Fuel{ID: def.ID, Energy: def.Energy}
		fuels[def.ID] = fuel
		cat.AddFuel(fuel)
	}

	for i, def := range raw.Modules {
		if def.Name == "" {
			return nil, fmt.Errorf("modules[%d]: missing name", i)
		}
		if _, dup := data.Modules[def.Name]; dup {
			return nil, fmt.Errorf("modules[%d]: duplicate module %q", i, def.Name)
		}
		data.Modules[def.Name] = plan.Module{
			Name:         def.Name,
			Tier:         def.Tier,
			Energy:       def.Energy.Decimal,
			Speed:        def.Speed.Decimal,
			Productivity: def.Productivity.Decimal,
			Pollution:    def.Pollution.Decimal,
		}
	}

	machines := make(map[string]plan.Machine)
	for i, def := range raw.Machines {
		if def.ID == "" {
			return nil, fmt.Errorf("machines[%d]: missing id", i)
		}
		if _, dup := machines[def.ID]; dup {
			return nil, fmt.Errorf("machines[%d]: duplicate machine %q", i, def.ID)
		}
		if !def.CraftSpeed.Decimal.IsPositive() {
			return nil, fmt.Errorf("machines[%d] (%s): craft_speed must be positive", i, def.ID)
		}
		m := plan.Machine{
			ID:          plan.MachineID(def.ID),
			Name:        def.Name,
			CraftSpeed:  def.CraftSpeed.Decimal,
			ModuleSlots: def.ModuleSlots,
			EnergyUsage: def.EnergyUsage,
			Drain:       def.Drain,
			Pollution:   def.Pollution.Decimal,
		}
		if def.Fuel != "" {
			fuel, ok := fuels[def.Fuel]
			if !ok {
				return nil, fmt.Errorf("machines[%d] (%s): unknown fuel %q", i, def.ID, def.Fuel)
			}
			m.Fuel = &fuel
		}
		machines[def.ID] = m
	}

	for i, def := range raw.Recipes {
		if def.ID == "" {
			return nil, fmt.Errorf("recipes[%d]: missing id", i)
		}
		if _, dup := cat.Recipe(plan.RecipeID(def.ID)); dup {
			return nil, fmt.Errorf("recipes[%d]: duplicate recipe %q", i, def.ID)
		}
		if len(def.Outputs) == 0 {
			return nil, fmt.Errorf("recipes[%d] (%s): recipe has no outputs", i, def.ID)
		}
		if !def.Duration.Decimal.IsPositive() {
			return nil, fmt.Errorf("recipes[%d] (%s): duration must be positive", i, def.ID)
		}
		r := plan.Recipe{ID: plan.RecipeID(def.ID), Duration: def.Duration.Decimal}
		var err error
		if r.Inputs, err = ingredients(def.Inputs, itemIDs); err != nil {
			return nil, fmt.Errorf("recipes[%d] (%s): inputs: %w", i, def.ID, err)
		}
		if r.Outputs, err = ingredients(def.Outputs, itemIDs); err != nil {
			return nil, fmt.Errorf("recipes[%d] (%s): outputs: %w", i, def.ID, err)
		}
		cat.AddRecipe(r)

		for _, machineID := range def.Machines {
			m, ok := machines[machineID]
			if !ok {
				return nil, fmt.Errorf("recipes[%d] (%s): unknown machine %q", i, def.ID, machineID)
			}
			cat.AssignMachine(m, r.ID)
		}
	}

	return data, nil
}

func ingredients(defs []ingredientDef, known map[string]bool) ([]plan.Ingredient, error) {
	out := make([]plan.Ingredient, 0, len(defs))
	for _, def := range defs {
		if !known[def.Item] {
			return nil, fmt.Errorf("unknown item %q", def.Item)
		}
		if !def.Amount.Decimal.IsPositive() {
			return nil, fmt.Errorf("amount for %q must be positive", def.Item)
		}
		out = append(out, plan.Ingredient{Item: plan.ItemID(def.Item), Amount: def.Amount.Decimal})
	}
	return out, nil
}
