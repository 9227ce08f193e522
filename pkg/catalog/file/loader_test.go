package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoratio/pkg/plan"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validCatalog = `
items:
  - id: iron-ore
    type: item
  - id: iron-plate
    type: item
  - id: iron-gear
    type: item

fuels:
  - id: coal
    energy: 4M

modules:
  - name: speed-1
    tier: 1
    energy: "0.5"
    speed: "0.2"

machines:
  - id: stone-furnace
    name: Stone furnace
    craft_speed: 1
    energy_usage: 90k
    pollution: 2
    fuel: coal
  - id: assembling-machine-2
    name: Assembling machine 2
    craft_speed: "0.75"
    module_slots: 2
    energy_usage: 150k
    drain: 5k
    pollution: 3

recipes:
  - id: iron-plate
    duration: "3.2"
    inputs:
      - item: iron-ore
        amount: 1
    outputs:
      - item: iron-plate
        amount: 1
    machines: [stone-furnace]
  - id: iron-gear
    duration: "0.5"
    inputs:
      - item: iron-plate
        amount: 2
    outputs:
      - item: iron-gear
        amount: 1
    machines: [assembling-machine-2]
`

func TestLoad_ValidCatalog(t *testing.T) {
	data, err := Load(writeCatalog(t, validCatalog))
	require.NoError(t, err)

	items := data.Catalog.Items()
	require.Len(t, items, 3)
	assert.Equal(t, plan.ItemID("iron-ore"), items[0].ID)

	fuel, ok := data.Catalog.Fuel("coal")
	require.True(t, ok)
	assert.True(t, fuel.Energy.Decimal().Equal(decimal.NewFromInt(4000000)))

	mod, ok := data.Modules["speed-1"]
	require.True(t, ok)
	assert.True(t, mod.Speed.Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, mod.Energy.Equal(decimal.NewFromFloat(0.5)))

	recipes := data.Catalog.RecipesProducing("iron-gear")
	require.Len(t, recipes, 1)
	assert.True(t, recipes[0].Duration.Equal(decimal.NewFromFloat(0.5)))

	machines := data.Catalog.MachinesFor("iron-plate")
	require.Len(t, machines, 1)
	require.NotNil(t, machines[0].Fuel)
	assert.Equal(t, "coal", machines[0].Fuel.ID)
	assert.True(t, machines[0].EnergyUsage.Decimal().Equal(decimal.NewFromInt(90000)))

	assembler := data.Catalog.MachinesFor("iron-gear")
	require.Len(t, assembler, 1)
	assert.Nil(t, assembler[0].Fuel)
	assert.Equal(t, 2, assembler[0].ModuleSlots)
	assert.True(t, assembler[0].Drain.Decimal().Equal(decimal.NewFromInt(5000)))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "duplicate item",
			content: `
items:
  - id: iron-ore
  - id: iron-ore
`,
			wantErr: `duplicate item "iron-ore"`,
		},
		{
			name: "item missing id",
			content: `
items:
  - type: item
`,
			wantErr: "items[0]: missing id",
		},
		{
			name: "non-positive fuel energy",
			content: `
fuels:
  - id: coal
    energy: 0
`,
			wantErr: "energy must be positive",
		},
		{
			name: "unknown fuel reference",
			content: `
machines:
  - id: stone-furnace
    craft_speed: 1
    fuel: wood
`,
			wantErr: `unknown fuel "wood"`,
		},
		{
			name: "unknown machine reference",
			content: `
items:
  - id: iron-plate
recipes:
  - id: iron-plate
    duration: 1
    outputs:
      - item: iron-plate
        amount: 1
    machines: [electric-furnace]
`,
			wantErr: `unknown machine "electric-furnace"`,
		},
		{
			name: "unknown ingredient item",
			content: `
items:
  - id: iron-plate
recipes:
  - id: iron-plate
    duration: 1
    inputs:
      - item: iron-ore
        amount: 1
    outputs:
      - item: iron-plate
        amount: 1
`,
			wantErr: `inputs: unknown item "iron-ore"`,
		},
		{
			name: "recipe without outputs",
			content: `
items:
  - id: iron-plate
recipes:
  - id: iron-plate
    duration: 1
`,
			wantErr: "recipe has no outputs",
		},
		{
			name: "non-positive duration",
			content: `
items:
  - id: iron-plate
recipes:
  - id: iron-plate
    duration: 0
    outputs:
      - item: iron-plate
        amount: 1
`,
			wantErr: "duration must be positive",
		},
		{
			name: "non-positive amount",
			content: `
items:
  - id: iron-plate
recipes:
  - id: iron-plate
    duration: 1
    outputs:
      - item: iron-plate
        amount: -1
`,
			wantErr: `amount for "iron-plate" must be positive`,
		},
		{
			name: "bad power value",
			content: `
machines:
  - id: stone-furnace
    craft_speed: 1
    energy_usage: lots
`,
			wantErr: `invalid W quantity "lots"`,
		},
		{
			name: "unknown top-level field",
			content: `
widgets:
  - id: thing
`,
			wantErr: "field widgets not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
