// Package units provides SI-suffixed power and energy quantities used by
// machine definitions and the derived-quantity reporter.
//
// Quantities parse from strings like "90k", "1.8M", or "375kW"; the suffix
// multiplies the scalar by the usual SI magnitude. Suffixes are
// case-insensitive and limited to k, M, G, and T. A trailing unit symbol
// (W or J) is accepted and ignored during parsing.
package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var magnitudes = []struct {
	suffix string
	scale  decimal.Decimal
}{
	{"k", decimal.New(1, 3)},
	{"M", decimal.New(1, 6)},
	{"G", decimal.New(1, 9)},
	{"T", decimal.New(1, 12)},
}

// parseSI parses a scalar with an optional SI magnitude suffix and an
// optional trailing base unit symbol.
func parseSI(s, symbol string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty %s quantity", symbol)
	}
	if strings.EqualFold(raw[len(raw)-1:], symbol) {
		raw = raw[:len(raw)-1]
	}
	scale := decimal.New(1, 0)
	if raw != "" {
		last := strings.ToLower(raw[len(raw)-1:])
		for _, m := range magnitudes {
			if last == strings.ToLower(m.suffix) {
				scale = m.scale
				raw = raw[:len(raw)-1]
				break
			}
		}
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s quantity %q: %w", symbol, s, err)
	}
	return value.Mul(scale), nil
}

// formatSI renders a value with the largest SI suffix that keeps the
// scalar at or above one, matching how machine stats are usually written.
func formatSI(v decimal.Decimal, symbol string) string {
	if v.IsZero() {
		return "0" + symbol
	}
	abs := v.Abs()
	idx := -1
	for i := len(magnitudes) - 1; i >= 0; i-- {
		if abs.GreaterThanOrEqual(magnitudes[i].scale) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return v.String() + symbol
	}
	reduced := v.Div(magnitudes[idx].scale)
	return fmt.Sprintf("%s %s%s", reduced.String(), magnitudes[idx].suffix, symbol)
}

// Power is an energy consumption rate in Watts.
type Power struct {
	value decimal.Decimal
}

// Watts constructs a Power from a Watt scalar.
func Watts(v decimal.Decimal) Power {
	return Power{value: v}
}

// ParsePower parses a Power from an SI-suffixed string, e.g. "150k" or "1.8MW".
func ParsePower(s string) (Power, error) {
	v, err := parseSI(s, "W")
	if err != nil {
		return Power{}, err
	}
	return Power{value: v}, nil
}

// Decimal returns the Watt scalar.
func (p Power) Decimal() decimal.Decimal { return p.value }

// IsZero reports whether the power is zero.
func (p Power) IsZero() bool { return p.value.IsZero() }

// Add returns the sum of two powers.
func (p Power) Add(o Power) Power { return Power{value: p.value.Add(o.value)} }

// Mul scales the power by a dimensionless factor.
func (p Power) Mul(f decimal.Decimal) Power { return Power{value: p.value.Mul(f)} }

// OverTime returns the energy consumed at this power over the given
// duration in seconds.
func (p Power) OverTime(seconds decimal.Decimal) Energy {
	return Energy{value: p.value.Mul(seconds)}
}

func (p Power) String() string { return formatSI(p.value, "W") }

// UnmarshalYAML accepts either a bare number (Watts) or an SI-suffixed string.
func (p *Power) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParsePower(node.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML renders the power in its SI-suffixed form.
func (p Power) MarshalYAML() (any, error) { return p.String(), nil }

// Energy is an energy amount in Joules.
type Energy struct {
	value decimal.Decimal
}

// Joules constructs an Energy from a Joule scalar.
func Joules(v decimal.Decimal) Energy {
	return Energy{value: v}
}

// ParseEnergy parses an Energy from an SI-suffixed string, e.g. "4M" or "8GJ".
func ParseEnergy(s string) (Energy, error) {
	v, err := parseSI(s, "J")
	if err != nil {
		return Energy{}, err
	}
	return Energy{value: v}, nil
}

// Decimal returns the Joule scalar.
func (e Energy) Decimal() decimal.Decimal { return e.value }

// IsZero reports whether the energy is zero.
func (e Energy) IsZero() bool { return e.value.IsZero() }

// Add returns the sum of two energies.
func (e Energy) Add(o Energy) Energy { return Energy{value: e.value.Add(o.value)} }

// Mul scales the energy by a dimensionless factor.
func (e Energy) Mul(f decimal.Decimal) Energy { return Energy{value: e.value.Mul(f)} }

// BurnTime returns how long this energy sustains the given power draw,
// in seconds. Joules over Watts give seconds.
func (e Energy) BurnTime(p Power) decimal.Decimal {
	return e.value.Div(p.value)
}

func (e Energy) String() string { return formatSI(e.value, "J") }

// UnmarshalYAML accepts either a bare number (Joules) or an SI-suffixed string.
func (e *Energy) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseEnergy(node.Value)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MarshalYAML renders the energy in its SI-suffixed form.
func (e Energy) MarshalYAML() (any, error) { return e.String(), nil }
