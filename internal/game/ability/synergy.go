package ability

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// StatBonus is one percentage bonus a synergy grants.
type StatBonus struct {
	Stat string `yaml:"stat"`
	Pct  int    `yaml:"pct"`
}

// SynergyDef grants Bonuses to every unit on a team fielding at least Count
// units of Role.
type SynergyDef struct {
	ID      string      `yaml:"id"`
	Role    unit.Role   `yaml:"role"`
	Count   int         `yaml:"count"`
	Bonuses []StatBonus `yaml:"bonuses"`
}

// Validate checks synergy definition invariants.
func (d *SynergyDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("synergy definition missing id")
	}
	if !d.Role.Valid() {
		return fmt.Errorf("synergy %q has unknown role %q", d.ID, d.Role)
	}
	if d.Count <= 0 {
		return fmt.Errorf("synergy %q must require a positive unit count", d.ID)
	}
	if len(d.Bonuses) == 0 {
		return fmt.Errorf("synergy %q grants no bonuses", d.ID)
	}
	return nil
}

// ActiveSynergies returns the defs whose role-count threshold the given
// templates meet, preserving defs order. The order is the application order,
// so defs must be supplied in a fixed sequence.
func ActiveSynergies(defs []*SynergyDef, roster []*unit.Template) []*SynergyDef {
	counts := make(map[unit.Role]int)
	for _, tpl := range roster {
		counts[tpl.Role]++
	}
	var active []*SynergyDef
	for _, d := range defs {
		if counts[d.Role] >= d.Count {
			active = append(active, d)
		}
	}
	return active
}

// roundHalfUp rounds v to the nearest integer, halves away from zero upward.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ApplyToStats applies active synergies to base stats. Each bonus multiplies
// the current stat value by (1 + pct/100) and rounds half-up before the next
// bonus applies, in defs order. The compounding is order-sensitive and must
// not be collapsed into a single combined percentage. Derived dodge is
// capped at dodgeCap last.
//
// Postcondition: result.Dodge <= dodgeCap.
func ApplyToStats(base unit.Stats, active []*SynergyDef, dodgeCap int) unit.Stats {
	stats := base
	for _, syn := range active {
		for _, b := range syn.Bonuses {
			factor := 1 + float64(b.Pct)/100
			switch b.Stat {
			case "hp":
				stats.HP = roundHalfUp(float64(stats.HP) * factor)
			case "atk":
				stats.Atk = roundHalfUp(float64(stats.Atk) * factor)
			case "atk_count":
				stats.AtkCount = roundHalfUp(float64(stats.AtkCount) * factor)
			case "armor":
				stats.Armor = roundHalfUp(float64(stats.Armor) * factor)
			case "speed":
				stats.Speed = roundHalfUp(float64(stats.Speed) * factor)
			case "initiative":
				stats.Initiative = roundHalfUp(float64(stats.Initiative) * factor)
			case "dodge":
				stats.Dodge = roundHalfUp(float64(stats.Dodge) * factor)
			}
		}
	}
	if stats.Dodge > dodgeCap {
		stats.Dodge = dodgeCap
	}
	return stats
}

// DefaultSynergies returns the built-in synergy list in application order.
func DefaultSynergies() []*SynergyDef {
	return []*SynergyDef{
		{ID: "bulwark", Role: unit.RoleTank, Count: 2, Bonuses: []StatBonus{{Stat: "hp", Pct: 20}, {Stat: "armor", Pct: 10}}},
		{ID: "bloodlust", Role: unit.RoleMeleeDPS, Count: 2, Bonuses: []StatBonus{{Stat: "atk", Pct: 15}}},
		{ID: "deadeye", Role: unit.RoleRangedDPS, Count: 2, Bonuses: []StatBonus{{Stat: "atk", Pct: 10}, {Stat: "dodge", Pct: 15}}},
		{ID: "arcana", Role: unit.RoleMage, Count: 2, Bonuses: []StatBonus{{Stat: "atk", Pct: 20}}},
		{ID: "devotion", Role: unit.RoleSupport, Count: 2, Bonuses: []StatBonus{{Stat: "hp", Pct: 10}}},
		{ID: "dominance", Role: unit.RoleControl, Count: 2, Bonuses: []StatBonus{{Stat: "initiative", Pct: 10}}},
	}
}

// LoadSynergies reads every *.yaml file in dir, parses each as a SynergyDef,
// and returns the defs sorted by file name. The file-name order is the
// deterministic application order.
//
// Precondition: dir must be a readable directory.
func LoadSynergies(dir string) ([]*SynergyDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading synergy dir %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var defs []*SynergyDef
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def SynergyDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		defs = append(defs, &def)
	}
	return defs, nil
}
