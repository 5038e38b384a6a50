// Package unit defines unit templates (static game data) and the per-battle
// unit instances created from them.
package unit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role classifies a unit for targeting defaults and synergy counting.
type Role string

const (
	RoleTank      Role = "tank"
	RoleMeleeDPS  Role = "melee_dps"
	RoleRangedDPS Role = "ranged_dps"
	RoleMage      Role = "mage"
	RoleSupport   Role = "support"
	RoleControl   Role = "control"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTank, RoleMeleeDPS, RoleRangedDPS, RoleMage, RoleSupport, RoleControl:
		return true
	}
	return false
}

// Stats holds the numeric combat statistics of a unit. Used both for static
// template base stats and for the synergy-adjusted effective stats of a
// battle instance.
type Stats struct {
	HP         int `yaml:"hp"`
	Atk        int `yaml:"atk"`
	AtkCount   int `yaml:"atk_count"`
	Armor      int `yaml:"armor"`
	Speed      int `yaml:"speed"`
	Initiative int `yaml:"initiative"`
	Dodge      int `yaml:"dodge"`
}

// Template is the static definition of a unit type. Templates are loaded from
// YAML content files or built-in defaults and are never mutated.
type Template struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Role      Role     `yaml:"role"`
	Cost      int      `yaml:"cost"`
	Stats     Stats    `yaml:"stats"`
	Range     int      `yaml:"range"`
	Abilities []string `yaml:"abilities"`
}

// Validate checks template invariants before registration.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("unit template missing id")
	}
	if !t.Role.Valid() {
		return fmt.Errorf("unit template %q has unknown role %q", t.ID, t.Role)
	}
	if t.Stats.HP <= 0 {
		return fmt.Errorf("unit template %q must have positive hp", t.ID)
	}
	if t.Stats.AtkCount <= 0 {
		return fmt.Errorf("unit template %q must have positive atk_count", t.ID)
	}
	if t.Range <= 0 {
		return fmt.Errorf("unit template %q must have positive range", t.ID)
	}
	return nil
}

// Registry holds all known unit Templates keyed by ID.
type Registry struct {
	defs map[string]*Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Template)}
}

// Register adds tpl to the registry, overwriting any existing entry with the
// same ID.
//
// Precondition: tpl must not be nil and tpl.ID must not be empty.
func (r *Registry) Register(tpl *Template) {
	r.defs[tpl.ID] = tpl
}

// Get returns the Template for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.defs[id]
	return t, ok
}

// All returns all registered Templates sorted by ID. The deterministic order
// matters: bot generation iterates this slice while consuming seeded draws.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.defs))
	for _, t := range r.defs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Template,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading unit dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var tpl Template
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&tpl); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&tpl)
	}
	return reg, nil
}

// DefaultRegistry returns a Registry populated with the built-in baseline
// roster covering every role. Content files may extend or override it.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, tpl := range []*Template{
		{
			ID: "knight", Name: "Knight", Role: RoleTank, Cost: 3,
			Stats: Stats{HP: 120, Atk: 20, AtkCount: 1, Armor: 8, Speed: 2, Initiative: 4, Dodge: 5},
			Range: 1, Abilities: []string{"taunt_shout", "iron_bulwark"},
		},
		{
			ID: "berserker", Name: "Berserker", Role: RoleMeleeDPS, Cost: 3,
			Stats: Stats{HP: 80, Atk: 18, AtkCount: 2, Armor: 3, Speed: 3, Initiative: 6, Dodge: 15},
			Range: 1, Abilities: []string{"life_drain"},
		},
		{
			ID: "archer", Name: "Archer", Role: RoleRangedDPS, Cost: 2,
			Stats: Stats{HP: 60, Atk: 16, AtkCount: 2, Armor: 1, Speed: 2, Initiative: 7, Dodge: 20},
			Range: 4, Abilities: []string{"poison_arrow"},
		},
		{
			ID: "mage", Name: "Mage", Role: RoleMage, Cost: 4,
			Stats: Stats{HP: 50, Atk: 30, AtkCount: 1, Armor: 0, Speed: 2, Initiative: 5, Dodge: 10},
			Range: 3, Abilities: []string{"fireball"},
		},
		{
			ID: "cleric", Name: "Cleric", Role: RoleSupport, Cost: 3,
			Stats: Stats{HP: 55, Atk: 8, AtkCount: 1, Armor: 2, Speed: 2, Initiative: 3, Dodge: 10},
			Range: 3, Abilities: []string{"healing_light", "purify"},
		},
		{
			ID: "enchanter", Name: "Enchanter", Role: RoleControl, Cost: 3,
			Stats: Stats{HP: 55, Atk: 10, AtkCount: 1, Armor: 1, Speed: 2, Initiative: 8, Dodge: 10},
			Range: 3, Abilities: []string{"stunning_glare", "unraveling"},
		},
		{
			// Summoned by raise_skeleton; never costed into a normal team.
			ID: "skeleton", Name: "Skeleton", Role: RoleMeleeDPS, Cost: 1,
			Stats: Stats{HP: 25, Atk: 8, AtkCount: 1, Armor: 0, Speed: 2, Initiative: 2, Dodge: 0},
			Range: 1,
		},
	} {
		reg.Register(tpl)
	}
	return reg
}
