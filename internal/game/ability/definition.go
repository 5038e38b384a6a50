package ability

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Timing is when an active ability (spell) becomes eligible to fire.
type Timing string

const (
	// TimingEarly fires on round 1.
	TimingEarly Timing = "early"
	// TimingMid fires once any living ally's HP ratio drops below 70%.
	TimingMid Timing = "mid"
	// TimingLate fires once any living ally's HP ratio drops below 40%.
	TimingLate Timing = "late"
)

// Trigger is the event that evaluates a passive ability.
type Trigger string

const (
	TriggerOnHit       Trigger = "on_hit"
	TriggerOnDeath     Trigger = "on_death"
	TriggerOnTurnStart Trigger = "on_turn_start"
)

// Def is the static definition of an ability. Spell defs fire on the owning
// unit's turn once their Timing condition holds, at most once per battle
// unless Repeatable. Passive defs fire every time their Trigger event occurs.
type Def struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Passive    bool     `yaml:"passive"`
	Timing     Timing   `yaml:"timing,omitempty"`  // spells only
	Trigger    Trigger  `yaml:"trigger,omitempty"` // passives only
	Repeatable bool     `yaml:"repeatable,omitempty"`
	Effects    []Effect `yaml:"effects"`
}

// Validate checks definition invariants before registration.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("ability definition missing id")
	}
	if len(d.Effects) == 0 {
		return fmt.Errorf("ability %q has no effects", d.ID)
	}
	if d.Passive {
		switch d.Trigger {
		case TriggerOnHit, TriggerOnDeath, TriggerOnTurnStart:
		default:
			return fmt.Errorf("passive ability %q has unknown trigger %q", d.ID, d.Trigger)
		}
	} else {
		switch d.Timing {
		case TimingEarly, TimingMid, TimingLate:
		default:
			return fmt.Errorf("spell ability %q has unknown timing %q", d.ID, d.Timing)
		}
	}
	for _, e := range d.Effects {
		if e.Kind == KindUnknown {
			return fmt.Errorf("ability %q has an effect with no kind", d.ID)
		}
		if e.Kind == KindSummon && e.Summon == "" {
			return fmt.Errorf("ability %q summon effect names no unit", d.ID)
		}
	}
	return nil
}

// Registry holds all known ability Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the
// same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns all registered Defs sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
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
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}

// DefaultRegistry returns a Registry populated with the built-in baseline
// ability set.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, def := range []*Def{
		{
			ID: "life_drain", Name: "Life Drain", Passive: true, Trigger: TriggerOnHit,
			Effects: []Effect{{Kind: KindHeal, Scope: ScopeSelf, Pct: 50}},
		},
		{
			ID: "regeneration", Name: "Regeneration", Passive: true, Trigger: TriggerOnTurnStart,
			Effects: []Effect{{Kind: KindHeal, Scope: ScopeSelf, Amount: 2}},
		},
		{
			ID: "poison_arrow", Name: "Poison Arrow", Passive: true, Trigger: TriggerOnHit,
			Effects: []Effect{{Kind: KindDot, Scope: ScopeTarget, Amount: 4, Duration: 2}},
		},
		{
			ID: "death_burst", Name: "Death Burst", Passive: true, Trigger: TriggerOnDeath,
			Effects: []Effect{{Kind: KindDamage, Scope: ScopeEnemies, Amount: 10, Magic: true}},
		},
		{
			ID: "fireball", Name: "Fireball", Timing: TimingMid,
			Effects: []Effect{{Kind: KindDamage, Scope: ScopeEnemies, Amount: 12, Magic: true}},
		},
		{
			ID: "healing_light", Name: "Healing Light", Timing: TimingMid,
			Effects: []Effect{{Kind: KindHeal, Scope: ScopeLowestAlly, Amount: 30}},
		},
		{
			ID: "mending_rain", Name: "Mending Rain", Timing: TimingLate,
			Effects: []Effect{{Kind: KindHot, Scope: ScopeAllies, Amount: 5, Duration: 3}},
		},
		{
			ID: "purify", Name: "Purify", Timing: TimingLate,
			Effects: []Effect{{Kind: KindCleanse, Scope: ScopeAllies}},
		},
		{
			ID: "taunt_shout", Name: "Taunting Shout", Timing: TimingEarly,
			Effects: []Effect{{Kind: KindTaunt, Scope: ScopeSelf, Duration: 2}},
		},
		{
			ID: "iron_bulwark", Name: "Iron Bulwark", Timing: TimingMid,
			Effects: []Effect{
				{Kind: KindShield, Scope: ScopeSelf, Amount: 30, Duration: 3},
				{Kind: KindBuff, Scope: ScopeSelf, Stat: "armor", Amount: 3, Duration: 3},
			},
		},
		{
			ID: "stunning_glare", Name: "Stunning Glare", Timing: TimingEarly,
			Effects: []Effect{{Kind: KindStun, Scope: ScopeNearestEnemy, Duration: 1}},
		},
		{
			ID: "weakening_curse", Name: "Weakening Curse", Timing: TimingMid,
			Effects: []Effect{{Kind: KindDebuff, Scope: ScopeEnemies, Stat: "atk", Amount: 5, Duration: 2}},
		},
		{
			ID: "unraveling", Name: "Unraveling", Timing: TimingLate,
			Effects: []Effect{{Kind: KindDispel, Scope: ScopeEnemies}},
		},
		{
			ID: "raise_skeleton", Name: "Raise Skeleton", Timing: TimingLate,
			Effects: []Effect{{Kind: KindSummon, Scope: ScopeSelf, Summon: "skeleton"}},
		},
	} {
		reg.Register(def)
	}
	return reg
}
