// Package ability implements the ability and status-effect engine: effect
// definitions, spell timing triggers, passive triggers, per-unit active
// effect sets, and team synergies.
package ability

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind is the closed set of effect kinds. The battle engine dispatches on
// Kind exhaustively; adding a kind here requires extending that dispatcher.
type Kind int

const (
	KindUnknown Kind = iota // zero value; intentionally invalid
	KindDamage
	KindHeal
	KindBuff
	KindDebuff
	KindStun
	KindTaunt
	KindShield
	KindDot
	KindHot
	KindCleanse
	KindDispel
	KindSummon
)

var kindNames = map[Kind]string{
	KindDamage:  "damage",
	KindHeal:    "heal",
	KindBuff:    "buff",
	KindDebuff:  "debuff",
	KindStun:    "stun",
	KindTaunt:   "taunt",
	KindShield:  "shield",
	KindDot:     "dot",
	KindHot:     "hot",
	KindCleanse: "cleanse",
	KindDispel:  "dispel",
	KindSummon:  "summon",
}

// String returns the canonical lowercase name of the Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a canonical name into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown effect kind %q", s)
}

// UnmarshalYAML decodes a Kind from its canonical string name.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a Kind as its canonical string name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Scope names how an effect picks its targets when it fires.
type Scope string

const (
	// ScopeSelf targets the acting/owning unit.
	ScopeSelf Scope = "self"
	// ScopeTarget targets the unit the triggering action acted on.
	ScopeTarget Scope = "target"
	// ScopeLowestAlly targets the living ally with the lowest HP ratio.
	ScopeLowestAlly Scope = "lowest_ally"
	// ScopeAllies targets every living ally including the owner.
	ScopeAllies Scope = "allies"
	// ScopeNearestEnemy targets the nearest living enemy.
	ScopeNearestEnemy Scope = "nearest_enemy"
	// ScopeWeakestEnemy targets the living enemy with the lowest HP.
	ScopeWeakestEnemy Scope = "weakest_enemy"
	// ScopeEnemies targets every living enemy.
	ScopeEnemies Scope = "enemies"
)

// Effect is one concrete consequence of an ability firing. Magnitude and
// duration are fixed numbers; percentage-based magnitudes (Pct) scale off the
// triggering event (e.g. life drain heals Pct% of damage dealt).
type Effect struct {
	Kind     Kind   `yaml:"kind"`
	Scope    Scope  `yaml:"scope"`
	Stat     string `yaml:"stat,omitempty"`     // buff/debuff target stat
	Amount   int    `yaml:"amount,omitempty"`   // flat magnitude or shield capacity
	Pct      int    `yaml:"pct,omitempty"`      // percentage of triggering amount
	Duration int    `yaml:"duration,omitempty"` // rounds; 0 = instantaneous
	Magic    bool   `yaml:"magic,omitempty"`    // damage effects: magic vs physical
	Summon   string `yaml:"summon,omitempty"`   // summon effects: unit template id
}
