package unit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/autobattler/internal/game/grid"
)

// Team identifies which side a battle unit fights for.
type Team string

const (
	TeamPlayer Team = "player"
	TeamBot    Team = "bot"
)

// Opponent returns the opposing team.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamBot
	}
	return TeamPlayer
}

// instanceNamespace scopes deterministic instance id generation.
var instanceNamespace = uuid.MustParse("7d44e1a4-9a6b-4f3e-8c21-3a0d8f5b6c90")

// BattleUnit is one unit instance placed in a battle. Position, CurrentHP,
// Alive, and Stats mutate over the course of a battle; Template never does.
// Dead units stay in the roster with Alive == false.
type BattleUnit struct {
	Template   *Template
	InstanceID string
	Team       Team
	RosterIdx  int
	Pos        grid.Position
	CurrentHP  int
	MaxHP      int
	Alive      bool
	// Stats are the synergy-adjusted effective base stats for this battle.
	// In-battle buffs and debuffs layer on top and live in the ability
	// engine's per-unit effect set, not here.
	Stats Stats
}

// NewBattleUnit instantiates tpl for a battle. The instance id is a SHA1 UUID
// derived from (seed, team, roster index): unique within the battle and
// stable across replays of the same seed.
//
// Precondition: tpl must not be nil.
// Postcondition: Alive is true; CurrentHP == MaxHP == Stats.HP.
func NewBattleUnit(tpl *Template, team Team, rosterIdx int, pos grid.Position, seed int64) *BattleUnit {
	id := uuid.NewSHA1(instanceNamespace, []byte(fmt.Sprintf("%d:%s:%d", seed, team, rosterIdx)))
	return &BattleUnit{
		Template:   tpl,
		InstanceID: id.String(),
		Team:       team,
		RosterIdx:  rosterIdx,
		Pos:        pos,
		CurrentHP:  tpl.Stats.HP,
		MaxHP:      tpl.Stats.HP,
		Alive:      true,
		Stats:      tpl.Stats,
	}
}

// HPRatio returns CurrentHP / MaxHP in [0, 1].
//
// Precondition: MaxHP > 0.
func (u *BattleUnit) HPRatio() float64 {
	return float64(u.CurrentHP) / float64(u.MaxHP)
}

// Snapshot is an immutable copy of a unit's end-of-battle state, suitable for
// serialization in a battle result.
type Snapshot struct {
	InstanceID string        `json:"instanceId"`
	TemplateID string        `json:"templateId"`
	Name       string        `json:"name"`
	Team       Team          `json:"team"`
	Pos        grid.Position `json:"position"`
	CurrentHP  int           `json:"currentHp"`
	MaxHP      int           `json:"maxHp"`
	Alive      bool          `json:"alive"`
}

// Snapshot captures the unit's current state.
func (u *BattleUnit) Snapshot() Snapshot {
	return Snapshot{
		InstanceID: u.InstanceID,
		TemplateID: u.Template.ID,
		Name:       u.Template.Name,
		Team:       u.Team,
		Pos:        u.Pos,
		CurrentHP:  u.CurrentHP,
		MaxHP:      u.MaxHP,
		Alive:      u.Alive,
	}
}
