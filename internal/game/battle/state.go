package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/ability"
	"github.com/cory-johannsen/autobattler/internal/game/damage"
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/rng"
	"github.com/cory-johannsen/autobattler/internal/game/turnorder"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// battleState is the mutable state of one running battle. It is created by
// Simulator.Simulate, runs to a terminal outcome, and is discarded.
type battleState struct {
	gridCfg   config.GridConfig
	battleCfg config.BattleConfig
	resolver  *damage.Resolver
	grid      *grid.Grid
	units     []*unit.BattleUnit
	effects   map[string]*ability.ActiveSet
	fired     map[string]bool
	src       rng.Source
	emitter   *Emitter
	abilities *ability.Registry
	unitReg   *unit.Registry
	synergies []*ability.SynergyDef
	logger    *zap.Logger
	seed      int64
	round     int
	nextIdx   int
	winner    Winner
}

// emit tags ev with the current round and dispatches it.
func (st *battleState) emit(ev Event) {
	ev.Round = st.round
	st.emitter.Emit(ev)
}

// deployTeam validates placements against the team's deployment rows,
// applies the team's synergies, and adds the resulting battle units to the
// roster and grid.
func (st *battleState) deployTeam(team unit.Team, placements []Placement, rows []int) error {
	rowSet := make(map[int]bool, len(rows))
	for _, r := range rows {
		rowSet[r] = true
	}

	templates := make([]*unit.Template, len(placements))
	for i, p := range placements {
		tpl, ok := st.unitReg.Get(p.TemplateID)
		if !ok {
			return fmt.Errorf("unknown unit template %q", p.TemplateID)
		}
		templates[i] = tpl
	}

	active := ability.ActiveSynergies(st.synergies, templates)
	dodgeCap := st.resolver.DodgeCap()

	for i, p := range placements {
		pos := p.Position
		if !grid.IsValidPosition(pos, st.gridCfg) || !rowSet[pos.Y] {
			return fmt.Errorf("%s unit %d position (%d,%d) is outside the team deployment rows", team, i, pos.X, pos.Y)
		}
		if st.grid.IsOccupied(pos) {
			return fmt.Errorf("two units share cell (%d,%d)", pos.X, pos.Y)
		}
		u := unit.NewBattleUnit(templates[i], team, st.nextIdx, pos, st.seed)
		st.nextIdx++

		stats := ability.ApplyToStats(templates[i].Stats, active, dodgeCap)
		u.Stats = stats
		u.MaxHP = stats.HP
		u.CurrentHP = stats.HP

		st.units = append(st.units, u)
		st.effects[u.InstanceID] = ability.NewActiveSet()
		st.grid.Occupy(pos, u.InstanceID)
	}
	return nil
}

// statOf returns u's effective stat: synergy-adjusted base plus active
// buff/debuff deltas, floored at 0.
func (st *battleState) statOf(u *unit.BattleUnit, stat string) int {
	base := 0
	switch stat {
	case "atk":
		base = u.Stats.Atk
	case "atk_count":
		base = u.Stats.AtkCount
	case "armor":
		base = u.Stats.Armor
	case "speed":
		base = u.Stats.Speed
	case "initiative":
		base = u.Stats.Initiative
	case "dodge":
		base = u.Stats.Dodge
	}
	v := base + st.effects[u.InstanceID].StatModifier(stat)
	if v < 0 {
		return 0
	}
	return v
}

// livingAllies returns u's living teammates including u, in roster order.
func (st *battleState) livingAllies(u *unit.BattleUnit) []*unit.BattleUnit {
	return turnorder.LivingByTeam(st.units, u.Team)
}

// livingEnemies returns the living opposing units in roster order.
func (st *battleState) livingEnemies(u *unit.BattleUnit) []*unit.BattleUnit {
	return turnorder.LivingByTeam(st.units, u.Team.Opponent())
}

// outcome reports the terminal winner, if the battle has one.
func (st *battleState) outcome() (Winner, bool) {
	playerAlive := turnorder.HasLiving(turnorder.LivingByTeam(st.units, unit.TeamPlayer))
	botAlive := turnorder.HasLiving(turnorder.LivingByTeam(st.units, unit.TeamBot))
	switch {
	case !playerAlive && !botAlive:
		return WinnerDraw, true
	case !botAlive:
		return WinnerPlayer, true
	case !playerAlive:
		return WinnerBot, true
	}
	return "", false
}

// applyDamage routes amount through the victim's shields, applies the rest
// to HP, and emits the damage event (and, on a kill, the death event and the
// victim's on-death passives). Returns whether the victim died.
func (st *battleState) applyDamage(victim *unit.BattleUnit, amount int, actorID, abilityID string) (bool, error) {
	if !victim.Alive {
		return false, simErrorf("damage applied to dead unit %s", victim.InstanceID)
	}
	absorbed := st.effects[victim.InstanceID].AbsorbDamage(amount)
	dealt := amount - absorbed

	newHP, killed := damage.Apply(victim, dealt)
	victim.CurrentHP = newHP

	ev := Event{
		Type:      EventDamage,
		ActorID:   actorID,
		TargetIDs: []string{victim.InstanceID},
		Amount:    dealt,
		AbilityID: abilityID,
	}
	if absorbed > 0 {
		ev.Meta = map[string]string{"absorbed": fmt.Sprintf("%d", absorbed)}
	}
	st.emit(ev)

	if !killed {
		return false, nil
	}

	victim.Alive = false
	st.grid.Vacate(victim.Pos)
	st.emit(Event{
		Type:      EventDeath,
		ActorID:   actorID,
		TargetIDs: []string{victim.InstanceID},
	})

	// On-death passives fire after the death event, from the victim's side.
	for _, id := range victim.Template.Abilities {
		def, ok := st.abilities.Get(id)
		if !ok || !def.Passive || def.Trigger != ability.TriggerOnDeath {
			continue
		}
		if err := st.fireAbility(victim, def, nil, 0); err != nil {
			return true, err
		}
	}
	return true, nil
}

// heal restores amount HP to u, clamped at MaxHP, and emits a heal event
// carrying the applied (post-clamp) amount.
func (st *battleState) heal(u *unit.BattleUnit, amount int, actorID, abilityID string) {
	if !u.Alive || amount <= 0 {
		return
	}
	applied := amount
	if u.CurrentHP+applied > u.MaxHP {
		applied = u.MaxHP - u.CurrentHP
	}
	u.CurrentHP += applied
	st.emit(Event{
		Type:      EventHeal,
		ActorID:   actorID,
		TargetIDs: []string{u.InstanceID},
		Amount:    applied,
		AbilityID: abilityID,
	})
}
