package battle

import (
	"fmt"

	"github.com/cory-johannsen/autobattler/internal/game/ability"
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/targeting"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// timingMet reports whether a spell timing condition currently holds for
// caster's team. Mid and late scan every living ally's HP ratio, not just
// the caster's.
func (st *battleState) timingMet(caster *unit.BattleUnit, timing ability.Timing) bool {
	switch timing {
	case ability.TimingEarly:
		return true
	case ability.TimingMid:
		return st.anyAllyBelow(caster, 0.7)
	case ability.TimingLate:
		return st.anyAllyBelow(caster, 0.4)
	}
	return false
}

func (st *battleState) anyAllyBelow(caster *unit.BattleUnit, ratio float64) bool {
	for _, ally := range st.livingAllies(caster) {
		if ally.HPRatio() < ratio {
			return true
		}
	}
	return false
}

// maybeCastSpell fires the first ready spell in u's ability list, if any.
// A cast consumes the unit's turn. Each spell fires at most once per battle
// unless its definition is repeatable.
func (st *battleState) maybeCastSpell(u *unit.BattleUnit) (bool, error) {
	for _, id := range u.Template.Abilities {
		def, ok := st.abilities.Get(id)
		if !ok || def.Passive {
			continue
		}
		key := u.InstanceID + ":" + def.ID
		if st.fired[key] && !def.Repeatable {
			continue
		}
		if !st.timingMet(u, def.Timing) {
			continue
		}
		st.fired[key] = true
		st.emit(Event{Type: EventAbility, ActorID: u.InstanceID, AbilityID: def.ID})
		if err := st.fireAbility(u, def, nil, 0); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// fireAbility applies every effect of def in definition order.
// trigTarget and triggerAmount carry the context of a passive trigger: the
// unit the triggering action hit and its damage amount.
func (st *battleState) fireAbility(actor *unit.BattleUnit, def *ability.Def, trigTarget *unit.BattleUnit, triggerAmount int) error {
	for _, eff := range def.Effects {
		if err := st.applyEffect(actor, def, eff, trigTarget, triggerAmount); err != nil {
			return err
		}
	}
	return nil
}

// resolveScope selects the units an effect applies to, in deterministic
// (roster/stable) order.
func (st *battleState) resolveScope(scope ability.Scope, actor, trigTarget *unit.BattleUnit) []*unit.BattleUnit {
	switch scope {
	case ability.ScopeSelf:
		if actor.Alive {
			return []*unit.BattleUnit{actor}
		}
		return nil
	case ability.ScopeTarget:
		if trigTarget != nil && trigTarget.Alive {
			return []*unit.BattleUnit{trigTarget}
		}
		return nil
	case ability.ScopeAllies:
		return st.livingAllies(actor)
	case ability.ScopeLowestAlly:
		var lowest *unit.BattleUnit
		for _, ally := range st.livingAllies(actor) {
			if lowest == nil || ally.HPRatio() < lowest.HPRatio() {
				lowest = ally
			}
		}
		if lowest == nil {
			return nil
		}
		return []*unit.BattleUnit{lowest}
	case ability.ScopeEnemies:
		return st.livingEnemies(actor)
	case ability.ScopeNearestEnemy:
		if t := targeting.Closest(actor.Pos, st.livingEnemies(actor)); t != nil {
			return []*unit.BattleUnit{t}
		}
		return nil
	case ability.ScopeWeakestEnemy:
		var weakest *unit.BattleUnit
		for _, e := range st.livingEnemies(actor) {
			if weakest == nil || e.CurrentHP < weakest.CurrentHP {
				weakest = e
			}
		}
		if weakest == nil {
			return nil
		}
		return []*unit.BattleUnit{weakest}
	}
	return nil
}

// pctOf returns pct percent of amount, truncated.
func pctOf(amount, pct int) int {
	return amount * pct / 100
}

// applyEffect dispatches one effect. The switch is exhaustive over the
// closed Kind set; an unknown kind is an invariant violation.
func (st *battleState) applyEffect(actor *unit.BattleUnit, def *ability.Def, eff ability.Effect, trigTarget *unit.BattleUnit, triggerAmount int) error {
	targets := st.resolveScope(eff.Scope, actor, trigTarget)

	switch eff.Kind {
	case ability.KindDamage:
		amount := eff.Amount + pctOf(triggerAmount, eff.Pct)
		for _, t := range targets {
			if !t.Alive {
				continue
			}
			if _, err := st.applyDamage(t, amount, actor.InstanceID, def.ID); err != nil {
				return err
			}
		}

	case ability.KindHeal:
		amount := eff.Amount + pctOf(triggerAmount, eff.Pct)
		for _, t := range targets {
			st.heal(t, amount, actor.InstanceID, def.ID)
		}

	case ability.KindBuff:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindBuff, Stat: eff.Stat, Amount: eff.Amount, Remaining: eff.Duration, Source: def.ID}, actor, EventBuff, nil)
		}

	case ability.KindDebuff:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindDebuff, Stat: eff.Stat, Amount: eff.Amount, Remaining: eff.Duration, Source: def.ID}, actor, EventDebuff, nil)
		}

	case ability.KindStun:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindStun, Remaining: eff.Duration, Source: def.ID}, actor, EventDebuff, map[string]string{"effect": "stun"})
		}

	case ability.KindTaunt:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindTaunt, Remaining: eff.Duration, Source: def.ID}, actor, EventBuff, map[string]string{"effect": "taunt"})
		}

	case ability.KindShield:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindShield, Amount: eff.Amount, Remaining: eff.Duration, Source: def.ID}, actor, EventBuff, map[string]string{"effect": "shield"})
		}

	case ability.KindDot:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindDot, Amount: eff.Amount, Remaining: eff.Duration, Source: def.ID}, actor, EventDebuff, map[string]string{"effect": "dot"})
		}

	case ability.KindHot:
		for _, t := range targets {
			st.attach(t, ability.ActiveEffect{Kind: ability.KindHot, Amount: eff.Amount, Remaining: eff.Duration, Source: def.ID}, actor, EventBuff, map[string]string{"effect": "hot"})
		}

	case ability.KindCleanse:
		for _, t := range targets {
			removed := st.effects[t.InstanceID].Cleanse()
			st.emit(Event{
				Type:      EventBuff,
				ActorID:   actor.InstanceID,
				TargetIDs: []string{t.InstanceID},
				AbilityID: def.ID,
				Meta:      map[string]string{"effect": "cleanse", "removed": fmt.Sprintf("%d", len(removed))},
			})
		}

	case ability.KindDispel:
		for _, t := range targets {
			removed := st.effects[t.InstanceID].Dispel()
			st.emit(Event{
				Type:      EventDebuff,
				ActorID:   actor.InstanceID,
				TargetIDs: []string{t.InstanceID},
				AbilityID: def.ID,
				Meta:      map[string]string{"effect": "dispel", "removed": fmt.Sprintf("%d", len(removed))},
			})
		}

	case ability.KindSummon:
		if err := st.summon(actor, def, eff); err != nil {
			return err
		}

	default:
		return simErrorf("unknown effect kind %d in ability %q", eff.Kind, def.ID)
	}
	return nil
}

// attach applies an active effect to t and emits the matching buff/debuff
// event.
func (st *battleState) attach(t *unit.BattleUnit, ae ability.ActiveEffect, actor *unit.BattleUnit, evType EventType, meta map[string]string) {
	if !t.Alive {
		return
	}
	st.effects[t.InstanceID].Apply(ae)
	st.emit(Event{
		Type:      evType,
		ActorID:   actor.InstanceID,
		TargetIDs: []string{t.InstanceID},
		Amount:    ae.Amount,
		AbilityID: ae.Source,
		Meta:      meta,
	})
}

// summon instantiates the effect's unit template on the nearest free cell to
// the summoner. Summoned units use base template stats (no synergy pass) and
// enter the turn order when the next round's queue is built. When no free
// cell exists the summon fizzles silently.
func (st *battleState) summon(actor *unit.BattleUnit, def *ability.Def, eff ability.Effect) error {
	tpl, ok := st.unitReg.Get(eff.Summon)
	if !ok {
		return simErrorf("summon effect in ability %q names unknown template %q", def.ID, eff.Summon)
	}
	pos, ok := st.nearestFreeCell(actor.Pos)
	if !ok {
		return nil
	}
	u := unit.NewBattleUnit(tpl, actor.Team, st.nextIdx, pos, st.seed)
	st.nextIdx++
	st.units = append(st.units, u)
	st.effects[u.InstanceID] = ability.NewActiveSet()
	st.grid.Occupy(pos, u.InstanceID)
	st.emit(Event{
		Type:      EventAbility,
		ActorID:   actor.InstanceID,
		TargetIDs: []string{u.InstanceID},
		AbilityID: def.ID,
		To:        &pos,
		Meta:      map[string]string{"effect": "summon", "template": tpl.ID},
	})
	return nil
}

// nearestFreeCell scans outward from origin in fixed ring order and returns
// the first unoccupied in-bounds cell.
func (st *battleState) nearestFreeCell(origin grid.Position) (grid.Position, bool) {
	maxR := st.gridCfg.Width + st.gridCfg.Height
	for r := 1; r <= maxR; r++ {
		for dx := -r; dx <= r; dx++ {
			dy := r - abs(dx)
			for _, sign := range []int{1, -1} {
				if dy == 0 && sign == -1 {
					continue
				}
				pos := grid.Position{X: origin.X + dx, Y: origin.Y + sign*dy}
				if st.grid.InBounds(pos) && !st.grid.IsOccupied(pos) {
					return pos, true
				}
			}
		}
	}
	return grid.Position{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
