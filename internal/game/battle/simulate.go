// Package battle implements the round-by-round battle state machine, the
// event log it emits, and the Simulate entry point. A battle is a pure,
// sequential computation over a seed and two rosters: no I/O, no shared
// state, no concurrency. Two battles may run in parallel because each owns
// its grid, units, and PRNG state.
package battle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/ability"
	"github.com/cory-johannsen/autobattler/internal/game/damage"
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/rng"
	"github.com/cory-johannsen/autobattler/internal/game/targeting"
	"github.com/cory-johannsen/autobattler/internal/game/turnorder"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// Simulator bundles the static content a battle needs: unit templates,
// ability definitions, and the synergy list in application order. A zero
// field falls back to the built-in defaults. Simulator is immutable during
// Simulate and safe to share across concurrent battles.
type Simulator struct {
	Units     *unit.Registry
	Abilities *ability.Registry
	Synergies []*ability.SynergyDef
	Logger    *zap.Logger
}

// NewSimulator returns a Simulator backed by the built-in content.
func NewSimulator() *Simulator {
	return &Simulator{
		Units:     unit.DefaultRegistry(),
		Abilities: ability.DefaultRegistry(),
		Synergies: ability.DefaultSynergies(),
		Logger:    zap.NewNop(),
	}
}

// Simulate runs one battle with the built-in content. See
// Simulator.Simulate.
func Simulate(playerRoster, botRoster []Placement, gridCfg config.GridConfig, battleCfg config.BattleConfig, dmgCfg config.DamageConfig, seed int64) (*Result, error) {
	return NewSimulator().Simulate(playerRoster, botRoster, gridCfg, battleCfg, dmgCfg, seed)
}

// Simulate runs one complete battle to a terminal outcome.
//
// Configuration is validated eagerly; placements must lie in the owning
// team's deployment rows and no two units may share a cell. All randomness
// flows from seed, so identical inputs replay an identical event log.
//
// Postcondition: on success the final event is battle_end and the battle ran
// at most battleCfg.MaxRounds rounds. A returned *SimulationError marks an
// internal invariant violation; it is never retried here.
func (s *Simulator) Simulate(playerRoster, botRoster []Placement, gridCfg config.GridConfig, battleCfg config.BattleConfig, dmgCfg config.DamageConfig, seed int64) (*Result, error) {
	if err := config.ValidateGridConfig(gridCfg); err != nil {
		return nil, err
	}
	if err := config.ValidateBattleConfig(battleCfg); err != nil {
		return nil, err
	}
	if err := config.ValidateEngineConfig(dmgCfg); err != nil {
		return nil, err
	}

	resolver, err := damage.NewResolver(dmgCfg)
	if err != nil {
		return nil, err
	}

	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	st := &battleState{
		gridCfg:   gridCfg,
		battleCfg: battleCfg,
		resolver:  resolver,
		grid:      grid.New(gridCfg),
		effects:   make(map[string]*ability.ActiveSet),
		fired:     make(map[string]bool),
		src:       rng.New(seed),
		emitter:   NewEmitter(),
		abilities: s.abilitiesOrDefault(),
		unitReg:   s.unitsOrDefault(),
		synergies: s.synergiesOrDefault(),
		logger:    logger,
		seed:      seed,
	}
	collector := NewCollector()
	collector.Attach(st.emitter)

	if err := st.deployTeam(unit.TeamPlayer, playerRoster, gridCfg.PlayerRows); err != nil {
		return nil, err
	}
	if err := st.deployTeam(unit.TeamBot, botRoster, gridCfg.EnemyRows); err != nil {
		return nil, err
	}

	winner, decided := st.outcome()
	for round := 1; round <= battleCfg.MaxRounds && !decided; round++ {
		st.round = round
		st.emit(Event{Type: EventRoundStart})
		logger.Debug("round start", zap.Int("round", round))

		queue := turnorder.Build(st.units)
		for _, u := range queue {
			if !u.Alive {
				continue
			}
			if err := st.takeTurn(u); err != nil {
				return nil, err
			}
			if winner, decided = st.outcome(); decided {
				break
			}
		}
	}
	if !decided {
		winner = WinnerDraw
	}
	st.emit(Event{Type: EventBattleEnd, Meta: map[string]string{"winner": string(winner)}})
	logger.Debug("battle end",
		zap.String("winner", string(winner)),
		zap.Int("rounds", st.round),
		zap.Int64("seed", seed),
	)

	final := FinalState{}
	for _, u := range st.units {
		snap := u.Snapshot()
		if u.Team == unit.TeamPlayer {
			final.PlayerUnits = append(final.PlayerUnits, snap)
		} else {
			final.BotUnits = append(final.BotUnits, snap)
		}
	}
	return &Result{
		Events:     collector.Events(),
		Winner:     winner,
		FinalState: final,
		Metadata:   Metadata{TotalRounds: st.round, Seed: seed},
	}, nil
}

func (s *Simulator) unitsOrDefault() *unit.Registry {
	if s.Units != nil {
		return s.Units
	}
	return unit.DefaultRegistry()
}

func (s *Simulator) abilitiesOrDefault() *ability.Registry {
	if s.Abilities != nil {
		return s.Abilities
	}
	return ability.DefaultRegistry()
}

func (s *Simulator) synergiesOrDefault() []*ability.SynergyDef {
	if s.Synergies != nil {
		return s.Synergies
	}
	return ability.DefaultSynergies()
}

// strategyFor maps a unit role to its basic-attack targeting strategy.
// Back-line roles focus fire the weakest enemy; everyone else takes the
// nearest.
func strategyFor(role unit.Role) targeting.Strategy {
	switch role {
	case unit.RoleRangedDPS, unit.RoleMage:
		return targeting.Weakest
	default:
		return targeting.Nearest
	}
}

// takeTurn runs one unit's full turn: status tick, turn-start passives,
// spell cast or move-and-attack.
func (st *battleState) takeTurn(u *unit.BattleUnit) error {
	if !u.Alive {
		return simErrorf("turn given to dead unit %s", u.InstanceID)
	}

	tick := st.effects[u.InstanceID].Tick()
	if tick.Heal > 0 {
		st.heal(u, tick.Heal, u.InstanceID, "")
	}
	if tick.Damage > 0 {
		died, err := st.applyDamage(u, tick.Damage, "", "")
		if err != nil {
			return err
		}
		if died {
			return nil
		}
	}

	for _, id := range u.Template.Abilities {
		def, ok := st.abilities.Get(id)
		if ok && def.Passive && def.Trigger == ability.TriggerOnTurnStart {
			if err := st.fireAbility(u, def, nil, 0); err != nil {
				return err
			}
		}
	}

	if tick.Stunned {
		return nil
	}

	cast, err := st.maybeCastSpell(u)
	if err != nil || cast {
		return err
	}

	enemies := st.livingEnemies(u)
	if len(enemies) == 0 {
		return nil
	}

	// Taunt overrides the configured strategy: when any enemy taunts, only
	// taunting enemies are eligible.
	candidates := enemies
	var taunted []*unit.BattleUnit
	for _, e := range enemies {
		if st.effects[e.InstanceID].Has(ability.KindTaunt) {
			taunted = append(taunted, e)
		}
	}
	if len(taunted) > 0 {
		candidates = taunted
	}

	strategy := strategyFor(u.Template.Role)
	target := targeting.Select(u, candidates, strategy)
	if target == nil {
		if err := st.moveToward(u, candidates); err != nil {
			return err
		}
		target = targeting.Select(u, candidates, strategy)
		if target == nil {
			return nil
		}
	}
	return st.attack(u, target)
}

// moveToward advances u up to its speed along the shortest path to the
// closest candidate. No path or zero speed means the unit stays put; that is
// an expected empty result, not an error.
func (st *battleState) moveToward(u *unit.BattleUnit, candidates []*unit.BattleUnit) error {
	goal := targeting.Closest(u.Pos, candidates)
	if goal == nil {
		return nil
	}
	path := grid.FindPath(u.Pos, goal.Pos, st.grid.Obstacles(u.Pos), grid.MaxPathIterations, st.gridCfg)
	if len(path) == 0 {
		return nil
	}
	// The final path cell is the target's own cell; stop one short.
	steps := st.statOf(u, "speed")
	if steps > len(path)-1 {
		steps = len(path) - 1
	}
	if steps <= 0 {
		return nil
	}
	dest := path[steps-1]
	if !st.grid.InBounds(dest) {
		return simErrorf("move for unit %s left grid bounds at (%d,%d)", u.InstanceID, dest.X, dest.Y)
	}
	from := u.Pos
	st.grid.Vacate(u.Pos)
	u.Pos = dest
	st.grid.Occupy(dest, u.InstanceID)
	st.emit(Event{Type: EventMove, ActorID: u.InstanceID, From: &from, To: &dest})
	return nil
}

// attack resolves u's basic attack on target. Mages attack with magic
// damage; every other role attacks physically. One PRNG draw is consumed
// per dodge-capable attack, in turn order, which keeps replays exact.
func (st *battleState) attack(u, target *unit.BattleUnit) error {
	atk := st.statOf(u, "atk")
	atkCount := st.statOf(u, "atk_count")
	targetDodge := st.statOf(target, "dodge")

	var res damage.Result
	var err error
	if u.Template.Role == unit.RoleMage {
		res, err = st.resolver.ResolveMagic(atk, atkCount, targetDodge, st.src)
	} else {
		res, err = st.resolver.ResolvePhysical(atk, st.statOf(target, "armor"), atkCount, targetDodge, st.src)
	}
	if err != nil {
		return err
	}

	ev := Event{Type: EventAttack, ActorID: u.InstanceID, TargetIDs: []string{target.InstanceID}}
	if res.Dodged {
		ev.Meta = map[string]string{"dodged": "true"}
		st.emit(ev)
		return nil
	}
	st.emit(ev)

	if _, err := st.applyDamage(target, res.Amount, u.InstanceID, ""); err != nil {
		return err
	}

	// On-hit passives fire after the damage lands, scaled by the attack's
	// pre-shield amount.
	for _, id := range u.Template.Abilities {
		def, ok := st.abilities.Get(id)
		if ok && def.Passive && def.Trigger == ability.TriggerOnHit {
			if err := st.fireAbility(u, def, target, res.Amount); err != nil {
				return err
			}
		}
	}
	return nil
}
