// Package damage implements the physical and magic damage formulas, dodge
// rolls, and HP application for the battle engine.
package damage

import (
	"fmt"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/rng"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
	"github.com/cory-johannsen/autobattler/internal/scripting"
)

// Physical computes physical damage: max(minDamage, (atk-armor)*atkCount).
// Armor can never push damage below the floor.
//
// Postcondition: Returns >= minDamage.
func Physical(atk, armor, atkCount, minDamage int) int {
	dmg := (atk - armor) * atkCount
	if dmg < minDamage {
		return minDamage
	}
	return dmg
}

// Magic computes magic damage: atk * atkCount. Armor-independent.
func Magic(atk, atkCount int) int {
	return atk * atkCount
}

// Formula computes raw damage from attack inputs. Native formulas and
// compiled Lua formulas both satisfy it.
type Formula func(atk, armor, atkCount, minDamage int) (int, error)

// Result describes one resolved damage computation before HP application.
type Result struct {
	Amount int
	Dodged bool
	Magic  bool
}

// Resolver resolves attacks against the configured formulas and dodge rules.
// The PRNG draw order is owned by the caller: Resolver consumes exactly one
// draw per dodge roll and none otherwise, so battles replay identically.
type Resolver struct {
	cfg      config.DamageConfig
	physical Formula
	magic    Formula
}

// NewResolver builds a Resolver from cfg, compiling Lua formula overrides
// when configured.
//
// Precondition: cfg has passed config.ValidateEngineConfig.
// Postcondition: Returns a ready Resolver or a formula compilation error.
func NewResolver(cfg config.DamageConfig) (*Resolver, error) {
	r := &Resolver{
		cfg: cfg,
		physical: func(atk, armor, atkCount, minDamage int) (int, error) {
			return Physical(atk, armor, atkCount, minDamage), nil
		},
		magic: func(atk, _, atkCount, _ int) (int, error) {
			return Magic(atk, atkCount), nil
		},
	}
	if cfg.PhysicalFormula != "" {
		f, err := scripting.CompileFormula("physical", cfg.PhysicalFormula)
		if err != nil {
			return nil, fmt.Errorf("compiling physical formula: %w", err)
		}
		r.physical = f.Eval
	}
	if cfg.MagicFormula != "" {
		f, err := scripting.CompileFormula("magic", cfg.MagicFormula)
		if err != nil {
			return nil, fmt.Errorf("compiling magic formula: %w", err)
		}
		r.magic = f.Eval
	}
	return r, nil
}

// DodgeCap returns the configured dodge cap percent.
func (r *Resolver) DodgeCap() int { return r.cfg.DodgeCapPercent }

// EffectiveDodge returns the dodge chance used in rolls: min(dodge, cap),
// floored at 0.
//
// Postcondition: 0 <= result <= cfg.DodgeCapPercent.
func (r *Resolver) EffectiveDodge(dodge int) int {
	if dodge < 0 {
		return 0
	}
	if dodge > r.cfg.DodgeCapPercent {
		return r.cfg.DodgeCapPercent
	}
	return dodge
}

// RollDodge consumes one draw from src and reports whether a unit with the
// given dodge stat evades the attack.
func (r *Resolver) RollDodge(dodge int, src rng.Source) bool {
	return src.Float64()*100 < float64(r.EffectiveDodge(dodge))
}

// ResolvePhysical resolves one physical attack. targetDodge is the target's
// effective dodge stat (synergy- and buff-adjusted); one PRNG draw is
// consumed for the dodge roll.
//
// Postcondition: Result.Amount >= cfg.MinDamage unless dodged (then 0).
func (r *Resolver) ResolvePhysical(atk, armor, atkCount, targetDodge int, src rng.Source) (Result, error) {
	if r.RollDodge(targetDodge, src) {
		return Result{Dodged: true}, nil
	}
	amount, err := r.physical(atk, armor, atkCount, r.cfg.MinDamage)
	if err != nil {
		return Result{}, err
	}
	return Result{Amount: amount}, nil
}

// ResolveMagic resolves one magic attack. Magic ignores armor and, unless
// DodgeAppliesToMagic is set, cannot be dodged. When dodge does apply, one
// PRNG draw is consumed.
func (r *Resolver) ResolveMagic(atk, atkCount, targetDodge int, src rng.Source) (Result, error) {
	if r.cfg.DodgeAppliesToMagic && r.RollDodge(targetDodge, src) {
		return Result{Dodged: true, Magic: true}, nil
	}
	amount, err := r.magic(atk, 0, atkCount, r.cfg.MinDamage)
	if err != nil {
		return Result{}, err
	}
	return Result{Amount: amount, Magic: true}, nil
}

// Apply computes the effect of amount damage on u without mutating it.
//
// Postcondition: 0 <= newHP <= u.CurrentHP; killed iff newHP == 0.
func Apply(u *unit.BattleUnit, amount int) (newHP int, killed bool) {
	newHP = u.CurrentHP - amount
	if newHP < 0 {
		newHP = 0
	}
	return newHP, newHP == 0
}
