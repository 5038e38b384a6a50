// Package targeting implements target selection strategies and range
// validation. All tie-breaks are by stable candidate order, so selection is
// deterministic for a given candidate slice.
package targeting

import (
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// Strategy names a target selection policy.
type Strategy string

const (
	// Nearest picks the candidate at minimum Manhattan distance.
	Nearest Strategy = "nearest"
	// Weakest picks the candidate with the lowest current HP.
	Weakest Strategy = "weakest"
)

// CanTarget reports whether attacker can act on target right now:
// target is alive and within attacker's range (Manhattan).
func CanTarget(attacker, target *unit.BattleUnit) bool {
	if target == nil || !target.Alive {
		return false
	}
	return attacker.Pos.Manhattan(target.Pos) <= attacker.Template.Range
}

// Select applies strategy over the candidates attacker can currently target.
// Returns nil when no candidate satisfies CanTarget. Exact ties keep the
// earlier candidate.
func Select(attacker *unit.BattleUnit, candidates []*unit.BattleUnit, strategy Strategy) *unit.BattleUnit {
	var best *unit.BattleUnit
	bestKey := 0
	for _, c := range candidates {
		if !CanTarget(attacker, c) {
			continue
		}
		var key int
		switch strategy {
		case Weakest:
			key = c.CurrentHP
		default:
			key = attacker.Pos.Manhattan(c.Pos)
		}
		if best == nil || key < bestKey {
			best = c
			bestKey = key
		}
	}
	return best
}

// Closest returns the living candidate nearest to origin regardless of
// range, or nil when no candidate is alive. Exact ties keep the earlier
// candidate.
func Closest(origin grid.Position, candidates []*unit.BattleUnit) *unit.BattleUnit {
	var best *unit.BattleUnit
	bestDist := 0
	for _, c := range candidates {
		if !c.Alive {
			continue
		}
		d := origin.Manhattan(c.Pos)
		if best == nil || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// UnitsInRange returns the living candidates within radius of center
// (Manhattan), in input order.
func UnitsInRange(center grid.Position, radius int, candidates []*unit.BattleUnit) []*unit.BattleUnit {
	var out []*unit.BattleUnit
	for _, c := range candidates {
		if c.Alive && center.Manhattan(c.Pos) <= radius {
			out = append(out, c)
		}
	}
	return out
}
