// Package turnorder builds and filters the per-round initiative queue.
package turnorder

import (
	"sort"

	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// Build returns the living units ordered for one round: initiative
// descending, speed descending on ties, then roster order. The sort is
// stable, so equal keys always resolve to the same sequence.
//
// Build is pure: the input slice is not reordered.
//
// Postcondition: Every returned unit has Alive == true.
func Build(units []*unit.BattleUnit) []*unit.BattleUnit {
	queue := make([]*unit.BattleUnit, 0, len(units))
	for _, u := range units {
		if u.Alive {
			queue = append(queue, u)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Stats.Initiative != queue[j].Stats.Initiative {
			return queue[i].Stats.Initiative > queue[j].Stats.Initiative
		}
		return queue[i].Stats.Speed > queue[j].Stats.Speed
	})
	return queue
}

// Next returns the first living unit in queue, or nil when none remain.
// Units that died after the queue was built are skipped, not removed.
func Next(queue []*unit.BattleUnit) *unit.BattleUnit {
	for _, u := range queue {
		if u.Alive {
			return u
		}
	}
	return nil
}

// RemoveDead returns queue filtered to living units. Pure.
func RemoveDead(queue []*unit.BattleUnit) []*unit.BattleUnit {
	out := make([]*unit.BattleUnit, 0, len(queue))
	for _, u := range queue {
		if u.Alive {
			out = append(out, u)
		}
	}
	return out
}

// HasLiving reports whether any unit in units is alive.
func HasLiving(units []*unit.BattleUnit) bool {
	for _, u := range units {
		if u.Alive {
			return true
		}
	}
	return false
}

// LivingByTeam returns the living units belonging to team, in input order.
func LivingByTeam(units []*unit.BattleUnit, team unit.Team) []*unit.BattleUnit {
	var out []*unit.BattleUnit
	for _, u := range units {
		if u.Alive && u.Team == team {
			out = append(out, u)
		}
	}
	return out
}
