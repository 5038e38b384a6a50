package targeting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/targeting"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

func makeUnit(id string, team unit.Team, rosterIdx int, pos grid.Position, hp, rng int) *unit.BattleUnit {
	tpl := &unit.Template{
		ID: id, Name: id, Role: unit.RoleMeleeDPS,
		Stats: unit.Stats{HP: hp, AtkCount: 1},
		Range: rng,
	}
	return unit.NewBattleUnit(tpl, team, rosterIdx, pos, 1)
}

func TestCanTarget(t *testing.T) {
	attacker := makeUnit("a", unit.TeamPlayer, 0, grid.Position{X: 0, Y: 0}, 10, 2)
	inRange := makeUnit("b", unit.TeamBot, 0, grid.Position{X: 1, Y: 1}, 10, 1)
	outOfRange := makeUnit("c", unit.TeamBot, 1, grid.Position{X: 2, Y: 1}, 10, 1)
	dead := makeUnit("d", unit.TeamBot, 2, grid.Position{X: 0, Y: 1}, 10, 1)
	dead.Alive = false

	assert.True(t, targeting.CanTarget(attacker, inRange))
	assert.False(t, targeting.CanTarget(attacker, outOfRange))
	assert.False(t, targeting.CanTarget(attacker, dead))
	assert.False(t, targeting.CanTarget(attacker, nil))
}

func TestSelect_Nearest(t *testing.T) {
	attacker := makeUnit("a", unit.TeamPlayer, 0, grid.Position{X: 0, Y: 0}, 10, 5)
	far := makeUnit("b", unit.TeamBot, 0, grid.Position{X: 0, Y: 4}, 10, 1)
	near := makeUnit("c", unit.TeamBot, 1, grid.Position{X: 0, Y: 2}, 10, 1)

	got := targeting.Select(attacker, []*unit.BattleUnit{far, near}, targeting.Nearest)
	assert.Equal(t, near, got)
}

func TestSelect_Weakest(t *testing.T) {
	attacker := makeUnit("a", unit.TeamPlayer, 0, grid.Position{X: 0, Y: 0}, 10, 5)
	healthy := makeUnit("b", unit.TeamBot, 0, grid.Position{X: 0, Y: 1}, 40, 1)
	wounded := makeUnit("c", unit.TeamBot, 1, grid.Position{X: 0, Y: 4}, 40, 1)
	wounded.CurrentHP = 5

	got := targeting.Select(attacker, []*unit.BattleUnit{healthy, wounded}, targeting.Weakest)
	assert.Equal(t, wounded, got, "weakest wins even at greater distance")
}

func TestSelect_TiesKeepEarlierCandidate(t *testing.T) {
	attacker := makeUnit("a", unit.TeamPlayer, 0, grid.Position{X: 0, Y: 0}, 10, 5)
	first := makeUnit("b", unit.TeamBot, 0, grid.Position{X: 0, Y: 2}, 10, 1)
	second := makeUnit("c", unit.TeamBot, 1, grid.Position{X: 2, Y: 0}, 10, 1)

	got := targeting.Select(attacker, []*unit.BattleUnit{first, second}, targeting.Nearest)
	assert.Equal(t, first, got)

	got = targeting.Select(attacker, []*unit.BattleUnit{first, second}, targeting.Weakest)
	assert.Equal(t, first, got)
}

func TestSelect_NoValidCandidate(t *testing.T) {
	attacker := makeUnit("a", unit.TeamPlayer, 0, grid.Position{X: 0, Y: 0}, 10, 1)
	far := makeUnit("b", unit.TeamBot, 0, grid.Position{X: 5, Y: 5}, 10, 1)
	dead := makeUnit("c", unit.TeamBot, 1, grid.Position{X: 0, Y: 1}, 10, 1)
	dead.Alive = false

	assert.Nil(t, targeting.Select(attacker, []*unit.BattleUnit{far, dead}, targeting.Nearest))
	assert.Nil(t, targeting.Select(attacker, nil, targeting.Nearest))
}

func TestClosest(t *testing.T) {
	origin := grid.Position{X: 0, Y: 0}
	far := makeUnit("a", unit.TeamBot, 0, grid.Position{X: 7, Y: 9}, 10, 1)
	near := makeUnit("b", unit.TeamBot, 1, grid.Position{X: 1, Y: 1}, 10, 1)
	dead := makeUnit("c", unit.TeamBot, 2, grid.Position{X: 0, Y: 1}, 10, 1)
	dead.Alive = false

	assert.Equal(t, near, targeting.Closest(origin, []*unit.BattleUnit{far, near, dead}))
	assert.Nil(t, targeting.Closest(origin, []*unit.BattleUnit{dead}))
	assert.Nil(t, targeting.Closest(origin, nil))
}

func TestUnitsInRange(t *testing.T) {
	center := grid.Position{X: 3, Y: 3}
	a := makeUnit("a", unit.TeamBot, 0, grid.Position{X: 3, Y: 4}, 10, 1)
	b := makeUnit("b", unit.TeamBot, 1, grid.Position{X: 5, Y: 3}, 10, 1)
	c := makeUnit("c", unit.TeamBot, 2, grid.Position{X: 3, Y: 7}, 10, 1)
	dead := makeUnit("d", unit.TeamBot, 3, grid.Position{X: 3, Y: 3}, 10, 1)
	dead.Alive = false

	got := targeting.UnitsInRange(center, 2, []*unit.BattleUnit{a, b, c, dead})
	require.Len(t, got, 2)
	assert.Equal(t, []*unit.BattleUnit{a, b}, got, "input order is preserved")
}
