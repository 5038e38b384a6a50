package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/battle"
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/rng"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

func TestGenerateBotTeam_Deterministic(t *testing.T) {
	reg := unit.DefaultRegistry()
	cfg := config.DefaultGridConfig()

	first := battle.GenerateBotTeam(reg, 10, cfg, rng.New(12345))
	second := battle.GenerateBotTeam(reg, 10, cfg, rng.New(12345))
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestGenerateBotTeam_RespectsBudgetAndZone(t *testing.T) {
	reg := unit.DefaultRegistry()
	cfg := config.DefaultGridConfig()
	rows := map[int]bool{}
	for _, r := range cfg.EnemyRows {
		rows[r] = true
	}

	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		budget := rapid.IntRange(0, 30).Draw(rt, "budget")

		team := battle.GenerateBotTeam(reg, budget, cfg, rng.New(seed))

		total := 0
		seen := map[grid.Position]bool{}
		for _, p := range team {
			tpl, ok := reg.Get(p.TemplateID)
			require.True(rt, ok, "placement names unknown template %q", p.TemplateID)
			total += tpl.Cost
			assert.True(rt, rows[p.Position.Y], "position %v outside enemy rows", p.Position)
			assert.True(rt, grid.IsValidPosition(p.Position, cfg))
			assert.False(rt, seen[p.Position], "duplicate cell %v", p.Position)
			seen[p.Position] = true
		}
		assert.LessOrEqual(rt, total, budget)
	})
}

func TestGenerateBotTeam_ZeroBudget(t *testing.T) {
	team := battle.GenerateBotTeam(unit.DefaultRegistry(), 0, config.DefaultGridConfig(), rng.New(1))
	assert.Empty(t, team)
}

func TestGenerateBotTeam_DifferentSeedsVary(t *testing.T) {
	reg := unit.DefaultRegistry()
	cfg := config.DefaultGridConfig()

	varied := false
	base := battle.GenerateBotTeam(reg, 10, cfg, rng.New(0))
	for seed := int64(1); seed <= 20 && !varied; seed++ {
		other := battle.GenerateBotTeam(reg, 10, cfg, rng.New(seed))
		if len(other) != len(base) {
			varied = true
			break
		}
		for i := range other {
			if other[i] != base[i] {
				varied = true
				break
			}
		}
	}
	assert.True(t, varied, "twenty seeds produced identical rosters")
}
