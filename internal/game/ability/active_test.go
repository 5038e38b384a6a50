package ability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/autobattler/internal/game/ability"
)

func TestActiveSet_ApplyAndStatModifier(t *testing.T) {
	s := ability.NewActiveSet()
	assert.Zero(t, s.StatModifier("atk"))

	s.Apply(ability.ActiveEffect{Kind: ability.KindBuff, Stat: "atk", Amount: 5, Remaining: 2, Source: "war_cry"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindDebuff, Stat: "atk", Amount: 3, Remaining: 2, Source: "curse"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindBuff, Stat: "armor", Amount: 4, Remaining: 2, Source: "bulwark"})

	assert.Equal(t, 2, s.StatModifier("atk"), "buffs add, debuffs subtract")
	assert.Equal(t, 4, s.StatModifier("armor"))
	assert.Zero(t, s.StatModifier("speed"))
	assert.True(t, s.Has(ability.KindBuff))
	assert.True(t, s.Has(ability.KindDebuff))
	assert.False(t, s.Has(ability.KindStun))
	assert.Len(t, s.Effects(), 3)
}

func TestActiveSet_ReapplyStacks(t *testing.T) {
	s := ability.NewActiveSet()
	s.Apply(ability.ActiveEffect{Kind: ability.KindBuff, Stat: "atk", Amount: 5, Remaining: 2, Source: "war_cry"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindBuff, Stat: "atk", Amount: 5, Remaining: 3, Source: "war_cry"})

	assert.Len(t, s.Effects(), 2, "same ability stacks a fresh instance")
	assert.Equal(t, 10, s.StatModifier("atk"))
}

func TestActiveSet_Shields(t *testing.T) {
	s := ability.NewActiveSet()
	s.Apply(ability.ActiveEffect{Kind: ability.KindShield, Amount: 10, Remaining: 3, Source: "barrier"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindShield, Amount: 5, Remaining: 3, Source: "ward"})
	require.Equal(t, 15, s.ShieldTotal())

	// First shield absorbs first; exhausted shields are removed.
	assert.Equal(t, 12, s.AbsorbDamage(12))
	assert.Equal(t, 3, s.ShieldTotal())
	require.Len(t, s.Effects(), 1)
	assert.Equal(t, "ward", s.Effects()[0].Source)

	// Partial absorption when damage exceeds capacity.
	assert.Equal(t, 3, s.AbsorbDamage(100))
	assert.Zero(t, s.ShieldTotal())
	assert.Zero(t, s.AbsorbDamage(10), "no shields left")
}

func TestActiveSet_Cleanse(t *testing.T) {
	s := ability.NewActiveSet()
	s.Apply(ability.ActiveEffect{Kind: ability.KindDebuff, Stat: "atk", Amount: 3, Remaining: 2, Source: "curse"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindStun, Remaining: 1, Source: "glare"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindDot, Amount: 4, Remaining: 2, Source: "poison"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindBuff, Stat: "atk", Amount: 5, Remaining: 2, Source: "war_cry"})

	removed := s.Cleanse()
	require.Len(t, removed, 3)
	assert.Equal(t, "curse", removed[0].Source)
	assert.Equal(t, "glare", removed[1].Source)
	assert.Equal(t, "poison", removed[2].Source)

	require.Len(t, s.Effects(), 1, "beneficial effects survive a cleanse")
	assert.Equal(t, ability.KindBuff, s.Effects()[0].Kind)
	assert.Empty(t, s.Cleanse(), "second cleanse finds nothing")
}

func TestActiveSet_Dispel(t *testing.T) {
	s := ability.NewActiveSet()
	s.Apply(ability.ActiveEffect{Kind: ability.KindBuff, Stat: "armor", Amount: 3, Remaining: 3, Source: "bulwark"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindHot, Amount: 5, Remaining: 3, Source: "rain"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindShield, Amount: 30, Remaining: 3, Source: "bulwark"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindTaunt, Remaining: 2, Source: "shout"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindDot, Amount: 4, Remaining: 2, Source: "poison"})

	removed := s.Dispel()
	assert.Len(t, removed, 4)
	require.Len(t, s.Effects(), 1, "hostile effects survive a dispel")
	assert.Equal(t, ability.KindDot, s.Effects()[0].Kind)
}

func TestActiveSet_Tick(t *testing.T) {
	s := ability.NewActiveSet()
	s.Apply(ability.ActiveEffect{Kind: ability.KindDot, Amount: 4, Remaining: 2, Source: "poison"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindDot, Amount: 2, Remaining: 1, Source: "bleed"})
	s.Apply(ability.ActiveEffect{Kind: ability.KindHot, Amount: 5, Remaining: 1, Source: "rain"})

	out := s.Tick()
	assert.Equal(t, 6, out.Damage, "dot magnitudes sum")
	assert.Equal(t, 5, out.Heal)
	assert.False(t, out.Stunned)
	require.Len(t, out.Expired, 2)
	assert.Equal(t, "bleed", out.Expired[0].Source)
	assert.Equal(t, "rain", out.Expired[1].Source)

	out = s.Tick()
	assert.Equal(t, 4, out.Damage)
	assert.Zero(t, out.Heal)
	require.Len(t, out.Expired, 1)
	assert.Equal(t, "poison", out.Expired[0].Source)
	assert.Empty(t, s.Effects())
}

func TestActiveSet_Tick_StunCostsExactlyOneTurn(t *testing.T) {
	s := ability.NewActiveSet()
	s.Apply(ability.ActiveEffect{Kind: ability.KindStun, Remaining: 1, Source: "glare"})

	out := s.Tick()
	assert.True(t, out.Stunned, "the stun is captured before its duration decrements")
	require.Len(t, out.Expired, 1)

	out = s.Tick()
	assert.False(t, out.Stunned, "expired stuns do not linger")
}
