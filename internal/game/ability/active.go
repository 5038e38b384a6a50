package ability

// ActiveEffect is one status effect currently attached to a battle unit.
type ActiveEffect struct {
	Kind   Kind
	Stat   string // buff/debuff target stat
	Amount int    // per-tick magnitude for dot/hot, stat delta for buff/debuff, remaining capacity for shield
	// Remaining is the number of round ticks left. Decremented once per
	// owning unit's turn; the effect is removed when it reaches 0.
	Remaining int
	// Source is the ability id that applied this effect.
	Source string
}

// TickOutcome reports what happened during one turn-start tick.
type TickOutcome struct {
	// Damage is the summed DoT magnitude to apply this tick.
	Damage int
	// Heal is the summed HoT magnitude to apply this tick.
	Heal int
	// Stunned is true when the unit was stunned entering this tick and must
	// skip its turn. The stun duration still decrements, so a 1-round stun
	// costs exactly one turn.
	Stunned bool
	// Expired lists the effects removed by this tick.
	Expired []ActiveEffect
}

// ActiveSet tracks all status effects on one battle unit. Effects are kept
// in application order; every query iterates that order, so outcomes are
// deterministic. Not safe for concurrent use.
type ActiveSet struct {
	effects []*ActiveEffect
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply attaches e to the unit. Effects never merge: re-applying the same
// ability stacks a second instance with its own duration.
func (s *ActiveSet) Apply(e ActiveEffect) {
	cp := e
	s.effects = append(s.effects, &cp)
}

// Effects returns a copy of the effect list in application order. The
// pointed-to values are shared; callers must not modify them.
func (s *ActiveSet) Effects() []*ActiveEffect {
	out := make([]*ActiveEffect, len(s.effects))
	copy(out, s.effects)
	return out
}

// Has reports whether any effect of the given kind is active.
func (s *ActiveSet) Has(kind Kind) bool {
	for _, e := range s.effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// StatModifier returns the net delta for stat from all active buffs and
// debuffs. Buff amounts add; debuff amounts subtract.
func (s *ActiveSet) StatModifier(stat string) int {
	total := 0
	for _, e := range s.effects {
		if e.Stat != stat {
			continue
		}
		switch e.Kind {
		case KindBuff:
			total += e.Amount
		case KindDebuff:
			total -= e.Amount
		}
	}
	return total
}

// ShieldTotal returns the remaining absorb capacity across all shields.
func (s *ActiveSet) ShieldTotal() int {
	total := 0
	for _, e := range s.effects {
		if e.Kind == KindShield {
			total += e.Amount
		}
	}
	return total
}

// AbsorbDamage routes amount through active shields in application order and
// returns how much was absorbed. Shields reduced to zero capacity are
// removed immediately.
//
// Postcondition: 0 <= absorbed <= amount.
func (s *ActiveSet) AbsorbDamage(amount int) int {
	absorbed := 0
	remaining := s.effects[:0]
	for _, e := range s.effects {
		if e.Kind != KindShield || absorbed == amount {
			remaining = append(remaining, e)
			continue
		}
		take := amount - absorbed
		if take > e.Amount {
			take = e.Amount
		}
		absorbed += take
		e.Amount -= take
		if e.Amount > 0 {
			remaining = append(remaining, e)
		}
	}
	s.effects = remaining
	return absorbed
}

// Cleanse removes all hostile effects (debuffs, stuns, DoTs) and returns
// them in application order.
func (s *ActiveSet) Cleanse() []ActiveEffect {
	return s.removeKinds(KindDebuff, KindStun, KindDot)
}

// Dispel removes all beneficial effects (buffs, HoTs, shields, taunts) and
// returns them in application order.
func (s *ActiveSet) Dispel() []ActiveEffect {
	return s.removeKinds(KindBuff, KindHot, KindShield, KindTaunt)
}

func (s *ActiveSet) removeKinds(kinds ...Kind) []ActiveEffect {
	match := func(k Kind) bool {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
	var removed []ActiveEffect
	kept := s.effects[:0]
	for _, e := range s.effects {
		if match(e.Kind) {
			removed = append(removed, *e)
		} else {
			kept = append(kept, e)
		}
	}
	s.effects = kept
	return removed
}

// Tick runs the owning unit's turn-start tick: DoT/HoT magnitudes are summed
// into the outcome, the stun state entering the tick is captured, and every
// timed effect's remaining duration decrements by one. Effects reaching 0
// are removed.
//
// Shields expire by duration here; capacity exhaustion is handled by
// AbsorbDamage.
func (s *ActiveSet) Tick() TickOutcome {
	out := TickOutcome{Stunned: s.Has(KindStun)}
	kept := s.effects[:0]
	for _, e := range s.effects {
		switch e.Kind {
		case KindDot:
			out.Damage += e.Amount
		case KindHot:
			out.Heal += e.Amount
		}
		e.Remaining--
		if e.Remaining <= 0 {
			out.Expired = append(out.Expired, *e)
		} else {
			kept = append(kept, e)
		}
	}
	s.effects = kept
	return out
}
