package battle

import (
	"github.com/cory-johannsen/autobattler/internal/game/grid"
)

// EventType identifies what a BattleEvent records.
type EventType string

const (
	EventRoundStart EventType = "round_start"
	EventMove       EventType = "move"
	EventAttack     EventType = "attack"
	EventDamage     EventType = "damage"
	EventHeal       EventType = "heal"
	EventAbility    EventType = "ability"
	EventDeath      EventType = "death"
	EventBuff       EventType = "buff"
	EventDebuff     EventType = "debuff"
	EventBattleEnd  EventType = "battle_end"
)

// Event is one append-only record in a battle's replay log. Events are never
// mutated after emission.
type Event struct {
	Round     int               `json:"round"`
	Type      EventType         `json:"type"`
	ActorID   string            `json:"actorId,omitempty"`
	TargetIDs []string          `json:"targetIds,omitempty"`
	Amount    int               `json:"amount,omitempty"`
	From      *grid.Position    `json:"from,omitempty"`
	To        *grid.Position    `json:"to,omitempty"`
	AbilityID string            `json:"abilityId,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Handler consumes one emitted event.
type Handler func(Event)

// Emitter is a synchronous, single-threaded publish/subscribe hub. Handlers
// run to completion before Emit returns: type-specific handlers first, then
// any-handlers, each group in subscription order.
//
// Emitter is not safe for concurrent use; each battle owns its own instance.
type Emitter struct {
	byType map[EventType][]Handler
	any    []Handler
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{byType: make(map[EventType][]Handler)}
}

// On subscribes h to events of type t.
func (e *Emitter) On(t EventType, h Handler) {
	e.byType[t] = append(e.byType[t], h)
}

// OnAny subscribes h to every event.
func (e *Emitter) OnAny(h Handler) {
	e.any = append(e.any, h)
}

// Emit dispatches ev synchronously to all matching handlers.
func (e *Emitter) Emit(ev Event) {
	for _, h := range e.byType[ev.Type] {
		h(ev)
	}
	for _, h := range e.any {
		h(ev)
	}
}

// Clear removes all subscriptions.
func (e *Emitter) Clear() {
	e.byType = make(map[EventType][]Handler)
	e.any = nil
}

// Collector accumulates every emitted event in exact emission order, with no
// drops, for replay serialization.
type Collector struct {
	events []Event
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Attach subscribes the collector to every event on e.
func (c *Collector) Attach(e *Emitter) {
	e.OnAny(func(ev Event) {
		c.events = append(c.events, ev)
	})
}

// Events returns the collected events in emission order. The returned slice
// is the collector's backing store; callers must treat it as read-only.
func (c *Collector) Events() []Event {
	return c.events
}
