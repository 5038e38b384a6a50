package battle

import (
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// Winner is the terminal outcome of a battle.
type Winner string

const (
	WinnerPlayer Winner = "player"
	WinnerBot    Winner = "bot"
	WinnerDraw   Winner = "draw"
)

// Placement assigns one unit template to a starting cell. Positions must lie
// in the owning team's deployment rows.
type Placement struct {
	TemplateID string        `json:"unitTemplateId" yaml:"unit"`
	Position   grid.Position `json:"position" yaml:"position"`
}

// Metadata describes how a battle ran.
type Metadata struct {
	TotalRounds int   `json:"totalRounds"`
	Seed        int64 `json:"seed"`
}

// FinalState holds the end-of-battle unit snapshots, in roster order.
// Summoned units appear after the initial roster of their team.
type FinalState struct {
	PlayerUnits []unit.Snapshot `json:"playerUnits"`
	BotUnits    []unit.Snapshot `json:"botUnits"`
}

// Result is the complete, replayable output of one battle simulation.
type Result struct {
	Events     []Event    `json:"events"`
	Winner     Winner     `json:"winner"`
	FinalState FinalState `json:"finalState"`
	Metadata   Metadata   `json:"metadata"`
}
