// Package grid provides the battle coordinate space: positions, bounds and
// occupancy queries, and bounded A* pathfinding. All distances are Manhattan;
// movement is 4-directional with unit step cost.
package grid

import (
	"github.com/cory-johannsen/autobattler/internal/config"
)

// Position is one grid cell. Immutable value type.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Manhattan returns the Manhattan distance between p and o.
//
// Postcondition: Returns >= 0.
func (p Position) Manhattan(o Position) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsValidPosition reports whether pos lies within the grid bounds. Bounds
// check only; occupancy is a Grid concern.
func IsValidPosition(pos Position, cfg config.GridConfig) bool {
	return pos.X >= 0 && pos.X < cfg.Width && pos.Y >= 0 && pos.Y < cfg.Height
}

// Grid tracks cell occupancy for one battle. A cell holds at most one
// occupant, identified by an opaque id string.
//
// Grid is not safe for concurrent use; each battle owns its own instance.
type Grid struct {
	cfg       config.GridConfig
	occupants map[Position]string
}

// New creates an empty grid for the given configuration.
//
// Precondition: cfg has passed config.ValidateGridConfig.
// Postcondition: Every cell is unoccupied.
func New(cfg config.GridConfig) *Grid {
	return &Grid{
		cfg:       cfg,
		occupants: make(map[Position]string, cfg.Width*cfg.Height),
	}
}

// Config returns the grid configuration.
func (g *Grid) Config() config.GridConfig { return g.cfg }

// InBounds reports whether pos lies within this grid.
func (g *Grid) InBounds(pos Position) bool {
	return IsValidPosition(pos, g.cfg)
}

// IsOccupied reports whether pos holds an occupant.
func (g *Grid) IsOccupied(pos Position) bool {
	_, ok := g.occupants[pos]
	return ok
}

// OccupantAt returns the occupant id at pos, or ("", false) if the cell is
// free.
func (g *Grid) OccupantAt(pos Position) (string, bool) {
	id, ok := g.occupants[pos]
	return id, ok
}

// Occupy places id at pos. An existing occupant at pos is overwritten; the
// caller enforces the one-unit-per-cell invariant via IsOccupied.
//
// Precondition: pos must be in bounds.
func (g *Grid) Occupy(pos Position, id string) {
	g.occupants[pos] = id
}

// Vacate frees pos. No-op when the cell is already free.
func (g *Grid) Vacate(pos Position) {
	delete(g.occupants, pos)
}

// Obstacles returns the occupied cell set, excluding the cells listed in
// except. The result is a fresh map suitable for FindPath.
func (g *Grid) Obstacles(except ...Position) map[Position]bool {
	skip := make(map[Position]bool, len(except))
	for _, p := range except {
		skip[p] = true
	}
	out := make(map[Position]bool, len(g.occupants))
	for p := range g.occupants {
		if !skip[p] {
			out[p] = true
		}
	}
	return out
}
