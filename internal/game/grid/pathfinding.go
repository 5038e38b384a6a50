package grid

import (
	"container/heap"

	"github.com/cory-johannsen/autobattler/internal/config"
)

// MaxPathIterations bounds the number of nodes A* may expand in one search.
// The bound guarantees termination on any input; an exhausted search reports
// "no path", never an error.
const MaxPathIterations = 1000

// neighborOffsets are the 4-directional moves in fixed expansion order.
// The order is part of the deterministic contract: equal-cost paths always
// resolve the same way.
var neighborOffsets = [4]Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

type pathNode struct {
	pos   Position
	gCost int // steps from start
	fCost int // gCost + Manhattan heuristic to goal
	order int // insertion sequence, breaks fCost ties deterministically
	index int // heap bookkeeping
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].fCost != h[j].fCost {
		return h[i].fCost < h[j].fCost
	}
	return h[i].order < h[j].order
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// FindPath runs a bounded A* search from start to goal over the grid defined
// by cfg, treating every position in obstacles as impassable. Movement is
// 4-directional with unit cost; the heuristic is Manhattan distance.
//
// The returned path starts at the first step AFTER start and ends at goal.
// An empty (nil) path means no route exists, start == goal, or the search
// exceeded maxIterations. maxIterations <= 0 uses MaxPathIterations.
//
// The goal cell itself is never treated as an obstacle, so callers may path
// to an occupied cell and stop one step short.
//
// Postcondition: Every returned position is in bounds and not an obstacle
// (except possibly goal); consecutive positions are Manhattan distance 1
// apart.
func FindPath(start, goal Position, obstacles map[Position]bool, maxIterations int, cfg config.GridConfig) []Position {
	if start == goal {
		return nil
	}
	if !IsValidPosition(start, cfg) || !IsValidPosition(goal, cfg) {
		return nil
	}
	if maxIterations <= 0 {
		maxIterations = MaxPathIterations
	}

	open := &nodeHeap{}
	heap.Init(open)
	inserted := 0

	startNode := &pathNode{pos: start, gCost: 0, fCost: start.Manhattan(goal), order: inserted}
	inserted++
	heap.Push(open, startNode)

	cameFrom := make(map[Position]Position)
	bestG := map[Position]int{start: 0}
	closed := make(map[Position]bool)

	for open.Len() > 0 && inserted <= maxIterations {
		current := heap.Pop(open).(*pathNode)
		if current.pos == goal {
			return reconstructPath(cameFrom, start, goal)
		}
		if closed[current.pos] {
			continue
		}
		closed[current.pos] = true

		for _, off := range neighborOffsets {
			next := Position{X: current.pos.X + off.X, Y: current.pos.Y + off.Y}
			if !IsValidPosition(next, cfg) || closed[next] {
				continue
			}
			if obstacles[next] && next != goal {
				continue
			}
			g := current.gCost + 1
			if prev, ok := bestG[next]; ok && g >= prev {
				continue
			}
			bestG[next] = g
			cameFrom[next] = current.pos
			heap.Push(open, &pathNode{
				pos:   next,
				gCost: g,
				fCost: g + next.Manhattan(goal),
				order: inserted,
			})
			inserted++
		}
	}
	return nil
}

// HasPath reports whether FindPath finds a route from start to goal.
func HasPath(start, goal Position, obstacles map[Position]bool, maxIterations int, cfg config.GridConfig) bool {
	if start == goal {
		return true
	}
	return len(FindPath(start, goal, obstacles, maxIterations, cfg)) > 0
}

// reconstructPath walks cameFrom links from goal back to start and reverses
// the result. The returned slice excludes start.
func reconstructPath(cameFrom map[Position]Position, start, goal Position) []Position {
	var reversed []Position
	for at := goal; at != start; {
		reversed = append(reversed, at)
		at = cameFrom[at]
	}
	path := make([]Position, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path
}
