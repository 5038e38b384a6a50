package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/grid"
)

func TestFindPath_EmptyGrid(t *testing.T) {
	cfg := config.DefaultGridConfig()
	start := grid.Position{X: 0, Y: 0}
	goal := grid.Position{X: 3, Y: 5}

	path := grid.FindPath(start, goal, nil, 0, cfg)
	require.NotEmpty(t, path)
	assert.Len(t, path, 8, "optimal 4-directional path equals Manhattan distance")
	assert.Equal(t, goal, path[len(path)-1])
	assert.NotContains(t, path, start, "path excludes the start cell")
}

func TestFindPath_StartEqualsGoal(t *testing.T) {
	cfg := config.DefaultGridConfig()
	pos := grid.Position{X: 4, Y: 4}
	assert.Empty(t, grid.FindPath(pos, pos, nil, 0, cfg))
	assert.True(t, grid.HasPath(pos, pos, nil, 0, cfg))
}

func TestFindPath_RoutesAroundObstacles(t *testing.T) {
	cfg := config.DefaultGridConfig()
	start := grid.Position{X: 0, Y: 0}
	goal := grid.Position{X: 2, Y: 0}
	obstacles := map[grid.Position]bool{
		{X: 1, Y: 0}: true,
	}

	path := grid.FindPath(start, goal, obstacles, 0, cfg)
	require.NotEmpty(t, path)
	assert.Equal(t, goal, path[len(path)-1])
	assert.Len(t, path, 4, "detour around the blocked cell adds two steps")
	for _, p := range path {
		assert.False(t, obstacles[p], "path crosses obstacle %v", p)
	}
}

func TestFindPath_GoalCellIsNeverAnObstacle(t *testing.T) {
	cfg := config.DefaultGridConfig()
	start := grid.Position{X: 0, Y: 0}
	goal := grid.Position{X: 3, Y: 0}
	obstacles := map[grid.Position]bool{goal: true}

	path := grid.FindPath(start, goal, obstacles, 0, cfg)
	require.NotEmpty(t, path)
	assert.Equal(t, goal, path[len(path)-1])
}

func TestFindPath_Unreachable(t *testing.T) {
	cfg := config.DefaultGridConfig()
	start := grid.Position{X: 0, Y: 0}
	goal := grid.Position{X: 5, Y: 5}
	// Wall the start cell in completely.
	obstacles := map[grid.Position]bool{
		{X: 1, Y: 0}: true,
		{X: 0, Y: 1}: true,
	}

	assert.Empty(t, grid.FindPath(start, goal, obstacles, 0, cfg))
	assert.False(t, grid.HasPath(start, goal, obstacles, 0, cfg))
}

func TestFindPath_OutOfBoundsEndpoints(t *testing.T) {
	cfg := config.DefaultGridConfig()
	in := grid.Position{X: 0, Y: 0}
	out := grid.Position{X: -1, Y: 0}
	assert.Empty(t, grid.FindPath(out, in, nil, 0, cfg))
	assert.Empty(t, grid.FindPath(in, out, nil, 0, cfg))
}

func TestFindPath_IterationBound(t *testing.T) {
	cfg := config.DefaultGridConfig()
	start := grid.Position{X: 0, Y: 0}
	goal := grid.Position{X: 7, Y: 9}

	// A bound too small to reach the far corner yields no path, not an error.
	assert.Empty(t, grid.FindPath(start, goal, nil, 2, cfg))
	assert.NotEmpty(t, grid.FindPath(start, goal, nil, 0, cfg))
}

func TestFindPath_Deterministic(t *testing.T) {
	cfg := config.DefaultGridConfig()
	start := grid.Position{X: 0, Y: 0}
	goal := grid.Position{X: 4, Y: 4}
	obstacles := map[grid.Position]bool{
		{X: 2, Y: 2}: true,
		{X: 3, Y: 1}: true,
	}

	first := grid.FindPath(start, goal, obstacles, 0, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, grid.FindPath(start, goal, obstacles, 0, cfg))
	}
}

// TestFindPath_Properties checks the structural postconditions for arbitrary
// endpoints and obstacle sets.
func TestFindPath_Properties(t *testing.T) {
	cfg := config.DefaultGridConfig()
	rapid.Check(t, func(rt *rapid.T) {
		xGen := rapid.IntRange(0, cfg.Width-1)
		yGen := rapid.IntRange(0, cfg.Height-1)
		start := grid.Position{X: xGen.Draw(rt, "sx"), Y: yGen.Draw(rt, "sy")}
		goal := grid.Position{X: xGen.Draw(rt, "gx"), Y: yGen.Draw(rt, "gy")}

		obstacles := make(map[grid.Position]bool)
		for i := rapid.IntRange(0, 12).Draw(rt, "obstacleCount"); i > 0; i-- {
			obstacles[grid.Position{X: xGen.Draw(rt, "ox"), Y: yGen.Draw(rt, "oy")}] = true
		}
		delete(obstacles, start)

		path := grid.FindPath(start, goal, obstacles, 0, cfg)
		if len(path) == 0 {
			return
		}
		assert.Equal(rt, goal, path[len(path)-1])
		assert.GreaterOrEqual(rt, len(path), start.Manhattan(goal))
		prev := start
		for _, p := range path {
			assert.True(rt, grid.IsValidPosition(p, cfg), "position %v out of bounds", p)
			assert.Equal(rt, 1, prev.Manhattan(p), "non-adjacent step %v -> %v", prev, p)
			if p != goal {
				assert.False(rt, obstacles[p], "path crosses obstacle %v", p)
			}
			prev = p
		}
	})
}
