package battle

import (
	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/grid"
	"github.com/cory-johannsen/autobattler/internal/game/rng"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

// GenerateBotTeam builds a budget-constrained bot roster. The registry's
// templates are shuffled with the seeded source, then taken greedily while
// the remaining budget allows, and placed left to right across the enemy
// deployment rows. Identical seed, registry, and budget always yield the
// identical roster.
//
// Precondition: cfg has passed config.ValidateGridConfig; src must not be
// nil.
// Postcondition: total cost of the returned placements <= budget; every
// position lies in cfg.EnemyRows with no duplicates.
func GenerateBotTeam(reg *unit.Registry, budget int, cfg config.GridConfig, src *rng.Seeded) []Placement {
	templates := reg.All()
	shuffled := make([]*unit.Template, len(templates))
	copy(shuffled, templates)
	src.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var cells []grid.Position
	for _, row := range cfg.EnemyRows {
		for x := 0; x < cfg.Width; x++ {
			cells = append(cells, grid.Position{X: x, Y: row})
		}
	}

	var out []Placement
	remaining := budget
	for _, tpl := range shuffled {
		if len(out) >= len(cells) {
			break
		}
		if tpl.Cost > remaining {
			continue
		}
		out = append(out, Placement{TemplateID: tpl.ID, Position: cells[len(out)]})
		remaining -= tpl.Cost
	}
	return out
}
