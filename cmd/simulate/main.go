// Package main provides the simulate binary: it loads configuration and game
// content, runs one battle between a player roster file and a bot roster
// (loaded or generated), and writes the replay event log as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/ability"
	"github.com/cory-johannsen/autobattler/internal/game/battle"
	"github.com/cory-johannsen/autobattler/internal/game/rng"
	"github.com/cory-johannsen/autobattler/internal/game/unit"
	"github.com/cory-johannsen/autobattler/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = defaults + environment")
	playerPath := flag.String("player", "", "path to player roster YAML (required)")
	botPath := flag.String("bot", "", "path to bot roster YAML; empty = generate a bot team")
	botBudget := flag.Int("bot-budget", 10, "cost budget for generated bot teams")
	seed := flag.Int64("seed", 12345, "battle seed")
	out := flag.String("out", "", "path to write the replay JSON; empty = stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	sim, err := buildSimulator(cfg, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	if *playerPath == "" {
		logger.Fatal("missing required -player roster file")
	}
	playerRoster, err := loadRoster(*playerPath)
	if err != nil {
		logger.Fatal("loading player roster", zap.Error(err))
	}

	var botRoster []battle.Placement
	if *botPath != "" {
		botRoster, err = loadRoster(*botPath)
		if err != nil {
			logger.Fatal("loading bot roster", zap.Error(err))
		}
	} else {
		botRoster = battle.GenerateBotTeam(sim.Units, *botBudget, cfg.Grid, rng.New(*seed))
		logger.Info("generated bot team", zap.Int("units", len(botRoster)), zap.Int("budget", *botBudget))
	}

	result, err := sim.Simulate(playerRoster, botRoster, cfg.Grid, cfg.Battle, cfg.Damage, *seed)
	if err != nil {
		logger.Fatal("simulating battle", zap.Error(err))
	}

	logger.Info("battle complete",
		zap.String("winner", string(result.Winner)),
		zap.Int("rounds", result.Metadata.TotalRounds),
		zap.Int("events", len(result.Events)),
		zap.Int64("seed", result.Metadata.Seed),
	)

	if err := writeResult(result, *out); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}
}

// buildSimulator assembles a Simulator from the content directory, falling
// back to built-in content when cfg.Content.Dir is empty.
func buildSimulator(cfg config.Config, logger *zap.Logger) (*battle.Simulator, error) {
	sim := battle.NewSimulator()
	sim.Logger = logger
	if cfg.Content.Dir == "" {
		return sim, nil
	}

	units, err := unit.LoadDirectory(filepath.Join(cfg.Content.Dir, "units"))
	if err != nil {
		return nil, fmt.Errorf("loading units: %w", err)
	}
	abilities, err := ability.LoadDirectory(filepath.Join(cfg.Content.Dir, "abilities"))
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	synergies, err := ability.LoadSynergies(filepath.Join(cfg.Content.Dir, "synergies"))
	if err != nil {
		return nil, fmt.Errorf("loading synergies: %w", err)
	}
	sim.Units = units
	sim.Abilities = abilities
	sim.Synergies = synergies
	return sim, nil
}

// loadRoster reads a list of placements from a YAML file.
func loadRoster(path string) ([]battle.Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %q: %w", path, err)
	}
	var roster []battle.Placement
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parsing roster %q: %w", path, err)
	}
	return roster, nil
}

// writeResult marshals the battle result to path, or stdout when path is
// empty.
func writeResult(result *battle.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}
