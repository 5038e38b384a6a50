// Package config provides Viper-based configuration loading and validation
// for the autobattler simulation engine.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// GridConfig describes the battle grid and the deployment zones of each team.
// Row indices in PlayerRows and EnemyRows must be disjoint and within
// [0, Height).
type GridConfig struct {
	Width      int   `mapstructure:"width" yaml:"width"`
	Height     int   `mapstructure:"height" yaml:"height"`
	PlayerRows []int `mapstructure:"player_rows" yaml:"player_rows"`
	EnemyRows  []int `mapstructure:"enemy_rows" yaml:"enemy_rows"`
}

// BattleConfig holds the hard bounds of a single battle.
type BattleConfig struct {
	// MaxRounds is the round count after which the battle ends in a draw.
	MaxRounds int `mapstructure:"max_rounds" yaml:"max_rounds"`
}

// DamageConfig parameterizes the damage resolver.
type DamageConfig struct {
	// MinDamage is the floor applied to every physical damage computation.
	MinDamage int `mapstructure:"min_damage" yaml:"min_damage"`
	// DodgeCapPercent caps the effective dodge chance used in dodge rolls.
	DodgeCapPercent int `mapstructure:"dodge_cap_percent" yaml:"dodge_cap_percent"`
	// DodgeAppliesToMagic enables dodge rolls against magic damage.
	// Off by default: magic ignores both armor and dodge.
	DodgeAppliesToMagic bool `mapstructure:"dodge_applies_to_magic" yaml:"dodge_applies_to_magic"`
	// PhysicalFormula and MagicFormula optionally hold Lua source overriding
	// the built-in damage formulas. Empty means native formulas.
	PhysicalFormula string `mapstructure:"physical_formula" yaml:"physical_formula"`
	MagicFormula    string `mapstructure:"magic_formula" yaml:"magic_formula"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig points at the data-driven game content directories.
type ContentConfig struct {
	// Dir is the root directory holding units/, abilities/, and synergies/
	// YAML definitions. Empty means built-in defaults only.
	Dir string `mapstructure:"dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Damage  DamageConfig  `mapstructure:"damage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
}

// DefaultGridConfig returns the standard 8x10 grid with two deployment rows
// per team.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Width:      8,
		Height:     10,
		PlayerRows: []int{0, 1},
		EnemyRows:  []int{8, 9},
	}
}

// DefaultBattleConfig returns the standard battle bounds.
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{MaxRounds: 100}
}

// DefaultDamageConfig returns the standard damage parameters.
func DefaultDamageConfig() DamageConfig {
	return DamageConfig{MinDamage: 1, DodgeCapPercent: 50}
}

// ValidateGridConfig checks grid dimensions and deployment zone invariants.
// Validation is eager and never clamps: the first violation found is returned
// as a descriptive error.
//
// Postcondition: Returns nil iff dimensions are positive, every row index is
// in bounds, and no row belongs to both deployment zones.
func ValidateGridConfig(cfg GridConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("Grid dimensions must be positive")
	}
	for _, row := range cfg.PlayerRows {
		if row < 0 || row >= cfg.Height {
			return fmt.Errorf("Player row %d is outside grid bounds", row)
		}
	}
	for _, row := range cfg.EnemyRows {
		if row < 0 || row >= cfg.Height {
			return fmt.Errorf("Enemy row %d is outside grid bounds", row)
		}
	}
	player := make(map[int]bool, len(cfg.PlayerRows))
	for _, row := range cfg.PlayerRows {
		player[row] = true
	}
	for _, row := range cfg.EnemyRows {
		if player[row] {
			return fmt.Errorf("Row %d is assigned to both player and enemy deployment zones", row)
		}
	}
	return nil
}

// ValidateBattleConfig checks the battle bound invariants.
func ValidateBattleConfig(cfg BattleConfig) error {
	if cfg.MaxRounds <= 0 {
		return fmt.Errorf("Max rounds must be positive")
	}
	return nil
}

// ValidateEngineConfig checks the damage resolver parameters.
func ValidateEngineConfig(cfg DamageConfig) error {
	if cfg.MinDamage < 0 {
		return fmt.Errorf("Min damage cannot be negative")
	}
	if cfg.DodgeCapPercent < 0 || cfg.DodgeCapPercent > 100 {
		return fmt.Errorf("Dodge cap must be between 0 and 100")
	}
	return nil
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing
// all violations.
func (c Config) Validate() error {
	var errs []string

	if err := ValidateGridConfig(c.Grid); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateBattleConfig(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateEngineConfig(c.Damage); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", l.Format)
	}
	return nil
}

// setDefaults registers the default value for every configuration key.
func setDefaults(v *viper.Viper) {
	grid := DefaultGridConfig()
	v.SetDefault("grid.width", grid.Width)
	v.SetDefault("grid.height", grid.Height)
	v.SetDefault("grid.player_rows", grid.PlayerRows)
	v.SetDefault("grid.enemy_rows", grid.EnemyRows)

	v.SetDefault("battle.max_rounds", DefaultBattleConfig().MaxRounds)

	damage := DefaultDamageConfig()
	v.SetDefault("damage.min_damage", damage.MinDamage)
	v.SetDefault("damage.dodge_cap_percent", damage.DodgeCapPercent)
	v.SetDefault("damage.dodge_applies_to_magic", damage.DodgeAppliesToMagic)
	v.SetDefault("damage.physical_formula", "")
	v.SetDefault("damage.magic_formula", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.dir", "")
}

// Load reads configuration from the given file path (optional) and the
// environment, applies defaults, and validates the result.
//
// Environment variables use the AUTOBATTLER_ prefix with underscores,
// e.g. AUTOBATTLER_BATTLE_MAX_ROUNDS=50.
//
// Precondition: path may be empty (defaults + environment only).
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTOBATTLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
