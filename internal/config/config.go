package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/example/guild/internal/models"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Config is the flat guild configuration stored in .guild/config.json.
// Every field can be overridden by a GUILD_* environment variable.
type Config struct {
	Version string `json:"version"`

	// Assignment
	MinPartySize int `json:"min_party_size" env:"GUILD_MIN_PARTY_SIZE"`
	PreviewDay   int `json:"preview_day"    env:"GUILD_PREVIEW_DAY"`

	// Resolution
	DifficultyMultiplier float64 `json:"difficulty_multiplier" env:"GUILD_DIFFICULTY_MULTIPLIER"`
	CriticalBonus        float64 `json:"critical_bonus"        env:"GUILD_CRITICAL_BONUS"`
	InjurySimulation     bool    `json:"injury_simulation"     env:"GUILD_INJURY_SIMULATION"`
	TraitEffects         bool    `json:"trait_effects"         env:"GUILD_TRAIT_EFFECTS"`
	XPPerDifficulty      float64 `json:"xp_per_difficulty"     env:"GUILD_XP_PER_DIFFICULTY"`

	// Daily recovery for adventurers who are not deployed
	RecoveryFatigue int `json:"recovery_fatigue" env:"GUILD_RECOVERY_FATIGUE"`
	RecoveryHP      int `json:"recovery_hp"      env:"GUILD_RECOVERY_HP"`

	// LedgerPath is the sqlite file outcomes are recorded to. Empty disables the ledger.
	LedgerPath string `json:"ledger_path,omitempty" env:"GUILD_LEDGER_PATH"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version:              CurrentVersion,
		MinPartySize:         1,
		DifficultyMultiplier: 1,
		InjurySimulation:     true,
		TraitEffects:         true,
		XPPerDifficulty:      1,
		RecoveryFatigue:      25,
		RecoveryHP:           10,
	}
}

// ResolveOptions returns the resolver options this config describes.
func (c *Config) ResolveOptions() models.ResolveOptions {
	return models.ResolveOptions{
		EnableTraitEffects:         c.TraitEffects,
		EnableInjurySimulation:     c.InjurySimulation,
		GlobalDifficultyMultiplier: c.DifficultyMultiplier,
		CriticalSuccessBonus:       c.CriticalBonus,
	}
}

// Recovery returns the daily recovery package.
func (c *Config) Recovery() models.RecoveryPackage {
	return models.RecoveryPackage{
		FatigueRecovery: c.RecoveryFatigue,
		HPRecovery:      c.RecoveryHP,
	}
}

// Validate reports configuration values the simulation cannot use.
func (c *Config) Validate() error {
	if c.DifficultyMultiplier <= 0 {
		return fmt.Errorf("difficulty_multiplier must be positive, got %v: %w", c.DifficultyMultiplier, models.ErrInvalidArgument)
	}
	if c.MinPartySize < 1 {
		return fmt.Errorf("min_party_size must be at least 1, got %d: %w", c.MinPartySize, models.ErrInvalidArgument)
	}
	if c.RecoveryFatigue < 0 || c.RecoveryHP < 0 {
		return fmt.Errorf("recovery values must not be negative: %w", models.ErrInvalidArgument)
	}
	return nil
}

// LoadConfig reads .guild/config.json from the specified directory and
// applies environment overrides. Returns an error if no config is found.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".guild", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like LoadConfig but falls back to DefaultConfig
// (still honouring environment overrides) when the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overwrites fields whose GUILD_* variable is set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	guildDir := filepath.Join(dir, ".guild")
	if err := os.MkdirAll(guildDir, 0755); err != nil {
		return fmt.Errorf("failed to create .guild dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(guildDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultLedgerPath returns the ledger location inside dir's .guild folder.
func DefaultLedgerPath(dir string) string {
	return filepath.Join(dir, ".guild", "ledger.db")
}
