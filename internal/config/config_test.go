package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/guild/internal/models"
)

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.MinPartySize = 2
	cfg.CriticalBonus = 0.05
	cfg.InjurySimulation = false
	cfg.LedgerPath = "/tmp/guild-ledger.db"

	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.MinPartySize != 2 {
		t.Errorf("MinPartySize = %d, want 2", loaded.MinPartySize)
	}
	if loaded.CriticalBonus != 0.05 {
		t.Errorf("CriticalBonus = %v, want 0.05", loaded.CriticalBonus)
	}
	if loaded.InjurySimulation {
		t.Error("InjurySimulation = true, want false")
	}
	if loaded.LedgerPath != "/tmp/guild-ledger.db" {
		t.Errorf("LedgerPath = %q", loaded.LedgerPath)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("Version = %q, want %q", loaded.Version, CurrentVersion)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	guildDir := filepath.Join(tmpDir, ".guild")
	if err := os.MkdirAll(guildDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(guildDir, "config.json"), []byte(`{"min_party_size": 3}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MinPartySize != 3 {
		t.Errorf("MinPartySize = %d, want 3", cfg.MinPartySize)
	}
	if cfg.DifficultyMultiplier != 1 || !cfg.TraitEffects || cfg.RecoveryFatigue != 25 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	guildDir := filepath.Join(tmpDir, ".guild")
	if err := os.MkdirAll(guildDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(guildDir, "config.json"), []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadOrDefault(tmpDir); err == nil {
		t.Fatal("LoadOrDefault must not hide a malformed file")
	}
}

func TestLoadOrDefault_EnvOverrides(t *testing.T) {
	t.Setenv("GUILD_MIN_PARTY_SIZE", "4")
	t.Setenv("GUILD_DIFFICULTY_MULTIPLIER", "1.5")
	t.Setenv("GUILD_INJURY_SIMULATION", "false")
	t.Setenv("GUILD_LEDGER_PATH", "/var/guild/ledger.db")

	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	if cfg.MinPartySize != 4 {
		t.Errorf("MinPartySize = %d, want 4", cfg.MinPartySize)
	}
	if cfg.DifficultyMultiplier != 1.5 {
		t.Errorf("DifficultyMultiplier = %v, want 1.5", cfg.DifficultyMultiplier)
	}
	if cfg.InjurySimulation {
		t.Error("InjurySimulation = true, want false")
	}
	if cfg.LedgerPath != "/var/guild/ledger.db" {
		t.Errorf("LedgerPath = %q", cfg.LedgerPath)
	}
	// untouched fields keep their defaults
	if !cfg.TraitEffects || cfg.RecoveryHP != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.RecoveryFatigue = 5
	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GUILD_RECOVERY_FATIGUE", "40")

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.RecoveryFatigue != 40 {
		t.Errorf("RecoveryFatigue = %d, want 40", loaded.RecoveryFatigue)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("GUILD_MIN_PARTY_SIZE", "lots")
	if err := ApplyEnv(DefaultConfig()); err == nil {
		t.Fatal("expected parse error for non-numeric party size")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero multiplier", mutate: func(c *Config) { c.DifficultyMultiplier = 0 }, wantErr: true},
		{name: "zero party size", mutate: func(c *Config) { c.MinPartySize = 0 }, wantErr: true},
		{name: "negative recovery", mutate: func(c *Config) { c.RecoveryHP = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestResolveOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CriticalBonus = 0.1
	cfg.TraitEffects = false

	opts := cfg.ResolveOptions()
	want := models.ResolveOptions{
		EnableTraitEffects:         false,
		EnableInjurySimulation:     true,
		GlobalDifficultyMultiplier: 1,
		CriticalSuccessBonus:       0.1,
	}
	if opts != want {
		t.Errorf("ResolveOptions() = %+v, want %+v", opts, want)
	}
}
