package models

import "strings"

// RewardPackage is gold, reputation and item ids granted for a quest.
type RewardPackage struct {
	Gold       int
	Reputation int
	Items      []string
}

// Scale multiplies gold and reputation by f, rounding to the nearest int.
// Items are carried through unchanged.
func (r RewardPackage) Scale(f float64) RewardPackage {
	return RewardPackage{
		Gold:       RoundInt(float64(r.Gold) * f),
		Reputation: RoundInt(float64(r.Reputation) * f),
		Items:      r.Items,
	}
}

// InjuryInfo is one injury produced by a mission.
type InjuryInfo struct {
	AdventurerID string
	Severity     int
	Description  string
}

// InjuryPackage groups the injuries a mission produced.
type InjuryPackage struct {
	Injuries []InjuryInfo
}

// For returns the injuries suffered by the given adventurer.
func (p InjuryPackage) For(adventurerID string) []InjuryInfo {
	var out []InjuryInfo
	for _, in := range p.Injuries {
		if in.AdventurerID == adventurerID {
			out = append(out, in)
		}
	}
	return out
}

// Count returns the number of injuries.
func (p InjuryPackage) Count() int {
	return len(p.Injuries)
}

// FatiguePackage is the fatigue change a mission applies to every member.
type FatiguePackage struct {
	FatigueDelta int
}

// RecoveryPackage is fatigue and HP restored during a rest.
type RecoveryPackage struct {
	FatigueRecovery int
	HPRecovery      int
}

// ResolveLogEntry is one human-readable step of a resolution.
type ResolveLogEntry struct {
	Message string
}

// ResolveOptions tunes a single resolution.
type ResolveOptions struct {
	EnableTraitEffects         bool
	EnableInjurySimulation     bool
	GlobalDifficultyMultiplier float64
	CriticalSuccessBonus       float64
}

// DefaultResolveOptions enables traits and injuries at neutral difficulty.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		EnableTraitEffects:         true,
		EnableInjurySimulation:     true,
		GlobalDifficultyMultiplier: 1,
	}
}

// PreviewResolveOptions is used for side-effect-free match estimation.
func PreviewResolveOptions() ResolveOptions {
	return ResolveOptions{
		EnableTraitEffects:         true,
		EnableInjurySimulation:     false,
		GlobalDifficultyMultiplier: 1,
	}
}

// MissionOutcome is the immutable record of one resolution.
type MissionOutcome struct {
	QuestID       string
	PartyID       string
	IsSuccess     bool
	Grade         OutcomeGrade
	SuccessChance float64
	RollValue     float64
	Rewards       RewardPackage
	Injuries      InjuryPackage
	ResolvedDay   int
}

// WorldStateSnapshot is the world as seen by one assessment or resolution.
// The core never mutates it.
type WorldStateSnapshot struct {
	DayIndex         int
	WeatherSeverity  float64
	GlobalRiskLevel  float64
	LocationRiskByID map[string]float64
	ActiveWorldTags  []string
}

// LocationRisk returns the regional risk for locationID, 0 when absent.
func (w WorldStateSnapshot) LocationRisk(locationID string) float64 {
	if strings.TrimSpace(locationID) == "" || w.LocationRiskByID == nil {
		return 0
	}
	return w.LocationRiskByID[locationID]
}
