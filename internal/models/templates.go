package models

import (
	"fmt"
	"strings"
)

// Template records are read-only definitions handed to the core by the host.
// Validate methods return advisory warnings; they never block construction.

// TraitTemplate defines a trait and the stat bonus it grants.
type TraitTemplate struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Bonus       StatBlock `yaml:"bonus"`
	Magnitude   float64   `yaml:"magnitude"`
}

// Validate returns advisory warnings for the trait.
func (t TraitTemplate) Validate() []string {
	var warnings []string
	if strings.TrimSpace(t.ID) == "" {
		warnings = append(warnings, "trait id should not be empty")
	}
	return warnings
}

// Runtime converts the template into the value attached to an adventurer.
func (t TraitTemplate) Runtime() TraitRuntime {
	return TraitRuntime{TraitID: t.ID, Magnitude: t.Magnitude, Bonus: t.Bonus}
}

// AdventurerTemplate defines a recruitable adventurer.
type AdventurerTemplate struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name"`
	Role   RoleType  `yaml:"role"`
	Level  int       `yaml:"level"`
	Stats  StatBlock `yaml:"stats"`
	Traits []string  `yaml:"traits"`
}

// Validate returns advisory warnings for the adventurer.
func (a AdventurerTemplate) Validate() []string {
	var warnings []string
	if strings.TrimSpace(a.ID) == "" {
		warnings = append(warnings, fmt.Sprintf("adventurer %q: id should not be empty", a.Name))
	}
	if a.Stats.MaxHP <= 0 {
		warnings = append(warnings, fmt.Sprintf("adventurer %s: max_hp should be greater than zero", a.ID))
	}
	return warnings
}

// RewardTable is the base reward for a quest template.
type RewardTable struct {
	Gold       int      `yaml:"gold"`
	Reputation int      `yaml:"reputation"`
	Items      []string `yaml:"items"`
}

// Validate returns advisory warnings for the table.
func (r RewardTable) Validate() []string {
	var warnings []string
	if r.Gold < 0 || r.Reputation < 0 {
		warnings = append(warnings, "reward table values should not be negative")
	}
	return warnings
}

// LocationProfile describes where quests happen.
type LocationProfile struct {
	ID                     string   `yaml:"id"`
	Name                   string   `yaml:"name"`
	DifficultyMultiplier   float64  `yaml:"difficulty_multiplier"`
	DefaultEnvironmentTags []string `yaml:"tags"`
}

// Validate returns advisory warnings for the location.
func (l LocationProfile) Validate() []string {
	var warnings []string
	if strings.TrimSpace(l.ID) == "" {
		warnings = append(warnings, "location id should not be empty")
	}
	if strings.TrimSpace(l.Name) == "" {
		warnings = append(warnings, fmt.Sprintf("location %s: name should not be empty", l.ID))
	}
	if l.DifficultyMultiplier <= 0 {
		warnings = append(warnings, fmt.Sprintf("location %s: difficulty_multiplier should be greater than zero", l.ID))
	}
	return warnings
}

// QuestTemplate defines a quest that can be posted to the board.
type QuestTemplate struct {
	ID               string        `yaml:"id"`
	DisplayName      string        `yaml:"name"`
	Category         QuestCategory `yaml:"category"`
	BaseRank         string        `yaml:"rank"`
	RecommendedPower int           `yaml:"recommended_power"`
	TimeLimitDays    int           `yaml:"time_limit_days"`
	LocationID       string        `yaml:"location"`
	Reward           *RewardTable  `yaml:"reward"`
	Tags             []string      `yaml:"tags"`
}

// Validate returns advisory warnings for the quest.
func (q QuestTemplate) Validate() []string {
	var warnings []string
	if strings.TrimSpace(q.ID) == "" {
		warnings = append(warnings, fmt.Sprintf("quest %q: id should not be empty", q.DisplayName))
	}
	if q.TimeLimitDays <= 0 {
		warnings = append(warnings, fmt.Sprintf("quest %s: time_limit_days should be greater than zero", q.ID))
	}
	if q.BaseRank != "" {
		if _, err := ParseQuestRank(q.BaseRank); err != nil {
			warnings = append(warnings, fmt.Sprintf("quest %s: %v", q.ID, err))
		}
	}
	if q.Reward != nil {
		warnings = append(warnings, q.Reward.Validate()...)
	}
	return warnings
}
