package models

import (
	"fmt"
	"strings"
)

// WorldSpec is the serialisable form of a world snapshot.
type WorldSpec struct {
	Day             int                `yaml:"day"`
	WeatherSeverity float64            `yaml:"weather_severity"`
	GlobalRisk      float64            `yaml:"global_risk"`
	LocationRisk    map[string]float64 `yaml:"location_risk"`
	Tags            []string           `yaml:"tags"`
}

// Snapshot converts w into the value the core consumes. Negative
// days are clamped to 0.
func (w WorldSpec) Snapshot() WorldStateSnapshot {
	risk := make(map[string]float64, len(w.LocationRisk))
	for id, r := range w.LocationRisk {
		risk[id] = r
	}
	tags := make([]string, len(w.Tags))
	copy(tags, w.Tags)

	return WorldStateSnapshot{
		DayIndex:         max(0, w.Day),
		WeatherSeverity:  w.WeatherSeverity,
		GlobalRiskLevel:  w.GlobalRisk,
		LocationRiskByID: risk,
		ActiveWorldTags:  tags,
	}
}

// Scenario is a complete set of template records plus the starting world.
type Scenario struct {
	Name        string               `yaml:"name"`
	World       WorldSpec            `yaml:"world"`
	Traits      []TraitTemplate      `yaml:"traits"`
	Locations   []LocationProfile    `yaml:"locations"`
	Adventurers []AdventurerTemplate `yaml:"adventurers"`
	Quests      []QuestTemplate      `yaml:"quests"`
}

// Validate collects advisory warnings from every record and flags
// references to traits or locations the scenario does not define.
func (s *Scenario) Validate() []string {
	var warnings []string

	traits := make(map[string]bool, len(s.Traits))
	for _, t := range s.Traits {
		warnings = append(warnings, t.Validate()...)
		traits[t.ID] = true
	}

	locations := make(map[string]bool, len(s.Locations))
	for _, l := range s.Locations {
		warnings = append(warnings, l.Validate()...)
		locations[l.ID] = true
	}

	for _, a := range s.Adventurers {
		warnings = append(warnings, a.Validate()...)
		for _, id := range a.Traits {
			if !traits[id] {
				warnings = append(warnings, fmt.Sprintf("adventurer %s: unknown trait %q", a.ID, id))
			}
		}
	}

	for _, q := range s.Quests {
		warnings = append(warnings, q.Validate()...)
		if strings.TrimSpace(q.LocationID) != "" && !locations[q.LocationID] {
			warnings = append(warnings, fmt.Sprintf("quest %s: unknown location %q", q.ID, q.LocationID))
		}
	}

	return warnings
}

// Trait returns the trait template with the given id.
func (s *Scenario) Trait(id string) Optional[TraitTemplate] {
	for _, t := range s.Traits {
		if t.ID == id {
			return Some(t)
		}
	}
	return None[TraitTemplate]()
}

// Location returns the location profile with the given id.
func (s *Scenario) Location(id string) Optional[LocationProfile] {
	for _, l := range s.Locations {
		if l.ID == id {
			return Some(l)
		}
	}
	return None[LocationProfile]()
}
