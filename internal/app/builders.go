package app

import (
	"strings"

	"github.com/google/uuid"

	"github.com/example/guild/internal/core/adventurer"
	"github.com/example/guild/internal/core/quest"
	"github.com/example/guild/internal/models"
)

// UnknownLocation is the location id given to quests without a location.
const UnknownLocation = "unknown"

// newID returns a dash-free random id for records that arrive without one.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BuildQuestInstance creates a pending quest from a template posted on day.
//
// Base difficulty is the recommended power (at least 1) scaled by the
// location's difficulty multiplier. Without an explicit reward table the base
// reward is derived from power and rank. Location default tags are merged
// into the quest's environment tags.
func BuildQuestInstance(tmpl models.QuestTemplate, day int, location models.Optional[models.LocationProfile]) (*quest.Instance, error) {
	id := tmpl.ID
	if strings.TrimSpace(id) == "" {
		id = newID()
	}

	baseDifficulty := float64(max(1, tmpl.RecommendedPower))
	locationID := UnknownLocation
	tags := append([]string(nil), tmpl.Tags...)

	if loc, ok := location.Get(); ok {
		locationID = loc.ID
		if loc.DifficultyMultiplier > 0 {
			baseDifficulty *= loc.DifficultyMultiplier
		}
		tags = mergeTags(tags, loc.DefaultEnvironmentTags)
	} else if strings.TrimSpace(tmpl.LocationID) != "" {
		locationID = tmpl.LocationID
	}

	timeLimit := max(1, tmpl.TimeLimitDays)

	return quest.New(quest.Params{
		QuestID:         id,
		TemplateID:      tmpl.ID,
		Title:           tmpl.DisplayName,
		Category:        tmpl.Category,
		BaseDifficulty:  baseDifficulty,
		IssuedDay:       day,
		ExpireDay:       day + timeLimit,
		TimeLimitDays:   timeLimit,
		LocationID:      locationID,
		EnvironmentTags: tags,
		BaseReward:      baseReward(tmpl),
	})
}

func baseReward(tmpl models.QuestTemplate) models.RewardPackage {
	if tmpl.Reward != nil {
		return models.RewardPackage{
			Gold:       max(0, tmpl.Reward.Gold),
			Reputation: max(0, tmpl.Reward.Reputation),
			Items:      append([]string(nil), tmpl.Reward.Items...),
		}
	}

	rank := models.RankF
	if parsed, err := models.ParseQuestRank(tmpl.BaseRank); err == nil {
		rank = parsed
	}
	return models.RewardPackage{
		Gold:       max(10, tmpl.RecommendedPower*12),
		Reputation: max(1, int(rank)+1),
	}
}

func mergeTags(tags, extra []string) []string {
	seen := make(map[string]bool, len(tags)+len(extra))
	for _, t := range tags {
		seen[strings.ToLower(t)] = true
	}
	for _, t := range extra {
		if !seen[strings.ToLower(t)] {
			seen[strings.ToLower(t)] = true
			tags = append(tags, t)
		}
	}
	return tags
}

// BuildAdventurerState creates an idle adventurer from a template. Traits
// the template names but the lookup does not know are skipped. A template
// without current_hp starts at full health.
func BuildAdventurerState(tmpl models.AdventurerTemplate, traits func(id string) models.Optional[models.TraitTemplate]) (*adventurer.State, error) {
	id := tmpl.ID
	if strings.TrimSpace(id) == "" {
		id = newID()
	}

	stats := tmpl.Stats
	if stats.CurrentHP == 0 {
		stats.CurrentHP = stats.MaxHP
	}
	stats = stats.WithCurrentHP(stats.CurrentHP)

	var runtime []models.TraitRuntime
	for _, traitID := range tmpl.Traits {
		if traits == nil {
			break
		}
		if t, ok := traits(traitID).Get(); ok {
			runtime = append(runtime, t.Runtime())
		}
	}

	return adventurer.New(id, tmpl.Name, tmpl.Role, max(1, tmpl.Level), 0, stats, runtime)
}
