// Package assessment turns a quest and a world snapshot into assessed
// difficulty, recommended rank, risk and expected reward. Everything here is
// a pure function of its inputs; the only write is Service.ApplyAssessment,
// which goes through the quest's own assessment mutator.
package assessment

import (
	"math"
	"strings"

	"github.com/example/guild/internal/core/quest"
	"github.com/example/guild/internal/models"
)

// EnvironmentDifficultyModifier scales a quest's difficulty for world conditions.
type EnvironmentDifficultyModifier interface {
	GetModifier(q *quest.Instance, world models.WorldStateSnapshot) float64
}

// QuestRiskModel scores how dangerous a quest is, in [0, 1].
type QuestRiskModel interface {
	EvaluateRisk(q *quest.Instance, world models.WorldStateSnapshot, assessedDifficulty float64) float64
}

// Assessor is the board's view of the assessment service.
type Assessor interface {
	Assess(q *quest.Instance, world models.WorldStateSnapshot) float64
	RecommendRank(assessedDifficulty float64) models.QuestRank
	Evaluate(q *quest.Instance, world models.WorldStateSnapshot) quest.Assessment
	ApplyAssessment(q *quest.Instance, world models.WorldStateSnapshot)
}

// Service is the default Assessor.
type Service struct {
	environment EnvironmentDifficultyModifier
	risk        QuestRiskModel
}

// Option customises a Service.
type Option func(*Service)

// WithEnvironmentModifier replaces the default environment strategy.
func WithEnvironmentModifier(m EnvironmentDifficultyModifier) Option {
	return func(s *Service) {
		if m != nil {
			s.environment = m
		}
	}
}

// WithRiskModel replaces the default risk strategy.
func WithRiskModel(m QuestRiskModel) Option {
	return func(s *Service) {
		if m != nil {
			s.risk = m
		}
	}
}

// NewService creates a Service using the default strategies unless overridden.
func NewService(opts ...Option) *Service {
	s := &Service{
		environment: DefaultEnvironmentModifier{},
		risk:        DefaultRiskModel{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess returns max(1, max(1, base) * environment modifier).
func (s *Service) Assess(q *quest.Instance, world models.WorldStateSnapshot) float64 {
	base := math.Max(1, q.BaseDifficulty())
	return math.Max(1, base*s.environment.GetModifier(q, world))
}

var rankCeilings = []struct {
	below float64
	rank  models.QuestRank
}{
	{15, models.RankF},
	{30, models.RankE},
	{45, models.RankD},
	{65, models.RankC},
	{85, models.RankB},
	{110, models.RankA},
}

// RecommendRank maps assessed difficulty to a rank using exclusive upper bounds.
func (s *Service) RecommendRank(assessedDifficulty float64) models.QuestRank {
	for _, c := range rankCeilings {
		if assessedDifficulty < c.below {
			return c.rank
		}
	}
	return models.RankS
}

// Evaluate computes a full assessment without touching the quest.
func (s *Service) Evaluate(q *quest.Instance, world models.WorldStateSnapshot) quest.Assessment {
	assessed := s.Assess(q, world)
	risk := s.risk.EvaluateRisk(q, world, assessed)
	return quest.Assessment{
		AssessedDifficulty: assessed,
		RecommendedRank:    s.RecommendRank(assessed),
		RiskScore:          risk,
		ExpectedReward:     ExpectedReward(q.BaseReward(), risk, assessed, q.BaseDifficulty()),
	}
}

// ApplyAssessment evaluates the quest and writes the result into it.
func (s *Service) ApplyAssessment(q *quest.Instance, world models.WorldStateSnapshot) {
	q.ApplyAssessment(s.Evaluate(q, world))
}

// ExpectedReward scales gold by difficulty drift and risk (clamped to
// [0.6, 2.4]) and reputation by 0.85 + 0.45*risk.
func ExpectedReward(base models.RewardPackage, risk, assessed, baseDifficulty float64) models.RewardPackage {
	difficultyScale := assessed / math.Max(1, baseDifficulty)
	riskScale := 1 + risk*0.35
	total := models.ClampFloat(difficultyScale*riskScale, 0.6, 2.4)

	return models.RewardPackage{
		Gold:       models.RoundInt(float64(base.Gold) * total),
		Reputation: models.RoundInt(float64(base.Reputation) * (0.85 + risk*0.45)),
		Items:      base.Items,
	}
}

// DefaultEnvironmentModifier combines weather, global risk, regional risk
// and matching threat tags, clamped to [0.75, 2.5].
type DefaultEnvironmentModifier struct{}

// GetModifier implements EnvironmentDifficultyModifier.
func (DefaultEnvironmentModifier) GetModifier(q *quest.Instance, world models.WorldStateSnapshot) float64 {
	weather := 1 + world.WeatherSeverity*0.15
	global := 1 + world.GlobalRiskLevel*0.20
	location := 1 + world.LocationRisk(q.LocationID())*0.30
	tags := 1 + float64(countThreatTags(q.EnvironmentTags(), world.ActiveWorldTags))*0.05

	return models.ClampFloat(weather*global*location*tags, 0.75, 2.5)
}

func countThreatTags(questTags, worldTags []string) int {
	if len(questTags) == 0 || len(worldTags) == 0 {
		return 0
	}
	active := make(map[string]struct{}, len(worldTags))
	for _, t := range worldTags {
		active[strings.ToLower(t)] = struct{}{}
	}
	count := 0
	for _, t := range questTags {
		if _, ok := active[strings.ToLower(t)]; ok {
			count++
		}
	}
	return count
}

// DefaultRiskModel sums difficulty, time pressure, expiry and category risk.
type DefaultRiskModel struct{}

// EvaluateRisk implements QuestRiskModel.
func (DefaultRiskModel) EvaluateRisk(q *quest.Instance, world models.WorldStateSnapshot, assessedDifficulty float64) float64 {
	difficultyRisk := assessedDifficulty / 120

	timePressure := 0.35
	if q.TimeLimitDays() > 0 {
		timePressure = models.ClampFloat(1/float64(q.TimeLimitDays()), 0.02, 0.35)
	}

	expiration := 0.0
	if world.DayIndex >= q.ExpireDay() {
		expiration = 0.25
	}

	category := 0.0
	if q.Category() == models.CategorySpecial {
		category = 0.12
	}

	return models.ClampFloat(difficultyRisk+timePressure+expiration+category, 0, 1)
}
