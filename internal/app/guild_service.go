package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/example/guild/internal/config"
	"github.com/example/guild/internal/core/adventurer"
	"github.com/example/guild/internal/core/assignment"
	"github.com/example/guild/internal/core/board"
	"github.com/example/guild/internal/core/events"
	"github.com/example/guild/internal/core/party"
	"github.com/example/guild/internal/core/quest"
	"github.com/example/guild/internal/core/resolver"
	"github.com/example/guild/internal/core/roster"
	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/primary"
	"github.com/example/guild/internal/random"
)

// MaxCandidates bounds how many parties PlanQuest proposes per quest.
const MaxCandidates = 5

// experienceFactor scales the experience grant by how the mission went.
var experienceFactor = map[models.OutcomeGrade]float64{
	models.GradeCriticalSuccess: 1.5,
	models.GradeSuccess:         1,
	models.GradePartialSuccess:  0.5,
	models.GradeFail:            0.25,
}

// GuildServiceImpl implements the GuildService interface.
//
// The core aggregates are single-threaded; every method takes mu so one
// service can be shared between goroutines. Event handlers run while mu is
// held and must not call back into the service.
type GuildServiceImpl struct {
	mu sync.Mutex

	board      *board.QuestBoard
	roster     *roster.Roster
	planner    *assignment.Planner
	resolver   resolver.Resolver
	dispatcher *events.Dispatcher
	logger     Logger

	world     models.WorldStateSnapshot
	options   models.ResolveOptions
	recovery  models.RecoveryPackage
	xpPerUnit float64

	traits    map[string]models.TraitTemplate
	locations map[string]models.LocationProfile
	parties   map[string]*party.Party
}

// NewGuildService creates a new GuildService with injected dependencies.
func NewGuildService(cfg *config.Config, r resolver.Resolver, dispatcher *events.Dispatcher, logger Logger) (*GuildServiceImpl, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = resolver.New()
	}
	if dispatcher == nil {
		dispatcher = events.NewDispatcher()
	}
	if logger == nil {
		logger = NopLogger{}
	}

	planner, err := assignment.New(r, assignment.Config{
		MinimumPartySize: cfg.MinPartySize,
		DefaultDayIndex:  cfg.PreviewDay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	return &GuildServiceImpl{
		board:      board.New(nil),
		roster:     roster.New(),
		planner:    planner,
		resolver:   r,
		dispatcher: dispatcher,
		logger:     logger,
		options:    cfg.ResolveOptions(),
		recovery:   cfg.Recovery(),
		xpPerUnit:  cfg.XPPerDifficulty,
		traits:     make(map[string]models.TraitTemplate),
		locations:  make(map[string]models.LocationProfile),
		parties:    make(map[string]*party.Party),
	}, nil
}

var _ primary.GuildService = (*GuildServiceImpl)(nil)

// Dispatcher returns the dispatcher the service publishes to.
func (s *GuildServiceImpl) Dispatcher() *events.Dispatcher {
	return s.dispatcher
}

// LoadScenario replaces the world snapshot, registers the scenario's traits
// and locations, recruits its adventurers and posts its quests. Duplicate
// ids are reported as warnings and skipped.
func (s *GuildServiceImpl) LoadScenario(ctx context.Context, scenario *models.Scenario) (*primary.LoadScenarioResponse, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.world = scenario.World.Snapshot()
	for _, t := range scenario.Traits {
		s.traits[t.ID] = t
	}
	for _, l := range scenario.Locations {
		s.locations[l.ID] = l
	}

	resp := &primary.LoadScenarioResponse{Warnings: scenario.Validate()}

	for _, tmpl := range scenario.Adventurers {
		if _, err := s.recruitLocked(tmpl); err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				resp.Warnings = append(resp.Warnings, err.Error())
				continue
			}
			return nil, err
		}
		resp.AdventurersRecruited++
	}

	for _, tmpl := range scenario.Quests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.postLocked(tmpl); err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				resp.Warnings = append(resp.Warnings, err.Error())
				continue
			}
			return nil, err
		}
		resp.QuestsPosted++
	}

	s.logger.Printf("loaded scenario %q: %d quests, %d adventurers, %d warnings",
		scenario.Name, resp.QuestsPosted, resp.AdventurersRecruited, len(resp.Warnings))
	return resp, nil
}

// PostQuest builds a quest from a template and adds it to the board.
func (s *GuildServiceImpl) PostQuest(ctx context.Context, tmpl models.QuestTemplate) (*primary.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.postLocked(tmpl)
	if err != nil {
		return nil, err
	}
	return toQuest(q), nil
}

func (s *GuildServiceImpl) postLocked(tmpl models.QuestTemplate) (*quest.Instance, error) {
	location := models.None[models.LocationProfile]()
	if l, ok := s.locations[tmpl.LocationID]; ok {
		location = models.Some(l)
	}

	q, err := BuildQuestInstance(tmpl, s.world.DayIndex, location)
	if err != nil {
		return nil, fmt.Errorf("failed to build quest: %w", err)
	}
	if err := s.board.AddQuest(q, s.world); err != nil {
		return nil, fmt.Errorf("failed to post quest: %w", err)
	}

	s.logger.Printf("posted quest %s (difficulty %.1f, rank %s)", q.ID(), q.AssessedDifficulty(), q.RecommendedRank())
	return q, nil
}

// RecruitAdventurer builds an adventurer from a template and adds it to the roster.
func (s *GuildServiceImpl) RecruitAdventurer(ctx context.Context, tmpl models.AdventurerTemplate) (*primary.Adventurer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.recruitLocked(tmpl)
	if err != nil {
		return nil, err
	}
	return toAdventurer(a), nil
}

func (s *GuildServiceImpl) recruitLocked(tmpl models.AdventurerTemplate) (*adventurer.State, error) {
	a, err := BuildAdventurerState(tmpl, s.lookupTrait)
	if err != nil {
		return nil, fmt.Errorf("failed to build adventurer: %w", err)
	}
	if err := s.roster.Add(a); err != nil {
		return nil, fmt.Errorf("failed to recruit adventurer: %w", err)
	}
	return a, nil
}

func (s *GuildServiceImpl) lookupTrait(id string) models.Optional[models.TraitTemplate] {
	if t, ok := s.traits[id]; ok {
		return models.Some(t)
	}
	return models.None[models.TraitTemplate]()
}

// ListQuests lists quests on the board in posting order.
func (s *GuildServiceImpl) ListQuests(ctx context.Context, filters primary.QuestFilters) ([]*primary.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := s.board.GetAllQuests()
	if filters.OpenOnly {
		source = s.board.GetOpenQuests()
	}

	var out []*primary.Quest
	for _, q := range source {
		if filters.State != "" && q.State() != filters.State {
			continue
		}
		out = append(out, toQuest(q))
	}
	return out, nil
}

// ListAdventurers lists the roster in recruitment order.
func (s *GuildServiceImpl) ListAdventurers(ctx context.Context) ([]*primary.Adventurer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.roster.GetAll()
	out := make([]*primary.Adventurer, 0, len(all))
	for _, a := range all {
		out = append(out, toAdventurer(a))
	}
	return out, nil
}

// PlanQuest ranks candidate parties for a pending quest.
func (s *GuildServiceImpl) PlanQuest(ctx context.Context, questID string) (*primary.PlanResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.findQuest(questID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.rankLocked(q)
	if err != nil {
		return nil, err
	}

	resp := &primary.PlanResponse{
		QuestID:         q.ID(),
		RequiredMembers: s.planner.RequiredMembers(q),
	}
	for _, c := range ranked {
		resp.Candidates = append(resp.Candidates, &primary.PartyCandidate{
			MemberIDs:      c.Party.MemberIDs(),
			Score:          c.Score,
			Condition:      c.Party.AverageCondition(),
			AverageFatigue: c.Party.AverageFatigue(),
			TotalStats:     c.Party.TotalStats(),
		})
	}
	return resp, nil
}

func (s *GuildServiceImpl) rankLocked(q *quest.Instance) ([]assignment.Candidate, error) {
	parties, err := formCandidates(q.ID(), s.roster.GetDeployable(), s.planner.RequiredMembers(q))
	if err != nil {
		return nil, err
	}
	ranked, err := s.planner.RankCandidates(q, parties)
	if err != nil {
		return nil, fmt.Errorf("failed to rank parties for %s: %w", q.ID(), err)
	}
	return ranked, nil
}

// formCandidates orders deployable adventurers strongest first and slides a
// window of size across them. Party ids are provisional.
func formCandidates(questID string, deployable []*adventurer.State, size int) ([]*party.Party, error) {
	if size < 1 || len(deployable) < size {
		return nil, nil
	}

	pool := make([]*adventurer.State, len(deployable))
	copy(pool, deployable)
	sort.SliceStable(pool, func(i, j int) bool {
		return strength(pool[i]) > strength(pool[j])
	})

	var out []*party.Party
	for k := 0; k+size <= len(pool) && len(out) < MaxCandidates; k++ {
		pt, err := party.New(fmt.Sprintf("%s-candidate-%d", questID, k+1), pool[k:k+size]...)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

func strength(a *adventurer.State) int {
	st := a.Stats()
	return a.Level()*10 + st.Attack + st.Defense + st.Magic + st.Support
}

// AssignParty forms a party from roster members and assigns it to a
// pending quest. Nothing changes unless every precondition holds.
func (s *GuildServiceImpl) AssignParty(ctx context.Context, req primary.AssignPartyRequest) (*primary.AssignPartyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.assignLocked(req)
}

func (s *GuildServiceImpl) assignLocked(req primary.AssignPartyRequest) (*primary.AssignPartyResponse, error) {
	q, err := s.findQuest(req.QuestID)
	if err != nil {
		return nil, err
	}
	if len(req.MemberIDs) == 0 {
		return nil, fmt.Errorf("party for %s has no members: %w", q.ID(), models.ErrInvalidArgument)
	}

	members := make([]*adventurer.State, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		a, ok := s.roster.FindByID(id).Get()
		if !ok {
			return nil, fmt.Errorf("adventurer %s: %w", id, models.ErrNotFound)
		}
		members = append(members, a)
	}

	partyID := req.PartyID
	if strings.TrimSpace(partyID) == "" {
		partyID = newID()
	}
	if _, exists := s.parties[partyID]; exists {
		return nil, fmt.Errorf("party %s: %w", partyID, models.ErrAlreadyExists)
	}

	pt, err := party.New(partyID, members...)
	if err != nil {
		return nil, err
	}

	if err := s.planner.CheckAssign(q, pt).Error(); err != nil {
		return nil, fmt.Errorf("cannot assign party %s to %s: %w", pt.ID(), q.ID(), err)
	}

	if err := q.AssignToParty(pt.ID()); err != nil {
		return nil, err
	}
	for _, m := range pt.Members() {
		if err := m.AssignToQuest(q.ID()); err != nil {
			return nil, err
		}
	}
	s.parties[pt.ID()] = pt

	events.Publish(s.dispatcher, events.QuestAssignedEvent{
		QuestID:   q.ID(),
		PartyID:   pt.ID(),
		MemberIDs: pt.MemberIDs(),
		Day:       s.world.DayIndex,
	})
	s.logger.Printf("assigned party %s %v to quest %s", pt.ID(), pt.MemberIDs(), q.ID())

	return &primary.AssignPartyResponse{
		QuestID:   q.ID(),
		PartyID:   pt.ID(),
		MemberIDs: pt.MemberIDs(),
	}, nil
}

// ResolveQuest resolves an assigned quest, applies fatigue, injuries and
// experience to its members, releases them and announces the outcome.
func (s *GuildServiceImpl) ResolveQuest(ctx context.Context, req primary.ResolveQuestRequest) (*primary.ResolveQuestResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resolveLocked(req)
}

func (s *GuildServiceImpl) resolveLocked(req primary.ResolveQuestRequest) (*primary.ResolveQuestResponse, error) {
	q, err := s.findQuest(req.QuestID)
	if err != nil {
		return nil, err
	}

	partyID, ok := q.AssignedPartyID().Get()
	if !ok || (q.State() != models.QuestAssigned && q.State() != models.QuestInProgress) {
		return nil, fmt.Errorf("quest %s is %s, not assigned: %w", q.ID(), q.State(), models.ErrInvalidState)
	}
	pt, ok := s.parties[partyID]
	if !ok {
		return nil, fmt.Errorf("party %s: %w", partyID, models.ErrNotFound)
	}

	if q.State() == models.QuestAssigned {
		// Every guard is checked before the quest or any member moves.
		for _, m := range pt.Members() {
			if err := m.CanBeginQuest().Error(); err != nil {
				return nil, fmt.Errorf("adventurer %s cannot begin quest %s: %w", m.ID(), q.ID(), err)
			}
		}
		if err := q.MarkInProgress(); err != nil {
			return nil, err
		}
		for _, m := range pt.Members() {
			if err := m.BeginQuest(); err != nil {
				return nil, fmt.Errorf("adventurer %s cannot begin quest %s: %w", m.ID(), q.ID(), err)
			}
		}
	}

	result, err := s.resolver.Resolve(resolver.ResolveRequest{
		Quest:    q,
		Party:    pt,
		World:    s.world,
		DayIndex: s.world.DayIndex,
		Seed:     req.Seed,
		Options:  s.options,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve quest %s: %w", q.ID(), err)
	}

	if err := q.Resolve(result.Outcome); err != nil {
		return nil, err
	}

	xp := models.RoundInt(q.AssessedDifficulty() * s.xpPerUnit * experienceFactor[result.Grade])
	for _, m := range pt.Members() {
		m.ApplyFatigue(result.Fatigue.FatigueDelta)
		for _, injury := range result.Injuries.For(m.ID()) {
			m.ApplyInjury(injury)
		}
		m.ApplyRewardExperience(xp)
		m.ReleaseFromQuest()
	}
	delete(s.parties, pt.ID())

	events.Publish(s.dispatcher, events.MissionResolvedEvent{
		QuestID:       result.Outcome.QuestID,
		PartyID:       result.Outcome.PartyID,
		Grade:         result.Grade,
		Rewards:       result.Rewards,
		Injuries:      result.Injuries,
		ResolvedDay:   result.Outcome.ResolvedDay,
		SuccessChance: result.FinalSuccessChance,
		RollValue:     result.Outcome.RollValue,
		FatigueDelta:  result.Fatigue.FatigueDelta,
	})

	logs := make([]string, len(result.Logs))
	for i, entry := range result.Logs {
		logs[i] = entry.Message
	}

	return &primary.ResolveQuestResponse{
		Outcome:           result.Outcome,
		FatigueDelta:      result.Fatigue.FatigueDelta,
		ExperienceAwarded: xp,
		Logs:              logs,
	}, nil
}

// AdvanceDay moves the world forward one day: unclaimed quests past their
// expiry are archived, adventurers who are not deployed recover, and open
// quests are reassessed against the new day.
func (s *GuildServiceImpl) AdvanceDay(ctx context.Context) (*primary.AdvanceDayResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advanceLocked()
}

func (s *GuildServiceImpl) advanceLocked() (*primary.AdvanceDayResponse, error) {
	s.world.DayIndex++
	day := s.world.DayIndex

	expired, err := s.board.ArchiveExpired(day)
	if err != nil {
		return nil, fmt.Errorf("failed to archive expired quests: %w", err)
	}

	resp := &primary.AdvanceDayResponse{Day: day}
	for _, q := range expired {
		resp.Expired = append(resp.Expired, q.ID())
		events.Publish(s.dispatcher, events.QuestExpiredEvent{QuestID: q.ID(), Day: day})
		s.logger.Printf("quest %s expired on day %d", q.ID(), day)
	}

	for _, a := range s.roster.GetAll() {
		switch a.Availability() {
		case models.AvailabilityAssigned, models.AvailabilityInProgress:
			continue
		}
		a.Recover(s.recovery)
	}

	resp.Reassessed = s.board.ReassessOpenQuests(s.world)
	return resp, nil
}

// RunDay assigns the best-scoring party to each pending quest in posting
// order, resolves every quest in the field with a seed derived from seed,
// the day and the quest's position, then advances the day.
func (s *GuildServiceImpl) RunDay(ctx context.Context, seed int64) (*primary.DayReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &primary.DayReport{Day: s.world.DayIndex}

	for _, q := range s.board.GetOpenQuests() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q.State() != models.QuestPending {
			continue
		}

		ranked, err := s.rankLocked(q)
		if err != nil {
			return nil, err
		}
		if len(ranked) == 0 || ranked[0].Score <= 0 {
			report.Unassigned = append(report.Unassigned, q.ID())
			continue
		}

		assigned, err := s.assignLocked(primary.AssignPartyRequest{
			QuestID:   q.ID(),
			MemberIDs: ranked[0].Party.MemberIDs(),
		})
		if err != nil {
			return nil, err
		}
		report.Assignments = append(report.Assignments, assigned)
	}

	for i, q := range s.board.GetAllQuests() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q.State() != models.QuestAssigned && q.State() != models.QuestInProgress {
			continue
		}
		resolved, err := s.resolveLocked(primary.ResolveQuestRequest{
			QuestID: q.ID(),
			Seed:    random.Derive(seed, report.Day, i),
		})
		if err != nil {
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, resolved)
	}

	advanced, err := s.advanceLocked()
	if err != nil {
		return nil, err
	}
	report.Expired = advanced.Expired
	return report, nil
}

// World returns a copy of the current world snapshot.
func (s *GuildServiceImpl) World(ctx context.Context) models.WorldStateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	world := s.world
	world.LocationRiskByID = make(map[string]float64, len(s.world.LocationRiskByID))
	for id, r := range s.world.LocationRiskByID {
		world.LocationRiskByID[id] = r
	}
	world.ActiveWorldTags = append([]string(nil), s.world.ActiveWorldTags...)
	return world
}

func (s *GuildServiceImpl) findQuest(id string) (*quest.Instance, error) {
	q, ok := s.board.FindByID(id).Get()
	if !ok {
		return nil, fmt.Errorf("quest %s: %w", id, models.ErrNotFound)
	}
	return q, nil
}

func toQuest(q *quest.Instance) *primary.Quest {
	out := &primary.Quest{
		ID:                 q.ID(),
		TemplateID:         q.TemplateID(),
		Title:              q.Title(),
		Category:           q.Category(),
		State:              q.State(),
		LocationID:         q.LocationID(),
		BaseDifficulty:     q.BaseDifficulty(),
		AssessedDifficulty: q.AssessedDifficulty(),
		Rank:               q.RecommendedRank(),
		RiskScore:          q.RiskScore(),
		ExpectedReward:     q.ExpectedReward(),
		IssuedDay:          q.IssuedDay(),
		ExpireDay:          q.ExpireDay(),
		AssignedPartyID:    q.AssignedPartyID().OrElse(""),
		Version:            q.Version(),
	}
	if outcome, ok := q.Resolution().Get(); ok {
		out.Grade = outcome.Grade
	}
	return out
}

func toAdventurer(a *adventurer.State) *primary.Adventurer {
	traits := a.Traits()
	ids := make([]string, len(traits))
	for i, t := range traits {
		ids[i] = t.TraitID
	}
	return &primary.Adventurer{
		ID:           a.ID(),
		Name:         a.Name(),
		Role:         a.Role(),
		Level:        a.Level(),
		Experience:   a.Experience(),
		Fatigue:      a.Fatigue(),
		CurrentHP:    a.Stats().CurrentHP,
		MaxHP:        a.Stats().MaxHP,
		Injury:       a.Injury(),
		Availability: a.Availability(),
		LastQuestID:  a.LastQuestID().OrElse(""),
		Traits:       ids,
	}
}
