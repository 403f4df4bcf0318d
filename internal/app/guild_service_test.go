package app

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/example/guild/internal/config"
	"github.com/example/guild/internal/core/events"
	"github.com/example/guild/internal/core/resolver"
	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/primary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockResolver implements resolver.Resolver with a scripted result.
type mockResolver struct {
	chance   float64
	grade    models.OutcomeGrade
	fatigue  int
	injured  string // adventurer id that gets hurt
	severity int
	err      error
	calls    []resolver.ResolveRequest
}

func newMockResolver() *mockResolver {
	return &mockResolver{chance: 0.6, grade: models.GradeSuccess, fatigue: 20}
}

func (m *mockResolver) Resolve(req resolver.ResolveRequest) (resolver.ResolveResult, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return resolver.ResolveResult{}, m.err
	}

	var injuries models.InjuryPackage
	if m.injured != "" {
		injuries.Injuries = []models.InjuryInfo{{AdventurerID: m.injured, Severity: m.severity}}
	}
	rewards := models.RewardPackage{Gold: 100, Reputation: 5}

	return resolver.ResolveResult{
		Outcome: models.MissionOutcome{
			QuestID:       req.Quest.ID(),
			PartyID:       req.Party.ID(),
			IsSuccess:     m.grade != models.GradeFail,
			Grade:         m.grade,
			SuccessChance: m.chance,
			RollValue:     0.3,
			Rewards:       rewards,
			Injuries:      injuries,
			ResolvedDay:   req.DayIndex,
		},
		FinalSuccessChance: m.chance,
		Grade:              m.grade,
		Rewards:            rewards,
		Injuries:           injuries,
		Fatigue:            models.FatiguePackage{FatigueDelta: m.fatigue},
		Logs:               []models.ResolveLogEntry{{Message: "Difficulty=20.00"}},
		ConsumedSeed:       req.Seed,
	}, nil
}

// recordingLogger captures formatted lines.
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

// ============================================================================
// Fixtures
// ============================================================================

func testStats(attack int) models.StatBlock {
	return models.StatBlock{
		Attack: attack, Defense: 8, Magic: 4, Support: 4, Detection: 5,
		Mobility: 5, Survival: 6, Morale: 6, MaxHP: 40, Stamina: 10,
	}
}

func testScenario() *models.Scenario {
	return &models.Scenario{
		Name: "border-marches",
		World: models.WorldSpec{
			Day:          2,
			LocationRisk: map[string]float64{"marsh": 0.5},
		},
		Traits: []models.TraitTemplate{
			{ID: "brave", Name: "Brave", Bonus: models.StatBlock{Morale: 2}},
		},
		Locations: []models.LocationProfile{
			{ID: "marsh", Name: "Black Marsh", DifficultyMultiplier: 1, DefaultEnvironmentTags: []string{"fog"}},
		},
		Adventurers: []models.AdventurerTemplate{
			{ID: "a1", Name: "Aria", Role: models.RoleTank, Stats: testStats(12), Traits: []string{"brave"}},
			{ID: "a2", Name: "Bren", Role: models.RoleDealer, Stats: testStats(15)},
			{ID: "a3", Name: "Cass", Role: models.RoleScout, Stats: testStats(9)},
		},
		Quests: []models.QuestTemplate{
			{ID: "q1", DisplayName: "Rats in the cellar", Category: models.CategoryHunt, RecommendedPower: 10, TimeLimitDays: 3},
			{ID: "q2", DisplayName: "Escort the reeve", Category: models.CategoryEscort, RecommendedPower: 20, TimeLimitDays: 1, LocationID: "marsh"},
		},
	}
}

func newTestGuildService(t *testing.T, r resolver.Resolver) (*GuildServiceImpl, *events.Dispatcher) {
	t.Helper()
	d := events.NewDispatcher()
	svc, err := NewGuildService(config.DefaultConfig(), r, d, nil)
	if err != nil {
		t.Fatalf("NewGuildService failed: %v", err)
	}
	return svc, d
}

func loadedService(t *testing.T, r resolver.Resolver) (*GuildServiceImpl, *events.Dispatcher) {
	t.Helper()
	svc, d := newTestGuildService(t, r)
	if _, err := svc.LoadScenario(context.Background(), testScenario()); err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	return svc, d
}

func adventurerByID(t *testing.T, svc *GuildServiceImpl, id string) *primary.Adventurer {
	t.Helper()
	all, err := svc.ListAdventurers(context.Background())
	if err != nil {
		t.Fatalf("ListAdventurers failed: %v", err)
	}
	for _, a := range all {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("adventurer %s not found", id)
	return nil
}

func questByID(t *testing.T, svc *GuildServiceImpl, id string) *primary.Quest {
	t.Helper()
	all, err := svc.ListQuests(context.Background(), primary.QuestFilters{})
	if err != nil {
		t.Fatalf("ListQuests failed: %v", err)
	}
	for _, q := range all {
		if q.ID == id {
			return q
		}
	}
	t.Fatalf("quest %s not found", id)
	return nil
}

// ============================================================================
// Tests
// ============================================================================

func TestNewGuildService_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DifficultyMultiplier = 0

	_, err := NewGuildService(cfg, nil, nil, nil)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	svc, _ := newTestGuildService(t, newMockResolver())
	ctx := context.Background()

	resp, err := svc.LoadScenario(ctx, testScenario())
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if resp.QuestsPosted != 2 || resp.AdventurersRecruited != 3 {
		t.Errorf("posted %d quests and %d adventurers, want 2 and 3", resp.QuestsPosted, resp.AdventurersRecruited)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", resp.Warnings)
	}

	if day := svc.World(ctx).DayIndex; day != 2 {
		t.Errorf("world day = %d, want 2", day)
	}

	q2 := questByID(t, svc, "q2")
	if q2.IssuedDay != 2 || q2.ExpireDay != 3 {
		t.Errorf("q2 issued/expire = %d/%d, want 2/3", q2.IssuedDay, q2.ExpireDay)
	}
	// marsh risk 0.5 raises difficulty by 15%
	if math.Abs(q2.AssessedDifficulty-23) > 1e-9 {
		t.Errorf("q2 assessed difficulty = %v, want 23", q2.AssessedDifficulty)
	}

	a1 := adventurerByID(t, svc, "a1")
	if !reflect.DeepEqual(a1.Traits, []string{"brave"}) {
		t.Errorf("a1 traits = %v", a1.Traits)
	}
	if a1.CurrentHP != 40 {
		t.Errorf("a1 CurrentHP = %d, want full health 40", a1.CurrentHP)
	}
}

func TestLoadScenario_DuplicatesBecomeWarnings(t *testing.T) {
	svc, _ := newTestGuildService(t, newMockResolver())
	sc := testScenario()
	sc.Quests = append(sc.Quests, sc.Quests[0])
	sc.Adventurers = append(sc.Adventurers, sc.Adventurers[1])

	resp, err := svc.LoadScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if resp.QuestsPosted != 2 || resp.AdventurersRecruited != 3 {
		t.Errorf("posted %d/%d, want 2/3", resp.QuestsPosted, resp.AdventurersRecruited)
	}
	if len(resp.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2 entries", resp.Warnings)
	}
}

func TestLoadScenario_Nil(t *testing.T) {
	svc, _ := newTestGuildService(t, newMockResolver())
	if _, err := svc.LoadScenario(context.Background(), nil); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPostQuest_Duplicate(t *testing.T) {
	svc, _ := loadedService(t, newMockResolver())

	_, err := svc.PostQuest(context.Background(), models.QuestTemplate{ID: "q1", RecommendedPower: 50})
	if !errors.Is(err, models.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if q := questByID(t, svc, "q1"); q.BaseDifficulty != 10 {
		t.Errorf("original quest replaced: base difficulty %v", q.BaseDifficulty)
	}
}

func TestAssignParty(t *testing.T) {
	svc, d := loadedService(t, newMockResolver())
	ctx := context.Background()

	var published []events.QuestAssignedEvent
	events.Subscribe(d, func(e events.QuestAssignedEvent) { published = append(published, e) })

	resp, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", PartyID: "p1", MemberIDs: []string{"a2"}})
	if err != nil {
		t.Fatalf("AssignParty failed: %v", err)
	}
	if resp.PartyID != "p1" {
		t.Errorf("PartyID = %q, want p1", resp.PartyID)
	}

	q := questByID(t, svc, "q1")
	if q.State != models.QuestAssigned || q.AssignedPartyID != "p1" {
		t.Errorf("quest state = %s party %q", q.State, q.AssignedPartyID)
	}
	a2 := adventurerByID(t, svc, "a2")
	if a2.Availability != models.AvailabilityAssigned || a2.LastQuestID != "q1" {
		t.Errorf("a2 = %s / %q", a2.Availability, a2.LastQuestID)
	}

	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	want := events.QuestAssignedEvent{QuestID: "q1", PartyID: "p1", MemberIDs: []string{"a2"}, Day: 2}
	if !reflect.DeepEqual(published[0], want) {
		t.Errorf("event = %+v, want %+v", published[0], want)
	}
}

func TestAssignParty_GeneratesPartyID(t *testing.T) {
	svc, _ := loadedService(t, newMockResolver())

	resp, err := svc.AssignParty(context.Background(), primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1"}})
	if err != nil {
		t.Fatalf("AssignParty failed: %v", err)
	}
	if len(resp.PartyID) != 32 {
		t.Errorf("generated party id %q, want 32 hex characters", resp.PartyID)
	}
}

func TestAssignParty_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, svc *GuildServiceImpl)
		req     primary.AssignPartyRequest
		wantErr error
	}{
		{
			name:    "unknown quest",
			req:     primary.AssignPartyRequest{QuestID: "nope", MemberIDs: []string{"a1"}},
			wantErr: models.ErrNotFound,
		},
		{
			name:    "no members",
			req:     primary.AssignPartyRequest{QuestID: "q1"},
			wantErr: models.ErrInvalidArgument,
		},
		{
			name:    "unknown member",
			req:     primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1", "ghost"}},
			wantErr: models.ErrNotFound,
		},
		{
			name: "member already deployed",
			setup: func(t *testing.T, svc *GuildServiceImpl) {
				if _, err := svc.AssignParty(context.Background(), primary.AssignPartyRequest{QuestID: "q2", MemberIDs: []string{"a2"}}); err != nil {
					t.Fatal(err)
				}
			},
			req:     primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1", "a2"}},
			wantErr: models.ErrInvalidState,
		},
		{
			name: "party id in use",
			setup: func(t *testing.T, svc *GuildServiceImpl) {
				if _, err := svc.AssignParty(context.Background(), primary.AssignPartyRequest{QuestID: "q2", PartyID: "p1", MemberIDs: []string{"a2"}}); err != nil {
					t.Fatal(err)
				}
			},
			req:     primary.AssignPartyRequest{QuestID: "q1", PartyID: "p1", MemberIDs: []string{"a1"}},
			wantErr: models.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := loadedService(t, newMockResolver())
			if tt.setup != nil {
				tt.setup(t, svc)
			}

			_, err := svc.AssignParty(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if q := questByID(t, svc, "q1"); q.State != models.QuestPending {
				t.Errorf("q1 state = %s, want pending", q.State)
			}
			if a := adventurerByID(t, svc, "a1"); a.Availability != models.AvailabilityIdle {
				t.Errorf("a1 availability = %s, want idle", a.Availability)
			}
		})
	}
}

func TestResolveQuest_AppliesOutcome(t *testing.T) {
	r := newMockResolver()
	r.injured = "a1"
	r.severity = 3
	svc, d := loadedService(t, r)
	ctx := context.Background()

	var resolved []events.MissionResolvedEvent
	events.Subscribe(d, func(e events.MissionResolvedEvent) { resolved = append(resolved, e) })

	if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", PartyID: "p1", MemberIDs: []string{"a1", "a2"}}); err != nil {
		t.Fatalf("AssignParty failed: %v", err)
	}

	resp, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1", Seed: 99})
	if err != nil {
		t.Fatalf("ResolveQuest failed: %v", err)
	}

	call := r.calls[len(r.calls)-1]
	if call.Seed != 99 || call.DayIndex != 2 || !call.Options.EnableInjurySimulation {
		t.Errorf("resolver request = seed %d day %d options %+v", call.Seed, call.DayIndex, call.Options)
	}
	if call.Quest.State() != models.QuestResolved {
		t.Errorf("quest state after resolve = %s", call.Quest.State())
	}

	// difficulty 10 at factor 1 for a plain success
	if resp.ExperienceAwarded != 10 {
		t.Errorf("ExperienceAwarded = %d, want 10", resp.ExperienceAwarded)
	}
	if resp.FatigueDelta != 20 || len(resp.Logs) != 1 {
		t.Errorf("response = %+v", resp)
	}

	a1 := adventurerByID(t, svc, "a1")
	if a1.Fatigue != 20 || !a1.Injury.Injured || a1.Injury.Severity != 3 {
		t.Errorf("a1 = fatigue %d injury %+v", a1.Fatigue, a1.Injury)
	}
	if a1.Availability != models.AvailabilityRecovery || a1.LastQuestID != "" {
		t.Errorf("a1 availability = %s last quest %q", a1.Availability, a1.LastQuestID)
	}
	if a1.Experience != 10 {
		t.Errorf("a1 experience = %d, want 10", a1.Experience)
	}

	a2 := adventurerByID(t, svc, "a2")
	if a2.Injury.Injured || a2.Availability != models.AvailabilityIdle {
		t.Errorf("a2 = injury %+v availability %s", a2.Injury, a2.Availability)
	}

	if q := questByID(t, svc, "q1"); q.State != models.QuestResolved || q.Grade != models.GradeSuccess {
		t.Errorf("quest = %s / %s", q.State, q.Grade)
	}

	if len(resolved) != 1 {
		t.Fatalf("published %d resolved events, want 1", len(resolved))
	}
	e := resolved[0]
	if e.QuestID != "q1" || e.PartyID != "p1" || e.FatigueDelta != 20 || e.SuccessChance != 0.6 || e.Rewards.Gold != 100 {
		t.Errorf("event = %+v", e)
	}
}

func TestResolveQuest_ExperienceByGrade(t *testing.T) {
	tests := []struct {
		grade models.OutcomeGrade
		want  int
	}{
		{models.GradeCriticalSuccess, 15},
		{models.GradeSuccess, 10},
		{models.GradePartialSuccess, 5},
		{models.GradeFail, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.grade), func(t *testing.T) {
			r := newMockResolver()
			r.grade = tt.grade
			svc, _ := loadedService(t, r)
			ctx := context.Background()

			if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a3"}}); err != nil {
				t.Fatal(err)
			}
			resp, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1"})
			if err != nil {
				t.Fatalf("ResolveQuest failed: %v", err)
			}
			if resp.ExperienceAwarded != tt.want {
				t.Errorf("ExperienceAwarded = %d, want %d", resp.ExperienceAwarded, tt.want)
			}
		})
	}
}

func TestResolveQuest_NotAssigned(t *testing.T) {
	r := newMockResolver()
	svc, _ := loadedService(t, r)

	_, err := svc.ResolveQuest(context.Background(), primary.ResolveQuestRequest{QuestID: "q1"})
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("resolver called %d times", len(r.calls))
	}
}

func TestResolveQuest_MemberCannotBegin(t *testing.T) {
	r := newMockResolver()
	svc, _ := loadedService(t, r)
	ctx := context.Background()

	if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1", "a2"}}); err != nil {
		t.Fatalf("AssignParty failed: %v", err)
	}
	injured, ok := svc.roster.FindByID("a2").Get()
	if !ok {
		t.Fatal("a2 not on the roster")
	}
	injured.ApplyInjury(models.InjuryInfo{AdventurerID: "a2", Severity: 2})

	_, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1", Seed: 1})
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("resolver called %d times", len(r.calls))
	}
	if q := questByID(t, svc, "q1"); q.State != models.QuestAssigned {
		t.Errorf("quest state = %s, want assigned", q.State)
	}
	if a := adventurerByID(t, svc, "a1"); a.Availability != models.AvailabilityAssigned {
		t.Errorf("a1 availability = %s, want assigned", a.Availability)
	}
}

func TestResolveQuest_ResolverError(t *testing.T) {
	r := newMockResolver()
	svc, d := loadedService(t, r)
	ctx := context.Background()

	published := 0
	events.Subscribe(d, func(events.MissionResolvedEvent) { published++ })

	if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1"}}); err != nil {
		t.Fatal(err)
	}
	r.err = errors.New("boom")

	if _, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1"}); err == nil {
		t.Fatal("expected error")
	}
	if published != 0 {
		t.Errorf("published %d events after a failed resolution", published)
	}
	if q := questByID(t, svc, "q1"); q.State == models.QuestResolved {
		t.Error("quest resolved despite resolver error")
	}
}

func TestAdvanceDay(t *testing.T) {
	r := newMockResolver()
	r.fatigue = 60
	svc, d := loadedService(t, r)
	ctx := context.Background()

	var expired []events.QuestExpiredEvent
	events.Subscribe(d, func(e events.QuestExpiredEvent) { expired = append(expired, e) })

	if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q2", MemberIDs: []string{"a2"}}); err != nil {
		t.Fatal(err)
	}

	// q2 expires after day 3; only day 4 archives it
	first, err := svc.AdvanceDay(ctx)
	if err != nil {
		t.Fatalf("AdvanceDay failed: %v", err)
	}
	if first.Day != 3 || len(first.Expired) != 0 {
		t.Errorf("first advance = %+v", first)
	}

	a1 := adventurerByID(t, svc, "a1")
	if a1.Fatigue != 35 {
		t.Errorf("a1 fatigue = %d, want 60-25=35", a1.Fatigue)
	}
	if a2 := adventurerByID(t, svc, "a2"); a2.Availability != models.AvailabilityAssigned {
		t.Errorf("deployed a2 was recovered to %s", a2.Availability)
	}

	if _, err := svc.PostQuest(ctx, models.QuestTemplate{ID: "q3", RecommendedPower: 5, TimeLimitDays: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AdvanceDay(ctx); err != nil {
		t.Fatal(err)
	}
	second, err := svc.AdvanceDay(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// q2 was assigned so it never expires; q3 issued day 3 expires on day 5
	if !reflect.DeepEqual(second.Expired, []string{"q3"}) {
		t.Errorf("expired = %v, want [q3]", second.Expired)
	}
	if len(expired) != 1 || expired[0].QuestID != "q3" || expired[0].Day != 5 {
		t.Errorf("expired events = %+v", expired)
	}
	if q := questByID(t, svc, "q3"); q.State != models.QuestArchived {
		t.Errorf("q3 state = %s, want archived", q.State)
	}
}

func TestAdvanceDay_InjuryHealing(t *testing.T) {
	tests := []struct {
		name          string
		severity      int
		wantInjured   bool
		wantAvailable models.Availability
	}{
		{name: "minor injury heals once rested", severity: 1, wantAvailable: models.AvailabilityIdle},
		{name: "serious injury never heals", severity: 2, wantInjured: true, wantAvailable: models.AvailabilityRecovery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMockResolver()
			r.injured = "a3"
			r.severity = tt.severity
			svc, _ := loadedService(t, r)
			ctx := context.Background()

			if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a3"}}); err != nil {
				t.Fatal(err)
			}
			if _, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1"}); err != nil {
				t.Fatal(err)
			}
			for range 5 {
				if _, err := svc.AdvanceDay(ctx); err != nil {
					t.Fatal(err)
				}
			}

			a3 := adventurerByID(t, svc, "a3")
			if a3.Fatigue != 0 {
				t.Errorf("a3 fatigue = %d, want 0", a3.Fatigue)
			}
			if a3.Injury.Injured != tt.wantInjured || a3.Availability != tt.wantAvailable {
				t.Errorf("a3 injured=%v availability=%s, want %v/%s", a3.Injury.Injured, a3.Availability, tt.wantInjured, tt.wantAvailable)
			}
		})
	}
}

func TestPlanQuest(t *testing.T) {
	svc, _ := loadedService(t, resolver.New())
	ctx := context.Background()

	plan, err := svc.PlanQuest(ctx, "q1")
	if err != nil {
		t.Fatalf("PlanQuest failed: %v", err)
	}
	if plan.RequiredMembers != 1 {
		t.Errorf("RequiredMembers = %d, want 1", plan.RequiredMembers)
	}
	if len(plan.Candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(plan.Candidates))
	}
	for i := 1; i < len(plan.Candidates); i++ {
		if plan.Candidates[i].Score > plan.Candidates[i-1].Score {
			t.Errorf("candidates not sorted: %v then %v", plan.Candidates[i-1].Score, plan.Candidates[i].Score)
		}
	}
	if plan.Candidates[0].MemberIDs[0] != "a2" {
		t.Errorf("best candidate = %v, want the strongest adventurer a2", plan.Candidates[0].MemberIDs)
	}
	best := plan.Candidates[0]
	if best.Condition != 1 || best.AverageFatigue != 0 {
		t.Errorf("fresh party: condition %v fatigue %v, want 1 and 0", best.Condition, best.AverageFatigue)
	}
	if best.TotalStats.Attack != 15 {
		t.Errorf("TotalStats.Attack = %d, want 15", best.TotalStats.Attack)
	}

	// previews change nothing
	if q := questByID(t, svc, "q1"); q.State != models.QuestPending || q.Version != 1 {
		t.Errorf("quest mutated by planning: %+v", q)
	}
}

func TestPlanQuest_UnknownQuest(t *testing.T) {
	svc, _ := loadedService(t, newMockResolver())
	if _, err := svc.PlanQuest(context.Background(), "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunDay_Deterministic(t *testing.T) {
	run := func() []*primary.DayReport {
		svc, _ := loadedService(t, resolver.New())
		var reports []*primary.DayReport
		for range 3 {
			report, err := svc.RunDay(context.Background(), 42)
			if err != nil {
				t.Fatalf("RunDay failed: %v", err)
			}
			for _, a := range report.Assignments {
				a.PartyID = "" // generated
			}
			for _, o := range report.Outcomes {
				o.Outcome.PartyID = ""
			}
			reports = append(reports, report)
		}
		return reports
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different days")
	}
	if len(first[0].Outcomes) != 2 {
		t.Errorf("day one resolved %d quests, want 2", len(first[0].Outcomes))
	}
	if first[0].Day != 2 || first[1].Day != 3 {
		t.Errorf("report days = %d, %d", first[0].Day, first[1].Day)
	}
}

func TestRunDay_Cancelled(t *testing.T) {
	svc, _ := loadedService(t, newMockResolver())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.RunDay(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunDay_LeavesQuestWithoutCandidates(t *testing.T) {
	svc, _ := newTestGuildService(t, newMockResolver())
	ctx := context.Background()
	if _, err := svc.PostQuest(ctx, models.QuestTemplate{ID: "lonely", RecommendedPower: 10, TimeLimitDays: 5}); err != nil {
		t.Fatal(err)
	}

	report, err := svc.RunDay(ctx, 7)
	if err != nil {
		t.Fatalf("RunDay failed: %v", err)
	}
	if !reflect.DeepEqual(report.Unassigned, []string{"lonely"}) {
		t.Errorf("unassigned = %v", report.Unassigned)
	}
}

func TestLogOutcomes(t *testing.T) {
	svc, d := loadedService(t, newMockResolver())
	logger := &recordingLogger{}
	LogOutcomes(d, logger)
	ctx := context.Background()

	if _, err := svc.AssignParty(ctx, primary.AssignPartyRequest{QuestID: "q1", MemberIDs: []string{"a1"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveQuest(ctx, primary.ResolveQuestRequest{QuestID: "q1"}); err != nil {
		t.Fatal(err)
	}
	if len(logger.lines) != 1 {
		t.Errorf("logged %d lines, want 1", len(logger.lines))
	}
}
