package secondary

import "context"

// OutcomeLedger defines the secondary port for recording resolved missions.
// The ledger is append-only; the simulation never reads state back from it.
type OutcomeLedger interface {
	// StartRun records a new simulation run.
	StartRun(ctx context.Context, run *RunRecord) error

	// Record appends one mission outcome.
	Record(ctx context.Context, outcome *OutcomeRecord) error

	// List retrieves outcomes matching the given filters, oldest first.
	List(ctx context.Context, filters OutcomeFilters) ([]*OutcomeRecord, error)

	// ListRuns retrieves all recorded runs, newest first.
	ListRuns(ctx context.Context) ([]*RunRecord, error)

	// CountByGrade returns the number of outcomes per grade for a run.
	// An empty runID counts every outcome.
	CountByGrade(ctx context.Context, runID string) (map[string]int, error)
}

// RunRecord represents a simulation run as stored in persistence.
type RunRecord struct {
	ID        string
	Scenario  string
	Seed      int64
	CreatedAt string
}

// OutcomeRecord represents a mission outcome as stored in persistence.
type OutcomeRecord struct {
	ID            int64
	RunID         string // Empty string means null
	QuestID       string
	PartyID       string
	Grade         string
	SuccessChance float64
	RollValue     float64
	Gold          int
	Reputation    int
	Items         []string
	InjuryCount   int
	FatigueDelta  int
	ResolvedDay   int
	CreatedAt     string
}

// OutcomeFilters contains filter options for querying outcomes.
type OutcomeFilters struct {
	RunID   string
	QuestID string
	Grade   string
	Limit   int
}
