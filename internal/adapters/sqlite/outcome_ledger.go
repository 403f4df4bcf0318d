// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/guild/internal/ports/secondary"
)

// OutcomeLedger implements secondary.OutcomeLedger with SQLite.
type OutcomeLedger struct {
	db *sql.DB
}

// NewOutcomeLedger creates a new SQLite outcome ledger.
func NewOutcomeLedger(db *sql.DB) *OutcomeLedger {
	return &OutcomeLedger{db: db}
}

var _ secondary.OutcomeLedger = (*OutcomeLedger)(nil)

// StartRun persists a new run.
func (r *OutcomeLedger) StartRun(ctx context.Context, run *secondary.RunRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (id, scenario, seed) VALUES (?, ?, ?)",
		run.ID, run.Scenario, run.Seed,
	)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// Record appends one outcome.
func (r *OutcomeLedger) Record(ctx context.Context, outcome *secondary.OutcomeRecord) error {
	var runID, items sql.NullString

	if outcome.RunID != "" {
		runID = sql.NullString{String: outcome.RunID, Valid: true}
	}
	if len(outcome.Items) > 0 {
		data, err := json.Marshal(outcome.Items)
		if err != nil {
			return fmt.Errorf("failed to encode items: %w", err)
		}
		items = sql.NullString{String: string(data), Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO mission_outcomes (run_id, quest_id, party_id, grade, success_chance, roll_value,
			gold, reputation, items, injury_count, fatigue_delta, resolved_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, outcome.QuestID, outcome.PartyID, outcome.Grade, outcome.SuccessChance, outcome.RollValue,
		outcome.Gold, outcome.Reputation, items, outcome.InjuryCount, outcome.FatigueDelta, outcome.ResolvedDay,
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read outcome id: %w", err)
	}
	outcome.ID = id
	return nil
}

// List retrieves outcomes matching the given filters, oldest first.
func (r *OutcomeLedger) List(ctx context.Context, filters secondary.OutcomeFilters) ([]*secondary.OutcomeRecord, error) {
	query := `SELECT id, run_id, quest_id, party_id, grade, success_chance, roll_value,
		gold, reputation, items, injury_count, fatigue_delta, resolved_day, created_at
		FROM mission_outcomes`

	var conditions []string
	var args []any

	if filters.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filters.RunID)
	}
	if filters.QuestID != "" {
		conditions = append(conditions, "quest_id = ?")
		args = append(args, filters.QuestID)
	}
	if filters.Grade != "" {
		conditions = append(conditions, "grade = ?")
		args = append(args, filters.Grade)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*secondary.OutcomeRecord
	for rows.Next() {
		var (
			record    secondary.OutcomeRecord
			runID     sql.NullString
			items     sql.NullString
			createdAt time.Time
		)

		err := rows.Scan(&record.ID, &runID, &record.QuestID, &record.PartyID, &record.Grade,
			&record.SuccessChance, &record.RollValue, &record.Gold, &record.Reputation, &items,
			&record.InjuryCount, &record.FatigueDelta, &record.ResolvedDay, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}

		record.RunID = runID.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		if items.Valid && items.String != "" {
			if err := json.Unmarshal([]byte(items.String), &record.Items); err != nil {
				return nil, fmt.Errorf("failed to decode items for outcome %d: %w", record.ID, err)
			}
		}

		outcomes = append(outcomes, &record)
	}

	return outcomes, rows.Err()
}

// ListRuns retrieves all runs, newest first.
func (r *OutcomeLedger) ListRuns(ctx context.Context) ([]*secondary.RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, scenario, seed, created_at FROM runs ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		var (
			run       secondary.RunRecord
			createdAt time.Time
		)
		if err := rows.Scan(&run.ID, &run.Scenario, &run.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt = createdAt.Format(time.RFC3339)
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// CountByGrade returns the number of outcomes per grade.
func (r *OutcomeLedger) CountByGrade(ctx context.Context, runID string) (map[string]int, error) {
	query := "SELECT grade, COUNT(*) FROM mission_outcomes"
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " GROUP BY grade"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var grade string
		var n int
		if err := rows.Scan(&grade, &n); err != nil {
			return nil, fmt.Errorf("failed to scan grade count: %w", err)
		}
		counts[grade] = n
	}

	return counts, rows.Err()
}
