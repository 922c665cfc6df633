// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decisionlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register the duckdb driver
	"github.com/goccy/go-json"

	"github.com/tomtom215/admatch/internal/models"
)

// OpenDuckDB opens a DuckDB database. An empty path opens an in-memory
// database.
func OpenDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return db, nil
}

// DuckDBStore implements Store on a decision_log table.
type DuckDBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewDuckDBStore creates a DuckDB-backed store.
// The caller is responsible for calling CreateTable once.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// CreateTable creates the decision_log table if it doesn't exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS decision_log (
			decision_id TEXT PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			request_id TEXT,
			caller_id TEXT,
			conversation_id TEXT,
			language TEXT,

			-- Outcome
			strategy TEXT NOT NULL,
			outcome TEXT NOT NULL,
			intent TEXT,
			opportunity_score DOUBLE NOT NULL,
			candidate_count INTEGER NOT NULL,
			item_id TEXT,
			advertiser_id TEXT,
			final_ev DOUBLE NOT NULL,
			explored BOOLEAN NOT NULL,
			used_legacy BOOLEAN NOT NULL,
			fallback_reason TEXT,
			timings JSON
		);

		CREATE INDEX IF NOT EXISTS idx_decision_log_timestamp ON decision_log(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_decision_log_caller ON decision_log(caller_id);
		CREATE INDEX IF NOT EXISTS idx_decision_log_outcome ON decision_log(outcome);
	`

	for _, stmt := range strings.Split(query, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// Save implements Store.
func (s *DuckDBStore) Save(ctx context.Context, e *Entry) error {
	if e == nil {
		return errors.New("entry cannot be nil")
	}

	timings, err := json.Marshal(e.Timings)
	if err != nil {
		return fmt.Errorf("marshal timings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decision_log (
			decision_id, timestamp, request_id, caller_id, conversation_id, language,
			strategy, outcome, intent, opportunity_score, candidate_count,
			item_id, advertiser_id, final_ev, explored, used_legacy, fallback_reason, timings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.DecisionID, e.Timestamp, nullString(e.RequestID), nullString(e.CallerID),
		nullString(e.ConversationID), nullString(e.Language),
		string(e.Strategy), string(e.Outcome), nullString(string(e.Intent)),
		e.OpportunityScore, e.CandidateCount,
		nullString(e.ItemID), nullString(e.AdvertiserID), e.FinalEV, e.Explored, e.UsedLegacy,
		nullString(e.FallbackReason), string(timings),
	)
	if err != nil {
		return fmt.Errorf("failed to save decision log entry: %w", err)
	}
	return nil
}

// Query implements Store.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conditions, args := buildFilterConditions(filter)
	query := `
		SELECT
			decision_id, timestamp, request_id, caller_id, conversation_id, language,
			strategy, outcome, intent, opportunity_score, candidate_count,
			item_id, advertiser_id, final_ev, explored, used_legacy, fallback_reason,
			CAST(timings AS VARCHAR) AS timings
		FROM decision_log`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision log: %w", err)
	}
	return entries, nil
}

// Stats implements Store.
func (s *DuckDBStore) Stats(ctx context.Context) (*models.DecisionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := newStats()
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE fallback_reason IS NOT NULL) FROM decision_log",
	).Scan(&stats.Total, &stats.Fallbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if stats.ByOutcome, err = s.countByColumn(ctx, "outcome"); err != nil {
		return nil, err
	}
	if stats.ByStrategy, err = s.countByColumn(ctx, "strategy"); err != nil {
		return nil, err
	}
	return stats, nil
}

// Delete implements Store.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM decision_log WHERE timestamp < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old decision log entries: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	return count, nil
}

// countByColumn executes a GROUP BY query and returns counts per value.
// column is always a constant from this file.
func (s *DuckDBStore) countByColumn(ctx context.Context, column string) (map[string]int64, error) {
	result := make(map[string]int64)
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM decision_log GROUP BY %s", column, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s counts: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		result[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s counts: %w", column, err)
	}
	return result, nil
}

func buildFilterConditions(filter QueryFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.CallerID != "" {
		conditions = append(conditions, "caller_id = ?")
		args = append(args, filter.CallerID)
	}
	if filter.ConversationID != "" {
		conditions = append(conditions, "conversation_id = ?")
		args = append(args, filter.ConversationID)
	}
	if cond := buildSliceCondition("strategy", filter.Strategies, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if cond := buildSliceCondition("outcome", filter.Outcomes, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if filter.StartTime != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, *filter.EndTime)
	}
	return conditions, args
}

// buildSliceCondition creates a SQL IN condition for a slice of string values.
func buildSliceCondition[T ~string](column string, values []T, args *[]interface{}) string {
	if len(values) == 0 {
		return ""
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		*args = append(*args, string(v))
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ","))
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	var (
		e                                            Entry
		requestID, callerID, conversationID, lang    sql.NullString
		intent, itemID, advertiserID, fallback, tims sql.NullString
		strategy, outcome                            string
	)
	err := rows.Scan(
		&e.DecisionID, &e.Timestamp, &requestID, &callerID, &conversationID, &lang,
		&strategy, &outcome, &intent, &e.OpportunityScore, &e.CandidateCount,
		&itemID, &advertiserID, &e.FinalEV, &e.Explored, &e.UsedLegacy, &fallback, &tims,
	)
	if err != nil {
		return nil, fmt.Errorf("scan decision log row: %w", err)
	}

	e.RequestID = requestID.String
	e.CallerID = callerID.String
	e.ConversationID = conversationID.String
	e.Language = lang.String
	e.Strategy = models.Strategy(strategy)
	e.Outcome = models.Outcome(outcome)
	e.Intent = models.Intent(intent.String)
	e.ItemID = itemID.String
	e.AdvertiserID = advertiserID.String
	e.FallbackReason = fallback.String
	if tims.Valid && tims.String != "" {
		if err := json.Unmarshal([]byte(tims.String), &e.Timings); err != nil {
			return nil, fmt.Errorf("unmarshal timings: %w", err)
		}
	}
	return &e, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
