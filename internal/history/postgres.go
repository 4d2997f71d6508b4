package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scoutlab/scout/internal/contracts"
)

// PostgresStore persists committee results in the committee_decisions
// table, with the full result kept as JSONB alongside the queryable
// columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed history store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the decisions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS committee_decisions (
			id BIGSERIAL PRIMARY KEY,
			decided_at TIMESTAMPTZ NOT NULL,
			ticker TEXT NOT NULL,
			action TEXT NOT NULL,
			consensus_qty BIGINT NOT NULL,
			stop_loss_price DOUBLE PRECISION NOT NULL,
			winner TEXT NOT NULL,
			resolved_by TEXT NOT NULL,
			degraded BOOLEAN NOT NULL DEFAULT FALSE,
			payload JSONB NOT NULL
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create decisions table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, result contracts.CommitteeResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal committee result: %w", err)
	}

	query := `
		INSERT INTO committee_decisions (
			decided_at, ticker, action, consensus_qty, stop_loss_price,
			winner, resolved_by, degraded, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.pool.Exec(ctx, query,
		result.Timestamp, result.Ticker, string(result.Action), result.ConsensusQty,
		result.StopLossPrice, result.Winner, result.ResolvedBy, result.Degraded, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to append committee result: %w", err)
	}

	return nil
}

// Recent returns up to limit decisions, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]contracts.CommitteeResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT payload
		FROM committee_decisions
		ORDER BY decided_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var results []contracts.CommitteeResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		var result contracts.CommitteeResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decision: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}

	return results, nil
}

func (s *PostgresStore) WinnerCounts(ctx context.Context) (int, map[string]int, error) {
	query := `
		SELECT winner, COUNT(*)
		FROM committee_decisions
		WHERE winner <> ''
		GROUP BY winner
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query winner counts: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var winner string
		var count int
		if err := rows.Scan(&winner, &count); err != nil {
			return 0, nil, fmt.Errorf("failed to scan winner count: %w", err)
		}
		wins[winner] = count
	}

	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate winner counts: %w", err)
	}

	var debates int
	err = s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM committee_decisions`).Scan(&debates)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count debates: %w", err)
	}

	return debates, wins, nil
}
