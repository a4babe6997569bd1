// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package traffic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps traffic in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect creates a connection pool and verifies it
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 5
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Baselines(ctx context.Context) (map[Key]Baseline, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT peer, interface, last_received, last_sent, day
		FROM wg_baselines
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[Key]Baseline)
	for rows.Next() {
		var b Baseline
		if err := rows.Scan(&b.Peer, &b.Interface, &b.Received, &b.Sent, &b.Day); err != nil {
			return nil, err
		}
		out[b.Key] = b
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveBaselines(ctx context.Context, baselines []Baseline) error {
	batch := &pgx.Batch{}
	for _, b := range baselines {
		batch.Queue(`
			INSERT INTO wg_baselines (peer, interface, last_received, last_sent, day)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (peer, interface) DO UPDATE SET
				last_received = EXCLUDED.last_received,
				last_sent = EXCLUDED.last_sent,
				day = EXCLUDED.day
		`, b.Peer, b.Interface, b.Received, b.Sent, b.Day)
	}
	return s.pool.SendBatch(ctx, batch).Close()
}

func (s *PostgresStore) ReplaceTotals(ctx context.Context, samples []Sample) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	peers := make([]string, len(samples))
	ifaces := make([]string, len(samples))
	for i, smp := range samples {
		peers[i] = smp.Peer
		ifaces[i] = smp.Interface
		_, err := tx.Exec(ctx, `
			INSERT INTO wg_total_stats (peer, interface, client, total_received, total_sent, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (peer, interface) DO UPDATE SET
				client = EXCLUDED.client,
				total_received = EXCLUDED.total_received,
				total_sent = EXCLUDED.total_sent,
				updated_at = EXCLUDED.updated_at
		`, smp.Peer, smp.Interface, smp.Client, smp.Received, smp.Sent)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM wg_total_stats t
		WHERE NOT EXISTS (
			SELECT 1 FROM unnest($1::text[], $2::text[]) AS cur(peer, interface)
			WHERE cur.peer = t.peer AND cur.interface = t.interface
		)
	`, peers, ifaces)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) SaveDaily(ctx context.Context, rows []Daily) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO wg_daily_stats (day, peer, interface, client, received, sent)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (day, peer, interface) DO UPDATE SET
				client = EXCLUDED.client,
				received = EXCLUDED.received,
				sent = EXCLUDED.sent
		`, r.Day, r.Peer, r.Interface, r.Client, r.Received, r.Sent)
	}
	return s.pool.SendBatch(ctx, batch).Close()
}

func (s *PostgresStore) Daily(ctx context.Context, day string) ([]Daily, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT day, peer, interface, client, received, sent
		FROM wg_daily_stats
		WHERE day = $1
		ORDER BY interface, peer
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Daily
	for rows.Next() {
		var d Daily
		if err := rows.Scan(&d.Day, &d.Peer, &d.Interface, &d.Client, &d.Received, &d.Sent); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PruneDaily(ctx context.Context, before string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM wg_daily_stats
		WHERE day < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
