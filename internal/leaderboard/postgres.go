package leaderboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresTable is the table the Postgres store reads and writes.
const PostgresTable = "earthkeeper_scores"

// PostgresStore keeps records in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// OpenPostgresStore connects to dsn and creates the table when missing.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}

	s := &PostgresStore{db: db, table: pq.QuoteIdentifier(PostgresTable)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		id          UUID PRIMARY KEY,
		nickname    TEXT NOT NULL,
		score       INTEGER NOT NULL,
		level       INTEGER NOT NULL,
		level_name  TEXT NOT NULL,
		difficulty  TEXT NOT NULL,
		max_combo   INTEGER NOT NULL,
		collected   INTEGER NOT NULL,
		destroyed   INTEGER NOT NULL,
		seconds     INTEGER NOT NULL,
		won         BOOLEAN NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("postgres store: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO `+s.table+`
		(id, nickname, score, level, level_name, difficulty, max_combo, collected, destroyed, seconds, won, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.Nickname, r.Score, r.Level, r.LevelName, r.Difficulty,
		r.MaxCombo, r.Collected, r.Destroyed, r.Time, r.Won, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres store: insert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Top(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, nickname, score, level, level_name, difficulty, max_combo, collected, destroyed, seconds, won, created_at
		FROM `+s.table+` ORDER BY score DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres store: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Nickname, &r.Score, &r.Level, &r.LevelName, &r.Difficulty,
			&r.MaxCombo, &r.Collected, &r.Destroyed, &r.Time, &r.Won, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres store: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres store: rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
