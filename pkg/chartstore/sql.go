// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/teradata-labs/easel/internal/sqlitedriver"
)

// dialect captures the SQL differences between the supported engines.
type dialect struct {
	name       string
	driver     string
	createSQL  string
	upsertSQL  string
	selectSQL  string
	rebindArgs bool
}

const createTableTemplate = `CREATE TABLE IF NOT EXISTS chart_data (
	chart_id        %s NOT NULL,
	presentation_id %s NOT NULL,
	payload         TEXT NOT NULL,
	updated_at      TIMESTAMP NOT NULL,
	PRIMARY KEY (chart_id, presentation_id)
)`

var (
	sqliteDialect = dialect{
		name:      "sqlite",
		driver:    "sqlite3",
		createSQL: fmt.Sprintf(createTableTemplate, "TEXT", "TEXT"),
		upsertSQL: `INSERT INTO chart_data (chart_id, presentation_id, payload, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(chart_id, presentation_id) DO UPDATE SET
				payload = excluded.payload, updated_at = excluded.updated_at`,
		selectSQL: `SELECT chart_id, presentation_id, payload, updated_at
			FROM chart_data WHERE presentation_id = ? ORDER BY chart_id`,
	}
	postgresDialect = dialect{
		name:      "postgres",
		driver:    "postgres",
		createSQL: fmt.Sprintf(createTableTemplate, "TEXT", "TEXT"),
		upsertSQL: `INSERT INTO chart_data (chart_id, presentation_id, payload, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (chart_id, presentation_id) DO UPDATE SET
				payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		selectSQL: `SELECT chart_id, presentation_id, payload, updated_at
			FROM chart_data WHERE presentation_id = $1 ORDER BY chart_id`,
	}
	mysqlDialect = dialect{
		name:      "mysql",
		driver:    "mysql",
		createSQL: fmt.Sprintf(createTableTemplate, "VARCHAR(64)", "VARCHAR(128)"),
		upsertSQL: `INSERT INTO chart_data (chart_id, presentation_id, payload, updated_at)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				payload = VALUES(payload), updated_at = VALUES(updated_at)`,
		selectSQL: `SELECT chart_id, presentation_id, payload, updated_at
			FROM chart_data WHERE presentation_id = ? ORDER BY chart_id`,
	}
)

// Config selects the SQL engine. DSN schemes: postgres://, mysql://;
// anything else is treated as a sqlite file path (":memory:" works).
type Config struct {
	DSN string

	// EncryptionKey applies only to sqlite built with the SQLCipher driver.
	EncryptionKey string

	Logger *zap.Logger
}

// SQLStore is the database-backed Store.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

var _ Store = (*SQLStore)(nil)

// Open connects to the engine the DSN names, applies engine pragmas and
// creates the chart_data table when absent.
func Open(cfg Config) (*SQLStore, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	d, dsn := dialectFor(cfg.DSN)
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s chart store: %w", d.name, err)
	}

	if d.name == "sqlite" {
		if cfg.EncryptionKey != "" && sqlitedriver.EncryptionSupported {
			if _, err := db.Exec(fmt.Sprintf("PRAGMA key = '%s'", strings.ReplaceAll(cfg.EncryptionKey, "'", "''"))); err != nil {
				db.Close()
				return nil, fmt.Errorf("set sqlite encryption key: %w", err)
			}
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy_timeout: %w", err)
		}
	}

	if _, err := db.Exec(d.createSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create chart_data table: %w", err)
	}

	logger.Info("chart store ready", zap.String("engine", d.name))
	return &SQLStore{db: db, dialect: d, logger: logger}, nil
}

func dialectFor(dsn string) (dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgresDialect, dsn
	case strings.HasPrefix(dsn, "mysql://"):
		// go-sql-driver takes user:pass@tcp(host)/db without the scheme
		return mysqlDialect, strings.TrimPrefix(dsn, "mysql://")
	default:
		return sqliteDialect, dsn
	}
}

// UpsertChartData validates the payload and writes it, replacing any prior
// row for the same (chart_id, presentation_id).
func (s *SQLStore) UpsertChartData(ctx context.Context, rec Record) (UpsertResult, error) {
	if rec.ChartID == "" || rec.PresentationID == "" {
		return UpsertResult{}, fmt.Errorf("chart_id and presentation_id are required")
	}
	if serr := ValidatePayload(rec.Payload); serr != nil {
		return UpsertResult{}, serr
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, s.dialect.upsertSQL,
		rec.ChartID, rec.PresentationID, string(rec.Payload), now)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("upsert chart data: %w", err)
	}
	s.logger.Debug("chart data saved",
		zap.String("chart_id", rec.ChartID),
		zap.String("presentation_id", rec.PresentationID))
	return UpsertResult{UpdatedAt: now}, nil
}

// GetChartData returns every saved record for a presentation, ordered by
// chart id. An unknown presentation yields an empty slice, not an error.
func (s *SQLStore) GetChartData(ctx context.Context, presentationID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.selectSQL, presentationID)
	if err != nil {
		return nil, fmt.Errorf("query chart data: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var payload string
		if err := rows.Scan(&rec.ChartID, &rec.PresentationID, &payload, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chart data row: %w", err)
		}
		rec.Payload = []byte(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
