package revision

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"ifcaudit/internal/errors"
	"ifcaudit/internal/slogutil"
)

const sqliteSchemaVersion = 1

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS revision_records (
		seq             INTEGER PRIMARY KEY AUTOINCREMENT,
		id              TEXT NOT NULL UNIQUE,
		file_name       TEXT NOT NULL,
		file_hash       TEXT NOT NULL,
		algorithm       TEXT NOT NULL,
		timestamp       TEXT NOT NULL,
		author          TEXT NOT NULL,
		description     TEXT NOT NULL,
		approval_status TEXT NOT NULL,
		comments        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_revision_records_file ON revision_records(file_name, seq)`,
	`CREATE TRIGGER IF NOT EXISTS revision_records_no_update
		BEFORE UPDATE ON revision_records
		BEGIN SELECT RAISE(ABORT, 'revision records are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS revision_records_no_delete
		BEFORE DELETE ON revision_records
		BEGIN SELECT RAISE(ABORT, 'revision records are append-only'); END`,
}

// SQLiteStore keeps revision logs in SQLite. Rows can be inserted but
// triggers reject every UPDATE and DELETE.
type SQLiteStore struct {
	conn   *sql.DB
	logger *slog.Logger
	dsn    string
}

// OpenSQLiteStore opens or creates the database at dsn. An empty dsn opens
// a private in-memory database that lives until Close.
func OpenSQLiteStore(dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	inMemory := dsn == "" || dsn == ":memory:"
	if inMemory {
		dsn = ":memory:"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.New(errors.StoreFailure, "failed to open revision database", err)
	}
	// Each connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	if !inMemory {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.StoreFailure, "failed to set pragma", err)
		}
	}

	s := &SQLiteStore{conn: conn, logger: logger, dsn: dsn}
	if err := s.initializeSchema(); err != nil {
		conn.Close()
		return nil, errors.New(errors.StoreFailure, "failed to initialize revision schema", err)
	}
	logger.Debug("Revision store opened", "dsn", dsn)
	return s, nil
}

func (s *SQLiteStore) initializeSchema() error {
	return s.withTx(context.Background(), func(tx *sql.Tx) error {
		for _, stmt := range sqliteSchema {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&n); err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		if n == 0 {
			if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, sqliteSchemaVersion); err != nil {
				return fmt.Errorf("failed to set schema version: %w", err)
			}
			return nil
		}
		var version int
		if err := tx.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		if version > sqliteSchemaVersion {
			return fmt.Errorf("database schema version %d is newer than supported version %d", version, sqliteSchemaVersion)
		}
		return nil
	})
}

// withTx runs fn in a transaction, rolling back when it fails.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to rollback transaction",
				"error", err.Error(),
				"rollback_error", rbErr.Error(),
			)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO revision_records
			(id, file_name, file_hash, algorithm, timestamp, author, description, approval_status, comments)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.FileName, rec.FileHash, string(rec.Algorithm),
			rec.Timestamp.UTC().Format(time.RFC3339Nano),
			rec.Author, rec.Description, string(rec.ApprovalStatus), rec.Comments,
		)
		return err
	})
	if err != nil {
		return errors.New(errors.StoreFailure, "failed to append revision record", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, fileName string) ([]Record, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, file_name, file_hash, algorithm, timestamp,
		author, description, approval_status, comments
		FROM revision_records WHERE file_name = ? ORDER BY seq`, fileName)
	if err != nil {
		return nil, errors.New(errors.StoreFailure, "failed to list revision records", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var alg, ts, status string
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.FileHash, &alg, &ts,
			&rec.Author, &rec.Description, &status, &rec.Comments); err != nil {
			return nil, errors.New(errors.StoreFailure, "failed to scan revision record", err)
		}
		rec.Algorithm = Algorithm(alg)
		rec.ApprovalStatus = ApprovalStatus(status)
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, errors.New(errors.StoreFailure, "invalid timestamp in revision store", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.StoreFailure, "failed to list revision records", err)
	}
	return out, nil
}

// Close closes the database. An in-memory store loses its records.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
