package slots

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/pkg/clock"
)

const createSlotsTable = `CREATE TABLE IF NOT EXISTS session_slots (
	namespace  TEXT    NOT NULL,
	slot_key   TEXT    NOT NULL,
	payload    BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, slot_key)
)`

// SQLiteConfig holds the configuration for the SQLite repository
type SQLiteConfig struct {
	// Path of the database file. It is created when missing.
	Path      string
	Namespace string
	Clock     clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Path", c.Path, vb)
	if c.Clock == nil {
		vb.Field("Clock", "clock cannot be nil")
	}

	return vb.Build()
}

// SQLiteRepository implements Repository on a local SQLite file
type SQLiteRepository struct {
	db        *sql.DB
	namespace string
	clock     clock.Clock
}

var _ Repository = (*SQLiteRepository)(nil)

// OpenSQLite opens the database at cfg.Path and creates the slots table
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dsn := filepath.Clean(strings.TrimSpace(cfg.Path)) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite db")
	}

	if _, err := db.ExecContext(ctx, createSlotsTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create session_slots table")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	return &SQLiteRepository{
		db:        db,
		namespace: namespace,
		clock:     cfg.Clock,
	}, nil
}

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Get reads one slot
func (r *SQLiteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM session_slots WHERE namespace = ? AND slot_key = ?`,
		r.namespace, input.Key,
	).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("slot %s not found", input.Key)
		}
		return nil, errors.Wrapf(err, "failed to get slot %s", input.Key)
	}

	return &GetOutput{Value: payload}, nil
}

// Set upserts one slot
func (r *SQLiteRepository) Set(ctx context.Context, input *SetInput) (*SetOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	value := input.Value
	if value == nil {
		value = []byte{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_slots (namespace, slot_key, payload, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, slot_key) DO UPDATE SET
		    payload = excluded.payload,
		    updated_at = excluded.updated_at`,
		r.namespace, input.Key, value, r.clock.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store slot %s", input.Key)
	}

	return &SetOutput{}, nil
}

// Delete removes one slot
func (r *SQLiteRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_slots WHERE namespace = ? AND slot_key = ?`,
		r.namespace, input.Key,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete slot %s", input.Key)
	}

	return &DeleteOutput{}, nil
}
