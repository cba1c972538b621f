package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/store/sqlite/migrations"
)

const migrationTable = "schema_migrations"

// Host owns the database. It serializes calls: one Tx at a time.
type Host struct {
	sqlDB *sql.DB
}

// Open opens (and migrates) a SQLite host at path.
func Open(path string) (*Host, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Host{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (h *Host) Close() error {
	if h == nil || h.sqlDB == nil {
		return nil
	}
	return h.sqlDB.Close()
}

// Call runs fn inside one SQL transaction at ledger time now. The
// transaction commits only if fn returns nil.
func (h *Host) Call(ctx context.Context, now uint64, fn func(tx *Tx) error) error {
	sqlTx, err := h.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin call: %w", err)
	}
	tx := &Tx{ctx: ctx, tx: sqlTx, now: now}
	if err := fn(tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit call: %w", err)
	}
	return nil
}

// Mint credits amount to addr outside of any contract call.
func (h *Host) Mint(ctx context.Context, asset sdk.Asset, addr sdk.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", sdk.ErrInvalidTransfer, amount)
	}
	return h.Call(ctx, 0, func(tx *Tx) error { return tx.credit(asset, addr, amount) })
}

// Balance returns the holdings of addr.
func (h *Host) Balance(ctx context.Context, asset sdk.Asset, addr sdk.Address) (int64, error) {
	var amount int64
	err := h.sqlDB.QueryRowContext(ctx,
		`SELECT amount FROM balances WHERE asset = ? AND address = ?`, string(asset), string(addr),
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return amount, nil
}

// Purge deletes every key that expired at or before now.
func (h *Host) Purge(ctx context.Context, now uint64) (int64, error) {
	res, err := h.sqlDB.ExecContext(ctx,
		`DELETE FROM kv WHERE expires_at > 0 AND expires_at <= ?`, int64(now))
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return res.RowsAffected()
}

// HubSession is one row of the game hub log.
type HubSession struct {
	SessionID uint32
	Contract  sdk.Address
	Player1   sdk.Address
	Player2   sdk.Address
	StartedAt uint64
	Ended     bool
	Outcome   sdk.Outcome
}

func (h *Host) HubSession(ctx context.Context, sessionID uint32) (HubSession, bool, error) {
	var (
		s       HubSession
		started int64
		ended   sql.NullInt64
		outcome sql.NullInt64
	)
	err := h.sqlDB.QueryRowContext(ctx,
		`SELECT session_id, contract, player1, player2, started_at, ended_at, outcome
		 FROM hub_sessions WHERE session_id = ?`, int64(sessionID),
	).Scan(&s.SessionID, &s.Contract, &s.Player1, &s.Player2, &started, &ended, &outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return HubSession{}, false, nil
	}
	if err != nil {
		return HubSession{}, false, fmt.Errorf("hub session: %w", err)
	}
	s.StartedAt = uint64(started)
	s.Ended = ended.Valid
	s.Outcome = sdk.Outcome(outcome.Int64)
	return s, true, nil
}

// applyMigrations executes embedded migrations at most once per file.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var n int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&n); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if n > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSection(string(content))); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// upSection returns the SQL between "-- +migrate Up" and "-- +migrate Down".
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	if i := strings.Index(content, up); i >= 0 {
		content = content[i+len(up):]
	}
	if i := strings.Index(content, down); i >= 0 {
		content = content[:i]
	}
	return content
}
