package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"okinoko-wordle_duel/sdk"
)

// Tx is the view of the host inside one call. It implements sdk.Store,
// sdk.Ledger and sdk.GameHub.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
	now uint64
}

var (
	_ sdk.Store   = (*Tx)(nil)
	_ sdk.Ledger  = (*Tx)(nil)
	_ sdk.GameHub = (*Tx)(nil)
)

// live filters out rows whose expiry has passed.
const live = `(expires_at = 0 OR expires_at > ?)`

func (t *Tx) Get(key string) ([]byte, bool, error) {
	var v []byte
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT value FROM kv WHERE key = ? AND `+live, key, int64(t.now),
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// Set keeps the expiry of a live key and clears it on an expired one.
func (t *Tx) Set(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, 0)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			expires_at = CASE WHEN kv.expires_at > 0 AND kv.expires_at <= ? THEN 0 ELSE kv.expires_at END`,
		key, value, int64(t.now))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (t *Tx) Has(key string) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

func (t *Tx) Delete(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (t *Tx) ExtendTTL(key string, ttl time.Duration) error {
	until := int64(t.now + uint64(ttl/time.Second))
	_, err := t.tx.ExecContext(t.ctx,
		`UPDATE kv SET expires_at = MAX(expires_at, ?) WHERE key = ? AND `+live,
		until, key, int64(t.now))
	if err != nil {
		return fmt.Errorf("extend %s: %w", key, err)
	}
	return nil
}

// ---------- Ledger ----------

func (t *Tx) Transfer(asset sdk.Asset, from, to sdk.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", sdk.ErrInvalidTransfer, amount)
	}
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE balances SET amount = amount - ? WHERE asset = ? AND address = ? AND amount >= ?`,
		amount, string(asset), string(from), amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s cannot pay %d %s", sdk.ErrInsufficientFunds, from, amount, asset)
	}
	return t.credit(asset, to, amount)
}

func (t *Tx) credit(asset sdk.Asset, to sdk.Address, amount int64) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO balances (asset, address, amount) VALUES (?, ?, ?)
		ON CONFLICT (asset, address) DO UPDATE SET amount = amount + excluded.amount`,
		string(asset), string(to), amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}

// ---------- GameHub ----------

func (t *Tx) StartGame(contract sdk.Address, sessionID uint32, player1, player2 sdk.Address) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO hub_sessions (session_id, contract, player1, player2, started_at) VALUES (?, ?, ?, ?, ?)`,
		int64(sessionID), string(contract), string(player1), string(player2), int64(t.now))
	if err != nil {
		return fmt.Errorf("hub start %d: %w", sessionID, err)
	}
	return nil
}

func (t *Tx) EndGame(sessionID uint32, outcome sdk.Outcome) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE hub_sessions SET ended_at = ?, outcome = ? WHERE session_id = ? AND ended_at IS NULL`,
		int64(t.now), int64(outcome), int64(sessionID))
	if err != nil {
		return fmt.Errorf("hub end %d: %w", sessionID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return fmt.Errorf("hub end %d: no open session", sessionID)
	}
	return nil
}
