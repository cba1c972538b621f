// Package contract implements the two-player word duel: commitments to a
// secret word, alternating guesses judged by zero-knowledge proofs, a chess
// clock, and a wager that only the winner (or both players on a draw) can
// withdraw.
//
// Every exported operation takes the host Chain for the current call. A
// Contract holds only deploy-time parameters and may serve one call at a
// time per host.
package contract

import (
	"io"
	"log/slog"
	"time"

	"okinoko-wordle_duel/dictionary"
	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/zk"
)

// Config holds the deploy-time game parameters.
type Config struct {
	// TurnSeconds is each player's total clock budget.
	TurnSeconds uint64
	// MaxTurns caps the game; the last turn can only end it.
	MaxTurns uint32
	// GameTTL is the lifetime granted to per-game records on every write.
	// Registry records never expire.
	GameTTL time.Duration
}

// DefaultConfig returns the stock parameters: 300 s clocks, 13 turns.
func DefaultConfig() Config {
	return Config{
		TurnSeconds: 300,
		MaxTurns:    13,
		GameTTL:     7 * time.Hour,
	}
}

// Contract is the duel state machine bound to one dictionary and one pair
// of verifying keys.
type Contract struct {
	dict   *dictionary.Verifier
	guess  zk.Verifier // guess-result circuit, also used for self-reveals
	commit zk.Verifier // word-commit circuit
	cfg    Config
	log    *slog.Logger
}

// Option customizes a Contract built by New.
type Option func(*Contract)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option { return func(c *Contract) { c.cfg = cfg } }

// WithLogger sets the operator logger; the default discards.
func WithLogger(l *slog.Logger) Option { return func(c *Contract) { c.log = l } }

// New builds a contract. A nil verifier makes every operation that needs it
// fail with ErrVkNotSet.
func New(dict *dictionary.Verifier, guess, commit zk.Verifier, opts ...Option) *Contract {
	c := &Contract{
		dict:   dict,
		guess:  guess,
		commit: commit,
		cfg:    DefaultConfig(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the parameters in effect.
func (c *Contract) Config() Config { return c.cfg }

// run executes one state-changing call. Writes reach the store only if fn
// succeeds; on failure any transfer fn made is reversed.
func (c *Contract) run(chain sdk.Chain, op, gameID string, fn func(tx *txn) error) error {
	tx := newTxn(chain)
	err := fn(tx)
	if err == nil {
		err = tx.commit()
	}
	if err != nil {
		for _, rerr := range tx.rollback() {
			c.log.Error("refund failed", "op", op, "game", gameID, "err", rerr)
		}
		code, _ := CodeOf(err)
		c.log.Debug("call rejected", "op", op, "game", gameID, "code", code.Code(), "err", err)
		return err
	}
	tx.flush()
	return nil
}
