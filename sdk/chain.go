package sdk

import (
	"errors"
	"time"
)

var (
	// ErrNotAuthorized is returned by Auth when the address did not sign the call.
	ErrNotAuthorized = errors.New("address did not authorize the call")
	// ErrInsufficientFunds is returned by Ledger when the sender cannot cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidTransfer is returned by Ledger for non-positive amounts.
	ErrInvalidTransfer = errors.New("invalid transfer amount")
)

// Store is the durable key-value state with per-key expiry.
//
// A key written by Set keeps the expiry it already had; a fresh key has none
// until ExtendTTL bounds it. ExtendTTL never shortens a lifetime.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Has(key string) (bool, error)
	Delete(key string) error
	ExtendTTL(key string, ttl time.Duration) error
}

// Ledger moves tokens between accounts.
type Ledger interface {
	Transfer(asset Asset, from, to Address, amount int64) error
}

// Auth answers whether an address authorized the current call.
type Auth interface {
	RequireAuth(addr Address) error
}

// GameHub is notified when a duel starts and ends.
type GameHub interface {
	StartGame(contract Address, sessionID uint32, player1, player2 Address) error
	EndGame(sessionID uint32, outcome Outcome) error
}

// Chain is everything a contract call may touch on its host.
type Chain interface {
	Store
	Ledger
	Auth
	GameHub
	Env() Env
	Log(msg string)
}

type composed struct {
	Store
	Ledger
	Auth
	GameHub
	env Env
	log func(string)
}

func (c *composed) Env() Env { return c.env }

func (c *composed) Log(msg string) {
	if c.log != nil {
		c.log(msg)
	}
}

// Compose assembles a Chain from separately provided capabilities.
func Compose(store Store, ledger Ledger, auth Auth, hub GameHub, env Env, logf func(string)) Chain {
	return &composed{Store: store, Ledger: ledger, Auth: auth, GameHub: hub, env: env, log: logf}
}
