// Package sqlite is a durable host for the duel contract: a key-value store
// with per-key expiry, a token ledger and a game hub log, all in one SQLite
// database. Each contract call runs inside one SQL transaction.
package sqlite
