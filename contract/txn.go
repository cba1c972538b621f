package contract

import (
	"encoding/json"
	"fmt"
	"time"

	"okinoko-wordle_duel/sdk"
)

// txn buffers the storage writes of one call so nothing reaches the store
// until every fallible step has passed. Transfers run immediately and are
// remembered so they can be reversed if a later step fails.
type txn struct {
	chain  sdk.Chain
	writes map[string]pendingWrite
	order  []string
	moved  []transfer
	events []Event
}

type pendingWrite struct {
	value []byte
	ttl   time.Duration
	del   bool
}

type transfer struct {
	asset    sdk.Asset
	from, to sdk.Address
	amount   int64
}

func newTxn(chain sdk.Chain) *txn {
	return &txn{chain: chain, writes: make(map[string]pendingWrite)}
}

// Get reads through the write set.
func (t *txn) Get(key string) ([]byte, bool, error) {
	if w, ok := t.writes[key]; ok {
		if w.del {
			return nil, false, nil
		}
		return w.value, true, nil
	}
	v, ok, err := t.chain.Get(key)
	if err != nil {
		return nil, false, wrap(ErrStorageFailed, "get %s: %v", key, err)
	}
	return v, ok, nil
}

func (t *txn) Has(key string) (bool, error) {
	if w, ok := t.writes[key]; ok {
		return !w.del, nil
	}
	ok, err := t.chain.Has(key)
	if err != nil {
		return false, wrap(ErrStorageFailed, "has %s: %v", key, err)
	}
	return ok, nil
}

func (t *txn) stage(key string, w pendingWrite) {
	if _, seen := t.writes[key]; !seen {
		t.order = append(t.order, key)
	}
	t.writes[key] = w
}

// Set stages value under key; ttl > 0 extends the key's lifetime on commit.
func (t *txn) Set(key string, value []byte, ttl time.Duration) {
	t.stage(key, pendingWrite{value: value, ttl: ttl})
}

func (t *txn) Delete(key string) {
	t.stage(key, pendingWrite{del: true})
}

// Transfer moves funds right away. Non-positive amounts are a no-op so
// zero-stake games run the same code path.
func (t *txn) Transfer(asset sdk.Asset, from, to sdk.Address, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if err := t.chain.Transfer(asset, from, to, amount); err != nil {
		return wrap(ErrTransferFailed, "%d %s from %s to %s: %v", amount, asset, from, to, err)
	}
	t.moved = append(t.moved, transfer{asset: asset, from: from, to: to, amount: amount})
	return nil
}

func (t *txn) emit(e Event) { t.events = append(t.events, e) }

// commit applies the write set in staging order.
func (t *txn) commit() error {
	for _, key := range t.order {
		w := t.writes[key]
		if w.del {
			if err := t.chain.Delete(key); err != nil {
				return wrap(ErrStorageFailed, "delete %s: %v", key, err)
			}
			continue
		}
		if err := t.chain.Set(key, w.value); err != nil {
			return wrap(ErrStorageFailed, "set %s: %v", key, err)
		}
		if w.ttl > 0 {
			if err := t.chain.ExtendTTL(key, w.ttl); err != nil {
				return wrap(ErrStorageFailed, "extend %s: %v", key, err)
			}
		}
	}
	return nil
}

// rollback reverses completed transfers, newest first, and reports the
// ones that could not be undone.
func (t *txn) rollback() []error {
	var errs []error
	for i := len(t.moved) - 1; i >= 0; i-- {
		m := t.moved[i]
		if err := t.chain.Transfer(m.asset, m.to, m.from, m.amount); err != nil {
			errs = append(errs, fmt.Errorf("refund %d %s to %s: %w", m.amount, m.asset, m.from, err))
		}
	}
	t.moved = nil
	return errs
}

// flush logs the buffered events through the host.
func (t *txn) flush() {
	for _, e := range t.events {
		b, err := json.Marshal(e)
		if err != nil {
			continue
		}
		t.chain.Log(string(b))
	}
	t.events = nil
}
