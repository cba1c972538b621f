package sdk

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

// ErrHubUnavailable is returned by MockChain hub calls when FailHub is set.
var ErrHubUnavailable = errors.New("game hub unavailable")

type mockEntry struct {
	value   []byte
	expires uint64 // unix seconds, 0 = no expiry yet
}

// HubStart records a StartGame notification.
type HubStart struct {
	Contract  Address
	SessionID uint32
	Player1   Address
	Player2   Address
}

// HubEnd records an EndGame notification.
type HubEnd struct {
	SessionID uint32
	Outcome   Outcome
}

// MockChain is an in-memory Chain for tests and local simulation.
// Authorization is whatever set of addresses was last passed to Authorize.
type MockChain struct {
	env        Env
	state      map[string]mockEntry
	balances   map[Asset]map[Address]int64
	authorized map[Address]bool
	starts     []HubStart
	ends       []HubEnd
	logs       []string

	// FailHub makes every hub notification fail.
	FailHub bool
}

// NewMockChain creates an empty chain whose escrow account is contract.
func NewMockChain(contract Address, now uint64) *MockChain {
	return &MockChain{
		env:        Env{ContractID: contract, Timestamp: now},
		state:      make(map[string]mockEntry),
		balances:   make(map[Asset]map[Address]int64),
		authorized: make(map[Address]bool),
	}
}

// ---------- Test controls ----------

// SetTime moves the ledger clock to ts.
func (m *MockChain) SetTime(ts uint64) { m.env.Timestamp = ts }

// Advance moves the ledger clock forward.
func (m *MockChain) Advance(seconds uint64) { m.env.Timestamp += seconds }

// Authorize replaces the set of addresses that signed the next calls.
func (m *MockChain) Authorize(addrs ...Address) {
	m.authorized = make(map[Address]bool, len(addrs))
	for _, a := range addrs {
		m.authorized[a] = true
	}
}

// Mint credits amount of asset to addr out of thin air.
func (m *MockChain) Mint(asset Asset, addr Address, amount int64) {
	m.account(asset)[addr] += amount
}

// Balance returns the holdings of addr.
func (m *MockChain) Balance(asset Asset, addr Address) int64 {
	return m.balances[asset][addr]
}

// Starts returns the recorded StartGame notifications.
func (m *MockChain) Starts() []HubStart { return m.starts }

// Ends returns the recorded EndGame notifications.
func (m *MockChain) Ends() []HubEnd { return m.ends }

// Logs returns every message passed to Log.
func (m *MockChain) Logs() []string { return m.logs }

// Call runs fn as one atomic unit: if fn fails, state, balances, hub records
// and logs are restored to what they were before.
func (m *MockChain) Call(fn func() error) error {
	state := maps.Clone(m.state)
	balances := make(map[Asset]map[Address]int64, len(m.balances))
	for asset, accts := range m.balances {
		balances[asset] = maps.Clone(accts)
	}
	starts, ends, logs := len(m.starts), len(m.ends), len(m.logs)

	if err := fn(); err != nil {
		m.state = state
		m.balances = balances
		m.starts = m.starts[:starts]
		m.ends = m.ends[:ends]
		m.logs = m.logs[:logs]
		return err
	}
	return nil
}

// ---------- Store ----------

func (m *MockChain) live(key string) (mockEntry, bool) {
	e, ok := m.state[key]
	if !ok {
		return mockEntry{}, false
	}
	if e.expires != 0 && e.expires <= m.env.Timestamp {
		delete(m.state, key)
		return mockEntry{}, false
	}
	return e, true
}

func (m *MockChain) Get(key string) ([]byte, bool, error) {
	e, ok := m.live(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MockChain) Set(key string, value []byte) error {
	e, _ := m.live(key)
	e.value = append([]byte(nil), value...)
	m.state[key] = e
	return nil
}

func (m *MockChain) Has(key string) (bool, error) {
	_, ok := m.live(key)
	return ok, nil
}

func (m *MockChain) Delete(key string) error {
	delete(m.state, key)
	return nil
}

func (m *MockChain) ExtendTTL(key string, ttl time.Duration) error {
	e, ok := m.live(key)
	if !ok {
		return nil
	}
	until := m.env.Timestamp + uint64(ttl/time.Second)
	if until > e.expires {
		e.expires = until
		m.state[key] = e
	}
	return nil
}

// ---------- Ledger ----------

func (m *MockChain) account(asset Asset) map[Address]int64 {
	accts, ok := m.balances[asset]
	if !ok {
		accts = make(map[Address]int64)
		m.balances[asset] = accts
	}
	return accts
}

func (m *MockChain) Transfer(asset Asset, from, to Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTransfer, amount)
	}
	accts := m.account(asset)
	if accts[from] < amount {
		return fmt.Errorf("%w: %s holds %d %s, needs %d", ErrInsufficientFunds, from, accts[from], asset, amount)
	}
	accts[from] -= amount
	accts[to] += amount
	return nil
}

// ---------- Auth, hub, env ----------

func (m *MockChain) RequireAuth(addr Address) error {
	if addr == "" || !m.authorized[addr] {
		return fmt.Errorf("%w: %q", ErrNotAuthorized, addr)
	}
	return nil
}

func (m *MockChain) StartGame(contract Address, sessionID uint32, player1, player2 Address) error {
	if m.FailHub {
		return ErrHubUnavailable
	}
	m.starts = append(m.starts, HubStart{Contract: contract, SessionID: sessionID, Player1: player1, Player2: player2})
	return nil
}

func (m *MockChain) EndGame(sessionID uint32, outcome Outcome) error {
	if m.FailHub {
		return ErrHubUnavailable
	}
	m.ends = append(m.ends, HubEnd{SessionID: sessionID, Outcome: outcome})
	return nil
}

func (m *MockChain) Env() Env { return m.env }

func (m *MockChain) Log(msg string) { m.logs = append(m.logs, msg) }
