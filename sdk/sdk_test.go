package sdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockChain_TTL(t *testing.T) {
	m := NewMockChain("contract", 1000)
	require.NoError(t, m.Set("k", []byte("v")))
	require.NoError(t, m.ExtendTTL("k", 10*time.Second))

	m.Advance(9)
	ok, err := m.Has("k")
	require.NoError(t, err)
	assert.True(t, ok)

	// a shorter extension never cuts the lifetime
	require.NoError(t, m.ExtendTTL("k", time.Second))
	m.Advance(1)
	_, ok, err = m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMockChain_SetKeepsExpiry(t *testing.T) {
	m := NewMockChain("contract", 0)
	require.NoError(t, m.Set("k", []byte("a")))
	require.NoError(t, m.ExtendTTL("k", 5*time.Second))
	require.NoError(t, m.Set("k", []byte("b")))
	m.Advance(5)
	ok, _ := m.Has("k")
	assert.False(t, ok)
}

func TestMockChain_Transfer(t *testing.T) {
	m := NewMockChain("contract", 0)
	m.Mint("tok", "alice", 10)

	require.NoError(t, m.Transfer("tok", "alice", "bob", 4))
	assert.Equal(t, int64(6), m.Balance("tok", "alice"))
	assert.Equal(t, int64(4), m.Balance("tok", "bob"))

	assert.ErrorIs(t, m.Transfer("tok", "alice", "bob", 7), ErrInsufficientFunds)
	assert.ErrorIs(t, m.Transfer("tok", "alice", "bob", 0), ErrInvalidTransfer)
}

func TestMockChain_CallRollsBack(t *testing.T) {
	m := NewMockChain("contract", 0)
	m.Mint("tok", "alice", 10)

	err := m.Call(func() error {
		_ = m.Set("k", []byte("v"))
		_ = m.Transfer("tok", "alice", "contract", 10)
		_ = m.EndGame(1, OutcomeDraw)
		m.Log("x")
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	ok, _ := m.Has("k")
	assert.False(t, ok)
	assert.Equal(t, int64(10), m.Balance("tok", "alice"))
	assert.Empty(t, m.Ends())
	assert.Empty(t, m.Logs())
}

func TestMockChain_Auth(t *testing.T) {
	m := NewMockChain("contract", 0)
	m.Authorize("alice")
	assert.NoError(t, m.RequireAuth("alice"))
	assert.ErrorIs(t, m.RequireAuth("bob"), ErrNotAuthorized)
	assert.ErrorIs(t, m.RequireAuth(""), ErrNotAuthorized)
}

func TestSignatureAuth(t *testing.T) {
	addr, priv, err := GenerateKey()
	require.NoError(t, err)
	other, _, err := GenerateKey()
	require.NoError(t, err)

	msg := CallMessage("resign", []byte(`{"gameId":"g1"}`))
	auth, err := NewSignatureAuth(msg, []Signature{Sign(priv, msg)})
	require.NoError(t, err)

	assert.NoError(t, auth.RequireAuth(addr))
	assert.ErrorIs(t, auth.RequireAuth(other), ErrNotAuthorized)
}

func TestSignatureAuth_RejectsTamperedMessage(t *testing.T) {
	_, priv, err := GenerateKey()
	require.NoError(t, err)

	sig := Sign(priv, CallMessage("withdraw", []byte(`{"gameId":"g1"}`)))
	_, err = NewSignatureAuth(CallMessage("withdraw", []byte(`{"gameId":"g2"}`)), []Signature{sig})
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestPublicKey_RoundTrip(t *testing.T) {
	addr, priv, err := GenerateKey()
	require.NoError(t, err)
	pub, err := PublicKey(addr)
	require.NoError(t, err)
	assert.Equal(t, priv.Public(), pub)

	_, err = PublicKey("not-base58-0OIl")
	assert.Error(t, err)
}
