package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-wordle_duel/sdk"
)

func TestRegistry_CounterSurvivesIdlePeriods(t *testing.T) {
	h := newHarness(t)
	h.start("first", 0)

	// long past every game record lifetime
	h.chain.Advance(29 * 3600)
	assert.Equal(t, PhaseNone, h.c.Phase(h.chain, "first"))
	h.start("second", 0)

	assert.Equal(t, uint32(2), h.c.GameCount(h.chain))
	assert.Equal(t, "first", h.c.GameIDAt(h.chain, 0))
	assert.Equal(t, "second", h.c.GameIDAt(h.chain, 1))

	starts := h.chain.Starts()
	require.Len(t, starts, 2)
	assert.Equal(t, uint32(0), starts[0].SessionID)
	assert.Equal(t, uint32(1), starts[1].SessionID)
}

func TestCreateGame_ExpiredIDStaysTaken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.create("g1", 0))

	h.chain.Advance(8 * 3600)
	require.Equal(t, PhaseNone, h.c.Phase(h.chain, "g1"))

	args := h.createArgs("g1", 0)
	args.Player1 = mallory
	err := h.as(func() error { return h.c.CreateGame(h.chain, args) }, mallory)
	assert.ErrorIs(t, err, ErrGameAlreadyExists)
	assert.ErrorIs(t, h.create("g1", 0), ErrGameAlreadyExists)

	assert.Equal(t, alice, h.c.GameCreator(h.chain, "g1"))
	assert.Equal(t, uint32(1), h.c.GameCount(h.chain))
	assert.Equal(t, "", h.c.GameIDAt(h.chain, 1))
}

func TestSessionKey_NotBeforeJoin(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.create("g1", 0))

	assert.ErrorIs(t, h.bindKey("g1", alice, "sk", alice, "sk"), ErrWrongPhase)
	assert.Equal(t, alice, h.c.SessionKey(h.chain, "g1", alice))

	require.NoError(t, h.join("g1"))
	require.NoError(t, h.bindKey("g1", alice, "sk", alice, "sk"))
	assert.Equal(t, sdk.Address("sk"), h.c.SessionKey(h.chain, "g1", alice))
}
