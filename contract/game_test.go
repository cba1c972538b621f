package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGame() *Game {
	g := &Game{
		ID:          "g-42",
		SessionID:   42,
		Player1:     alice,
		Player2:     bob,
		Phase:       PhaseDraw,
		Turn:        13,
		Deadline:    startTime + 77,
		P1Time:      12,
		P2Time:      0,
		LastGuess:   []byte("ghost"),
		LastResults: []byte{0, 1, 2, 0, 1},
		P2Revealed:  true,
		P2Word:      []byte("crane"),
		P1Withdrawn: true,
	}
	g.Commitment1[0] = 0xaa
	g.Commitment2[31] = 0xbb
	return g
}

func TestGameCodec(t *testing.T) {
	g := sampleGame()
	got, err := decodeGame(encodeGame(g))
	require.NoError(t, err)
	assert.Equal(t, g, got)

	empty := &Game{ID: "x", Player1: alice}
	got, err = decodeGame(encodeGame(empty))
	require.NoError(t, err)
	assert.Equal(t, empty, got)
}

func TestGameCodec_Corrupt(t *testing.T) {
	raw := encodeGame(sampleGame())

	_, err := decodeGame(append(raw, 0))
	assert.ErrorIs(t, err, errDecode, "trailing byte")

	_, err = decodeGame(raw[:len(raw)-1])
	assert.ErrorIs(t, err, errDecode, "truncated")

	bad := append([]byte(nil), raw...)
	bad[0] = codecVersion + 1
	_, err = decodeGame(bad)
	assert.ErrorIs(t, err, errDecode, "version")
}

func TestEscrowCodec(t *testing.T) {
	e := Escrow{Asset: hive, Amount: 1234}
	got, err := decodeEscrow(encodeEscrow(e))
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = decodeEscrow([]byte{codecVersion, 0})
	assert.Error(t, err)
}

func TestLoadGame_CorruptRecordIsStorageFailure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.chain.Set(gameKey("g1"), []byte{0xff}))

	_, err := loadGame(h.chain, "g1")
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.Equal(t, PhaseNone, h.c.Phase(h.chain, "g1"))
}

func TestValidateGameID(t *testing.T) {
	for _, id := range []string{"g1", "a-b-c", "550e8400-e29b-41d4-a716-446655440000"} {
		assert.NoError(t, validateGameID(id), id)
	}
	for _, id := range []string{"", "a_b", "a b", "ü", string(make([]byte, 65))} {
		assert.ErrorIs(t, validateGameID(id), ErrInvalidGameID, id)
	}
}
