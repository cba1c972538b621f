package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	assert.Equal(t, uint64(10), remaining(110, 100))
	assert.Equal(t, uint64(0), remaining(100, 100))
	assert.Equal(t, uint64(0), remaining(100, 150))
}

func TestPassTurn(t *testing.T) {
	c := New(nil, nil, nil)
	g := &Game{Turn: 1}
	c.startClock(g, 1000)
	assert.Equal(t, uint64(1300), g.Deadline)

	passTurn(g, 1100)
	assert.Equal(t, uint32(2), g.Turn)
	assert.Equal(t, uint64(200), g.P1Time)
	assert.Equal(t, uint64(1400), g.Deadline)

	passTurn(g, 1390)
	assert.Equal(t, uint32(3), g.Turn)
	assert.Equal(t, uint64(10), g.P2Time)
	assert.Equal(t, uint64(1590), g.Deadline)

	// late by the host's clock: saturates at zero
	passTurn(g, 1600)
	assert.Equal(t, uint64(0), g.P1Time)
	assert.Equal(t, uint64(1610), g.Deadline)
}
