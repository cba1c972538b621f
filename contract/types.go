package contract

import (
	"okinoko-wordle_duel/sdk"
)

// Phase is the lifecycle state of a duel.
type Phase uint8

const (
	PhaseWaiting   Phase = 0 // created, waiting for player 2
	PhaseActive    Phase = 1 // both committed, guesses alternate
	PhaseReveal    Phase = 2 // a guess was judged all-correct, winner must reveal
	PhaseFinalized Phase = 3 // winner fixed, winner may withdraw
	PhaseDraw      Phase = 4 // turn limit reached, each player may reveal and withdraw

	// PhaseNone is returned by queries for unknown games.
	PhaseNone Phase = 255
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseReveal:
		return "reveal"
	case PhaseFinalized:
		return "finalized"
	case PhaseDraw:
		return "draw"
	case PhaseNone:
		return "none"
	default:
		return "unknown"
	}
}

// WordLength is the number of letters in a guess or secret word.
const WordLength = 5

// Game is the full runtime state of one duel. It is persisted as a single
// binary record (see state.go).
type Game struct {
	ID        string
	SessionID uint32 // registry index, also the game hub session id

	Player1     sdk.Address
	Player2     sdk.Address // empty while waiting
	Commitment1 [32]byte
	Commitment2 [32]byte

	Phase    Phase
	Turn     uint32
	Deadline uint64 // unix seconds
	P1Time   uint64 // banked clock seconds
	P2Time   uint64

	LastGuess   []byte // guess waiting to be judged
	LastResults []byte // feedback for the most recently judged guess

	Winner      sdk.Address
	P1Revealed  bool
	P2Revealed  bool
	P1Word      []byte
	P2Word      []byte
	P1Withdrawn bool
	P2Withdrawn bool
}

// Escrow holds the stake terms of a game. Each player stakes Amount.
type Escrow struct {
	Asset  sdk.Asset
	Amount int64
}

// seat returns 1 or 2 for the players of g and 0 for anyone else.
func (g *Game) seat(addr sdk.Address) int {
	switch {
	case addr == "":
		return 0
	case addr == g.Player1:
		return 1
	case addr == g.Player2:
		return 2
	default:
		return 0
	}
}

func (g *Game) isPlayer(addr sdk.Address) bool { return g.seat(addr) != 0 }

// toMove is the player whose turn it is: player 1 on odd turns.
func (g *Game) toMove() sdk.Address {
	if g.Turn%2 == 1 {
		return g.Player1
	}
	return g.Player2
}

func (g *Game) opponentOf(addr sdk.Address) sdk.Address {
	if addr == g.Player1 {
		return g.Player2
	}
	return g.Player1
}

func (g *Game) commitmentOf(seat int) [32]byte {
	if seat == 1 {
		return g.Commitment1
	}
	return g.Commitment2
}

func (g *Game) revealed(seat int) bool {
	if seat == 1 {
		return g.P1Revealed
	}
	return g.P2Revealed
}

func (g *Game) markRevealed(seat int, word []byte) {
	w := append([]byte(nil), word...)
	if seat == 1 {
		g.P1Revealed, g.P1Word = true, w
	} else {
		g.P2Revealed, g.P2Word = true, w
	}
}

// storeWord records a revealed word without touching the draw reveal flags.
func (g *Game) storeWord(seat int, word []byte) {
	w := append([]byte(nil), word...)
	if seat == 1 {
		g.P1Word = w
	} else {
		g.P2Word = w
	}
}

func (g *Game) withdrawn(seat int) bool {
	if seat == 1 {
		return g.P1Withdrawn
	}
	return g.P2Withdrawn
}

func (g *Game) markWithdrawn(seat int) {
	if seat == 1 {
		g.P1Withdrawn = true
	} else {
		g.P2Withdrawn = true
	}
}

// outcome maps the stored winner onto the hub's outcome.
func (g *Game) outcome() sdk.Outcome {
	switch g.Winner {
	case "":
		return sdk.OutcomeDraw
	case g.Player1:
		return sdk.OutcomePlayer1
	default:
		return sdk.OutcomePlayer2
	}
}
