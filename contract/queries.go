package contract

import (
	"okinoko-wordle_duel/sdk"
)

// ---------- Queries ----------
//
// Queries never fail: unknown games and corrupt records read as sentinel
// values (PhaseNone, zero, empty).

func (c *Contract) game(chain sdk.Chain, id string) *Game {
	g, err := loadGame(chain, id)
	if err != nil {
		return nil
	}
	return g
}

func (c *Contract) Phase(chain sdk.Chain, id string) Phase {
	if g := c.game(chain, id); g != nil {
		return g.Phase
	}
	return PhaseNone
}

func (c *Contract) Turn(chain sdk.Chain, id string) uint32 {
	if g := c.game(chain, id); g != nil {
		return g.Turn
	}
	return 0
}

func (c *Contract) Deadline(chain sdk.Chain, id string) uint64 {
	if g := c.game(chain, id); g != nil {
		return g.Deadline
	}
	return 0
}

func (c *Contract) LastGuess(chain sdk.Chain, id string) []byte {
	if g := c.game(chain, id); g != nil {
		return g.LastGuess
	}
	return nil
}

func (c *Contract) LastResults(chain sdk.Chain, id string) []byte {
	if g := c.game(chain, id); g != nil {
		return g.LastResults
	}
	return nil
}

func (c *Contract) Player1(chain sdk.Chain, id string) sdk.Address {
	if g := c.game(chain, id); g != nil {
		return g.Player1
	}
	return ""
}

func (c *Contract) Player2(chain sdk.Chain, id string) sdk.Address {
	if g := c.game(chain, id); g != nil {
		return g.Player2
	}
	return ""
}

func (c *Contract) Winner(chain sdk.Chain, id string) sdk.Address {
	if g := c.game(chain, id); g != nil {
		return g.Winner
	}
	return ""
}

func (c *Contract) P1Time(chain sdk.Chain, id string) uint64 {
	if g := c.game(chain, id); g != nil {
		return g.P1Time
	}
	return 0
}

func (c *Contract) P2Time(chain sdk.Chain, id string) uint64 {
	if g := c.game(chain, id); g != nil {
		return g.P2Time
	}
	return 0
}

func (c *Contract) P1Revealed(chain sdk.Chain, id string) bool {
	g := c.game(chain, id)
	return g != nil && g.P1Revealed
}

func (c *Contract) P2Revealed(chain sdk.Chain, id string) bool {
	g := c.game(chain, id)
	return g != nil && g.P2Revealed
}

func (c *Contract) P1Word(chain sdk.Chain, id string) []byte {
	if g := c.game(chain, id); g != nil {
		return g.P1Word
	}
	return nil
}

func (c *Contract) P2Word(chain sdk.Chain, id string) []byte {
	if g := c.game(chain, id); g != nil {
		return g.P2Word
	}
	return nil
}

// EscrowAmount is the per-player stake still held for the game, 0 once the
// last payout cleared it.
func (c *Contract) EscrowAmount(chain sdk.Chain, id string) int64 {
	e, err := loadEscrow(chain, id)
	if err != nil {
		return 0
	}
	return e.Amount
}

func (c *Contract) GameCount(chain sdk.Chain) uint32 {
	n, err := loadGameCount(chain)
	if err != nil {
		return 0
	}
	return n
}

// GameIDAt returns the id of the index-th created game.
func (c *Contract) GameIDAt(chain sdk.Chain, index uint32) string {
	raw, ok, err := readKey(chain, gameAtKey(index))
	if err != nil || !ok {
		return ""
	}
	return string(raw)
}

func (c *Contract) GameCreator(chain sdk.Chain, id string) sdk.Address {
	raw, ok, err := readKey(chain, creatorKey(id))
	if err != nil || !ok {
		return ""
	}
	return sdk.Address(raw)
}

// SessionKey returns the key acting for player in game id, or player itself
// when none is bound.
func (c *Contract) SessionKey(chain sdk.Chain, id string, player sdk.Address) sdk.Address {
	key, ok, err := loadSessionKey(chain, id, player)
	if err != nil || !ok {
		return player
	}
	return key
}

// VerifyGuess checks dictionary membership without touching any game.
func (c *Contract) VerifyGuess(in VerifyGuessArgs) error {
	return c.checkGuess(in.Guess, in.PathElements, in.PathIndices)
}

// GameView is the JSON shape of a game for clients.
type GameView struct {
	ID          string      `json:"id"`
	SessionID   uint32      `json:"sessionId"`
	Phase       Phase       `json:"phase"`
	PhaseName   string      `json:"phaseName"`
	Turn        uint32      `json:"turn"`
	Deadline    uint64      `json:"deadline"`
	Player1     sdk.Address `json:"player1"`
	Player2     sdk.Address `json:"player2,omitempty"`
	Winner      sdk.Address `json:"winner,omitempty"`
	LastGuess   string      `json:"lastGuess,omitempty"`
	LastResults []int       `json:"lastResults,omitempty"`
	P1Time      uint64      `json:"p1Time"`
	P2Time      uint64      `json:"p2Time"`
	P1Revealed  bool        `json:"p1Revealed"`
	P2Revealed  bool        `json:"p2Revealed"`
	P1Word      string      `json:"p1Word,omitempty"`
	P2Word      string      `json:"p2Word,omitempty"`
	P1Withdrawn bool        `json:"p1Withdrawn"`
	P2Withdrawn bool        `json:"p2Withdrawn"`
	Asset       sdk.Asset   `json:"asset,omitempty"`
	Amount      int64       `json:"amount"`
}

// View collects every query for one game. ok is false for unknown games.
func (c *Contract) View(chain sdk.Chain, id string) (GameView, bool) {
	g := c.game(chain, id)
	if g == nil {
		return GameView{ID: id, Phase: PhaseNone, PhaseName: PhaseNone.String()}, false
	}
	e, _ := loadEscrow(chain, id)
	v := GameView{
		ID:          g.ID,
		SessionID:   g.SessionID,
		Phase:       g.Phase,
		PhaseName:   g.Phase.String(),
		Turn:        g.Turn,
		Deadline:    g.Deadline,
		Player1:     g.Player1,
		Player2:     g.Player2,
		Winner:      g.Winner,
		LastGuess:   string(g.LastGuess),
		P1Time:      g.P1Time,
		P2Time:      g.P2Time,
		P1Revealed:  g.P1Revealed,
		P2Revealed:  g.P2Revealed,
		P1Word:      string(g.P1Word),
		P2Word:      string(g.P2Word),
		P1Withdrawn: g.P1Withdrawn,
		P2Withdrawn: g.P2Withdrawn,
		Asset:       e.Asset,
		Amount:      e.Amount,
	}
	for _, r := range g.LastResults {
		v.LastResults = append(v.LastResults, int(r))
	}
	return v, true
}
