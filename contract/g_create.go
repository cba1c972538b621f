package contract

import (
	"math"

	"okinoko-wordle_duel/sdk"
)

// CreateGame opens a game for player 1, escrows their stake and registers
// the game for discovery.
func (c *Contract) CreateGame(chain sdk.Chain, in CreateArgs) error {
	return c.run(chain, "create_game", in.GameID, func(tx *txn) error {
		if err := validateGameID(in.GameID); err != nil {
			return err
		}
		if err := requireAuth(chain, in.Player1); err != nil {
			return err
		}
		commitment, err := toCommitment(in.Commitment)
		if err != nil {
			return err
		}
		if err := c.verifyWordCommit(commitment, in.PublicInputs, in.Proof); err != nil {
			return err
		}

		// an expired game keeps its registry entry, so its id stays taken
		exists, err := tx.Has(creatorKey(in.GameID))
		if err != nil {
			return err
		}
		if exists {
			return wrap(ErrGameAlreadyExists, "game %q", in.GameID)
		}
		if in.Amount < 0 || in.Amount > math.MaxInt64/2 {
			return wrap(ErrInvalidAmount, "amount %d", in.Amount)
		}
		if in.Amount > 0 && in.Asset == "" {
			return wrap(ErrInvalidAmount, "stake needs an asset")
		}

		index, err := loadGameCount(tx)
		if err != nil {
			return err
		}
		escrow := Escrow{Asset: in.Asset, Amount: in.Amount}
		if err := deposit(tx, escrow, in.Player1); err != nil {
			return err
		}

		g := &Game{
			ID:          in.GameID,
			SessionID:   index,
			Player1:     in.Player1,
			Commitment1: commitment,
			Phase:       PhaseWaiting,
		}
		c.saveGame(tx, g)
		c.saveEscrow(tx, g.ID, escrow)
		register(tx, index, g.ID, in.Player1)

		tx.emit(EventGameCreated(g.ID, in.Player1, escrow))
		c.log.Info("game created", "game", g.ID, "session", index, "player1", in.Player1, "amount", in.Amount)
		return nil
	})
}
