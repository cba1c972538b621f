package contract

import (
	"okinoko-wordle_duel/sdk"
)

// JoinGame seats player 2, who matches the stake fixed at creation. The
// game becomes active with player 1 to guess first.
func (c *Contract) JoinGame(chain sdk.Chain, in JoinArgs) error {
	return c.run(chain, "join_game", in.GameID, func(tx *txn) error {
		if err := requireAuth(chain, in.Player2); err != nil {
			return err
		}
		commitment, err := toCommitment(in.Commitment)
		if err != nil {
			return err
		}
		if err := c.verifyWordCommit(commitment, in.PublicInputs, in.Proof); err != nil {
			return err
		}

		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		if g.Phase != PhaseWaiting {
			return wrap(ErrWrongPhase, "cannot join: game is %s", g.Phase)
		}
		if in.Player2 == g.Player1 {
			return wrap(ErrWrongPlayer, "creator cannot join")
		}

		escrow, err := loadEscrow(tx, g.ID)
		if err != nil {
			return err
		}
		if err := deposit(tx, escrow, in.Player2); err != nil {
			return err
		}

		g.Player2 = in.Player2
		g.Commitment2 = commitment
		g.Phase = PhaseActive
		g.Turn = 1
		c.startClock(g, chain.Env().Timestamp)
		c.saveGame(tx, g)

		if err := chain.StartGame(chain.Env().ContractID, g.SessionID, g.Player1, g.Player2); err != nil {
			return wrap(ErrHubFailed, "start game: %v", err)
		}
		tx.emit(EventGameJoined(g.ID, in.Player2))
		c.log.Info("game started", "game", g.ID, "player2", in.Player2, "deadline", g.Deadline)
		return nil
	})
}
