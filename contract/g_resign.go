package contract

import (
	"okinoko-wordle_duel/sdk"
)

// Resign concedes an active game to the opponent.
func (c *Contract) Resign(chain sdk.Chain, in GameArgs) error {
	return c.run(chain, "resign", in.GameID, func(tx *txn) error {
		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		actor, err := resolveCaller(chain, tx, g.ID, in.Caller)
		if err != nil {
			return err
		}
		if g.Phase != PhaseActive {
			return wrap(ErrWrongPhase, "game is %s", g.Phase)
		}
		if !g.isPlayer(actor) {
			return wrap(ErrWrongPlayer, "%s is not a player", actor)
		}

		g.Winner = g.opponentOf(actor)
		g.Phase = PhaseFinalized
		c.saveGame(tx, g)
		if err := chain.EndGame(g.SessionID, g.outcome()); err != nil {
			return wrap(ErrHubFailed, "end game: %v", err)
		}
		tx.emit(EventGameResigned(g.ID, actor))
		tx.emit(EventGameWon(g.ID, g.Winner))
		c.log.Info("game resigned", "game", g.ID, "resigner", actor, "winner", g.Winner)
		return nil
	})
}
