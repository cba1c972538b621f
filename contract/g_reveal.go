package contract

import (
	"okinoko-wordle_duel/sdk"
)

// RevealWord finalizes a game in the reveal phase: the winner must prove
// their own word before the win counts.
func (c *Contract) RevealWord(chain sdk.Chain, in RevealArgs) error {
	return c.run(chain, "reveal_word", in.GameID, func(tx *txn) error {
		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		actor, err := resolveCaller(chain, tx, g.ID, in.Caller)
		if err != nil {
			return err
		}
		if g.Phase != PhaseReveal {
			return wrap(ErrWrongPhase, "game is %s", g.Phase)
		}
		if actor != g.Winner {
			return wrap(ErrNotWinner, "only %s can reveal", g.Winner)
		}
		seat := g.seat(actor)
		if err := c.checkSelfReveal(g.commitmentOf(seat), in.Word, in.PublicInputs, in.Proof); err != nil {
			return err
		}

		g.storeWord(seat, []byte(in.Word))
		g.Phase = PhaseFinalized
		c.saveGame(tx, g)
		if err := chain.EndGame(g.SessionID, g.outcome()); err != nil {
			return wrap(ErrHubFailed, "end game: %v", err)
		}
		tx.emit(EventWordRevealed(g.ID, actor, in.Word))
		tx.emit(EventGameWon(g.ID, g.Winner))
		c.log.Info("game won", "game", g.ID, "winner", g.Winner)
		return nil
	})
}

// RevealWordDraw lets each player of a drawn game prove their word, which
// unlocks the refund of their stake.
func (c *Contract) RevealWordDraw(chain sdk.Chain, in RevealArgs) error {
	return c.run(chain, "reveal_word_draw", in.GameID, func(tx *txn) error {
		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		actor, err := resolveCaller(chain, tx, g.ID, in.Caller)
		if err != nil {
			return err
		}
		if g.Phase != PhaseDraw {
			return wrap(ErrWrongPhase, "game is %s", g.Phase)
		}
		seat := g.seat(actor)
		if seat == 0 {
			return wrap(ErrWrongPlayer, "%s is not a player", actor)
		}
		if g.revealed(seat) {
			return wrap(ErrAlreadyRevealed, "player %d", seat)
		}
		if err := c.checkSelfReveal(g.commitmentOf(seat), in.Word, in.PublicInputs, in.Proof); err != nil {
			return err
		}

		g.markRevealed(seat, []byte(in.Word))
		c.saveGame(tx, g)
		tx.emit(EventWordRevealed(g.ID, actor, in.Word))
		return nil
	})
}
