package contract

import (
	"okinoko-wordle_duel/sdk"
)

// ClaimTimeout awards an active game to the waiting player once the mover's
// clock has run out. The claimant must reveal their own word, so a timeout
// win is never possible without a real committed word.
func (c *Contract) ClaimTimeout(chain sdk.Chain, in RevealArgs) error {
	return c.run(chain, "claim_timeout", in.GameID, func(tx *txn) error {
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
		now := chain.Env().Timestamp
		if now <= g.Deadline {
			return wrap(ErrWrongPhase, "deadline %d not reached at %d", g.Deadline, now)
		}
		timedOut := g.toMove()
		seat := g.seat(actor)
		if seat == 0 || actor == timedOut {
			return wrap(ErrWrongPlayer, "only the opponent of %s can claim", timedOut)
		}
		if err := c.checkSelfReveal(g.commitmentOf(seat), in.Word, in.PublicInputs, in.Proof); err != nil {
			return err
		}

		g.storeWord(seat, []byte(in.Word))
		g.Winner = actor
		g.Phase = PhaseFinalized
		c.saveGame(tx, g)
		if err := chain.EndGame(g.SessionID, g.outcome()); err != nil {
			return wrap(ErrHubFailed, "end game: %v", err)
		}
		tx.emit(EventWordRevealed(g.ID, actor, in.Word))
		tx.emit(EventGameTimedOut(g.ID, timedOut))
		tx.emit(EventGameWon(g.ID, actor))
		c.log.Info("game timed out", "game", g.ID, "timedOut", timedOut, "winner", actor)
		return nil
	})
}
