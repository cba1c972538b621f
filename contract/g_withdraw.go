package contract

import (
	"okinoko-wordle_duel/sdk"
)

// Withdraw pays the caller what the finished game owes them, at most once.
// Funds always go to the player, never to a session key acting for them.
func (c *Contract) Withdraw(chain sdk.Chain, in GameArgs) (int64, error) {
	var paid int64
	err := c.run(chain, "withdraw", in.GameID, func(tx *txn) error {
		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		actor, err := resolveCaller(chain, tx, g.ID, in.Caller)
		if err != nil {
			return err
		}
		if g.Phase != PhaseFinalized && g.Phase != PhaseDraw {
			return wrap(ErrWrongPhase, "game is %s", g.Phase)
		}
		seat := g.seat(actor)
		if seat == 0 {
			return wrap(ErrWrongPlayer, "%s is not a player", actor)
		}
		if g.withdrawn(seat) {
			return wrap(ErrAlreadyWithdrawn, "player %d", seat)
		}

		escrow, err := loadEscrow(tx, g.ID)
		if err != nil {
			return err
		}
		amount, err := payout(g, escrow, actor, seat)
		if err != nil {
			return err
		}
		if err := tx.Transfer(escrow.Asset, chain.Env().ContractID, actor, amount); err != nil {
			return err
		}

		g.markWithdrawn(seat)
		c.saveGame(tx, g)
		if settled(g) {
			tx.Delete(escrowKey(g.ID))
		}
		tx.emit(EventWithdrawn(g.ID, actor, escrow, amount))
		paid = amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}
