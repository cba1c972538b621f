package contract

import (
	"okinoko-wordle_duel/sdk"
)

// deposit pulls a player's stake into the contract account.
func deposit(tx *txn, e Escrow, from sdk.Address) error {
	return tx.Transfer(e.Asset, from, tx.chain.Env().ContractID, e.Amount)
}

// payout computes what seat may withdraw from g. A finalized game pays the
// winner both stakes; a draw returns each revealed player's own stake.
func payout(g *Game, e Escrow, player sdk.Address, seat int) (int64, error) {
	switch g.Phase {
	case PhaseFinalized:
		if player != g.Winner {
			return 0, wrap(ErrNotWinner, "%s did not win", player)
		}
		return 2 * e.Amount, nil
	case PhaseDraw:
		if !g.revealed(seat) {
			return 0, wrap(ErrInvalidReveal, "reveal your word before withdrawing")
		}
		return e.Amount, nil
	default:
		return 0, wrap(ErrWrongPhase, "phase %s", g.Phase)
	}
}

// settled reports whether no stake is left to claim.
func settled(g *Game) bool {
	switch g.Phase {
	case PhaseFinalized:
		return g.withdrawn(g.seat(g.Winner))
	case PhaseDraw:
		return g.P1Withdrawn && g.P2Withdrawn
	default:
		return false
	}
}
