package contract

import (
	"okinoko-wordle_duel/sdk"
)

// RegisterSessionKey lets a player delegate moves in one game to another
// key. Both the player and the key must sign, and the key may not be either
// player of the game, so registration waits until both seats are taken.
// A new key replaces the previous one.
func (c *Contract) RegisterSessionKey(chain sdk.Chain, in SessionKeyArgs) error {
	return c.run(chain, "register_session_key", in.GameID, func(tx *txn) error {
		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		if g.Phase == PhaseWaiting {
			return wrap(ErrWrongPhase, "game has no second player yet")
		}
		if !g.isPlayer(in.Player) {
			return wrap(ErrWrongPlayer, "%s is not a player", in.Player)
		}
		if err := requireAuth(chain, in.Player); err != nil {
			return err
		}
		if in.SessionKey == "" || in.SessionKey == g.Player1 || in.SessionKey == g.Player2 {
			return wrap(ErrInvalidSessionKey, "%q", in.SessionKey)
		}
		if err := requireAuth(chain, in.SessionKey); err != nil {
			return err
		}

		if old, ok, err := loadSessionKey(tx, g.ID, in.Player); err != nil {
			return err
		} else if ok && old != in.SessionKey {
			tx.Delete(sessionRevKey(old))
		}
		// a key bound elsewhere is moved to this game
		if prev, ok, err := loadBinding(tx, in.SessionKey); err != nil {
			return err
		} else if ok && (prev.GameID != g.ID || prev.Player != in.Player) {
			tx.Delete(sessionKeyKey(prev.GameID, prev.Player))
		}

		tx.Set(sessionKeyKey(g.ID, in.Player), []byte(in.SessionKey), c.cfg.GameTTL)
		tx.Set(sessionRevKey(in.SessionKey), encodeBinding(sessionBinding{GameID: g.ID, Player: in.Player}), c.cfg.GameTTL)
		tx.emit(EventSessionKeyRegistered(g.ID, in.Player, in.SessionKey))
		return nil
	})
}
