package contract

import (
	"encoding/binary"
	"strconv"

	"okinoko-wordle_duel/sdk"
)

// Storage keys. Game ids never contain '_' (see validateGameID), so the
// per-game prefixes cannot collide.
const gameCountKey = "reg_count"

func gameKey(id string) string                           { return "g_" + id }
func escrowKey(id string) string                         { return "g_" + id + "_escrow" }
func gameAtKey(index uint32) string                      { return "reg_at_" + strconv.FormatUint(uint64(index), 10) }
func creatorKey(id string) string                        { return "reg_by_" + id }
func sessionKeyKey(id string, player sdk.Address) string { return "sk_" + id + "_" + string(player) }
func sessionRevKey(key sdk.Address) string               { return "skr_" + string(key) }

// getter is satisfied by both the host store and a txn.
type getter interface {
	Get(key string) ([]byte, bool, error)
}

func readKey(kv getter, key string) ([]byte, bool, error) {
	v, ok, err := kv.Get(key)
	if err != nil {
		if _, isCode := CodeOf(err); isCode {
			return nil, false, err
		}
		return nil, false, wrap(ErrStorageFailed, "get %s: %v", key, err)
	}
	return v, ok, nil
}

// ---------- games ----------

func loadGame(kv getter, id string) (*Game, error) {
	raw, ok, err := readKey(kv, gameKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, wrap(ErrNoActiveGame, "game %q", id)
	}
	g, err := decodeGame(raw)
	if err != nil {
		return nil, wrap(ErrStorageFailed, "game %q: %v", id, err)
	}
	return g, nil
}

func (c *Contract) saveGame(tx *txn, g *Game) {
	tx.Set(gameKey(g.ID), encodeGame(g), c.cfg.GameTTL)
}

// ---------- escrow ----------

// loadEscrow returns the zero escrow once the record has been cleared.
func loadEscrow(kv getter, id string) (Escrow, error) {
	raw, ok, err := readKey(kv, escrowKey(id))
	if err != nil || !ok {
		return Escrow{}, err
	}
	e, err := decodeEscrow(raw)
	if err != nil {
		return Escrow{}, wrap(ErrStorageFailed, "escrow %q: %v", id, err)
	}
	return e, nil
}

func (c *Contract) saveEscrow(tx *txn, id string, e Escrow) {
	tx.Set(escrowKey(id), encodeEscrow(e), c.cfg.GameTTL)
}

// ---------- registry ----------

func loadGameCount(kv getter) (uint32, error) {
	raw, ok, err := readKey(kv, gameCountKey)
	if err != nil || !ok {
		return 0, err
	}
	if len(raw) != 4 {
		return 0, wrap(ErrStorageFailed, "game count: %d bytes", len(raw))
	}
	return binary.BigEndian.Uint32(raw), nil
}

// register appends id to the registry under index. Registry keys are
// written without a lifetime so the counter only grows and an id is never
// handed out twice.
func register(tx *txn, index uint32, id string, creator sdk.Address) {
	tx.Set(gameCountKey, binary.BigEndian.AppendUint32(nil, index+1), 0)
	tx.Set(gameAtKey(index), []byte(id), 0)
	tx.Set(creatorKey(id), []byte(creator), 0)
}

// ---------- session keys ----------

func loadSessionKey(kv getter, id string, player sdk.Address) (sdk.Address, bool, error) {
	raw, ok, err := readKey(kv, sessionKeyKey(id, player))
	if err != nil || !ok {
		return "", false, err
	}
	return sdk.Address(raw), true, nil
}

func loadBinding(kv getter, key sdk.Address) (sessionBinding, bool, error) {
	raw, ok, err := readKey(kv, sessionRevKey(key))
	if err != nil || !ok {
		return sessionBinding{}, false, err
	}
	b, err := decodeBinding(raw)
	if err != nil {
		return sessionBinding{}, false, wrap(ErrStorageFailed, "session key %s: %v", key, err)
	}
	return b, true, nil
}
