package contract

import (
	"encoding/binary"
	"errors"

	"okinoko-wordle_duel/sdk"
)

// ---------- Binary State Codec ----------

// codecVersion increments when the storage encoding changes.
const codecVersion uint8 = 1

const (
	flagP1Revealed uint8 = 1 << iota
	flagP2Revealed
	flagP1Withdrawn
	flagP2Withdrawn
)

var errDecode = errors.New("corrupt state record")

// encodeGame serializes a game.
//
// Layout:
//
//	version | session u32 | phase u8 | flags u8 | turn u32 | deadline u64 |
//	p1time u64 | p2time u64 | commitment1 [32] | commitment2 [32] |
//	id | player1 | player2 | winner | lastGuess | lastResults | p1word | p2word
//
// Strings and byte fields are u16 length-prefixed.
func encodeGame(g *Game) []byte {
	var w wr
	w.u8(codecVersion)
	w.u32(g.SessionID)
	w.u8(uint8(g.Phase))

	var flags uint8
	if g.P1Revealed {
		flags |= flagP1Revealed
	}
	if g.P2Revealed {
		flags |= flagP2Revealed
	}
	if g.P1Withdrawn {
		flags |= flagP1Withdrawn
	}
	if g.P2Withdrawn {
		flags |= flagP2Withdrawn
	}
	w.u8(flags)

	w.u32(g.Turn)
	w.u64(g.Deadline)
	w.u64(g.P1Time)
	w.u64(g.P2Time)
	w.raw(g.Commitment1[:])
	w.raw(g.Commitment2[:])
	w.str(g.ID)
	w.str(string(g.Player1))
	w.str(string(g.Player2))
	w.str(string(g.Winner))
	w.bytes(g.LastGuess)
	w.bytes(g.LastResults)
	w.bytes(g.P1Word)
	w.bytes(g.P2Word)
	return w.out
}

// decodeGame rebuilds a game and rejects unknown versions and trailing bytes.
func decodeGame(b []byte) (*Game, error) {
	r := &rd{b: b}
	if r.u8() != codecVersion {
		return nil, errDecode
	}
	g := &Game{}
	g.SessionID = r.u32()
	g.Phase = Phase(r.u8())
	flags := r.u8()
	g.P1Revealed = flags&flagP1Revealed != 0
	g.P2Revealed = flags&flagP2Revealed != 0
	g.P1Withdrawn = flags&flagP1Withdrawn != 0
	g.P2Withdrawn = flags&flagP2Withdrawn != 0
	g.Turn = r.u32()
	g.Deadline = r.u64()
	g.P1Time = r.u64()
	g.P2Time = r.u64()
	copy(g.Commitment1[:], r.raw(32))
	copy(g.Commitment2[:], r.raw(32))
	g.ID = r.str()
	g.Player1 = sdk.Address(r.str())
	g.Player2 = sdk.Address(r.str())
	g.Winner = sdk.Address(r.str())
	g.LastGuess = r.bytes()
	g.LastResults = r.bytes()
	g.P1Word = r.bytes()
	g.P2Word = r.bytes()
	if err := r.end(); err != nil {
		return nil, err
	}
	return g, nil
}

func encodeEscrow(e Escrow) []byte {
	var w wr
	w.u8(codecVersion)
	w.str(string(e.Asset))
	w.u64(uint64(e.Amount))
	return w.out
}

func decodeEscrow(b []byte) (Escrow, error) {
	r := &rd{b: b}
	if r.u8() != codecVersion {
		return Escrow{}, errDecode
	}
	e := Escrow{Asset: sdk.Asset(r.str()), Amount: int64(r.u64())}
	return e, r.end()
}

// sessionBinding is the reverse lookup of a session key.
type sessionBinding struct {
	GameID string
	Player sdk.Address
}

func encodeBinding(b sessionBinding) []byte {
	var w wr
	w.str(b.GameID)
	w.str(string(b.Player))
	return w.out
}

func decodeBinding(b []byte) (sessionBinding, error) {
	r := &rd{b: b}
	s := sessionBinding{GameID: r.str(), Player: sdk.Address(r.str())}
	return s, r.end()
}

// ---------- writer / reader ----------

type wr struct{ out []byte }

func (w *wr) u8(x uint8)     { w.out = append(w.out, x) }
func (w *wr) u16(x uint16)   { w.out = binary.BigEndian.AppendUint16(w.out, x) }
func (w *wr) u32(x uint32)   { w.out = binary.BigEndian.AppendUint32(w.out, x) }
func (w *wr) u64(x uint64)   { w.out = binary.BigEndian.AppendUint64(w.out, x) }
func (w *wr) raw(p []byte)   { w.out = append(w.out, p...) }
func (w *wr) str(s string)   { w.u16(uint16(len(s))); w.out = append(w.out, s...) }
func (w *wr) bytes(p []byte) { w.u16(uint16(len(p))); w.out = append(w.out, p...) }

// rd is a big-endian reader over a byte slice. The first overflow sticks;
// every later read returns zero values and end reports the failure.
type rd struct {
	b   []byte
	i   int
	bad bool
}

func (r *rd) take(n int) []byte {
	if r.bad || r.i+n > len(r.b) {
		r.bad = true
		return nil
	}
	v := r.b[r.i : r.i+n]
	r.i += n
	return v
}

func (r *rd) u8() uint8 {
	if v := r.take(1); v != nil {
		return v[0]
	}
	return 0
}

func (r *rd) u16() uint16 {
	if v := r.take(2); v != nil {
		return binary.BigEndian.Uint16(v)
	}
	return 0
}

func (r *rd) u32() uint32 {
	if v := r.take(4); v != nil {
		return binary.BigEndian.Uint32(v)
	}
	return 0
}

func (r *rd) u64() uint64 {
	if v := r.take(8); v != nil {
		return binary.BigEndian.Uint64(v)
	}
	return 0
}

func (r *rd) raw(n int) []byte { return r.take(n) }

func (r *rd) str() string { return string(r.take(int(r.u16()))) }

func (r *rd) bytes() []byte {
	v := r.take(int(r.u16()))
	if len(v) == 0 {
		return nil
	}
	return append([]byte(nil), v...)
}

// end verifies that the whole buffer was consumed.
func (r *rd) end() error {
	if r.bad || r.i != len(r.b) {
		return errDecode
	}
	return nil
}
