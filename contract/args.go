package contract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"okinoko-wordle_duel/sdk"
)

// HexBytes is a byte string carried as hex in JSON payloads.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("hex field: %w", err)
	}
	*h = raw
	return nil
}

// CreateArgs opens a game. PublicInputs/Proof form the word-commit proof
// for Commitment.
type CreateArgs struct {
	GameID       string      `json:"gameId"`
	Player1      sdk.Address `json:"player1"`
	Commitment   HexBytes    `json:"commitment"`
	Asset        sdk.Asset   `json:"asset,omitempty"`
	Amount       int64       `json:"amount"`
	PublicInputs HexBytes    `json:"publicInputs"`
	Proof        HexBytes    `json:"proof"`
}

type JoinArgs struct {
	GameID       string      `json:"gameId"`
	Player2      sdk.Address `json:"player2"`
	Commitment   HexBytes    `json:"commitment"`
	PublicInputs HexBytes    `json:"publicInputs"`
	Proof        HexBytes    `json:"proof"`
}

// TurnArgs is one move: the proof judging the opponent's pending guess (from
// turn 2 on) and the caller's own next guess with its dictionary path.
type TurnArgs struct {
	GameID       string      `json:"gameId"`
	Caller       sdk.Address `json:"caller"`
	Guess        string      `json:"guess,omitempty"`
	PathElements []HexBytes  `json:"pathElements,omitempty"`
	PathIndices  []uint32    `json:"pathIndices,omitempty"`
	PublicInputs HexBytes    `json:"publicInputs,omitempty"`
	Proof        HexBytes    `json:"proof,omitempty"`
}

// RevealArgs proves knowledge of the caller's own committed word.
type RevealArgs struct {
	GameID       string      `json:"gameId"`
	Caller       sdk.Address `json:"caller"`
	Word         string      `json:"word"`
	PublicInputs HexBytes    `json:"publicInputs"`
	Proof        HexBytes    `json:"proof"`
}

// GameArgs names the game and the acting identity.
type GameArgs struct {
	GameID string      `json:"gameId"`
	Caller sdk.Address `json:"caller"`
}

type SessionKeyArgs struct {
	GameID     string      `json:"gameId"`
	Player     sdk.Address `json:"player"`
	SessionKey sdk.Address `json:"sessionKey"`
}

// VerifyGuessArgs asks for a standalone dictionary check.
type VerifyGuessArgs struct {
	Guess        string     `json:"guess"`
	PathElements []HexBytes `json:"pathElements"`
	PathIndices  []uint32   `json:"pathIndices"`
}
