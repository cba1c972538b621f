package contract

import (
	"bytes"
	"encoding/json"

	"okinoko-wordle_duel/sdk"
)

// Action names accepted by Dispatch.
const (
	ActionCreateGame         = "create_game"
	ActionJoinGame           = "join_game"
	ActionSubmitTurn         = "submit_turn"
	ActionRevealWord         = "reveal_word"
	ActionRevealWordDraw     = "reveal_word_draw"
	ActionResign             = "resign"
	ActionClaimTimeout       = "claim_timeout"
	ActionWithdraw           = "withdraw"
	ActionRegisterSessionKey = "register_session_key"
	ActionVerifyGuess        = "verify_guess"
	ActionGetGame            = "get_game"
	ActionGameCount          = "game_count"
	ActionGameAt             = "game_at"
)

// WithdrawResult is the response of the withdraw action.
type WithdrawResult struct {
	Amount int64 `json:"amount"`
}

type gameAtArgs struct {
	Index uint32 `json:"index"`
}

// Dispatch decodes a JSON payload for action and runs it. It is the single
// entry point hosts expose; the response is JSON or nil.
func (c *Contract) Dispatch(chain sdk.Chain, action string, payload []byte) ([]byte, error) {
	switch action {
	case ActionCreateGame:
		var in CreateArgs
		return nil, decodeThen(payload, &in, func() error { return c.CreateGame(chain, in) })
	case ActionJoinGame:
		var in JoinArgs
		return nil, decodeThen(payload, &in, func() error { return c.JoinGame(chain, in) })
	case ActionSubmitTurn:
		var in TurnArgs
		return nil, decodeThen(payload, &in, func() error { return c.SubmitTurn(chain, in) })
	case ActionRevealWord:
		var in RevealArgs
		return nil, decodeThen(payload, &in, func() error { return c.RevealWord(chain, in) })
	case ActionRevealWordDraw:
		var in RevealArgs
		return nil, decodeThen(payload, &in, func() error { return c.RevealWordDraw(chain, in) })
	case ActionResign:
		var in GameArgs
		return nil, decodeThen(payload, &in, func() error { return c.Resign(chain, in) })
	case ActionClaimTimeout:
		var in RevealArgs
		return nil, decodeThen(payload, &in, func() error { return c.ClaimTimeout(chain, in) })
	case ActionRegisterSessionKey:
		var in SessionKeyArgs
		return nil, decodeThen(payload, &in, func() error { return c.RegisterSessionKey(chain, in) })
	case ActionVerifyGuess:
		var in VerifyGuessArgs
		return nil, decodeThen(payload, &in, func() error { return c.VerifyGuess(in) })
	case ActionWithdraw:
		var in GameArgs
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		amount, err := c.Withdraw(chain, in)
		if err != nil {
			return nil, err
		}
		return json.Marshal(WithdrawResult{Amount: amount})
	case ActionGetGame:
		var in GameArgs
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		view, _ := c.View(chain, in.GameID)
		return json.Marshal(view)
	case ActionGameCount:
		return json.Marshal(c.GameCount(chain))
	case ActionGameAt:
		var in gameAtArgs
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return json.Marshal(c.GameIDAt(chain, in.Index))
	default:
		return nil, wrap(ErrUnknownAction, "%q", action)
	}
}

// decode rejects unknown fields so a typo never silently drops an argument.
func decode(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return wrap(ErrInvalidPayload, "%v", err)
	}
	return nil
}

func decodeThen(payload []byte, v any, fn func() error) error {
	if err := decode(payload, v); err != nil {
		return err
	}
	return fn()
}
