package contract

import (
	"strconv"

	"okinoko-wordle_duel/sdk"
)

// Event represents the common structure for all emitted events.
// Each event has a type and a set of key/value attributes.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func newEvent(eventType string, kv ...string) Event {
	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return Event{Type: eventType, Attributes: attrs}
}

// EventGameCreated announces an open game for lobby discovery.
func EventGameCreated(id string, by sdk.Address, e Escrow) Event {
	return newEvent("gameCreated",
		"id", id,
		"by", string(by),
		"asset", string(e.Asset),
		"amount", strconv.FormatInt(e.Amount, 10),
	)
}

func EventGameJoined(id string, joined sdk.Address) Event {
	return newEvent("gameJoined", "id", id, "joined", string(joined))
}

// EventTurnSubmitted is emitted for every accepted move. results is empty on
// turn 1 and guess is empty when the move only judged.
func EventTurnSubmitted(id string, by sdk.Address, turn uint32, guess, results []byte) Event {
	return newEvent("turnSubmitted",
		"id", id,
		"by", string(by),
		"turn", strconv.FormatUint(uint64(turn), 10),
		"guess", string(guess),
		"results", resultsString(results),
	)
}

func EventGameWon(id string, winner sdk.Address) Event {
	return newEvent("gameWon", "id", id, "winner", string(winner))
}

func EventGameResigned(id string, resigner sdk.Address) Event {
	return newEvent("gameResigned", "id", id, "resigner", string(resigner))
}

func EventGameTimedOut(id string, timedOut sdk.Address) Event {
	return newEvent("gameTimedOut", "id", id, "timedOut", string(timedOut))
}

func EventGameDraw(id string) Event {
	return newEvent("gameDraw", "id", id)
}

func EventWordRevealed(id string, by sdk.Address, word string) Event {
	return newEvent("wordRevealed", "id", id, "by", string(by), "word", word)
}

func EventWithdrawn(id string, to sdk.Address, e Escrow, amount int64) Event {
	return newEvent("withdrawn",
		"id", id,
		"to", string(to),
		"asset", string(e.Asset),
		"amount", strconv.FormatInt(amount, 10),
	)
}

func EventSessionKeyRegistered(id string, player, key sdk.Address) Event {
	return newEvent("sessionKeyRegistered", "id", id, "player", string(player), "sessionKey", string(key))
}

// resultsString renders feedback codes as digits, e.g. "20102".
func resultsString(r []byte) string {
	out := make([]byte, len(r))
	for i, c := range r {
		out[i] = '0' + c%10
	}
	return string(out)
}
