package sdk

// Address identifies an account on the host: a player, a session key or the
// contract itself.
type Address string

func (a Address) String() string { return string(a) }

// Asset names a token tracked by the host ledger.
type Asset string

func (a Asset) String() string { return string(a) }

// Env is the per-call execution environment.
type Env struct {
	// ContractID is the address that holds escrowed stakes.
	ContractID Address
	// Timestamp is the ledger time of the call in unix seconds.
	Timestamp uint64
}

// Outcome is reported to the game hub when a session ends.
type Outcome uint8

const (
	OutcomeDraw    Outcome = 0
	OutcomePlayer1 Outcome = 1
	OutcomePlayer2 Outcome = 2
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayer1:
		return "player1"
	case OutcomePlayer2:
		return "player2"
	default:
		return "draw"
	}
}
