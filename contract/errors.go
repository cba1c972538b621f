package contract

import (
	"errors"
	"fmt"
)

// Error is a stable numeric contract error. Wrapped errors still match with
// errors.Is against the Err* values.
type Error uint32

const (
	ErrVkParse             Error = 1
	ErrProofParse          Error = 2
	ErrVerificationFailed  Error = 3
	ErrVkNotSet            Error = 4
	ErrInvalidGuessLength  Error = 5
	ErrInvalidCharacter    Error = 6
	ErrInvalidMerkleProof  Error = 7
	ErrGuessWordMismatch   Error = 8
	ErrGameExpired         Error = 9
	ErrNoActiveGame        Error = 10
	ErrGameAlreadyExists   Error = 11
	ErrWrongPlayer         Error = 12
	ErrWrongPhase          Error = 13
	ErrNotYourTurn         Error = 14
	ErrAlreadyWithdrawn    Error = 16
	ErrNotWinner           Error = 17
	ErrInvalidReveal       Error = 18
	ErrInvalidSessionKey   Error = 19
	ErrAlreadyRevealed     Error = 20
	ErrInvalidAmount       Error = 21
	ErrInvalidPublicInputs Error = 22
	ErrUnauthorized        Error = 23
	ErrTransferFailed      Error = 24
	ErrHubFailed           Error = 25
	ErrStorageFailed       Error = 26
	ErrInvalidCommitment   Error = 27
	ErrInvalidGameID       Error = 28
	ErrUnknownAction       Error = 29
	ErrInvalidPayload      Error = 30
)

var errorNames = map[Error]string{
	ErrVkParse:             "VkParseError",
	ErrProofParse:          "ProofParseError",
	ErrVerificationFailed:  "VerificationFailed",
	ErrVkNotSet:            "VkNotSet",
	ErrInvalidGuessLength:  "InvalidGuessLength",
	ErrInvalidCharacter:    "InvalidCharacter",
	ErrInvalidMerkleProof:  "InvalidMerkleProof",
	ErrGuessWordMismatch:   "GuessWordMismatch",
	ErrGameExpired:         "GameExpired",
	ErrNoActiveGame:        "NoActiveGame",
	ErrGameAlreadyExists:   "GameAlreadyExists",
	ErrWrongPlayer:         "WrongPlayer",
	ErrWrongPhase:          "WrongPhase",
	ErrNotYourTurn:         "NotYourTurn",
	ErrAlreadyWithdrawn:    "AlreadyWithdrawn",
	ErrNotWinner:           "NotWinner",
	ErrInvalidReveal:       "InvalidReveal",
	ErrInvalidSessionKey:   "InvalidSessionKey",
	ErrAlreadyRevealed:     "AlreadyRevealed",
	ErrInvalidAmount:       "InvalidAmount",
	ErrInvalidPublicInputs: "InvalidPublicInputs",
	ErrUnauthorized:        "Unauthorized",
	ErrTransferFailed:      "TransferFailed",
	ErrHubFailed:           "HubFailed",
	ErrStorageFailed:       "StorageFailed",
	ErrInvalidCommitment:   "InvalidCommitment",
	ErrInvalidGameID:       "InvalidGameID",
	ErrUnknownAction:       "UnknownAction",
	ErrInvalidPayload:      "InvalidPayload",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Error(%d)", uint32(e))
}

// Code is the numeric value reported to callers.
func (e Error) Code() uint32 { return uint32(e) }

// Kind groups errors by what went wrong.
type Kind uint8

const (
	KindProofFormat Kind = iota + 1
	KindProofSemantic
	KindState
	KindValidation
	KindAuthorization
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindProofFormat:
		return "proof-format"
	case KindProofSemantic:
		return "proof-semantic"
	case KindState:
		return "state"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

func (e Error) Kind() Kind {
	switch e {
	case ErrVkParse, ErrProofParse, ErrVkNotSet, ErrInvalidPublicInputs:
		return KindProofFormat
	case ErrVerificationFailed, ErrGuessWordMismatch, ErrInvalidReveal, ErrInvalidMerkleProof:
		return KindProofSemantic
	case ErrGameExpired, ErrNoActiveGame, ErrGameAlreadyExists, ErrWrongPhase,
		ErrNotYourTurn, ErrAlreadyWithdrawn, ErrAlreadyRevealed:
		return KindState
	case ErrWrongPlayer, ErrNotWinner, ErrInvalidSessionKey, ErrUnauthorized:
		return KindAuthorization
	case ErrTransferFailed, ErrHubFailed, ErrStorageFailed:
		return KindExternal
	default:
		return KindValidation
	}
}

// CodeOf extracts the contract error carried by err.
func CodeOf(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return 0, false
}

func wrap(code Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", code, fmt.Sprintf(format, args...))
}
