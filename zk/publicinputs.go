// Package zk binds proof public inputs to game state and verifies PLONK
// proofs over BN254.
package zk

import (
	"errors"
	"fmt"
)

// Layout of the guess-result public inputs: eleven 32-byte big-endian fields.
const (
	FieldSize        = 32
	WordLength       = 5
	CommitmentOffset = 0
	LettersOffset    = 32
	ResultsOffset    = 192
	GuessInputsSize  = 352

	// WordCommitInputsSize covers [commitment, merkle_root].
	WordCommitInputsSize = 64

	// ResultExact marks a letter in the right position.
	ResultExact byte = 2
)

var (
	ErrInputsLength  = errors.New("zk: wrong public inputs length")
	ErrNonCanonical  = errors.New("zk: letter or result field has non-zero high bytes")
	ErrProofLength   = errors.New("zk: wrong proof length")
	ErrMalformed     = errors.New("zk: malformed proof")
	ErrVerifyingKey  = errors.New("zk: bad verifying key")
	ErrVerification  = errors.New("zk: proof verification failed")
	ErrPublicWitness = errors.New("zk: public inputs are not field elements")
)

// GuessInputs is the decoded public side of a guess-result proof: the
// judge's commitment, the guessed letters and the five feedback codes.
type GuessInputs struct {
	Commitment [32]byte
	Letters    [WordLength]byte
	Results    [WordLength]byte
}

// ParseGuessInputs decodes buf. Letter and result fields must carry their
// value in the last byte with the other 31 bytes zero, so the circuit sees
// the same value the contract compares.
func ParseGuessInputs(buf []byte) (GuessInputs, error) {
	var in GuessInputs
	if len(buf) != GuessInputsSize {
		return in, fmt.Errorf("%w: want %d bytes, got %d", ErrInputsLength, GuessInputsSize, len(buf))
	}
	copy(in.Commitment[:], buf[CommitmentOffset:CommitmentOffset+FieldSize])
	for i := 0; i < WordLength; i++ {
		l, err := lastByte(buf, LettersOffset+FieldSize*i)
		if err != nil {
			return in, fmt.Errorf("letter %d: %w", i, err)
		}
		r, err := lastByte(buf, ResultsOffset+FieldSize*i)
		if err != nil {
			return in, fmt.Errorf("result %d: %w", i, err)
		}
		in.Letters[i], in.Results[i] = l, r
	}
	return in, nil
}

func lastByte(buf []byte, off int) (byte, error) {
	field := buf[off : off+FieldSize]
	for _, b := range field[:FieldSize-1] {
		if b != 0 {
			return 0, ErrNonCanonical
		}
	}
	return field[FieldSize-1], nil
}

// LettersEqual reports whether the proof judged exactly word.
func (in GuessInputs) LettersEqual(word []byte) bool {
	if len(word) != WordLength {
		return false
	}
	for i := range in.Letters {
		if in.Letters[i] != word[i] {
			return false
		}
	}
	return true
}

// AllExact reports whether every result code is ResultExact.
func (in GuessInputs) AllExact() bool {
	for _, r := range in.Results {
		if r != ResultExact {
			return false
		}
	}
	return true
}

// Encode lays in out in the wire format accepted by ParseGuessInputs.
func (in GuessInputs) Encode() []byte {
	buf := make([]byte, GuessInputsSize)
	copy(buf[CommitmentOffset:], in.Commitment[:])
	for i := 0; i < WordLength; i++ {
		buf[LettersOffset+FieldSize*i+FieldSize-1] = in.Letters[i]
		buf[ResultsOffset+FieldSize*i+FieldSize-1] = in.Results[i]
	}
	return buf
}

// SelfReveal builds the inputs of a proof that word matches its own
// commitment: letters are the word and every code is exact.
func SelfReveal(commitment [32]byte, word []byte) GuessInputs {
	in := GuessInputs{Commitment: commitment}
	copy(in.Letters[:], word)
	for i := range in.Results {
		in.Results[i] = ResultExact
	}
	return in
}

// WordCommitInputs is the public side of a word-commit proof.
type WordCommitInputs struct {
	Commitment [32]byte
	Root       [32]byte
}

func ParseWordCommitInputs(buf []byte) (WordCommitInputs, error) {
	var in WordCommitInputs
	if len(buf) != WordCommitInputsSize {
		return in, fmt.Errorf("%w: want %d bytes, got %d", ErrInputsLength, WordCommitInputsSize, len(buf))
	}
	copy(in.Commitment[:], buf[:FieldSize])
	copy(in.Root[:], buf[FieldSize:])
	return in, nil
}

func (in WordCommitInputs) Encode() []byte {
	buf := make([]byte, 0, WordCommitInputsSize)
	buf = append(buf, in.Commitment[:]...)
	return append(buf, in.Root[:]...)
}
