// Package dictionary checks that a word belongs to the fixed word list through
// a Merkle inclusion path, and builds the tree that list is committed to.
package dictionary

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// WordLength is the number of letters in every dictionary word.
const WordLength = 5

var (
	ErrInvalidLength    = errors.New("dictionary: word must be 5 letters")
	ErrInvalidCharacter = errors.New("dictionary: word must be lowercase a-z")
	ErrInvalidPath      = errors.New("dictionary: malformed inclusion path")
	ErrNotInDictionary  = errors.New("dictionary: path does not lead to the root")
	ErrNonCanonical     = errors.New("dictionary: value is not a canonical field element")
)

// Digest is a 32-byte big-endian tree node.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ParseDigest decodes 64 hex characters, with or without a 0x prefix.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return d, fmt.Errorf("dictionary: digest %q: %w", s, err)
	}
	if len(raw) != len(d) {
		return d, fmt.Errorf("dictionary: digest %q: want 32 bytes, got %d", s, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

// ValidateWord rejects anything that is not exactly five bytes in a..z.
func ValidateWord(word []byte) error {
	if len(word) != WordLength {
		return ErrInvalidLength
	}
	for _, c := range word {
		if c < 'a' || c > 'z' {
			return ErrInvalidCharacter
		}
	}
	return nil
}

// Leaf packs a word into its leaf value l1*256^4 + ... + l5, i.e. the five
// letter bytes right-aligned in a 32-byte big-endian word.
func Leaf(word []byte) (Digest, error) {
	var d Digest
	if err := ValidateWord(word); err != nil {
		return d, err
	}
	copy(d[len(d)-WordLength:], word)
	return d, nil
}
