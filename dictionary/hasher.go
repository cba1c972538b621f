package dictionary

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/sha3"
)

// Hasher compresses two child nodes into their parent.
type Hasher interface {
	Name() string
	Hash(left, right Digest) (Digest, error)
}

// HasherByName returns the hasher registered under name.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "mimc", "mimc-bn254":
		return MiMC{}, nil
	case "keccak256", "keccak":
		return Keccak256{}, nil
	default:
		return nil, fmt.Errorf("dictionary: unknown hasher %q", name)
	}
}

// MiMC hashes over the BN254 scalar field, so both children must be
// canonical field elements.
type MiMC struct{}

func (MiMC) Name() string { return "mimc" }

func (MiMC) Hash(left, right Digest) (Digest, error) {
	var out Digest
	if !canonical(left) || !canonical(right) {
		return out, ErrNonCanonical
	}
	h := mimc.NewMiMC()
	if _, err := h.Write(left[:]); err != nil {
		return out, fmt.Errorf("dictionary: mimc: %w", err)
	}
	if _, err := h.Write(right[:]); err != nil {
		return out, fmt.Errorf("dictionary: mimc: %w", err)
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}

func canonical(d Digest) bool {
	return new(big.Int).SetBytes(d[:]).Cmp(fr.Modulus()) < 0
}

// Keccak256 is the legacy (pre-NIST) Keccak used by EVM tooling.
type Keccak256 struct{}

func (Keccak256) Name() string { return "keccak256" }

func (Keccak256) Hash(left, right Digest) (Digest, error) {
	var out Digest
	h := sha3.NewLegacyKeccak256()
	h.Write(left[:])
	h.Write(right[:])
	copy(out[:], h.Sum(nil))
	return out, nil
}
