package zk

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
)

// PlonkVerifier verifies BN254 PLONK proofs whose public witness is the raw
// sequence of 32-byte big-endian fields handed to Verify.
type PlonkVerifier struct {
	vk        plonk.VerifyingKey
	proofSize int
}

// NewPlonkVerifier parses a serialized verifying key. proofSize is the exact
// length every accepted proof must have.
func NewPlonkVerifier(vkBytes []byte, proofSize int) (*PlonkVerifier, error) {
	if proofSize <= 0 {
		return nil, fmt.Errorf("zk: proof size must be positive, got %d", proofSize)
	}
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifyingKey, err)
	}
	return &PlonkVerifier{vk: vk, proofSize: proofSize}, nil
}

// LoadPlonkVerifier reads a verifying key file.
func LoadPlonkVerifier(path string, proofSize int) (*PlonkVerifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("zk: read verifying key: %w", err)
	}
	return NewPlonkVerifier(raw, proofSize)
}

func (v *PlonkVerifier) ProofSize() int { return v.proofSize }

func (v *PlonkVerifier) Verify(proof, publicInputs []byte) error {
	if len(proof) != v.proofSize {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrProofLength, v.proofSize, len(proof))
	}
	p := plonk.NewProof(ecc.BN254)
	n, err := p.ReadFrom(bytes.NewReader(proof))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n != int64(len(proof)) {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, int64(len(proof))-n)
	}

	w, err := PublicWitness(publicInputs)
	if err != nil {
		return err
	}
	if err := plonk.Verify(p, v.vk, w); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}

// PublicWitness turns concatenated 32-byte fields into a gnark public witness.
func PublicWitness(buf []byte) (witness.Witness, error) {
	if len(buf) == 0 || len(buf)%FieldSize != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrPublicWitness, len(buf))
	}
	n := len(buf) / FieldSize
	values := make(chan any, n)
	for i := 0; i < n; i++ {
		x := new(big.Int).SetBytes(buf[i*FieldSize : (i+1)*FieldSize])
		if x.Cmp(fr.Modulus()) >= 0 {
			return nil, fmt.Errorf("%w: field %d out of range", ErrPublicWitness, i)
		}
		values <- x
	}
	close(values)

	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("zk: new witness: %w", err)
	}
	if err := w.Fill(n, 0, values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublicWitness, err)
	}
	return w, nil
}
