package sdk

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ErrBadSignature is returned when a call envelope carries a signature that
// does not verify against its signer address.
var ErrBadSignature = errors.New("bad signature")

// Signature is one signer's approval of a call envelope.
type Signature struct {
	Signer Address `json:"signer"`
	Sig    []byte  `json:"sig"`
}

// GenerateKey creates an ed25519 keypair and its address.
func GenerateKey() (Address, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate ed25519 keypair: %w", err)
	}
	return AddressFromPublicKey(pub), priv, nil
}

// AddressFromPublicKey encodes an ed25519 public key as a base58 address.
func AddressFromPublicKey(pub ed25519.PublicKey) Address {
	return Address(base58.Encode(pub))
}

// PublicKey decodes the ed25519 key behind a base58 address.
func PublicKey(addr Address) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(string(addr))
	if err != nil {
		return nil, fmt.Errorf("address %q: %w", addr, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("address %q: want %d key bytes, got %d", addr, ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// CallMessage is the byte string signed for a call: the action name, a
// newline, then the raw payload.
func CallMessage(action string, payload []byte) []byte {
	msg := make([]byte, 0, len(action)+1+len(payload))
	msg = append(msg, action...)
	msg = append(msg, '\n')
	return append(msg, payload...)
}

// Sign approves message with priv.
func Sign(priv ed25519.PrivateKey, message []byte) Signature {
	pub := priv.Public().(ed25519.PublicKey)
	return Signature{Signer: AddressFromPublicKey(pub), Sig: ed25519.Sign(priv, message)}
}

// SignatureAuth authorizes exactly the addresses whose signatures over one
// call message verified.
type SignatureAuth struct {
	signers map[Address]bool
}

// NewSignatureAuth checks every signature against message. A single bad
// signature rejects the whole envelope.
func NewSignatureAuth(message []byte, sigs []Signature) (*SignatureAuth, error) {
	a := &SignatureAuth{signers: make(map[Address]bool, len(sigs))}
	for _, s := range sigs {
		pub, err := PublicKey(s.Signer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
		}
		if !ed25519.Verify(pub, message, s.Sig) {
			return nil, fmt.Errorf("%w: from %s", ErrBadSignature, s.Signer)
		}
		a.signers[s.Signer] = true
	}
	return a, nil
}

func (a *SignatureAuth) RequireAuth(addr Address) error {
	if !a.signers[addr] {
		return fmt.Errorf("%w: %q", ErrNotAuthorized, addr)
	}
	return nil
}
