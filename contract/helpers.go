package contract

import (
	"errors"

	"okinoko-wordle_duel/dictionary"
	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/zk"
)

const maxGameIDLen = 64

// validateGameID allows 1-64 characters of [A-Za-z0-9-].
func validateGameID(id string) error {
	if id == "" || len(id) > maxGameIDLen {
		return wrap(ErrInvalidGameID, "length %d", len(id))
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-') {
			return wrap(ErrInvalidGameID, "character %q", c)
		}
	}
	return nil
}

func toCommitment(b []byte) ([32]byte, error) {
	var out [32]byte
	if len(b) != len(out) {
		return out, wrap(ErrInvalidCommitment, "want 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func requireAuth(chain sdk.Chain, addr sdk.Address) error {
	if err := chain.RequireAuth(addr); err != nil {
		return wrap(ErrUnauthorized, "%v", err)
	}
	return nil
}

// resolveCaller authenticates caller and maps a session key registered for
// this game onto the player it acts for.
func resolveCaller(chain sdk.Chain, kv getter, gameID string, caller sdk.Address) (sdk.Address, error) {
	if err := requireAuth(chain, caller); err != nil {
		return "", err
	}
	b, ok, err := loadBinding(kv, caller)
	if err != nil {
		return "", err
	}
	if ok && b.GameID == gameID {
		return b.Player, nil
	}
	return caller, nil
}

// ---------- dictionary ----------

// checkGuess verifies a guess and its inclusion path against the dictionary.
func (c *Contract) checkGuess(guess string, path []HexBytes, sides []uint32) error {
	word := []byte(guess)
	if err := dictionary.ValidateWord(word); err != nil {
		return dictError(err)
	}
	if len(path) != c.dict.Depth() || len(sides) != c.dict.Depth() {
		return wrap(ErrInvalidMerkleProof, "path length %d/%d, depth %d", len(path), len(sides), c.dict.Depth())
	}
	siblings := make([]dictionary.Digest, len(path))
	for i, p := range path {
		if len(p) != len(siblings[i]) {
			return wrap(ErrInvalidMerkleProof, "sibling %d has %d bytes", i, len(p))
		}
		copy(siblings[i][:], p)
	}
	if err := c.dict.Verify(word, siblings, sides); err != nil {
		return dictError(err)
	}
	return nil
}

func dictError(err error) error {
	switch {
	case errors.Is(err, dictionary.ErrInvalidLength):
		return wrap(ErrInvalidGuessLength, "%v", err)
	case errors.Is(err, dictionary.ErrInvalidCharacter):
		return wrap(ErrInvalidCharacter, "%v", err)
	default:
		return wrap(ErrInvalidMerkleProof, "%v", err)
	}
}

// ---------- proofs ----------

// verifyProof runs v, checking the proof length first.
func verifyProof(v zk.Verifier, proof, inputs []byte) error {
	if v == nil {
		return ErrVkNotSet
	}
	if len(proof) != v.ProofSize() {
		return wrap(ErrProofParse, "proof has %d bytes, want %d", len(proof), v.ProofSize())
	}
	err := v.Verify(proof, inputs)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, zk.ErrProofLength), errors.Is(err, zk.ErrMalformed):
		return wrap(ErrProofParse, "%v", err)
	case errors.Is(err, zk.ErrVerifyingKey):
		return wrap(ErrVkParse, "%v", err)
	case errors.Is(err, zk.ErrPublicWitness), errors.Is(err, zk.ErrInputsLength):
		return wrap(ErrInvalidPublicInputs, "%v", err)
	default:
		return wrap(ErrVerificationFailed, "%v", err)
	}
}

// verifyWordCommit checks a create/join proof: it must bind commitment to a
// word of the deployed dictionary.
func (c *Contract) verifyWordCommit(commitment [32]byte, inputs, proof []byte) error {
	if c.commit == nil {
		return ErrVkNotSet
	}
	in, err := zk.ParseWordCommitInputs(inputs)
	if err != nil {
		return wrap(ErrInvalidPublicInputs, "%v", err)
	}
	if in.Commitment != commitment {
		return wrap(ErrGuessWordMismatch, "word-commit proof is for another commitment")
	}
	if in.Root != [32]byte(c.dict.Root()) {
		return wrap(ErrInvalidMerkleProof, "word-commit proof uses another dictionary root")
	}
	return verifyProof(c.commit, proof, inputs)
}

// checkSelfReveal accepts word only with a guess-result proof in which the
// revealer judged their own word as all exact against their commitment.
func (c *Contract) checkSelfReveal(commitment [32]byte, word string, inputs, proof []byte) error {
	in, err := zk.ParseGuessInputs(inputs)
	if err != nil {
		return wrap(ErrInvalidPublicInputs, "%v", err)
	}
	if in.Commitment != commitment {
		return wrap(ErrInvalidReveal, "commitment mismatch")
	}
	if len(word) != WordLength {
		return wrap(ErrInvalidGuessLength, "word has %d letters", len(word))
	}
	if !in.LettersEqual([]byte(word)) {
		return wrap(ErrInvalidReveal, "letters do not spell the word")
	}
	if !in.AllExact() {
		return wrap(ErrInvalidReveal, "not all letters exact")
	}
	return verifyProof(c.guess, proof, inputs)
}
