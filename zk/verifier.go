package zk

// Verifier checks a proof against its public inputs under one fixed
// verifying key. Proofs have a fixed serialized size.
type Verifier interface {
	ProofSize() int
	Verify(proof, publicInputs []byte) error
}
