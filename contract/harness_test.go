package contract

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"okinoko-wordle_duel/dictionary"
	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/zk"
)

const (
	alice    sdk.Address = "alice"
	bob      sdk.Address = "bob"
	mallory  sdk.Address = "mallory"
	escrowID sdk.Address = "duel-contract"
	hive     sdk.Asset   = "HIVE"

	startTime  uint64 = 1_700_000_000
	guessSize         = 128
	commitSize        = 96
)

var testWords = []string{"crane", "slate", "apple", "hello", "world", "pious", "zesty", "ghost"}

// fakeVerifier stands in for the circuits: it accepts exactly the proof
// fakeProve makes for the inputs, and only if the inputs are true, i.e. the
// commitment hides a dictionary word and the results are that word's honest
// feedback for the letters.
type fakeVerifier struct{ size int }

func (f fakeVerifier) ProofSize() int { return f.size }

func (f fakeVerifier) Verify(proof, inputs []byte) error {
	if len(proof) != f.size {
		return zk.ErrProofLength
	}
	if !bytes.Equal(proof, fakeProve(inputs, f.size)) {
		return zk.ErrVerification
	}
	switch len(inputs) {
	case zk.GuessInputsSize:
		in, err := zk.ParseGuessInputs(inputs)
		if err != nil {
			return err
		}
		secret, ok := committedWord(in.Commitment)
		if !ok || score(secret, string(in.Letters[:])) != in.Results {
			return zk.ErrVerification
		}
	case zk.WordCommitInputsSize:
		in, err := zk.ParseWordCommitInputs(inputs)
		if err != nil {
			return err
		}
		if _, ok := committedWord(in.Commitment); !ok {
			return zk.ErrVerification
		}
	}
	return nil
}

func committedWord(c [32]byte) (string, bool) {
	for _, w := range testWords {
		if commitmentFor(w) == c {
			return w, true
		}
	}
	return "", false
}

func fakeProve(inputs []byte, size int) []byte {
	sum := sha256.Sum256(inputs)
	out := make([]byte, size)
	copy(out, sum[:])
	return out
}

func commitmentFor(word string) [32]byte {
	return sha256.Sum256([]byte("salt:" + word))
}

// score is the feedback an honest judge holding secret gives for guess.
func score(secret, guess string) [zk.WordLength]byte {
	var out [zk.WordLength]byte
	for i := 0; i < zk.WordLength; i++ {
		switch {
		case guess[i] == secret[i]:
			out[i] = zk.ResultExact
		case bytes.IndexByte([]byte(secret), guess[i]) >= 0:
			out[i] = 1
		}
	}
	return out
}

type harness struct {
	t       *testing.T
	chain   *sdk.MockChain
	c       *Contract
	tree    *dictionary.Tree
	secrets map[sdk.Address]string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	tree, err := dictionary.Build(testWords, 4, dictionary.Keccak256{})
	require.NoError(t, err)
	dict := dictionary.NewVerifier(tree.Root(), tree.Depth(), dictionary.Keccak256{})

	chain := sdk.NewMockChain(escrowID, startTime)
	for _, p := range []sdk.Address{alice, bob, mallory} {
		chain.Mint(hive, p, 1000)
	}
	return &harness{
		t:       t,
		chain:   chain,
		c:       New(dict, fakeVerifier{guessSize}, fakeVerifier{commitSize}, opts...),
		tree:    tree,
		secrets: map[sdk.Address]string{alice: "slate", bob: "crane"},
	}
}

// as runs fn atomically with only signers authorized.
func (h *harness) as(fn func() error, signers ...sdk.Address) error {
	h.chain.Authorize(signers...)
	return h.chain.Call(fn)
}

func (h *harness) wordCommit(player sdk.Address) (HexBytes, HexBytes, HexBytes) {
	c := commitmentFor(h.secrets[player])
	inputs := zk.WordCommitInputs{Commitment: c, Root: h.tree.Root()}.Encode()
	return c[:], inputs, fakeProve(inputs, commitSize)
}

func (h *harness) createArgs(id string, amount int64) CreateArgs {
	c, inputs, proof := h.wordCommit(alice)
	return CreateArgs{GameID: id, Player1: alice, Commitment: c, Asset: hive, Amount: amount, PublicInputs: inputs, Proof: proof}
}

func (h *harness) joinArgs(id string) JoinArgs {
	c, inputs, proof := h.wordCommit(bob)
	return JoinArgs{GameID: id, Player2: bob, Commitment: c, PublicInputs: inputs, Proof: proof}
}

func (h *harness) create(id string, amount int64) error {
	args := h.createArgs(id, amount)
	return h.as(func() error { return h.c.CreateGame(h.chain, args) }, alice)
}

func (h *harness) join(id string) error {
	args := h.joinArgs(id)
	return h.as(func() error { return h.c.JoinGame(h.chain, args) }, bob)
}

// start creates and joins a game staking amount each.
func (h *harness) start(id string, amount int64) {
	h.t.Helper()
	require.NoError(h.t, h.create(id, amount))
	require.NoError(h.t, h.join(id))
}

// path attaches the dictionary path of guess to args.
func (h *harness) path(args *TurnArgs, guess string) {
	h.t.Helper()
	args.Guess = guess
	if guess == "" {
		return
	}
	sib, sides, err := h.tree.Path(guess)
	require.NoError(h.t, err)
	args.PathIndices = sides
	for _, s := range sib {
		s := s
		args.PathElements = append(args.PathElements, HexBytes(s[:]))
	}
}

// turnArgs builds an honest move for mover: judge the pending guess (from
// turn 2 on) and place guess.
func (h *harness) turnArgs(id string, mover sdk.Address, guess string) TurnArgs {
	h.t.Helper()
	args := TurnArgs{GameID: id, Caller: mover}
	h.path(&args, guess)
	if h.c.Turn(h.chain, id) >= 2 {
		pending := string(h.c.LastGuess(h.chain, id))
		in := zk.GuessInputs{
			Commitment: commitmentFor(h.secrets[mover]),
			Results:    score(h.secrets[mover], pending),
		}
		copy(in.Letters[:], pending)
		args.PublicInputs = in.Encode()
		args.Proof = fakeProve(args.PublicInputs, guessSize)
	}
	return args
}

func (h *harness) submit(args TurnArgs, signers ...sdk.Address) error {
	if len(signers) == 0 {
		signers = []sdk.Address{args.Caller}
	}
	return h.as(func() error { return h.c.SubmitTurn(h.chain, args) }, signers...)
}

func (h *harness) turn(id string, mover sdk.Address, guess string) error {
	return h.submit(h.turnArgs(id, mover, guess))
}

func (h *harness) revealArgs(id string, player sdk.Address, word string) RevealArgs {
	in := zk.SelfReveal(commitmentFor(h.secrets[player]), []byte(word)).Encode()
	return RevealArgs{GameID: id, Caller: player, Word: word, PublicInputs: in, Proof: fakeProve(in, guessSize)}
}

func (h *harness) reveal(id string, player sdk.Address) error {
	args := h.revealArgs(id, player, h.secrets[player])
	return h.as(func() error { return h.c.RevealWord(h.chain, args) }, player)
}

func (h *harness) revealDraw(id string, player sdk.Address) error {
	args := h.revealArgs(id, player, h.secrets[player])
	return h.as(func() error { return h.c.RevealWordDraw(h.chain, args) }, player)
}

func (h *harness) claim(id string, player sdk.Address) error {
	args := h.revealArgs(id, player, h.secrets[player])
	return h.as(func() error { return h.c.ClaimTimeout(h.chain, args) }, player)
}

func (h *harness) resign(id string, player sdk.Address) error {
	return h.as(func() error { return h.c.Resign(h.chain, GameArgs{GameID: id, Caller: player}) }, player)
}

func (h *harness) withdraw(id string, caller sdk.Address) (int64, error) {
	var paid int64
	err := h.as(func() error {
		var err error
		paid, err = h.c.Withdraw(h.chain, GameArgs{GameID: id, Caller: caller})
		return err
	}, caller)
	return paid, err
}

func (h *harness) balance(a sdk.Address) int64 { return h.chain.Balance(hive, a) }
