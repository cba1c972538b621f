package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"okinoko-wordle_duel/config"
	"okinoko-wordle_duel/contract"
	"okinoko-wordle_duel/dictionary"
	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/store/sqlite"
	"okinoko-wordle_duel/zk"
)

// digestVerifier accepts a proof equal to the keccak digest of the inputs.
type digestVerifier struct{}

func digestProof(inputs []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(inputs)
	return h.Sum(nil)
}

func (digestVerifier) ProofSize() int { return 32 }

func (digestVerifier) Verify(proof, inputs []byte) error {
	if !bytes.Equal(proof, digestProof(inputs)) {
		return zk.ErrVerification
	}
	return nil
}

type player struct {
	addr   sdk.Address
	key    ed25519.PrivateKey
	commit [32]byte
	word   string
}

type duelTest struct {
	h     *host
	tree  *dictionary.Tree
	now   uint64
	alice player
	bob   player
}

func newPlayer(t *testing.T, seed byte, word string) player {
	t.Helper()
	addr, key, err := sdk.GenerateKey()
	require.NoError(t, err)
	var c [32]byte
	for i := range c {
		c[i] = seed
	}
	return player{addr: addr, key: key, commit: c, word: word}
}

func setupDuelTest(t *testing.T) *duelTest {
	t.Helper()
	tree, err := dictionary.Build([]string{"crane", "slate", "hello", "world", "apple"}, 4, dictionary.Keccak256{})
	require.NoError(t, err)

	deploy := config.Default()
	deploy.Dictionary.Root = tree.Root().String()
	deploy.Dictionary.Depth = 4
	deploy.Dictionary.Hasher = "keccak256"
	deploy.Host.ContractID = "duel-contract"
	require.NoError(t, deploy.Validate())

	dict, err := deploy.DictionaryVerifier()
	require.NoError(t, err)
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "duel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	duel := contract.New(dict, digestVerifier{}, digestVerifier{},
		contract.WithConfig(deploy.ContractConfig()), contract.WithLogger(logger))

	d := &duelTest{
		h:     &host{deploy: &deploy, log: logger, duel: duel, db: db},
		tree:  tree,
		now:   1_000_000,
		alice: newPlayer(t, 0x01, "slate"),
		bob:   newPlayer(t, 0x02, "crane"),
	}
	ctx := context.Background()
	require.NoError(t, db.Mint(ctx, "HIVE", d.alice.addr, 100))
	require.NoError(t, db.Mint(ctx, "HIVE", d.bob.addr, 100))
	return d
}

// callDuel signs payload with signers and runs it ten seconds after the
// previous call.
func callDuel(t *testing.T, d *duelTest, action string, payload any, signers []player, expectSuccess bool) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	env := Envelope{Action: action, Payload: string(raw)}
	for _, s := range signers {
		env.Signatures = append(env.Signatures, sdk.Sign(s.key, env.message()))
	}
	d.now += 10
	out, err := d.h.run(context.Background(), d.now, env)
	if expectSuccess {
		require.NoError(t, err, "%s", action)
	} else {
		require.Error(t, err, "%s", action)
	}
	return out
}

func (d *duelTest) commitProof(p player) (contract.HexBytes, contract.HexBytes) {
	in := zk.WordCommitInputs{Commitment: p.commit, Root: d.tree.Root()}.Encode()
	return in, digestProof(in)
}

func (d *duelTest) revealArgs(gameID string, p player) contract.RevealArgs {
	in := zk.SelfReveal(p.commit, []byte(p.word)).Encode()
	return contract.RevealArgs{GameID: gameID, Caller: p.addr, Word: p.word, PublicInputs: in, Proof: digestProof(in)}
}

func (d *duelTest) turnArgs(t *testing.T, gameID string, p player, judged string, results [5]byte, guess string) contract.TurnArgs {
	t.Helper()
	args := contract.TurnArgs{GameID: gameID, Caller: p.addr}
	if judged != "" {
		gi := zk.GuessInputs{Commitment: p.commit, Results: results}
		copy(gi.Letters[:], judged)
		args.PublicInputs = gi.Encode()
		args.Proof = digestProof(args.PublicInputs)
	}
	if guess != "" {
		siblings, sides, err := d.tree.Path(guess)
		require.NoError(t, err)
		args.Guess = guess
		args.PathIndices = sides
		for _, s := range siblings {
			s := s
			args.PathElements = append(args.PathElements, contract.HexBytes(s[:]))
		}
	}
	return args
}

func (d *duelTest) start(t *testing.T, gameID string, amount int64) {
	t.Helper()
	in, proof := d.commitProof(d.alice)
	callDuel(t, d, contract.ActionCreateGame, contract.CreateArgs{
		GameID: gameID, Player1: d.alice.addr, Commitment: d.alice.commit[:],
		Asset: "HIVE", Amount: amount, PublicInputs: in, Proof: proof,
	}, []player{d.alice}, true)

	in, proof = d.commitProof(d.bob)
	callDuel(t, d, contract.ActionJoinGame, contract.JoinArgs{
		GameID: gameID, Player2: d.bob.addr, Commitment: d.bob.commit[:], PublicInputs: in, Proof: proof,
	}, []player{d.bob}, true)
}

func (d *duelTest) view(t *testing.T, gameID string) contract.GameView {
	t.Helper()
	out := callDuel(t, d, contract.ActionGetGame, contract.GameArgs{GameID: gameID}, nil, true)
	var v contract.GameView
	require.NoError(t, json.Unmarshal(out, &v))
	return v
}

func (d *duelTest) balance(t *testing.T, p player) int64 {
	t.Helper()
	n, err := d.h.db.Balance(context.Background(), "HIVE", p.addr)
	require.NoError(t, err)
	return n
}

func TestDuelPlayedToWin(t *testing.T) {
	d := setupDuelTest(t)
	d.start(t, "duel-1", 40)

	hub, ok, err := d.h.db.HubSession(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d.alice.addr, hub.Player1)
	assert.Equal(t, sdk.Address("duel-contract"), hub.Contract)

	// bob cannot open the game
	callDuel(t, d, contract.ActionSubmitTurn, d.turnArgs(t, "duel-1", d.bob, "", [5]byte{}, "hello"), []player{d.bob}, false)
	// alice cannot sign for bob
	callDuel(t, d, contract.ActionSubmitTurn, d.turnArgs(t, "duel-1", d.bob, "", [5]byte{}, "hello"), []player{d.alice}, false)

	callDuel(t, d, contract.ActionSubmitTurn, d.turnArgs(t, "duel-1", d.alice, "", [5]byte{}, "hello"), []player{d.alice}, true)
	callDuel(t, d, contract.ActionSubmitTurn, d.turnArgs(t, "duel-1", d.bob, "hello", [5]byte{0, 1, 0, 0, 0}, "slate"), []player{d.bob}, true)

	v := d.view(t, "duel-1")
	assert.Equal(t, contract.PhaseActive, v.Phase)
	assert.Equal(t, uint32(3), v.Turn)
	assert.Equal(t, "slate", v.LastGuess)
	assert.Equal(t, []int{0, 1, 0, 0, 0}, v.LastResults)

	exact := [5]byte{2, 2, 2, 2, 2}
	callDuel(t, d, contract.ActionSubmitTurn, d.turnArgs(t, "duel-1", d.alice, "slate", exact, ""), []player{d.alice}, true)
	assert.Equal(t, contract.PhaseReveal, d.view(t, "duel-1").Phase)

	callDuel(t, d, contract.ActionRevealWord, d.revealArgs("duel-1", d.alice), []player{d.alice}, false)
	callDuel(t, d, contract.ActionRevealWord, d.revealArgs("duel-1", d.bob), []player{d.bob}, true)

	callDuel(t, d, contract.ActionWithdraw, contract.GameArgs{GameID: "duel-1", Caller: d.alice.addr}, []player{d.alice}, false)
	out := callDuel(t, d, contract.ActionWithdraw, contract.GameArgs{GameID: "duel-1", Caller: d.bob.addr}, []player{d.bob}, true)
	assert.JSONEq(t, `{"amount":80}`, string(out))
	callDuel(t, d, contract.ActionWithdraw, contract.GameArgs{GameID: "duel-1", Caller: d.bob.addr}, []player{d.bob}, false)

	assert.Equal(t, int64(60), d.balance(t, d.alice))
	assert.Equal(t, int64(140), d.balance(t, d.bob))

	v = d.view(t, "duel-1")
	assert.Equal(t, contract.PhaseFinalized, v.Phase)
	assert.Equal(t, d.bob.addr, v.Winner)
	assert.Equal(t, "crane", v.P2Word)

	hub, _, err = d.h.db.HubSession(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, hub.Ended)
	assert.Equal(t, sdk.OutcomePlayer2, hub.Outcome)
}

func TestDuelTimeoutClaim(t *testing.T) {
	d := setupDuelTest(t)
	d.start(t, "duel-2", 10)

	// the clock has not run out yet
	callDuel(t, d, contract.ActionClaimTimeout, d.revealArgs("duel-2", d.bob), []player{d.bob}, false)

	d.now += 301
	callDuel(t, d, contract.ActionSubmitTurn, d.turnArgs(t, "duel-2", d.alice, "", [5]byte{}, "hello"), []player{d.alice}, false)
	callDuel(t, d, contract.ActionClaimTimeout, d.revealArgs("duel-2", d.alice), []player{d.alice}, false)
	callDuel(t, d, contract.ActionClaimTimeout, d.revealArgs("duel-2", d.bob), []player{d.bob}, true)

	out := callDuel(t, d, contract.ActionWithdraw, contract.GameArgs{GameID: "duel-2", Caller: d.bob.addr}, []player{d.bob}, true)
	assert.JSONEq(t, `{"amount":20}`, string(out))
	assert.Equal(t, int64(90), d.balance(t, d.alice))
	assert.Equal(t, int64(110), d.balance(t, d.bob))
}

func TestDuelRejectedCallLeavesNoTrace(t *testing.T) {
	d := setupDuelTest(t)
	in, _ := d.commitProof(d.alice)
	callDuel(t, d, contract.ActionCreateGame, contract.CreateArgs{
		GameID: "duel-3", Player1: d.alice.addr, Commitment: d.alice.commit[:],
		Asset: "HIVE", Amount: 40, PublicInputs: in, Proof: make([]byte, 32),
	}, []player{d.alice}, false)

	assert.Equal(t, int64(100), d.balance(t, d.alice))
	assert.Equal(t, contract.PhaseNone, d.view(t, "duel-3").Phase)
	out := callDuel(t, d, contract.ActionGameCount, struct{}{}, nil, true)
	assert.Equal(t, "0", string(out))
}

func TestDuelSessionKey(t *testing.T) {
	d := setupDuelTest(t)
	d.start(t, "duel-4", 0)
	session := newPlayer(t, 0x09, "")

	args := contract.SessionKeyArgs{GameID: "duel-4", Player: d.alice.addr, SessionKey: session.addr}
	callDuel(t, d, contract.ActionRegisterSessionKey, args, []player{session}, false)
	callDuel(t, d, contract.ActionRegisterSessionKey, args, []player{d.alice, session}, true)

	// the session key moves for alice with only its own signature
	turn := d.turnArgs(t, "duel-4", d.alice, "", [5]byte{}, "world")
	turn.Caller = session.addr
	callDuel(t, d, contract.ActionSubmitTurn, turn, []player{session}, true)
	assert.Equal(t, uint32(2), d.view(t, "duel-4").Turn)
}

func TestDuelSessionIDsStayUniqueAcrossIdleDays(t *testing.T) {
	d := setupDuelTest(t)
	d.start(t, "duel-5", 0)

	d.now += 3 * 24 * 3600
	n, err := d.h.db.Purge(context.Background(), d.now)
	require.NoError(t, err)
	assert.Positive(t, n)

	d.start(t, "duel-6", 0)
	out := callDuel(t, d, contract.ActionGameCount, struct{}{}, nil, true)
	assert.Equal(t, "2", string(out))

	hub, ok, err := d.h.db.HubSession(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d.alice.addr, hub.Player1)
}
