package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"okinoko-wordle_duel/config"
	"okinoko-wordle_duel/contract"
	"okinoko-wordle_duel/dictionary"
	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/store/sqlite"
)

// ErrNoSubcommand is returned by Tree without build or path.
var ErrNoSubcommand = errors.New("expected subcommand build or path")

// CLI runs the wordle-duel commands against a local host database.
type CLI struct {
	output io.Writer
	errOut io.Writer
	now    func() time.Time
}

func NewCLI(output, errOut io.Writer) *CLI {
	return &CLI{output: output, errOut: errOut, now: time.Now}
}

// Envelope is a call plus the signatures authorizing it. Payload is kept as
// a string so the signed bytes survive re-encoding.
type Envelope struct {
	Action     string          `json:"action"`
	Payload    string          `json:"payload"`
	Signatures []sdk.Signature `json:"signatures,omitempty"`
}

func (e Envelope) message() []byte { return sdk.CallMessage(e.Action, []byte(e.Payload)) }

// PathOutput is the inclusion proof of one word, shaped for turn payloads.
type PathOutput struct {
	Word         string              `json:"word"`
	Root         string              `json:"root"`
	PathElements []contract.HexBytes `json:"pathElements"`
	PathIndices  []uint32            `json:"pathIndices"`
}

type listFlag []string

func (l *listFlag) String() string     { return strings.Join(*l, ",") }
func (l *listFlag) Set(v string) error { *l = append(*l, v); return nil }

func (c *CLI) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ---------- dictionary ----------

func (c *CLI) Tree(args []string) error {
	if len(args) == 0 {
		return ErrNoSubcommand
	}
	fs := c.flags("tree " + args[0])
	words := fs.String("words", "", "word list, one word per line")
	depth := fs.Int("depth", dictionary.DefaultDepth, "tree depth")
	hasher := fs.String("hasher", "mimc", "node hash: mimc or keccak256")
	out := fs.String("out", "", "export file (build)")
	word := fs.String("word", "", "word to prove (path)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	tree, err := buildTree(*words, *depth, *hasher)
	if err != nil {
		return err
	}

	switch args[0] {
	case "build":
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				return fmt.Errorf("create export: %w", err)
			}
			if err := tree.WriteJSON(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(c.output, "root %s (%d words, depth %d, %s)\n",
			tree.Root(), tree.Len(), tree.Depth(), tree.Hasher().Name())
		return err
	case "path":
		siblings, sides, err := tree.Path(strings.ToLower(*word))
		if err != nil {
			return err
		}
		p := PathOutput{Word: strings.ToLower(*word), Root: tree.Root().String(), PathIndices: sides}
		for _, s := range siblings {
			s := s
			p.PathElements = append(p.PathElements, contract.HexBytes(s[:]))
		}
		return c.writeJSON(p)
	default:
		return fmt.Errorf("%w, got %q", ErrNoSubcommand, args[0])
	}
}

func buildTree(path string, depth int, hasherName string) (*dictionary.Tree, error) {
	if path == "" {
		return nil, errors.New("-words is required")
	}
	h, err := dictionary.HasherByName(hasherName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	words, err := dictionary.ReadWords(f)
	if err != nil {
		return nil, err
	}
	return dictionary.Build(words, depth, h)
}

// ---------- identities ----------

// Keygen writes the hex seed of a new key to -out and prints its address.
func (c *CLI) Keygen(args []string) error {
	fs := c.flags("keygen")
	out := fs.String("out", "", "key file to create")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-out is required")
	}
	addr, priv, err := sdk.GenerateKey()
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, []byte(hex.EncodeToString(priv.Seed())+"\n"), 0o600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	_, err = fmt.Fprintln(c.output, addr)
	return err
}

func loadKey(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key %s: not a hex ed25519 seed", path)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func (c *CLI) NewID() error {
	_, err := fmt.Fprintln(c.output, uuid.NewString())
	return err
}

// Sign adds one signature per -key to an envelope. A new envelope is
// started from -action/-payload when -in is empty.
func (c *CLI) Sign(args []string) error {
	fs := c.flags("sign")
	in := fs.String("in", "", "existing envelope file")
	action := fs.String("action", "", "action name for a new envelope")
	payload := fs.String("payload", "", "JSON payload, or @file")
	var keys listFlag
	fs.Var(&keys, "key", "key file (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var env Envelope
	if *in != "" {
		var err error
		if env, err = readEnvelope(*in); err != nil {
			return err
		}
	} else {
		body, err := readPayload(*payload)
		if err != nil {
			return err
		}
		env = Envelope{Action: *action, Payload: body}
	}
	if env.Action == "" {
		return errors.New("envelope has no action")
	}
	msg := env.message()
	for _, k := range keys {
		priv, err := loadKey(k)
		if err != nil {
			return err
		}
		env.Signatures = append(env.Signatures, sdk.Sign(priv, msg))
	}
	return c.writeJSON(env)
}

func readPayload(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		if arg == "" {
			return "{}", nil
		}
		return arg, nil
	}
	raw, err := os.ReadFile(arg[1:])
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func readEnvelope(path string) (Envelope, error) {
	var env Envelope
	raw, err := os.ReadFile(path)
	if err != nil {
		return env, fmt.Errorf("read envelope: %w", err)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("parse envelope: %w", err)
	}
	return env, nil
}

// ---------- host ----------

// host is one opened deployment: config, contract and database.
type host struct {
	deploy *config.Deploy
	log    *slog.Logger
	duel   *contract.Contract
	db     *sqlite.Host
}

func (c *CLI) openHost(cfgPath string) (*host, error) {
	deploy, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := deploy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := newLogger(deploy, c.errOut)
	if err != nil {
		return nil, err
	}
	dict, err := deploy.DictionaryVerifier()
	if err != nil {
		return nil, err
	}
	guess, commit, err := deploy.Verifiers()
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(deploy.Host.Database)
	if err != nil {
		return nil, err
	}
	duel := contract.New(dict, guess, commit,
		contract.WithConfig(deploy.ContractConfig()),
		contract.WithLogger(logger))
	return &host{deploy: deploy, log: logger, duel: duel, db: db}, nil
}

func newLogger(deploy *config.Deploy, w io.Writer) (*slog.Logger, error) {
	level, err := deploy.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if deploy.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// run executes one envelope inside a database transaction. Contract events
// are logged only once the transaction committed.
func (h *host) run(ctx context.Context, now uint64, env Envelope) ([]byte, error) {
	auth, err := sdk.NewSignatureAuth(env.message(), env.Signatures)
	if err != nil {
		return nil, err
	}
	chainEnv := sdk.Env{ContractID: sdk.Address(h.deploy.Host.ContractID), Timestamp: now}

	var (
		out    []byte
		events []string
	)
	err = h.db.Call(ctx, now, func(tx *sqlite.Tx) error {
		chain := sdk.Compose(tx, tx, auth, tx, chainEnv, func(msg string) { events = append(events, msg) })
		var err error
		out, err = h.duel.Dispatch(chain, env.Action, []byte(env.Payload))
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		h.log.Info("contract event", "action", env.Action, "event", json.RawMessage(e))
	}
	return out, nil
}

func (c *CLI) nowFlag(fs *flag.FlagSet) *uint64 {
	return fs.Uint64("now", 0, "ledger time in unix seconds (default: wall clock)")
}

func (c *CLI) ledgerTime(v uint64) uint64 {
	if v != 0 {
		return v
	}
	return uint64(c.now().Unix())
}

func (c *CLI) Call(args []string) error {
	fs := c.flags("call")
	cfgPath := fs.String("config", "", "deployment TOML")
	in := fs.String("in", "", "signed envelope file")
	now := c.nowFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	env, err := readEnvelope(*in)
	if err != nil {
		return err
	}

	h, err := c.openHost(*cfgPath)
	if err != nil {
		return err
	}
	defer h.db.Close()

	out, err := h.run(context.Background(), c.ledgerTime(*now), env)
	if err != nil {
		if code, ok := contract.CodeOf(err); ok {
			return fmt.Errorf("%s rejected (code %d): %w", env.Action, uint32(code), err)
		}
		return err
	}
	if out == nil {
		_, err = fmt.Fprintln(c.output, "ok")
		return err
	}
	_, err = fmt.Fprintf(c.output, "%s\n", out)
	return err
}

func (c *CLI) Get(args []string) error {
	fs := c.flags("get")
	cfgPath := fs.String("config", "", "deployment TOML")
	game := fs.String("game", "", "game id")
	now := c.nowFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	payload, err := json.Marshal(contract.GameArgs{GameID: *game})
	if err != nil {
		return err
	}
	h, err := c.openHost(*cfgPath)
	if err != nil {
		return err
	}
	defer h.db.Close()

	out, err := h.run(context.Background(), c.ledgerTime(*now),
		Envelope{Action: contract.ActionGetGame, Payload: string(payload)})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.output, "%s\n", out)
	return err
}

func (c *CLI) Mint(args []string) error {
	fs := c.flags("mint")
	cfgPath := fs.String("config", "", "deployment TOML")
	asset := fs.String("asset", "", "asset name")
	to := fs.String("to", "", "recipient address")
	amount := fs.Int64("amount", 0, "amount to credit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	h, err := c.openHost(*cfgPath)
	if err != nil {
		return err
	}
	defer h.db.Close()

	if err := h.db.Mint(context.Background(), sdk.Asset(*asset), sdk.Address(*to), *amount); err != nil {
		return err
	}
	h.log.Info("minted", "asset", *asset, "to", *to, "amount", *amount)
	return nil
}

func (c *CLI) Balance(args []string) error {
	fs := c.flags("balance")
	cfgPath := fs.String("config", "", "deployment TOML")
	asset := fs.String("asset", "", "asset name")
	addr := fs.String("address", "", "account address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	h, err := c.openHost(*cfgPath)
	if err != nil {
		return err
	}
	defer h.db.Close()

	amount, err := h.db.Balance(context.Background(), sdk.Asset(*asset), sdk.Address(*addr))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.output, amount)
	return err
}

func (c *CLI) Purge(args []string) error {
	fs := c.flags("purge")
	cfgPath := fs.String("config", "", "deployment TOML")
	now := c.nowFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	h, err := c.openHost(*cfgPath)
	if err != nil {
		return err
	}
	defer h.db.Close()

	n, err := h.db.Purge(context.Background(), c.ledgerTime(*now))
	if err != nil {
		return err
	}
	h.log.Info("purged expired state", "keys", n)
	return nil
}
