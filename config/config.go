// Package config loads the deployment settings of a duel host: the
// dictionary commitment, the verifying keys, game parameters, storage and
// logging. Values come from a TOML file layered over Default and are then
// overridden by WORDLE_DUEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"okinoko-wordle_duel/contract"
	"okinoko-wordle_duel/dictionary"
	"okinoko-wordle_duel/zk"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WORDLE_DUEL_"

// Duration is a time.Duration written as "7h", "90m" in TOML and env.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Deploy is the full host configuration.
type Deploy struct {
	Dictionary DictionaryConfig `toml:"dictionary" envPrefix:"DICTIONARY_"`
	Game       GameConfig       `toml:"game" envPrefix:"GAME_"`
	Verifier   VerifierConfig   `toml:"verifier" envPrefix:"VERIFIER_"`
	Host       HostConfig       `toml:"host" envPrefix:"HOST_"`
	Log        LogConfig        `toml:"log" envPrefix:"LOG_"`
}

// DictionaryConfig pins the Merkle commitment of the allowed words.
type DictionaryConfig struct {
	Root   string `toml:"root" env:"ROOT"`
	Depth  int    `toml:"depth" env:"DEPTH"`
	Hasher string `toml:"hasher" env:"HASHER"`
}

type GameConfig struct {
	TurnSeconds uint64   `toml:"turn_seconds" env:"TURN_SECONDS"`
	MaxTurns    uint32   `toml:"max_turns" env:"MAX_TURNS"`
	GameTTL     Duration `toml:"game_ttl" env:"GAME_TTL"`
}

// VerifierConfig points at serialized PLONK verifying keys. An empty path
// leaves that circuit unset.
type VerifierConfig struct {
	GuessKey  string `toml:"guess_key" env:"GUESS_KEY"`
	CommitKey string `toml:"commit_key" env:"COMMIT_KEY"`
	ProofSize int    `toml:"proof_size" env:"PROOF_SIZE"`
}

type HostConfig struct {
	Database   string `toml:"database" env:"DATABASE"`
	ContractID string `toml:"contract_id" env:"CONTRACT_ID"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// Default returns a Deploy with the stock game parameters and no
// dictionary root.
func Default() Deploy {
	cc := contract.DefaultConfig()
	return Deploy{
		Dictionary: DictionaryConfig{
			Depth:  dictionary.DefaultDepth,
			Hasher: "mimc",
		},
		Game: GameConfig{
			TurnSeconds: cc.TurnSeconds,
			MaxTurns:    cc.MaxTurns,
			GameTTL:     Duration(cc.GameTTL),
		},
		Verifier: VerifierConfig{
			ProofSize: 1024,
		},
		Host: HostConfig{
			Database:   "wordle-duel.db",
			ContractID: "wordle-duel",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (skipped when empty) over Default and then applies
// environment overrides.
func Load(path string) (*Deploy, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid field at once.
func (d *Deploy) Validate() error {
	var errs []error
	if _, err := dictionary.ParseDigest(d.Dictionary.Root); err != nil {
		errs = append(errs, fmt.Errorf("dictionary.root: %w", err))
	}
	if d.Dictionary.Depth < 1 || d.Dictionary.Depth > 32 {
		errs = append(errs, fmt.Errorf("dictionary.depth: %d out of range 1..32", d.Dictionary.Depth))
	}
	if _, err := dictionary.HasherByName(d.Dictionary.Hasher); err != nil {
		errs = append(errs, fmt.Errorf("dictionary.hasher: %w", err))
	}
	if d.Game.TurnSeconds == 0 {
		errs = append(errs, errors.New("game.turn_seconds must be positive"))
	}
	if d.Game.MaxTurns < 2 {
		errs = append(errs, fmt.Errorf("game.max_turns: %d, need at least 2", d.Game.MaxTurns))
	}
	if d.Game.GameTTL <= 0 {
		errs = append(errs, errors.New("game.game_ttl must be positive"))
	}
	if d.Verifier.ProofSize <= 0 {
		errs = append(errs, errors.New("verifier.proof_size must be positive"))
	}
	if strings.TrimSpace(d.Host.ContractID) == "" {
		errs = append(errs, errors.New("host.contract_id is required"))
	}
	if _, err := d.SlogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch d.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: %q is not text or json", d.Log.Format))
	}
	return errors.Join(errs...)
}

func (d *Deploy) ContractConfig() contract.Config {
	return contract.Config{
		TurnSeconds: d.Game.TurnSeconds,
		MaxTurns:    d.Game.MaxTurns,
		GameTTL:     time.Duration(d.Game.GameTTL),
	}
}

func (d *Deploy) DictionaryVerifier() (*dictionary.Verifier, error) {
	root, err := dictionary.ParseDigest(d.Dictionary.Root)
	if err != nil {
		return nil, fmt.Errorf("dictionary root: %w", err)
	}
	h, err := dictionary.HasherByName(d.Dictionary.Hasher)
	if err != nil {
		return nil, err
	}
	return dictionary.NewVerifier(root, d.Dictionary.Depth, h), nil
}

// Verifiers loads the guess and word-commit verifying keys. A circuit with
// no key path comes back as a nil interface.
func (d *Deploy) Verifiers() (guess, commit zk.Verifier, err error) {
	load := func(path string) (zk.Verifier, error) {
		if path == "" {
			return nil, nil
		}
		return zk.LoadPlonkVerifier(path, d.Verifier.ProofSize)
	}
	if guess, err = load(d.Verifier.GuessKey); err != nil {
		return nil, nil, fmt.Errorf("guess key: %w", err)
	}
	if commit, err = load(d.Verifier.CommitKey); err != nil {
		return nil, nil, fmt.Errorf("commit key: %w", err)
	}
	return guess, commit, nil
}

func (d *Deploy) SlogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(d.Log.Level))
	return l, err
}
