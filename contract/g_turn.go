package contract

import (
	"okinoko-wordle_duel/sdk"
	"okinoko-wordle_duel/zk"
)

// SubmitTurn plays one move. On turn 1 player 1 only places a guess. From
// turn 2 on the mover first proves the feedback for the opponent's pending
// guess against their own commitment, then places their next guess. An
// all-exact judgement means the opponent found the word; the last turn can
// only judge, and ends the game in a draw unless the guess was exact.
func (c *Contract) SubmitTurn(chain sdk.Chain, in TurnArgs) error {
	return c.run(chain, "submit_turn", in.GameID, func(tx *txn) error {
		g, err := loadGame(tx, in.GameID)
		if err != nil {
			return err
		}
		actor, err := resolveCaller(chain, tx, g.ID, in.Caller)
		if err != nil {
			return err
		}
		if g.Phase != PhaseActive {
			return wrap(ErrWrongPhase, "game is %s", g.Phase)
		}
		now := chain.Env().Timestamp
		if now > g.Deadline {
			return wrap(ErrGameExpired, "deadline %d passed at %d", g.Deadline, now)
		}
		if actor != g.toMove() {
			return wrap(ErrNotYourTurn, "turn %d belongs to %s", g.Turn, g.toMove())
		}

		if g.Turn == 1 {
			return c.placeGuess(tx, g, actor, in, now, nil)
		}

		results, err := c.judge(g, actor, in)
		if err != nil {
			return err
		}
		g.LastResults = results[:]

		if allExact(results) {
			g.Winner = g.opponentOf(actor)
			g.Phase = PhaseReveal
			c.saveGame(tx, g)
			tx.emit(EventTurnSubmitted(g.ID, actor, g.Turn, nil, g.LastResults))
			c.log.Info("word found", "game", g.ID, "turn", g.Turn, "winner", g.Winner)
			return nil
		}

		if g.Turn >= c.cfg.MaxTurns {
			g.Phase = PhaseDraw
			g.P1Revealed, g.P2Revealed = false, false
			c.saveGame(tx, g)
			if err := chain.EndGame(g.SessionID, sdk.OutcomeDraw); err != nil {
				return wrap(ErrHubFailed, "end game: %v", err)
			}
			tx.emit(EventTurnSubmitted(g.ID, actor, g.Turn, nil, g.LastResults))
			tx.emit(EventGameDraw(g.ID))
			c.log.Info("game drawn", "game", g.ID, "turn", g.Turn)
			return nil
		}

		return c.placeGuess(tx, g, actor, in, now, g.LastResults)
	})
}

// judge checks the mover's proof of feedback for the pending guess.
func (c *Contract) judge(g *Game, actor sdk.Address, in TurnArgs) ([zk.WordLength]byte, error) {
	var none [zk.WordLength]byte
	inputs, err := zk.ParseGuessInputs(in.PublicInputs)
	if err != nil {
		return none, wrap(ErrInvalidPublicInputs, "%v", err)
	}
	if inputs.Commitment != g.commitmentOf(g.seat(actor)) {
		return none, wrap(ErrGuessWordMismatch, "proof is not against your commitment")
	}
	if !inputs.LettersEqual(g.LastGuess) {
		return none, wrap(ErrGuessWordMismatch, "proof does not judge the pending guess %q", g.LastGuess)
	}
	if err := verifyProof(c.guess, in.Proof, in.PublicInputs); err != nil {
		return none, err
	}
	return inputs.Results, nil
}

// placeGuess stores the mover's next guess and passes the clock.
func (c *Contract) placeGuess(tx *txn, g *Game, actor sdk.Address, in TurnArgs, now uint64, judged []byte) error {
	if err := c.checkGuess(in.Guess, in.PathElements, in.PathIndices); err != nil {
		return err
	}
	g.LastGuess = []byte(in.Guess)
	turn := g.Turn
	passTurn(g, now)
	c.saveGame(tx, g)
	tx.emit(EventTurnSubmitted(g.ID, actor, turn, g.LastGuess, judged))
	return nil
}

func allExact(r [zk.WordLength]byte) bool {
	return zk.GuessInputs{Results: r}.AllExact()
}
