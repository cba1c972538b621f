package contract

// remaining is what is left of a budget that runs out at deadline.
func remaining(deadline, now uint64) uint64 {
	if now >= deadline {
		return 0
	}
	return deadline - now
}

// startClock gives both players the full budget and starts player 1's.
func (c *Contract) startClock(g *Game, now uint64) {
	g.P1Time = c.cfg.TurnSeconds
	g.P2Time = c.cfg.TurnSeconds
	g.Deadline = now + g.P1Time
}

// passTurn banks the mover's unused time, hands the clock to the opponent
// and advances the turn.
func passTurn(g *Game, now uint64) {
	left := remaining(g.Deadline, now)
	if g.Turn%2 == 1 {
		g.P1Time = left
		g.Deadline = now + g.P2Time
	} else {
		g.P2Time = left
		g.Deadline = now + g.P1Time
	}
	g.Turn++
}
