package wager

import "math/rand/v2"

// Rand is the outcome draw source. It exists so settlements are
// replayable in tests with a fixed sequence instead of ambient
// randomness.
type Rand interface {
	// Float64 returns a uniform sample from [0, 1).
	Float64() float64
}

type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }

// pickWinner resolves a wager by a stake-proportional draw. The opponent
// wins iff r < opponentAmount/total; r == p resolves to the creator so
// the boundary is deterministic.
func pickWinner(r float64, creatorAmount, opponentAmount int64) (opponentWins bool) {
	total := creatorAmount + opponentAmount
	pOpponent := float64(opponentAmount) / float64(total)

	return r < pOpponent
}
