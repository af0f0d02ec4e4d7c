package game

import (
	"math/rand"
	"time"
)

// Roller is the source of randomness for every probabilistic rule.
type Roller interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// DiceRoller handles dice rolling for the game
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller with a fixed seed, for replayable runs
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

// Float64 returns a value in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	return dr.rng.Float64()
}

// Intn returns a value in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	return dr.rng.Intn(n)
}

// Chance reports whether an event with probability p happens
func Chance(r Roller, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Between returns a uniform value in [lo, hi)
func Between(r Roller, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Pick returns a random element of list, or "" if empty
func Pick(r Roller, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[r.Intn(len(list))]
}
