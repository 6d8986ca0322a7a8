package services

import (
	"math/rand/v2"
	"time"
)

const (
	// EarlyArrivalProbability is the share of riders arriving in the early window.
	EarlyArrivalProbability = 0.7

	EarlyArrivalMin = 3 * time.Second
	EarlyArrivalMax = 10 * time.Second
	LateArrivalMin  = 15 * time.Second
	LateArrivalMax  = 25 * time.Second
)

// RandomSource yields pseudo-random numbers in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 {
	return rand.Float64()
}

// ArrivalDelayPolicy decides how long after creation the rider of an order arrives.
//
// Business rules:
//   - with probability 0.7 the delay is uniform in [3s, 10s)
//   - otherwise the delay is uniform in [15s, 25s)
//   - no delay falls in [10s, 15s)
//
// Example usage:
//
//	policy := NewArrivalDelayPolicy(nil) // process-wide random source
//	delay := policy.NextDelay()
//	time.AfterFunc(delay, markArrived)
type ArrivalDelayPolicy struct {
	random RandomSource
}

// NewArrivalDelayPolicy creates a policy drawing from random, or from the
// process-wide source when random is nil.
func NewArrivalDelayPolicy(random RandomSource) ArrivalDelayPolicy {
	if random == nil {
		random = globalRandom{}
	}
	return ArrivalDelayPolicy{random: random}
}

// NextDelay draws once to pick the window and once for the position inside it.
func (p ArrivalDelayPolicy) NextDelay() time.Duration {
	if p.random.Float64() < EarlyArrivalProbability {
		return uniform(p.random, EarlyArrivalMin, EarlyArrivalMax)
	}
	return uniform(p.random, LateArrivalMin, LateArrivalMax)
}

func uniform(random RandomSource, minDelay, maxDelay time.Duration) time.Duration {
	span := float64(maxDelay - minDelay)
	d := minDelay + time.Duration(random.Float64()*span)
	if d >= maxDelay {
		d = maxDelay - 1
	}
	return d
}
