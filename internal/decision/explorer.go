// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"math/rand"
	"sync"

	"github.com/tomtom215/admatch/internal/models"
)

// RandomSource is the randomness consumed by selection.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// LockedRand is a seeded RandomSource safe for concurrent use.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand creates a RandomSource from seed.
func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // exploration does not need crypto randomness
	}
}

// Float64 implements RandomSource.
func (r *LockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Intn implements RandomSource.
func (r *LockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Selection is the outcome of a selector.
type Selection struct {
	Result   models.RankingResult
	Explored bool
}

// Selector picks one ranked candidate. ok is false only for empty input.
type Selector interface {
	Select(ranked []models.RankingResult) (sel Selection, ok bool)
}

// EpsilonGreedy exploits the top-ranked candidate and, with probability
// Epsilon, draws uniformly from the first TopK instead.
type EpsilonGreedy struct {
	Epsilon float64
	TopK    int
	Rand    RandomSource
}

// NewEpsilonGreedy creates the default selector.
func NewEpsilonGreedy(cfg ExplorationConfig, rnd RandomSource) *EpsilonGreedy {
	return &EpsilonGreedy{Epsilon: cfg.Epsilon, TopK: cfg.TopK, Rand: rnd}
}

// Select implements Selector.
func (e *EpsilonGreedy) Select(ranked []models.RankingResult) (Selection, bool) {
	return SelectWithExploration(ranked, e.Epsilon, e.TopK, e.Rand)
}

// SelectWithExploration is the epsilon-greedy policy as a pure function of
// its inputs.
func SelectWithExploration(ranked []models.RankingResult, epsilon float64, topK int, rnd RandomSource) (Selection, bool) {
	if len(ranked) == 0 {
		return Selection{}, false
	}

	if epsilon > 0 && rnd.Float64() < epsilon {
		k := min(topK, len(ranked))
		if k < 1 {
			k = 1
		}
		return Selection{Result: ranked[rnd.Intn(k)], Explored: true}, true
	}
	return Selection{Result: ranked[0]}, true
}
