// Package search picks the best shot for the automated player: it expands a
// deterministic candidate grid of (angle, offset, elevation, power), shadow-
// simulates every candidate on its own disposable table clone, and scores
// the outcomes under three-cushion rules. Evaluation is a pure function of
// its inputs, so candidates slice cleanly across independent workers with no
// shared mutable state.
package search

import (
	"context"
	"log"
	"sync"

	"github.com/osmane/billiards-sub001/internal/physics"
)

// Request is one unit of search work: a snapshot plus the slice of the
// candidate grid this invocation owns. SliceCount zero or one means the
// whole grid.
type Request struct {
	Snapshot   physics.TableSnapshot `json:"table"`
	Rules      string                `json:"rules_name"`
	Config     Config                `json:"config"`
	CueBallID  int                   `json:"cue_ball_id"`
	SliceIndex int                   `json:"slice_index"`
	SliceCount int                   `json:"slice_count"`
}

// Best evaluates the request's candidate slice and returns the best
// candidate, or nil when every candidate failed to simulate.
//
// Selection keeps three running bests: the best clean success, the best
// kiss-tolerant success (used only when strict kiss avoidance is off), and
// the best non-success fallback. A near-perfect clean candidate short-
// circuits the rest of the slice.
func Best(ctx context.Context, req Request) *Candidate {
	cfg := req.Config.withDefaults()
	snap := req.Snapshot
	if req.CueBallID != 0 {
		snap.CueBallID = req.CueBallID
	}

	all := Candidates(snap, cfg)
	sliceCount := req.SliceCount
	if sliceCount < 1 {
		sliceCount = 1
	}

	var bestClean, bestKissy, bestFallback *Candidate

	for i := req.SliceIndex; i < len(all); i += sliceCount {
		select {
		case <-ctx.Done():
			return pick(bestClean, bestKissy, bestFallback, cfg)
		default:
		}

		c := all[i]
		cls := evaluate(snap, c, cfg)
		if cls.failed {
			continue
		}
		c.Score = score(c, cls, cfg)
		c.Success = cls.success
		c.HadKiss = cls.kiss

		switch {
		case cls.success && !cls.kiss:
			if bestClean == nil || c.Score > bestClean.Score {
				cc := c
				bestClean = &cc
			}
			if c.Score >= cfg.EarlyExitScore {
				return bestClean
			}
		case cls.success:
			if bestKissy == nil || c.Score > bestKissy.Score {
				cc := c
				bestKissy = &cc
			}
		default:
			if bestFallback == nil || c.Score > bestFallback.Score {
				cc := c
				bestFallback = &cc
			}
		}
	}

	return pick(bestClean, bestKissy, bestFallback, cfg)
}

func pick(clean, kissy, fallback *Candidate, cfg Config) *Candidate {
	if clean != nil {
		return clean
	}
	if kissy != nil && !cfg.StrictKiss {
		return kissy
	}
	return fallback
}

// BestParallel splits the candidate grid index mod workers across
// goroutines, each owning its own table clones, and merges by max score.
// No locks guard the evaluations because nothing is shared between them.
func BestParallel(ctx context.Context, req Request, workers int) *Candidate {
	if workers < 2 {
		req.SliceIndex, req.SliceCount = 0, 1
		return Best(ctx, req)
	}

	results := make([]*Candidate, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			slice := req
			slice.SliceIndex = w
			slice.SliceCount = workers
			results[w] = Best(ctx, slice)
		}(w)
	}
	wg.Wait()

	var best *Candidate
	for _, r := range results {
		if r == nil {
			continue
		}
		if best == nil || betterThan(r, best) {
			best = r
		}
	}
	if best == nil {
		log.Printf("[SEARCH] no viable candidate (workers=%d)", workers)
	}
	return best
}

// betterThan orders merged slice winners: successes beat fallbacks
// regardless of raw score, then score decides.
func betterThan(a, b *Candidate) bool {
	if a.Success != b.Success {
		return a.Success
	}
	return a.Score > b.Score
}
