package search

import (
	"context"
	"math"
	"testing"

	"github.com/osmane/billiards-sub001/internal/physics"
)

const cueID = 0

func cueCushion(t float64) physics.Outcome {
	return physics.Outcome{Type: physics.OutcomeCushion, BallA: cueID, BallB: -1, Time: t}
}

func cueHits(obj int, t float64) physics.Outcome {
	return physics.Outcome{Type: physics.OutcomeCollision, BallA: cueID, BallB: obj, Time: t}
}

func objectsCollide(a, b int, t float64) physics.Outcome {
	return physics.Outcome{Type: physics.OutcomeCollision, BallA: a, BallB: b, Time: t}
}

func TestClassifyBallFirstPoint(t *testing.T) {
	log := []physics.Outcome{
		cueHits(1, 0.2),
		cueCushion(0.5),
		cueCushion(0.9),
		cueCushion(1.3),
		cueHits(2, 1.8),
	}
	cls := classify(log, cueID)
	if !cls.success {
		t.Error("three cushions before the second object should score the point")
	}
	if cls.kiss {
		t.Error("clean point flagged as kiss")
	}
	if !cls.firstContactBall {
		t.Error("first contact was a ball")
	}
	if cls.cushionsBeforeHit != 3 {
		t.Errorf("cushionsBeforeHit = %d, want 3", cls.cushionsBeforeHit)
	}
}

func TestClassifyCushionFirstPoint(t *testing.T) {
	log := []physics.Outcome{
		cueCushion(0.3),
		cueHits(1, 0.7),
		cueCushion(1.0),
		cueCushion(1.4),
		cueHits(2, 1.9),
	}
	cls := classify(log, cueID)
	if !cls.success {
		t.Error("cushion-first point should still succeed")
	}
	if cls.firstContactBall {
		t.Error("first contact was a cushion, not a ball")
	}
}

func TestClassifySecondObjectTooEarlyIsKiss(t *testing.T) {
	log := []physics.Outcome{
		cueHits(1, 0.2),
		cueCushion(0.5),
		cueHits(2, 0.8),
	}
	cls := classify(log, cueID)
	if cls.success {
		t.Error("second object before three cushions must not score")
	}
	if !cls.kiss {
		t.Error("premature second-object contact should flag a kiss")
	}
	if cls.cushionsBeforeHit != 1 {
		t.Errorf("cushionsBeforeHit = %d, want 1", cls.cushionsBeforeHit)
	}
}

func TestClassifySameObjectTwiceIsKiss(t *testing.T) {
	log := []physics.Outcome{
		cueHits(1, 0.2),
		cueHits(1, 0.6),
	}
	if cls := classify(log, cueID); !cls.kiss {
		t.Error("meeting the same object twice should flag a kiss")
	}
}

func TestClassifyEarlyObjectObjectContactIsKiss(t *testing.T) {
	early := []physics.Outcome{
		cueHits(1, 0.1),
		objectsCollide(1, 2, 0.3),
	}
	if cls := classify(early, cueID); !cls.kiss {
		t.Error("object-object collision at 0.3s should flag a kiss")
	}

	late := []physics.Outcome{
		cueHits(1, 0.1),
		objectsCollide(1, 2, 1.5),
	}
	if cls := classify(late, cueID); cls.kiss {
		t.Error("late object-object collision should not flag a kiss")
	}
}

func TestClassifyObjectCushionsDoNotCount(t *testing.T) {
	log := []physics.Outcome{
		cueHits(1, 0.2),
		{Type: physics.OutcomeCushion, BallA: 1, BallB: -1, Time: 0.5},
		{Type: physics.OutcomeCushion, BallA: 2, BallB: -1, Time: 0.6},
		{Type: physics.OutcomeCushion, BallA: 1, BallB: -1, Time: 0.8},
		cueHits(2, 1.0),
	}
	cls := classify(log, cueID)
	if cls.success {
		t.Error("object-ball cushion contacts must not count toward the cue total")
	}
	if cls.cushionsBeforeHit != 0 {
		t.Errorf("cushionsBeforeHit = %d, want 0", cls.cushionsBeforeHit)
	}
}

func TestScoreOrdersContactPatterns(t *testing.T) {
	cfg := DefaultConfig()
	c := Candidate{Power: cfg.PowerMin}

	clean := score(c, outcomeClass{success: true, firstContactBall: true}, cfg)
	cushionFirst := score(c, outcomeClass{success: true}, cfg)
	kissy := score(c, outcomeClass{success: true, firstContactBall: true, kiss: true}, cfg)
	failed := score(c, outcomeClass{cushionsBeforeHit: 2, objectsContacted: 1}, cfg)

	if clean <= cushionFirst {
		t.Errorf("ball-first (%.3f) should outscore cushion-first (%.3f)", clean, cushionFirst)
	}
	if clean <= kissy {
		t.Errorf("clean (%.3f) should outscore kissy (%.3f)", clean, kissy)
	}
	if cushionFirst <= failed {
		t.Errorf("any success (%.3f) should outscore a failure (%.3f)", cushionFirst, failed)
	}
	if failed >= 0 {
		t.Errorf("failure score %.3f should sit below zero", failed)
	}
}

func TestScorePenalizesEffort(t *testing.T) {
	cfg := DefaultConfig()
	cls := outcomeClass{success: true, firstContactBall: true}

	plain := score(Candidate{Power: cfg.PowerMin}, cls, cfg)
	spun := score(Candidate{Power: cfg.PowerMin, OffsetX: 0.5}, cls, cfg)
	hard := score(Candidate{Power: cfg.PowerMax}, cls, cfg)
	lifted := score(Candidate{Power: cfg.PowerMin, Elevation: cfg.MaxElevation}, cls, cfg)

	for name, s := range map[string]float64{"offset": spun, "power": hard, "elevation": lifted} {
		if s >= plain {
			t.Errorf("%s candidate (%.3f) should score below the plain one (%.3f)", name, s, plain)
		}
	}
}

func TestCandidateGridIsDeterministic(t *testing.T) {
	snap := physics.NewCaromTable().Snapshot()
	cfg := DefaultConfig()

	a := Candidates(snap, cfg)
	b := Candidates(snap, cfg)
	if len(a) != len(b) {
		t.Fatalf("grid sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("grid diverges at index %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCandidateAnglesDedupedAndNormalized(t *testing.T) {
	snap := physics.NewCaromTable().Snapshot()
	cfg := DefaultConfig()

	angles := candidateAngles(snap, cfg)
	if len(angles) < cfg.AngleCount {
		t.Fatalf("got %d angles, want at least the uniform sweep of %d", len(angles), cfg.AngleCount)
	}
	for i, a := range angles {
		if a < 0 || a >= 2*math.Pi {
			t.Errorf("angle %d = %.4f outside [0, 2π)", i, a)
		}
		if i > 0 && a-angles[i-1] <= angleDedupeTolerance {
			t.Errorf("angles %d and %d within dedupe tolerance: %.6f, %.6f", i-1, i, angles[i-1], a)
		}
	}
}

func TestCandidateOffsetsStayWithinLegalRadius(t *testing.T) {
	cfg := DefaultConfig()
	for i, off := range candidateOffsets(cfg) {
		if r := math.Hypot(off[0], off[1]); r > cfg.LegalHitRadius+1e-9 {
			t.Errorf("offset %d at radius %.3f exceeds legal hit radius %.3f", i, r, cfg.LegalHitRadius)
		}
	}
}

// quickConfig keeps integration searches small enough for the test run.
func quickConfig() Config {
	return Config{
		AngleCount:     8,
		PowerMin:       2.0,
		PowerMax:       2.0,
		PowerSteps:     1,
		ElevationSteps: 1,
		OffsetSamples:  3,
		LegalHitRadius: 0.55,
		StrictKiss:     true,
		SimCap:         3.0,
		EarlyExitScore: 10, // exhaustive: never exit early
	}
}

func TestBestIsIdempotent(t *testing.T) {
	req := Request{
		Snapshot: physics.NewCaromTable().Snapshot(),
		Config:   quickConfig(),
	}

	first := Best(context.Background(), req)
	second := Best(context.Background(), req)
	if first == nil || second == nil {
		t.Fatal("search returned no candidate")
	}
	if *first != *second {
		t.Errorf("repeated search diverged: %+v vs %+v", *first, *second)
	}
}

func TestParallelSearchMatchesSequential(t *testing.T) {
	req := Request{
		Snapshot: physics.NewCaromTable().Snapshot(),
		Config:   quickConfig(),
	}

	seq := Best(context.Background(), req)
	par := BestParallel(context.Background(), req, 3)
	if seq == nil || par == nil {
		t.Fatal("search returned no candidate")
	}
	if seq.Success != par.Success {
		t.Errorf("success differs: sequential=%v parallel=%v", seq.Success, par.Success)
	}
	if math.Abs(seq.Score-par.Score) > 1e-12 {
		t.Errorf("best score differs: sequential=%.6f parallel=%.6f", seq.Score, par.Score)
	}
}

func TestCancelledSearchReturnsPromptly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{
		Snapshot: physics.NewCaromTable().Snapshot(),
		Config:   quickConfig(),
	}
	// A cancelled context returns whatever was found so far, possibly nothing.
	if c := Best(ctx, req); c != nil && c.Score == 0 && !c.Success {
		t.Errorf("cancelled search returned an unevaluated candidate: %+v", c)
	}
}
