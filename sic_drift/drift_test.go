package sic_drift

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func gaussianSamples(n int, mean, sigma float64, localRand *rand.Rand) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = mean + sigma*localRand.NormFloat64()
	}
	return samples
}

func TestTwoSampleT2Symmetric(t *testing.T) {
	localRand := rand.New(rand.NewSource(1))
	x := sampleColumn(gaussianSamples(30, 0.2, 0.05, localRand))
	y := sampleColumn(gaussianSamples(30, 0.4, 0.05, localRand))

	xy, err := TwoSampleT2(x, y)
	if err != nil {
		t.Fatal(err)
	}
	yx, err := TwoSampleT2(y, x)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(xy-yx) > 1e-9 {
		t.Errorf("T2 not symmetric: %v vs %v", xy, yx)
	}
	if xy <= 0 {
		t.Errorf("T2 = %v for clearly separated means, want > 0", xy)
	}
}

func TestTwoSampleT2SeparationOrdering(t *testing.T) {
	localRand := rand.New(rand.NewSource(2))
	base := gaussianSamples(40, 0.3, 0.05, localRand)
	near := gaussianSamples(40, 0.31, 0.05, localRand)
	far := gaussianSamples(40, 0.7, 0.05, localRand)

	tNear, err := TwoSampleT2(sampleColumn(base), sampleColumn(near))
	if err != nil {
		t.Fatal(err)
	}
	tFar, err := TwoSampleT2(sampleColumn(base), sampleColumn(far))
	if err != nil {
		t.Fatal(err)
	}
	if tFar <= tNear {
		t.Errorf("shifted distribution scored %v, close one %v; want shifted larger", tFar, tNear)
	}
}

func TestTwoSampleT2Errors(t *testing.T) {
	if _, err := TwoSampleT2(mat.NewDense(1, 1, []float64{0.5}), mat.NewDense(3, 1, []float64{0.1, 0.2, 0.3})); err == nil {
		t.Errorf("expected error for a single-sample group")
	}
	if _, err := TwoSampleT2(mat.NewDense(2, 1, []float64{0.1, 0.2}), mat.NewDense(2, 2, []float64{0.1, 0.2, 0.3, 0.4})); err == nil {
		t.Errorf("expected error for mismatched dimensions")
	}
}

func TestObserveWarmUpSkipsTest(t *testing.T) {
	d := NewDriftDetector(2, 3)
	localRand := rand.New(rand.NewSource(3))
	s0 := gaussianSamples(10, 0.2, 0.05, localRand)
	s1 := gaussianSamples(10, 0.8, 0.05, localRand)

	stat, ok, err := d.Observe(0, 0, s0, s1)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Errorf("warm-up round produced a statistic: %v", stat)
	}
	if !d.HasHistory(0, 0) {
		t.Errorf("warm-up round did not seed history")
	}
	if d.HasHistory(1, 0) || d.HasHistory(0, 1) {
		t.Errorf("history leaked across users or iterations")
	}
}

func TestObserveDeterministicAfterWarmUp(t *testing.T) {
	d := NewDriftDetector(1, 1)
	localRand := rand.New(rand.NewSource(4))
	s0 := gaussianSamples(12, 0.2, 0.05, localRand)
	s1 := gaussianSamples(12, 0.8, 0.05, localRand)

	if _, ok, err := d.Observe(0, 0, s0, s1); ok || err != nil {
		t.Fatalf("unexpected warm-up result: ok=%v err=%v", ok, err)
	}

	// Identical samples against identical history: every round reproduces
	// the same statistic.
	first, ok, err := d.Observe(0, 0, s0, s1)
	if err != nil || !ok {
		t.Fatalf("second round: ok=%v err=%v", ok, err)
	}
	second, ok, err := d.Observe(0, 0, s0, s1)
	if err != nil || !ok {
		t.Fatalf("third round: ok=%v err=%v", ok, err)
	}
	if first != second {
		t.Errorf("statistic not deterministic: %v vs %v", first, second)
	}
}

func TestObserveShiftedDistributionScoresHigher(t *testing.T) {
	localRand := rand.New(rand.NewSource(5))
	baseS0 := gaussianSamples(15, 0.2, 0.04, localRand)
	baseS1 := gaussianSamples(15, 0.8, 0.04, localRand)
	sameS0 := gaussianSamples(15, 0.2, 0.04, localRand)
	sameS1 := gaussianSamples(15, 0.8, 0.04, localRand)
	shiftS0 := gaussianSamples(15, 0.5, 0.04, localRand)
	shiftS1 := gaussianSamples(15, 0.5, 0.04, localRand)

	same := NewDriftDetector(1, 1)
	same.Observe(0, 0, baseS0, baseS1)
	sameStat, ok, err := same.Observe(0, 0, sameS0, sameS1)
	if err != nil || !ok {
		t.Fatalf("same-distribution round: ok=%v err=%v", ok, err)
	}

	shifted := NewDriftDetector(1, 1)
	shifted.Observe(0, 0, baseS0, baseS1)
	shiftStat, ok, err := shifted.Observe(0, 0, shiftS0, shiftS1)
	if err != nil || !ok {
		t.Fatalf("shifted round: ok=%v err=%v", ok, err)
	}

	if shiftStat <= sameStat {
		t.Errorf("shifted distribution stat %v not above same-distribution stat %v", shiftStat, sameStat)
	}
}

func TestObserveEmptyClassIsError(t *testing.T) {
	d := NewDriftDetector(1, 1)
	if _, _, err := d.Observe(0, 0, nil, []float64{0.9, 0.8}); err == nil {
		t.Errorf("expected error for an empty bit class")
	}
}

func TestObserveHistoryOverwritten(t *testing.T) {
	d := NewDriftDetector(1, 1)
	localRand := rand.New(rand.NewSource(6))
	a0 := gaussianSamples(10, 0.2, 0.03, localRand)
	a1 := gaussianSamples(10, 0.8, 0.03, localRand)
	b0 := gaussianSamples(10, 0.6, 0.03, localRand)
	b1 := gaussianSamples(10, 0.4, 0.03, localRand)

	d.Observe(0, 0, a0, a1)
	d.Observe(0, 0, b0, b1)

	// History is now b, not a merge: comparing b against it again gives a
	// small statistic, while a (far from b) scores much higher.
	bStat, _, err := d.Observe(0, 0, b0, b1)
	if err != nil {
		t.Fatal(err)
	}
	aStat, _, err := d.Observe(0, 0, a0, a1)
	if err != nil {
		t.Fatal(err)
	}
	if aStat <= bStat {
		t.Errorf("history does not look overwritten: aStat=%v bStat=%v", aStat, bStat)
	}
}

func TestResetClearsHistory(t *testing.T) {
	d := NewDriftDetector(1, 2)
	d.Observe(0, 0, []float64{0.1, 0.2, 0.3}, []float64{0.7, 0.8, 0.9})
	d.Reset()
	if d.HasHistory(0, 0) {
		t.Errorf("reset left history behind")
	}
}

func TestDriftReportFinalStats(t *testing.T) {
	r := NewDriftReport(2, 3)
	if _, ok := r.FinalStats(); ok {
		t.Errorf("empty report produced final stats")
	}

	r.Record(0, 2, 1.5)
	if _, ok := r.FinalStats(); ok {
		t.Errorf("partial report produced final stats")
	}

	r.Record(1, 2, 2.5)
	stats, ok := r.FinalStats()
	if !ok {
		t.Fatalf("complete report rejected")
	}
	if stats[0] != 1.5 || stats[1] != 2.5 {
		t.Errorf("stats = %v", stats)
	}
}
