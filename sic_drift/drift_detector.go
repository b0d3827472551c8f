package sic_drift

import (
	"fmt"
)

// DriftDetector stores the most recent pilot-derived probability samples per
// (user, iteration), split by true transmitted bit, and scores fresh samples
// against them with the two-sample Hotelling test. History depth is a single
// round: every observation overwrites the previous one, with no decay or
// merging. Buffers for different users or iterations are never pooled.
type DriftDetector struct {
	nUsers     int
	iterations int
	prevS0     [][][]float64
	prevS1     [][][]float64
}

// NewDriftDetector allocates empty history for nUsers x iterations cells.
func NewDriftDetector(nUsers int, iterations int) *DriftDetector {
	d := &DriftDetector{nUsers: nUsers, iterations: iterations}
	d.Reset()
	return d
}

// Reset drops all stored history, returning every cell to the warm-up state.
func (d *DriftDetector) Reset() {
	d.prevS0 = make([][][]float64, d.nUsers)
	d.prevS1 = make([][][]float64, d.nUsers)
	for user := 0; user < d.nUsers; user++ {
		d.prevS0[user] = make([][]float64, d.iterations)
		d.prevS1[user] = make([][]float64, d.iterations)
	}
}

// HasHistory reports whether a previous pilot observation exists for the
// given cell.
func (d *DriftDetector) HasHistory(user int, iteration int) bool {
	return len(d.prevS0[user][iteration]) != 0
}

// Observe scores the current conditional samples against the stored history
// for one (user, iteration) cell, then unconditionally replaces the history
// with the current samples. On the warm-up round, when no history exists
// yet, the test is skipped and ok is false.
//
// The statistic is the sum of the per-class Hotelling T² values, so both bit
// classes are treated symmetrically and samples are only ever compared
// within the same true-bit class.
func (d *DriftDetector) Observe(user int, iteration int, s0 []float64, s1 []float64) (stat float64, ok bool, err error) {
	if user < 0 || user >= d.nUsers || iteration < 0 || iteration >= d.iterations {
		return 0, false, fmt.Errorf("cell (%d,%d) outside %dx%d detector", user, iteration, d.nUsers, d.iterations)
	}
	if len(s0) == 0 || len(s1) == 0 {
		return 0, false, fmt.Errorf("pilot block has an empty bit class for user %d", user)
	}

	hadHistory := d.HasHistory(user, iteration)
	var t0, t1 float64
	if hadHistory {
		t0, err = TwoSampleT2(sampleColumn(s0), sampleColumn(d.prevS0[user][iteration]))
		if err == nil {
			t1, err = TwoSampleT2(sampleColumn(s1), sampleColumn(d.prevS1[user][iteration]))
		}
	}

	d.prevS0[user][iteration] = append([]float64(nil), s0...)
	d.prevS1[user][iteration] = append([]float64(nil), s1...)

	if err != nil {
		return 0, false, err
	}
	if !hadHistory {
		return 0, false, nil
	}
	return t0 + t1, true, nil
}
