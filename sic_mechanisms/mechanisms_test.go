package sic_mechanisms

import (
	"testing"

	"sic_sim/sic_drift"
)

func TestPolicyFactory(t *testing.T) {
	cases := []struct {
		mechanism string
		period    int
		wantErr   bool
	}{
		{"ALWAYS", 0, false},
		{"always", 0, false},
		{"DRIFT", 0, false},
		{"PERIODIC", 5, false},
		{"PERIODIC", 0, true},
		{"SOMETIMES", 0, true},
	}
	for _, c := range cases {
		_, err := PolicyFactory(c.mechanism, 10, false, c.period)
		if (err != nil) != c.wantErr {
			t.Errorf("PolicyFactory(%q, period=%d): err = %v", c.mechanism, c.period, err)
		}
	}
}

func TestAlwaysRetrain(t *testing.T) {
	users := AlwaysRetrain{}.UsersToTrain(7, nil, 3)
	for user, enabled := range users {
		if !enabled {
			t.Errorf("user %d disabled", user)
		}
	}
}

func TestPeriodicRetrain(t *testing.T) {
	p := PeriodicRetrain{Period: 3}
	if users := p.UsersToTrain(0, nil, 2); !users[0] {
		t.Errorf("block 0 should retrain")
	}
	if users := p.UsersToTrain(1, nil, 2); users[0] {
		t.Errorf("block 1 should not retrain")
	}
	if users := p.UsersToTrain(6, nil, 2); !users[1] {
		t.Errorf("block 6 should retrain")
	}
}

func driftReportWith(stats []float64) *sic_drift.DriftReport {
	r := sic_drift.NewDriftReport(len(stats), 1)
	for user, stat := range stats {
		r.Record(user, 0, stat)
	}
	return r
}

func TestDriftRetrainWarmUpTrainsEveryone(t *testing.T) {
	p := DriftRetrain{Threshold: 10}
	users := p.UsersToTrain(0, sic_drift.NewDriftReport(2, 1), 2)
	if !users[0] || !users[1] {
		t.Errorf("warm-up round should train everyone: %v", users)
	}
	users = p.UsersToTrain(0, nil, 2)
	if !users[0] || !users[1] {
		t.Errorf("missing report should train everyone: %v", users)
	}
}

func TestDriftRetrainModular(t *testing.T) {
	p := DriftRetrain{Threshold: 10, Modular: true}
	users := p.UsersToTrain(1, driftReportWith([]float64{25, 2}), 2)
	if !users[0] || users[1] {
		t.Errorf("modular retrain should freeze undrifted users: %v", users)
	}
}

func TestDriftRetrainFullOnAnyDrift(t *testing.T) {
	p := DriftRetrain{Threshold: 10}
	users := p.UsersToTrain(1, driftReportWith([]float64{25, 2}), 2)
	if !users[0] || !users[1] {
		t.Errorf("non-modular retrain should train everyone on drift: %v", users)
	}
	users = p.UsersToTrain(2, driftReportWith([]float64{3, 2}), 2)
	if users[0] || users[1] {
		t.Errorf("no drift should freeze everyone: %v", users)
	}
}
