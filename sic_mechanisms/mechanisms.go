package sic_mechanisms

import (
	"fmt"
	"strings"

	"sic_sim/sic_drift"
)

// RetrainPolicy decides, after a pilot evaluation, which users get their
// detectors refitted in the next training episode. Users left out keep their
// parameters untouched (selective freezing).
type RetrainPolicy interface {
	UsersToTrain(block int, report *sic_drift.DriftReport, nUsers int) []bool
}

type AlwaysRetrain struct{}

type PeriodicRetrain struct {
	Period int
}

// DriftRetrain retrains when the final-iteration drift statistic of any user
// exceeds Threshold. With Modular set, only the drifted users are retrained;
// otherwise a single drifted user triggers a full retrain.
type DriftRetrain struct {
	Threshold float64
	Modular   bool
}

func (AlwaysRetrain) UsersToTrain(block int, report *sic_drift.DriftReport, nUsers int) []bool {
	return allUsers(nUsers, true)
}

func (p PeriodicRetrain) UsersToTrain(block int, report *sic_drift.DriftReport, nUsers int) []bool {
	return allUsers(nUsers, block%p.Period == 0)
}

func (p DriftRetrain) UsersToTrain(block int, report *sic_drift.DriftReport, nUsers int) []bool {
	if report == nil {
		return allUsers(nUsers, true)
	}
	stats, ok := report.FinalStats()
	if !ok {
		// Warm-up round: no history yet, so train everyone.
		return allUsers(nUsers, true)
	}
	drifted := make([]bool, nUsers)
	any := false
	for user, stat := range stats {
		if stat > p.Threshold {
			drifted[user] = true
			any = true
		}
	}
	if p.Modular {
		return drifted
	}
	return allUsers(nUsers, any)
}

func allUsers(nUsers int, enabled bool) []bool {
	users := make([]bool, nUsers)
	for i := range users {
		users[i] = enabled
	}
	return users
}

// PolicyFactory maps a mechanism name onto its handler.
func PolicyFactory(mechanism string, threshold float64, modular bool, period int) (RetrainPolicy, error) {
	switch parsed := strings.ToUpper(mechanism); parsed {
	case "ALWAYS":
		return AlwaysRetrain{}, nil
	case "PERIODIC":
		if period <= 0 {
			return nil, fmt.Errorf("retrain period must be positive: %d", period)
		}
		return PeriodicRetrain{Period: period}, nil
	case "DRIFT":
		return DriftRetrain{Threshold: threshold, Modular: modular}, nil
	}
	return nil, fmt.Errorf("training mechanism is invalid: %s", mechanism)
}
