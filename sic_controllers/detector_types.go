package sic_controllers

import (
	"fmt"
	"strings"

	"sic_sim/sic_mechanisms"
)

// Detector training hyperparameters. Fixed per episode; the optimizer is a
// fresh plain-gradient loop on every call, nothing is resumed.
const (
	TrainEpochs     = 250
	TrainLearnRate  = 1e-3
	MechanismAlways = "ALWAYS"
	MechanismDrift  = "DRIFT"
	MechanismPeriod = "PERIODIC"
)

// Settings carries the construction-time scalars of one detection scenario.
type Settings struct {
	BlockLength    int
	PilotSize      int
	NUsers         int
	NAnt           int
	Iterations     int
	SnrDB          float64
	Mechanism      string
	Modular        bool
	DriftThreshold float64
	RetrainPeriod  int
	policyHandler  sic_mechanisms.RetrainPolicy
}

// BlockReport is the outcome of simulating one transmission block.
type BlockReport struct {
	Block      int
	Ber        float64
	PilotBer   float64
	Trained    []bool
	DriftStats []float64 // final-iteration statistic per user, nil on warm-up
}

// SettingsFactory validates the scenario scalars and binds the retraining
// mechanism to its handler.
func SettingsFactory(blockLength, pilotSize, nUsers, nAnt, iterations int, snrDB float64, mechanism string, driftThreshold float64, modular bool, retrainPeriod int) (Settings, error) {
	if nUsers < 2 {
		return Settings{}, fmt.Errorf("need at least 2 users, got %d", nUsers)
	}
	if nAnt < 1 {
		return Settings{}, fmt.Errorf("need at least 1 antenna, got %d", nAnt)
	}
	if iterations < 1 {
		return Settings{}, fmt.Errorf("need at least 1 iteration, got %d", iterations)
	}
	if pilotSize < 2 || pilotSize >= blockLength {
		return Settings{}, fmt.Errorf("pilot size %d must fit inside block length %d", pilotSize, blockLength)
	}

	parsedMechanism := strings.ToUpper(mechanism)
	policyHandler, err := sic_mechanisms.PolicyFactory(parsedMechanism, driftThreshold, modular, retrainPeriod)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		BlockLength:    blockLength,
		PilotSize:      pilotSize,
		NUsers:         nUsers,
		NAnt:           nAnt,
		Iterations:     iterations,
		SnrDB:          snrDB,
		Mechanism:      parsedMechanism,
		Modular:        modular,
		DriftThreshold: driftThreshold,
		RetrainPeriod:  retrainPeriod,
		policyHandler:  policyHandler,
	}, nil
}

// Policy returns the retraining handler bound by the factory.
func (s Settings) Policy() sic_mechanisms.RetrainPolicy {
	return s.policyHandler
}
