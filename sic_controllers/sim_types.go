package sic_controllers

import (
	"sync"
	"time"
)

// OpenSession is the live progress record of one scenario sweep entry.
type OpenSession struct {
	Uid               string
	Config            Settings
	StartTime         time.Time
	MaxBlockCount     int
	CurrentBlockCount int
	LastBer           float64
}

type SessionMap struct {
	Sessions map[string]*OpenSession
	Mutex    sync.RWMutex
}

func NewSessionMap() *SessionMap {
	return &SessionMap{
		Sessions: make(map[string]*OpenSession),
	}
}

// SimulationSettings is the sweep configuration loaded from JSON: the cross
// product of every listed value is simulated.
type SimulationSettings struct {
	MaxWorkerCount int       `json:"max_worker_count"`
	BlockCount     int       `json:"block_count"`
	BlockLengths   []int     `json:"block_lengths"`
	PilotSizes     []int     `json:"pilot_sizes"`
	UserConfigs    []int     `json:"user_configs"`
	AntennaConfigs []int     `json:"antenna_configs"`
	SnrConfigs     []float64 `json:"snr_configs"`
	Iterations     int       `json:"iterations"`
	Mechanisms     []string  `json:"mechanisms"`
	DriftThreshold float64   `json:"drift_threshold"`
	Modular        bool      `json:"modular"`
	RetrainPeriod  int       `json:"retrain_period"`
	DriftEvery     int       `json:"drift_every"`
	DriftScale     float64   `json:"drift_scale"`
}
