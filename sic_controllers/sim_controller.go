package sic_controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/beevik/ntp"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/mat"

	"sic_sim/channel"
	"sic_sim/sic_core"
)

type SimulationController struct {
	DatabaseController DatabaseController
}

// LoadSimulationSettings reads and deserializes the sweep configuration.
func (s *SimulationController) LoadSimulationSettings(filename string) (*SimulationSettings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var settings SimulationSettings
	err = json.Unmarshal(data, &settings)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return &settings, nil
}

// SimulateOnStart sweeps the cross product of the configured scenarios,
// running each one on the worker pool and recording every block's outcome.
func (s *SimulationController) SimulateOnStart(sessionMap *SessionMap) {
	simSettings, err := s.LoadSimulationSettings("simulation_settings.json")
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}

	fmt.Println("Settings loaded:")
	fmt.Println(simSettings)

	workerPool := pool.New().WithMaxGoroutines(simSettings.MaxWorkerCount)
	for _, mechanism := range simSettings.Mechanisms {
		for _, nUsers := range simSettings.UserConfigs {
			for _, nAnt := range simSettings.AntennaConfigs {
				for _, blockLength := range simSettings.BlockLengths {
					for _, pilotSize := range simSettings.PilotSizes {
						for _, snr := range simSettings.SnrConfigs {
							cfg, err := SettingsFactory(blockLength, pilotSize, nUsers, nAnt, simSettings.Iterations, snr, mechanism, simSettings.DriftThreshold, simSettings.Modular, simSettings.RetrainPeriod)
							if err != nil {
								continue
							}

							workerPool.Go(func() {
								s.runScenario(cfg, simSettings, sessionMap)
							})
						}
					}
				}
			}
		}
	}
	workerPool.Wait()
	fmt.Println("-- All automatic configs finished --")
}

// runScenario simulates one scenario over a sequence of transmission blocks
// on a single channel realization, injecting channel drift at the configured
// period and letting the retraining mechanism react to it.
func (s *SimulationController) runScenario(cfg Settings, simSettings *SimulationSettings, sessionMap *SessionMap) {
	startTime, ntpErr := s.getCurrentTimeFromNTP()
	if ntpErr != nil {
		startTime = time.Now()
	}
	token := s.generateToken(startTime, cfg)

	sessionMap.Mutex.Lock()
	sessionMap.Sessions[token] = &OpenSession{
		Uid:           token,
		Config:        cfg,
		StartTime:     startTime,
		MaxBlockCount: simSettings.BlockCount,
	}
	sessionMap.Mutex.Unlock()

	seed := time.Now().UnixNano()
	localRand := rand.New(rand.NewSource(seed))
	h := channel.RandomChannelMatrix(cfg.NAnt, cfg.NUsers, localRand)
	link := channel.NewLinearChannel(h, cfg.SnrDB, uint64(seed))
	controller := NewDeepSICController(cfg)

	for block := 0; block < simSettings.BlockCount; block++ {
		blockStart, ntpErr := s.getCurrentTimeFromNTP()
		if ntpErr != nil {
			blockStart = time.Now()
		}

		if simSettings.DriftEvery > 0 && block > 0 && block%simSettings.DriftEvery == 0 {
			link.ScaleUser(localRand.Intn(cfg.NUsers), simSettings.DriftScale)
		}

		bits := channel.GenerateBits(cfg.BlockLength, cfg.NUsers, localRand)
		rx := link.Transmit(channel.Modulate(bits))
		pilotTx := bits.Slice(0, cfg.PilotSize, 0, cfg.NUsers).(*mat.Dense)
		pilotRx := rx.Slice(0, cfg.PilotSize, 0, cfg.NAnt).(*mat.Dense)
		dataTx := bits.Slice(cfg.PilotSize, cfg.BlockLength, 0, cfg.NUsers).(*mat.Dense)
		dataRx := rx.Slice(cfg.PilotSize, cfg.BlockLength, 0, cfg.NAnt).(*mat.Dense)

		pilotBits, _, driftReport, err := controller.EvaluatePilots(pilotTx, pilotRx)
		if err != nil {
			fmt.Println(fmt.Errorf("pilot evaluation failed on block %d: %w", block, err))
			continue
		}

		trainUsers := cfg.Policy().UsersToTrain(block, driftReport, cfg.NUsers)
		if err := controller.SetTrainUsers(trainUsers); err != nil {
			fmt.Println(err)
			continue
		}
		if anyEnabled(trainUsers) {
			if err := controller.TrainEpisode(pilotTx, pilotRx); err != nil {
				fmt.Println(fmt.Errorf("training failed on block %d: %w", block, err))
				continue
			}
		}

		detected, _ := controller.Detect(dataRx)
		report := BlockReport{
			Block:    block,
			Ber:      sic_core.BitErrorRate(detected, dataTx),
			PilotBer: sic_core.BitErrorRate(pilotBits, pilotTx),
			Trained:  trainUsers,
		}
		if stats, ok := driftReport.FinalStats(); ok {
			report.DriftStats = stats
		}

		endTime, ntpErr := s.getCurrentTimeFromNTP()
		if ntpErr != nil {
			endTime = time.Now()
		}
		s.DatabaseController.insertIntoDB(cfg, report, seed, blockStart, endTime)

		sessionMap.Mutex.Lock()
		sessionMap.Sessions[token].CurrentBlockCount = block + 1
		sessionMap.Sessions[token].LastBer = report.Ber
		sessionMap.Mutex.Unlock()
	}

	sessionMap.Mutex.Lock()
	delete(sessionMap.Sessions, token)
	sessionMap.Mutex.Unlock()
}

func anyEnabled(users []bool) bool {
	for _, enabled := range users {
		if enabled {
			return true
		}
	}
	return false
}

func (s *SimulationController) getCurrentTimeFromNTP() (time.Time, error) {
	ntpServer := "ntp.shoa.cl"
	time, err := ntp.Time(ntpServer)
	if err != nil {
		return time, fmt.Errorf("failed to get time from NTP server: %v", err)
	}
	return time, nil
}

func (s *SimulationController) generateToken(startTime time.Time, config Settings) string {
	idStamp := fmt.Sprintf("%d%d%d%f%s%s", config.NUsers, config.NAnt, config.PilotSize, config.SnrDB, config.Mechanism, startTime)
	h := sha256.New()
	h.Write([]byte(idStamp))
	token := hex.EncodeToString(h.Sum(nil))
	return token
}
