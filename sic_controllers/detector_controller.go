package sic_controllers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"sic_sim/channel"
	"sic_sim/sic_core"
	"sic_sim/sic_drift"
	"sic_sim/sic_models"
)

// DeepSICController owns the detector grid and drift history for one channel
// and runs the three faces of the soft interference cancellation receiver:
// sequential training, posterior propagation, and pilot evaluation.
type DeepSICController struct {
	cfg        Settings
	grid       *sic_models.DetectorGrid
	drift      *sic_drift.DriftDetector
	trainUsers []bool
}

// NewDeepSICController builds a controller with a fresh grid, empty drift
// history, and every user enabled for training.
func NewDeepSICController(cfg Settings) *DeepSICController {
	inDim := cfg.NAnt + cfg.NUsers - 1
	c := &DeepSICController{
		cfg:        cfg,
		grid:       sic_models.NewDetectorGrid(cfg.NUsers, cfg.Iterations, inDim),
		drift:      sic_drift.NewDriftDetector(cfg.NUsers, cfg.Iterations),
		trainUsers: make([]bool, cfg.NUsers),
	}
	for user := range c.trainUsers {
		c.trainUsers[user] = true
	}
	return c
}

// Grid exposes the detector grid, read-only use intended.
func (c *DeepSICController) Grid() *sic_models.DetectorGrid {
	return c.grid
}

// SetTrainUsers selects which users the next training episode will refit.
// Disabled users keep their detector parameters untouched.
func (c *DeepSICController) SetTrainUsers(enabled []bool) error {
	if len(enabled) != c.cfg.NUsers {
		return fmt.Errorf("train flags for %d users, controller has %d", len(enabled), c.cfg.NUsers)
	}
	copy(c.trainUsers, enabled)
	return nil
}

// checkShapes upgrades malformed inputs to explicit errors instead of
// letting them surface as silent numerical garbage downstream.
func (c *DeepSICController) checkShapes(tx *mat.Dense, rx *mat.Dense) error {
	txN, txUsers := tx.Dims()
	rxN, rxAnt := rx.Dims()
	if txUsers != c.cfg.NUsers {
		return fmt.Errorf("tx has %d users, controller configured for %d", txUsers, c.cfg.NUsers)
	}
	if rxAnt != c.cfg.NAnt {
		return fmt.Errorf("rx has %d antennas, controller configured for %d", rxAnt, c.cfg.NAnt)
	}
	if txN != rxN {
		return fmt.Errorf("tx block length %d does not match rx block length %d", txN, rxN)
	}
	return nil
}

// prepareTrainingData builds the per-user bit labels and augmented inputs
// from a soft estimate: the true bits for the bootstrap round, posterior
// probabilities afterwards.
func (c *DeepSICController) prepareTrainingData(tx *mat.Dense, rx *mat.Dense, probsVec *mat.Dense) ([][]int, []*mat.Dense) {
	n, _ := tx.Dims()
	labels := make([][]int, c.cfg.NUsers)
	inputs := make([]*mat.Dense, c.cfg.NUsers)
	for user := 0; user < c.cfg.NUsers; user++ {
		userLabels := make([]int, n)
		for i := 0; i < n; i++ {
			userLabels[i] = int(tx.At(i, user))
		}
		labels[user] = userLabels
		inputs[user] = sic_core.AugmentedInput(rx, probsVec, user)
	}
	return labels, inputs
}

// trainIteration fits every enabled user's detector at one iteration index.
// Skipping a disabled user is not an error: it is how users unaffected by
// drift stay frozen. Other cells of the grid are never touched.
func (c *DeepSICController) trainIteration(iteration int, labels [][]int, inputs []*mat.Dense) {
	for user := 0; user < c.cfg.NUsers; user++ {
		if !c.trainUsers[user] {
			continue
		}
		in := inputs[user]
		n, _ := in.Dims()
		rows := make([][]float32, n)
		for i := 0; i < n; i++ {
			rows[i] = sic_core.Row32(in, i)
		}
		c.grid.At(user, iteration).Fit(rows, labels[user], TrainEpochs, TrainLearnRate)
	}
}

// TrainEpisode fits the grid sequentially over a labeled block. Iteration 0
// bootstraps from the true transmitted bits used as soft estimates; every
// later iteration trains on the posteriors produced by the detectors of the
// iteration before it, so the stages form a strict dependency chain.
//
// In the drift-adaptive mechanism the enabled users' rows are reinitialized
// first, so their detectors are refit from scratch rather than warm-started.
func (c *DeepSICController) TrainEpisode(tx *mat.Dense, rx *mat.Dense) error {
	if err := c.checkShapes(tx, rx); err != nil {
		return err
	}
	if c.cfg.Mechanism == MechanismDrift {
		for user, enabled := range c.trainUsers {
			if enabled {
				c.grid.ResetUser(user)
			}
		}
	}

	labels, inputs := c.prepareTrainingData(tx, rx, tx)
	c.trainIteration(0, labels, inputs)

	n, _ := tx.Dims()
	probsVec := sic_core.UniformPriors(n, c.cfg.NUsers)
	for i := 1; i < c.cfg.Iterations; i++ {
		probsVec = c.CalculatePosteriors(i, probsVec, rx)
		labels, inputs = c.prepareTrainingData(tx, rx, probsVec)
		c.trainIteration(i, labels, inputs)
	}
	return nil
}

// CalculatePosteriors runs one soft interference cancellation round: every
// user's detector at iteration-1 scores the augmented input built from the
// frozen probsVec snapshot, and the probability mass of bit 1 becomes that
// user's refined estimate. Users are independent within a round, and the
// result is a freshly allocated matrix; the input snapshot is never mutated.
func (c *DeepSICController) CalculatePosteriors(iteration int, probsVec *mat.Dense, rx *mat.Dense) *mat.Dense {
	n, _ := probsVec.Dims()
	next := mat.NewDense(n, c.cfg.NUsers, nil)
	for user := 0; user < c.cfg.NUsers; user++ {
		in := sic_core.AugmentedInput(rx, probsVec, user)
		cell := c.grid.At(user, iteration-1)
		for i := 0; i < n; i++ {
			output := cell.Probabilities(sic_core.Row32(in, i))
			next.Set(i, user, float64(output[1]))
		}
	}
	return next
}

// Detect runs the full inference pass over an unlabeled block: uniform
// priors, Iterations propagation rounds, hard threshold at 0.5, and the
// modulator's inverse mapping back to bits. It also returns the final
// posteriors.
func (c *DeepSICController) Detect(rx *mat.Dense) (*mat.Dense, *mat.Dense) {
	n, _ := rx.Dims()
	probsVec := sic_core.UniformPriors(n, c.cfg.NUsers)
	for i := 1; i <= c.cfg.Iterations; i++ {
		probsVec = c.CalculatePosteriors(i, probsVec, rx)
	}
	bits := channel.Demodulate(sic_core.HardDecision(probsVec))
	return bits, probsVec
}

// EvaluatePilots runs the same propagation as Detect over a labeled pilot
// block. After each iteration every user's posterior column is split by the
// true transmitted bit and handed to the drift detector, which scores it
// against history (skipping the warm-up round) and then replaces the stored
// samples. All per-iteration statistics are exposed in the report.
func (c *DeepSICController) EvaluatePilots(tx *mat.Dense, rx *mat.Dense) (*mat.Dense, *mat.Dense, *sic_drift.DriftReport, error) {
	if err := c.checkShapes(tx, rx); err != nil {
		return nil, nil, nil, err
	}

	n, _ := rx.Dims()
	report := sic_drift.NewDriftReport(c.cfg.NUsers, c.cfg.Iterations)
	probsVec := sic_core.UniformPriors(n, c.cfg.NUsers)
	for i := 1; i <= c.cfg.Iterations; i++ {
		probsVec = c.CalculatePosteriors(i, probsVec, rx)
		for user := 0; user < c.cfg.NUsers; user++ {
			s0, s1 := sic_core.SplitByBit(sic_core.Column(probsVec, user), sic_core.Column(tx, user))
			stat, ok, err := c.drift.Observe(user, i-1, s0, s1)
			if err != nil {
				return nil, nil, nil, err
			}
			if ok {
				report.Record(user, i-1, stat)
			}
		}
	}

	bits := channel.Demodulate(sic_core.HardDecision(probsVec))
	return bits, probsVec, report, nil
}

// ResetDrift drops the stored pilot history, returning the drift detector to
// its warm-up state.
func (c *DeepSICController) ResetDrift() {
	c.drift.Reset()
}
