package sic_models

// DetectorGrid owns one independently trained SoftDetector per
// (user, iteration) pair. Cells are never shared between users or
// iterations.
type DetectorGrid struct {
	cells      [][]*SoftDetector
	nUsers     int
	iterations int
	inDim      int
}

// NewDetectorGrid allocates an nUsers x iterations grid of fresh detectors
// for the given augmented-input width.
func NewDetectorGrid(nUsers int, iterations int, inDim int) *DetectorGrid {
	g := &DetectorGrid{
		nUsers:     nUsers,
		iterations: iterations,
		inDim:      inDim,
	}
	g.cells = make([][]*SoftDetector, nUsers)
	for user := 0; user < nUsers; user++ {
		g.cells[user] = make([]*SoftDetector, iterations)
		for i := 0; i < iterations; i++ {
			g.cells[user][i] = NewSoftDetector(inDim)
		}
	}
	return g
}

// At returns the detector for one (user, iteration) cell.
func (g *DetectorGrid) At(user int, iteration int) *SoftDetector {
	return g.cells[user][iteration]
}

// Users returns the number of user rows in the grid.
func (g *DetectorGrid) Users() int {
	return g.nUsers
}

// Iterations returns the number of iteration columns in the grid.
func (g *DetectorGrid) Iterations() int {
	return g.iterations
}

// ResetUser replaces every cell of one user's row with freshly initialized
// detectors, discarding anything trained so far for that user.
func (g *DetectorGrid) ResetUser(user int) {
	for i := 0; i < g.iterations; i++ {
		g.cells[user][i] = NewSoftDetector(g.inDim)
	}
}

// ResetCell replaces a single cell with a freshly initialized detector.
func (g *DetectorGrid) ResetCell(user int, iteration int) {
	g.cells[user][iteration] = NewSoftDetector(g.inDim)
}

// Reset reinitializes the whole grid.
func (g *DetectorGrid) Reset() {
	for user := 0; user < g.nUsers; user++ {
		g.ResetUser(user)
	}
}
