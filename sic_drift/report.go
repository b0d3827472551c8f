package sic_drift

// DriftReport collects the statistics produced during one pilot evaluation.
// Every (user, iteration) cell is exposed so the caller can decide which
// iterations matter; entries are only meaningful where Valid is set (the
// warm-up round produces none).
type DriftReport struct {
	Stats [][]float64
	Valid [][]bool
}

// NewDriftReport allocates an empty nUsers x iterations report.
func NewDriftReport(nUsers int, iterations int) *DriftReport {
	r := &DriftReport{
		Stats: make([][]float64, nUsers),
		Valid: make([][]bool, nUsers),
	}
	for user := 0; user < nUsers; user++ {
		r.Stats[user] = make([]float64, iterations)
		r.Valid[user] = make([]bool, iterations)
	}
	return r
}

// Record stores one cell's statistic.
func (r *DriftReport) Record(user int, iteration int, stat float64) {
	r.Stats[user][iteration] = stat
	r.Valid[user][iteration] = true
}

// FinalStats returns the last-iteration statistic for every user. ok is
// false unless every user produced one, which is the case on every pilot
// evaluation after the first.
func (r *DriftReport) FinalStats() ([]float64, bool) {
	if len(r.Stats) == 0 {
		return nil, false
	}
	last := len(r.Stats[0]) - 1
	stats := make([]float64, len(r.Stats))
	for user := range r.Stats {
		if !r.Valid[user][last] {
			return nil, false
		}
		stats[user] = r.Stats[user][last]
	}
	return stats, true
}
