package sic_drift

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Diagonal ridge added to the pooled covariance so near-constant probability
// samples (a detector saturating at 0 or 1) stay factorizable.
const covarianceRidge = 1e-9

// TwoSampleT2 computes the two-sample Hotelling T² statistic between the
// rows of x (n1 x d) and y (n2 x d):
//
//	T² = n1*n2/(n1+n2) * (mean(x)-mean(y))' S⁻¹ (mean(x)-mean(y))
//
// with S the pooled sample covariance. The statistic is symmetric in its
// arguments and deterministic for identical inputs.
func TwoSampleT2(x *mat.Dense, y *mat.Dense) (float64, error) {
	n1, d := x.Dims()
	n2, d2 := y.Dims()
	if d != d2 {
		return 0, fmt.Errorf("sample dimension mismatch: %d vs %d", d, d2)
	}
	if n1 < 2 || n2 < 2 {
		return 0, fmt.Errorf("need at least 2 samples per group, got %d and %d", n1, n2)
	}

	diff := make([]float64, d)
	for j := 0; j < d; j++ {
		diff[j] = stat.Mean(mat.Col(nil, j, x), nil) - stat.Mean(mat.Col(nil, j, y), nil)
	}

	var cov1, cov2 mat.SymDense
	stat.CovarianceMatrix(&cov1, x, nil)
	stat.CovarianceMatrix(&cov2, y, nil)

	w1 := float64(n1-1) / float64(n1+n2-2)
	w2 := float64(n2-1) / float64(n1+n2-2)
	pooled := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			pooled.SetSym(i, j, w1*cov1.At(i, j)+w2*cov2.At(i, j))
		}
		pooled.SetSym(i, i, pooled.At(i, i)+covarianceRidge)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(pooled); !ok {
		return 0, fmt.Errorf("pooled covariance is not positive definite")
	}

	diffVec := mat.NewVecDense(d, diff)
	var solved mat.VecDense
	if err := chol.SolveVecTo(&solved, diffVec); err != nil {
		return 0, fmt.Errorf("solving pooled covariance system: %w", err)
	}

	scale := float64(n1) * float64(n2) / float64(n1+n2)
	return scale * mat.Dot(diffVec, &solved), nil
}

// sampleColumn lifts a scalar sample set into an n x 1 matrix for the
// multivariate test.
func sampleColumn(samples []float64) *mat.Dense {
	data := make([]float64, len(samples))
	copy(data, samples)
	return mat.NewDense(len(samples), 1, data)
}
