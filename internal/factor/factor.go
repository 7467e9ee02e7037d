// Package factor computes the rank-r truncated SVD targets for the
// embedding regressions.
package factor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrRank          = errors.New("rank must satisfy 1 <= rank < min(states, goals)")
	ErrNotFactorized = errors.New("cannot factorize value matrix")
)

// Factors holds the regression targets produced by the truncated SVD of the
// masked value matrix. PhiS rows are per-state targets (left singular
// vectors), PhiG rows are per-goal targets (right singular vectors scaled by
// the singular values). The asymmetric scaling is intentional: it fixes the
// magnitude of the goal-side targets so that PhiS * PhiG^T reconstructs the
// masked matrix.
type Factors struct {
	PhiS *mat.Dense // states x rank
	PhiG *mat.Dense // goals x rank
	// Singular values of the masked matrix, descending, length rank.
	Sigma []float64
}

// Factorize masks every column of v outside trainCols to zero, computes a
// thin SVD and truncates it to the top rank singular triplets. Singular
// vectors are unique only up to sign; callers must not rely on a particular
// sign convention.
func Factorize(v *mat.Dense, trainCols []int, rank int) (*Factors, error) {
	rows, cols := v.Dims()
	if rank < 1 || rank >= min(rows, cols) {
		return nil, fmt.Errorf("%w: rank=%d, states=%d, goals=%d", ErrRank, rank, rows, cols)
	}

	masked := Mask(v, trainCols)
	var svd mat.SVD
	if ok := svd.Factorize(masked, mat.SVDThin); !ok {
		return nil, ErrNotFactorized
	}

	var u, vt mat.Dense
	svd.UTo(&u)
	svd.VTo(&vt)
	sigma := svd.Values(nil)

	phiS := mat.DenseCopyOf(u.Slice(0, rows, 0, rank))
	phiG := mat.DenseCopyOf(vt.Slice(0, cols, 0, rank))
	for k := range rank {
		for j := range cols {
			phiG.Set(j, k, phiG.At(j, k)*sigma[k])
		}
	}

	return &Factors{PhiS: phiS, PhiG: phiG, Sigma: sigma[:rank]}, nil
}

// Mask returns a copy of v with every column not listed in keepCols set to
// zero.
func Mask(v *mat.Dense, keepCols []int) *mat.Dense {
	rows, cols := v.Dims()
	keep := make(map[int]bool, len(keepCols))
	for _, c := range keepCols {
		keep[c] = true
	}
	masked := mat.NewDense(rows, cols, nil)
	for j := range cols {
		if !keep[j] {
			continue
		}
		for i := range rows {
			masked.Set(i, j, v.At(i, j))
		}
	}
	return masked
}

// Reconstruction multiplies the factors back into a states x goals estimate
// of the masked value matrix.
func (f *Factors) Reconstruction() *mat.Dense {
	var rec mat.Dense
	rec.Mul(f.PhiS, f.PhiG.T())
	return &rec
}
