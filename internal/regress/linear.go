// Package regress trains linear one-hot-to-embedding maps against fixed
// factor targets.
package regress

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// LinearMap is a learnable linear map from one-hot vectors of length n to
// r-dimensional embeddings. Because inputs are one-hot, the prediction for
// index i is simply row i of the weight matrix, and a full forward pass over
// the identity matrix is the weight matrix itself. No bias term: with
// one-hot inputs a bias is indistinguishable from a constant shift of every
// weight row.
type LinearMap struct {
	n, r int
	w    *mat.Dense // n x r
	grad []float64  // scratch, n*r
	opt  *Adam
}

// NewLinearMap initializes an n -> r map with small random weights drawn
// from rng and the given optimizer. The optimizer must have been created for
// n*r parameters.
func NewLinearMap(n, r int, opt *Adam, rng *rand.Rand) *LinearMap {
	w := mat.NewDense(n, r, nil)
	for i := range n {
		for j := range r {
			w.Set(i, j, rng.NormFloat64()*0.01)
		}
	}
	return &LinearMap{
		n:    n,
		r:    r,
		w:    w,
		grad: make([]float64, n*r),
		opt:  opt,
	}
}

// Dims returns the input size and embedding size.
func (l *LinearMap) Dims() (n, r int) { return l.n, l.r }

// Step performs one minibatch update. Each index in batch selects a weight
// row and the matching target row; the loss is mean squared euclidean
// distance over the batch. Only sampled rows contribute gradient, but the
// optimizer update runs over the full weight matrix so that moment estimates
// keep decaying. Returns the batch loss before the update.
func (l *LinearMap) Step(batch []int, targets *mat.Dense) float64 {
	for i := range l.grad {
		l.grad[i] = 0
	}
	w := l.w.RawMatrix().Data

	var loss float64
	scale := 2 / float64(len(batch))
	for _, idx := range batch {
		base := idx * l.r
		for j := range l.r {
			d := w[base+j] - targets.At(idx, j)
			loss += d * d
			l.grad[base+j] += scale * d
		}
	}
	l.opt.Update(w, l.grad)
	return loss / float64(len(batch))
}

// Predict returns the embedding for a single one-hot index.
func (l *LinearMap) Predict(i int) []float64 {
	out := make([]float64, l.r)
	copy(out, l.w.RawRowView(i))
	return out
}

// Embeddings materializes the full-batch forward pass over the identity
// matrix: one embedding row per input index. The returned matrix is a copy
// and stays valid across further training steps.
func (l *LinearMap) Embeddings() *mat.Dense {
	return mat.DenseCopyOf(l.w)
}
