// Package uvfa trains a universal value function approximator on a
// precomputed state-goal value matrix.
//
// The pipeline factors the matrix into low-rank state and goal embeddings
// via a truncated SVD, then fits two linear one-hot regressions against
// those embeddings so that held-out goal columns are never seen during
// training. The product of the learned embedding matrices is the
// reconstructed value estimate.
package uvfa

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/yyyoichi/uvfa/internal/factor"
	"github.com/yyyoichi/uvfa/internal/regress"
	"github.com/yyyoichi/uvfa/internal/values"
)

var (
	ErrBadConfig = errors.New("invalid pipeline configuration")
)

// Split reports which goal columns were used for training and which were
// held out.
type Split struct {
	TrainGoals []int
	TestGoals  []int
}

// Result carries everything a run produces: per-epoch mean squared errors
// over the train and test goal columns, the final reconstruction, the
// learned embeddings and the SVD targets they were fit against.
type Result struct {
	TrainMSE []float64
	TestMSE  []float64

	// Reconstruction is StateEmbeddings * GoalEmbeddings^T after the final
	// epoch, same shape as the input matrix.
	Reconstruction *mat.Dense

	StateEmbeddings *mat.Dense // states x rank
	GoalEmbeddings  *mat.Dense // goals x rank
	StateTargets    *mat.Dense // left singular vectors
	GoalTargets     *mat.Dense // right singular vectors scaled by singular values

	Split Split
}

// Pipeline holds the run configuration. The zero value is not usable;
// construct with New.
type Pipeline struct {
	rank         int
	learningRate float64
	epochs       int
	batchSize    int
	seed         int64
	beta1, beta2 float64
	eps          float64
}

// New initializes a pipeline. For default values, refer to the init
// function.
func New(opts ...Option) (*Pipeline, error) {
	p := new(Pipeline)
	if err := p.init(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return err
		}
	}
	if p.rank == 0 {
		p.rank = 12
	}
	if p.learningRate == 0 {
		p.learningRate = 0.005
	}
	if p.epochs == 0 {
		p.epochs = 10000
	}
	if p.batchSize == 0 {
		p.batchSize = 20
	}
	if p.seed == 0 {
		p.seed = 1234
	}
	if p.beta1 == 0 {
		p.beta1 = 0.9
	}
	if p.beta2 == 0 {
		p.beta2 = 0.999
	}
	if p.eps == 0 {
		p.eps = 1e-8
	}
	return nil
}

// Run executes the full pipeline on value matrix v with the given options.
// This is a convenience function that creates a Pipeline and calls its Run
// method.
func Run(ctx context.Context, v *mat.Dense, opts ...Option) (*Result, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, v)
}

// Run executes the pipeline on value matrix v (rows = states, columns =
// goals).
//
// Process:
//  1. Validates v and splits the goal columns into train and test halves.
//  2. Computes the rank-r truncated SVD of v with test columns masked to
//     zero, yielding per-state and per-goal embedding targets.
//  3. Trains two linear one-hot embedding maps with Adam, one minibatch
//     update per map per epoch. Goal indices are only ever drawn from the
//     training half.
//  4. After every epoch, evaluates the reconstruction over all states and
//     goals and records train- and test-column mean squared error.
//
// The run is deterministic for a fixed seed and input. Cancellation is
// checked once per epoch.
func (p *Pipeline) Run(ctx context.Context, v *mat.Dense) (*Result, error) {
	if err := values.Validate(v); err != nil {
		return nil, fmt.Errorf("value matrix: %w", err)
	}
	nStates, nGoals := v.Dims()
	if p.rank >= min(nStates, nGoals) {
		return nil, fmt.Errorf("%w: rank %d >= min(%d, %d)", ErrBadConfig, p.rank, nStates, nGoals)
	}

	rng := rand.New(rand.NewSource(p.seed))
	split := values.NewSplit(nGoals, rng)

	factors, err := factor.Factorize(v, split.Train, p.rank)
	if err != nil {
		return nil, fmt.Errorf("factorize value matrix: %w", err)
	}

	stateMap := regress.NewLinearMap(nStates, p.rank,
		regress.NewAdam(nStates*p.rank, p.learningRate, p.beta1, p.beta2, p.eps), rng)
	goalMap := regress.NewLinearMap(nGoals, p.rank,
		regress.NewAdam(nGoals*p.rank, p.learningRate, p.beta1, p.beta2, p.eps), rng)

	res := &Result{
		TrainMSE:     make([]float64, 0, p.epochs),
		TestMSE:      make([]float64, 0, p.epochs),
		StateTargets: factors.PhiS,
		GoalTargets:  factors.PhiG,
		Split:        Split{TrainGoals: split.Train, TestGoals: split.Test},
	}

	var est mat.Dense
	for epoch := 0; epoch < p.epochs; epoch++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("epoch %d: %w", epoch, ctx.Err())
		default:
		}

		stateMap.Step(regress.SampleRange(rng, nStates, p.batchSize), factors.PhiS)
		goalMap.Step(regress.SampleFrom(rng, split.Train, p.batchSize), factors.PhiG)

		ws := stateMap.Embeddings()
		wg := goalMap.Embeddings()
		est.Mul(ws, wg.T())
		res.TrainMSE = append(res.TrainMSE, columnMSE(v, &est, split.Train))
		res.TestMSE = append(res.TestMSE, columnMSE(v, &est, split.Test))

		if epoch == p.epochs-1 {
			res.StateEmbeddings = ws
			res.GoalEmbeddings = wg
			res.Reconstruction = mat.DenseCopyOf(&est)
		}
	}
	return res, nil
}

// columnMSE averages the squared error between truth and est over the
// listed columns, all rows.
func columnMSE(truth, est mat.Matrix, cols []int) float64 {
	rows, _ := truth.Dims()
	if len(cols) == 0 || rows == 0 {
		return 0
	}
	var sum float64
	for _, j := range cols {
		for i := range rows {
			d := truth.At(i, j) - est.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(rows*len(cols))
}

// Columns copies the listed columns of m, in order, into a new matrix.
// Useful for restricting heatmaps to the train or test goal subset.
func Columns(m mat.Matrix, cols []int) *mat.Dense {
	rows, _ := m.Dims()
	out := mat.NewDense(rows, len(cols), nil)
	for k, j := range cols {
		for i := range rows {
			out.Set(i, k, m.At(i, j))
		}
	}
	return out
}
