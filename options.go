package uvfa

import "fmt"

type Option func(*Pipeline) error

// WithRank sets the target rank of the truncated SVD and the width of the
// learned embeddings. Must be at least 1 and strictly below both matrix
// dimensions at Run time.
func WithRank(rank int) Option {
	return func(p *Pipeline) error {
		if rank < 1 {
			return fmt.Errorf("%w: rank %d < 1", ErrBadConfig, rank)
		}
		p.rank = rank
		return nil
	}
}

// WithLearningRate sets the optimizer step size for both embedding maps.
func WithLearningRate(lr float64) Option {
	return func(p *Pipeline) error {
		if lr <= 0 {
			return fmt.Errorf("%w: learning rate %v <= 0", ErrBadConfig, lr)
		}
		p.learningRate = lr
		return nil
	}
}

// WithEpochs sets the number of training epochs. Each epoch performs one
// minibatch update per embedding map followed by a full evaluation pass.
func WithEpochs(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("%w: epochs %d < 1", ErrBadConfig, n)
		}
		p.epochs = n
		return nil
	}
}

// WithBatchSize sets the minibatch size. Batches larger than the available
// index pool are clipped to the pool size at sampling time.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("%w: batch size %d < 1", ErrBadConfig, n)
		}
		p.batchSize = n
		return nil
	}
}

// WithSeed fixes the pseudo-random generator used for the goal split,
// weight initialization and minibatch sampling. Runs with equal seeds and
// inputs are identical.
func WithSeed(seed int64) Option {
	return func(p *Pipeline) error {
		p.seed = seed
		return nil
	}
}

// WithAdamBetas overrides the optimizer's first and second moment decay
// rates.
func WithAdamBetas(beta1, beta2 float64) Option {
	return func(p *Pipeline) error {
		if beta1 <= 0 || beta1 >= 1 || beta2 <= 0 || beta2 >= 1 {
			return fmt.Errorf("%w: betas must lie in (0, 1), got %v, %v", ErrBadConfig, beta1, beta2)
		}
		p.beta1, p.beta2 = beta1, beta2
		return nil
	}
}

// WithEpsilon overrides the optimizer's denominator fuzz term.
func WithEpsilon(eps float64) Option {
	return func(p *Pipeline) error {
		if eps <= 0 {
			return fmt.Errorf("%w: epsilon %v <= 0", ErrBadConfig, eps)
		}
		p.eps = eps
		return nil
	}
}
