package uvfa_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/yyyoichi/uvfa"
	"github.com/yyyoichi/uvfa/internal/gridworld"
)

// lowRankMatrix builds an exactly rank-r matrix as the product of two
// random factor matrices.
func lowRankMatrix(n, r int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	s := mat.NewDense(n, r, nil)
	g := mat.NewDense(n, r, nil)
	for i := range n {
		for j := range r {
			s.Set(i, j, rng.NormFloat64())
			g.Set(i, j, rng.NormFloat64())
		}
	}
	var v mat.Dense
	v.Mul(s, g.T())
	return &v
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func TestRun_FourRoomsScenario(t *testing.T) {
	// 4-room gridworld, 16 positions, exactly rank-4 synthetic values: the
	// masked matrix keeps rank <= 4, so the rank-4 factorization is exact on
	// training columns and the regression can drive the train error toward
	// zero.
	v := lowRankMatrix(16, 4, 99)

	res, err := uvfa.Run(context.Background(), v,
		uvfa.WithRank(4),
		uvfa.WithLearningRate(0.05),
		uvfa.WithEpochs(600),
		uvfa.WithBatchSize(8),
		uvfa.WithSeed(1234),
	)
	require.NoError(t, err)
	require.Len(t, res.TrainMSE, 600)
	require.Len(t, res.TestMSE, 600)

	t.Run("goal split partitions all columns", func(t *testing.T) {
		seen := make(map[int]int)
		for _, g := range res.Split.TrainGoals {
			seen[g]++
		}
		for _, g := range res.Split.TestGoals {
			seen[g]++
		}
		require.Len(t, seen, 16)
		for g := range 16 {
			assert.Equal(t, 1, seen[g], "goal %d", g)
		}
	})

	t.Run("train error converges", func(t *testing.T) {
		head := mean(res.TrainMSE[:50])
		tail := mean(res.TrainMSE[550:])
		assert.Less(t, tail, head/20, "train MSE should shrink by well over an order of magnitude")
		assert.Less(t, res.TrainMSE[599], res.TrainMSE[0])
	})

	t.Run("histories stay finite", func(t *testing.T) {
		for epoch := range 600 {
			assert.False(t, math.IsNaN(res.TrainMSE[epoch]) || math.IsInf(res.TrainMSE[epoch], 0))
			assert.False(t, math.IsNaN(res.TestMSE[epoch]) || math.IsInf(res.TestMSE[epoch], 0))
		}
	})

	t.Run("reconstruction is the product of the learned embeddings", func(t *testing.T) {
		rows, cols := res.Reconstruction.Dims()
		require.Equal(t, 16, rows)
		require.Equal(t, 16, cols)

		var want mat.Dense
		want.Mul(res.StateEmbeddings, res.GoalEmbeddings.T())
		for i := range rows {
			for j := range cols {
				assert.InDelta(t, want.At(i, j), res.Reconstruction.At(i, j), 1e-12)
			}
		}
	})
}

func TestRun_GridworldValues(t *testing.T) {
	v, err := gridworld.FourRooms().Values(0.9)
	require.NoError(t, err)

	res, err := uvfa.Run(context.Background(), v,
		uvfa.WithRank(4),
		uvfa.WithLearningRate(0.05),
		uvfa.WithEpochs(300),
		uvfa.WithBatchSize(8),
		uvfa.WithSeed(1234),
	)
	require.NoError(t, err)
	assert.Less(t, mean(res.TrainMSE[250:]), mean(res.TrainMSE[:50]),
		"train MSE should decrease on average")
}

func TestRun_Deterministic(t *testing.T) {
	v := lowRankMatrix(12, 3, 7)
	opts := []uvfa.Option{
		uvfa.WithRank(3),
		uvfa.WithEpochs(40),
		uvfa.WithBatchSize(4),
		uvfa.WithSeed(555),
	}

	a, err := uvfa.Run(context.Background(), v, opts...)
	require.NoError(t, err)
	b, err := uvfa.Run(context.Background(), v, opts...)
	require.NoError(t, err)

	assert.Equal(t, a.TrainMSE, b.TrainMSE)
	assert.Equal(t, a.TestMSE, b.TestMSE)
	assert.Equal(t, a.Split, b.Split)
}

func TestRun_OversizedBatchIsClipped(t *testing.T) {
	v := lowRankMatrix(8, 2, 3)

	res, err := uvfa.Run(context.Background(), v,
		uvfa.WithRank(2),
		uvfa.WithEpochs(10),
		uvfa.WithBatchSize(1000),
		uvfa.WithSeed(1),
	)
	require.NoError(t, err)
	assert.Len(t, res.TrainMSE, 10)
}

func TestRun_ConfigErrors(t *testing.T) {
	v := lowRankMatrix(8, 2, 3)
	ctx := context.Background()

	tests := []struct {
		name string
		opts []uvfa.Option
	}{
		{"rank at dimension", []uvfa.Option{uvfa.WithRank(8)}},
		{"rank above dimension", []uvfa.Option{uvfa.WithRank(20)}},
		{"zero rank", []uvfa.Option{uvfa.WithRank(0)}},
		{"negative learning rate", []uvfa.Option{uvfa.WithLearningRate(-1)}},
		{"zero epochs", []uvfa.Option{uvfa.WithEpochs(0)}},
		{"zero batch", []uvfa.Option{uvfa.WithBatchSize(0)}},
		{"betas out of range", []uvfa.Option{uvfa.WithAdamBetas(1.5, 0.9)}},
		{"bad epsilon", []uvfa.Option{uvfa.WithEpsilon(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uvfa.Run(ctx, v, tt.opts...)
			assert.ErrorIs(t, err, uvfa.ErrBadConfig)
		})
	}
}

func TestRun_RejectsNonFiniteValues(t *testing.T) {
	v := mat.NewDense(4, 4, nil)
	v.Set(2, 1, math.NaN())

	_, err := uvfa.Run(context.Background(), v, uvfa.WithRank(2), uvfa.WithEpochs(5))
	assert.Error(t, err)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uvfa.Run(ctx, lowRankMatrix(8, 2, 3),
		uvfa.WithRank(2), uvfa.WithEpochs(1000))
	assert.ErrorIs(t, err, context.Canceled)
}
