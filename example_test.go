package uvfa_test

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/yyyoichi/uvfa"
)

func Example() {
	// A small goal-conditioned value matrix: 6 states x 6 goals, value
	// decaying with distance between state and goal index.
	v := mat.NewDense(6, 6, nil)
	for s := 0; s < 6; s++ {
		for g := 0; g < 6; g++ {
			d := s - g
			if d < 0 {
				d = -d
			}
			v.Set(s, g, 1/float64(1+d))
		}
	}

	res, err := uvfa.Run(context.Background(), v,
		uvfa.WithRank(2),
		uvfa.WithEpochs(50),
		uvfa.WithBatchSize(3),
		uvfa.WithSeed(1234),
	)
	if err != nil {
		fmt.Printf("run failed: %v\n", err)
		return
	}

	rows, cols := res.Reconstruction.Dims()
	fmt.Printf("epochs recorded: %d\n", len(res.TrainMSE))
	fmt.Printf("reconstruction: %dx%d\n", rows, cols)
	fmt.Printf("train goals: %d, test goals: %d\n",
		len(res.Split.TrainGoals), len(res.Split.TestGoals))

	// Output:
	// epochs recorded: 50
	// reconstruction: 6x6
	// train goals: 3, test goals: 3
}
