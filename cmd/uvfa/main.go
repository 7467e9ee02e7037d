// Command uvfa runs the value-matrix factorization and embedding-regression
// pipeline and writes diagnostic charts under an output directory.
//
// The value matrix is loaded from -input (.npy or gonum binary), or
// synthesized from the four-rooms gridworld with -synthetic.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/yyyoichi/uvfa"
	"github.com/yyyoichi/uvfa/internal/gridworld"
	"github.com/yyyoichi/uvfa/internal/report"
	"github.com/yyyoichi/uvfa/internal/runs"
	"github.com/yyyoichi/uvfa/internal/values"
)

func main() {
	input := flag.String("input", "", "path to the value matrix (.npy or gonum .bin)")
	synthetic := flag.Bool("synthetic", false, "use the four-rooms gridworld value matrix instead of a file")
	gamma := flag.Float64("gamma", 0.9, "discount factor for the synthetic value matrix")
	rank := flag.Int("rank", 12, "SVD truncation rank / embedding width")
	lr := flag.Float64("lr", 0.005, "learning rate")
	epochs := flag.Int("epochs", 10000, "number of training epochs")
	batch := flag.Int("batch", 20, "minibatch size")
	seed := flag.Int64("seed", 1234, "random seed")
	outDir := flag.String("out", "out", "output directory for charts")
	dbPath := flag.String("db", "", "optional SQLite file to record the run")
	flag.Parse()

	v, err := loadMatrix(*input, *synthetic, *gamma)
	if err != nil {
		log.Fatalf("load value matrix: %v", err)
	}
	nStates, nGoals := v.Dims()
	log.Printf("value matrix: %d states x %d goals", nStates, nGoals)

	res, err := uvfa.Run(context.Background(), v,
		uvfa.WithRank(*rank),
		uvfa.WithLearningRate(*lr),
		uvfa.WithEpochs(*epochs),
		uvfa.WithBatchSize(*batch),
		uvfa.WithSeed(*seed),
	)
	if err != nil {
		log.Fatalf("run pipeline: %v", err)
	}

	last := len(res.TrainMSE) - 1
	log.Printf("final MSE: train=%.6g test=%.6g (%d epochs)",
		res.TrainMSE[last], res.TestMSE[last], len(res.TrainMSE))

	if err := writeCharts(*outDir, v, res); err != nil {
		log.Fatalf("write charts: %v", err)
	}
	log.Printf("charts saved to: %s", *outDir)

	if *dbPath != "" {
		if err := recordRun(*dbPath, nStates, nGoals, *rank, *lr, *epochs, *batch, *seed, res); err != nil {
			log.Fatalf("record run: %v", err)
		}
		log.Printf("run recorded in: %s", *dbPath)
	}
}

func loadMatrix(input string, synthetic bool, gamma float64) (*mat.Dense, error) {
	if synthetic {
		return gridworld.FourRooms().Values(gamma)
	}
	if input == "" {
		flag.Usage()
		os.Exit(2)
	}
	return values.Load(input)
}

func writeCharts(outDir string, v *mat.Dense, res *uvfa.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := report.LossCurves(res.TrainMSE, res.TestMSE,
		filepath.Join(outDir, "loss_curves.html")); err != nil {
		return err
	}
	heatmaps := []struct {
		title string
		m     mat.Matrix
		file  string
	}{
		{"Ground truth (train goals)", uvfa.Columns(v, res.Split.TrainGoals), "truth_train.html"},
		{"Reconstruction (train goals)", uvfa.Columns(res.Reconstruction, res.Split.TrainGoals), "recon_train.html"},
		{"Ground truth (test goals)", uvfa.Columns(v, res.Split.TestGoals), "truth_test.html"},
		{"Reconstruction (test goals)", uvfa.Columns(res.Reconstruction, res.Split.TestGoals), "recon_test.html"},
	}
	for _, h := range heatmaps {
		if err := report.Heatmap(h.title, h.m, filepath.Join(outDir, h.file)); err != nil {
			return err
		}
	}
	return nil
}

func recordRun(dbPath string, states, goals, rank int, lr float64, epochs, batch int, seed int64, res *uvfa.Result) error {
	db, err := runs.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	runID, err := db.RecordRun(runs.Config{
		States:       states,
		Goals:        goals,
		Rank:         rank,
		LearningRate: lr,
		Epochs:       epochs,
		BatchSize:    batch,
		Seed:         seed,
	})
	if err != nil {
		return err
	}
	return db.RecordMetrics(runID, res.TrainMSE, res.TestMSE)
}
