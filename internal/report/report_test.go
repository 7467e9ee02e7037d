package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/yyyoichi/uvfa/internal/report"
)

func TestLossCurves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.html")
	train := []float64{1.0, 0.5, 0.25, 0.125}
	test := []float64{1.2, 0.9, 0.8, 0.75}

	require.NoError(t, report.LossCurves(train, test, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "chart file should not be empty")
}

func TestLossCurves_LengthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.html")
	err := report.LossCurves([]float64{1, 2}, []float64{1}, path)
	assert.Error(t, err)
}

func TestHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heat.html")
	m := mat.NewDense(3, 4, []float64{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	})

	require.NoError(t, report.Heatmap("ground truth", m, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
