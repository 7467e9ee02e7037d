// Package values loads the state-goal value matrix and manages the
// train/test goal split.
package values

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotMatrix     = errors.New("value array is not 2-dimensional")
	ErrNotFinite     = errors.New("value matrix contains NaN or Inf")
	ErrColumnMajor   = errors.New("column-major (fortran order) arrays are not supported")
	ErrEmptyMatrix   = errors.New("value matrix has zero rows or columns")
	ErrUnknownFormat = errors.New("unknown value matrix file format")
)

// Load reads a dense 2-D float64 matrix from path. The format is chosen by
// extension: ".npy" is read as a NumPy array, anything else as gonum's
// native binary encoding of a mat.Dense.
// Rows are states, columns are goals.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open value matrix: %w", err)
	}
	defer f.Close()

	var v *mat.Dense
	switch filepath.Ext(path) {
	case ".npy":
		v, err = readNpy(f)
	case ".bin", ".dense":
		v = new(mat.Dense)
		_, err = v.UnmarshalBinaryFrom(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := Validate(v); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return v, nil
}

func readNpy(f *os.File) (*mat.Dense, error) {
	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, err
	}
	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: shape %v", ErrNotMatrix, shape)
	}
	if r.Header.Descr.Fortran {
		return nil, ErrColumnMajor
	}
	var data []float64
	if err := r.Read(&data); err != nil {
		return nil, fmt.Errorf("decode npy data: %w", err)
	}
	if len(data) != shape[0]*shape[1] {
		return nil, fmt.Errorf("npy data length %d does not match shape %v", len(data), shape)
	}
	return mat.NewDense(shape[0], shape[1], data), nil
}

// Validate rejects matrices the pipeline cannot work with: empty dimensions
// and non-finite entries. Non-finite values in the input are a data error,
// never silently propagated into the factorization.
func Validate(v *mat.Dense) error {
	rows, cols := v.Dims()
	if rows == 0 || cols == 0 {
		return ErrEmptyMatrix
	}
	for i := range rows {
		for j := range cols {
			x := v.At(i, j)
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: at (%d, %d)", ErrNotFinite, i, j)
			}
		}
	}
	return nil
}
