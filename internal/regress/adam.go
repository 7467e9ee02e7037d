package regress

import "math"

// Adam is a per-parameter adaptive moment optimizer. Moments are
// bias-corrected with the step counter, so the first updates are not damped
// toward zero.
type Adam struct {
	lr, beta1, beta2, eps float64

	m, v []float64
	step int
}

// NewAdam creates an optimizer for n parameters.
func NewAdam(n int, lr, beta1, beta2, eps float64) *Adam {
	return &Adam{
		lr:    lr,
		beta1: beta1,
		beta2: beta2,
		eps:   eps,
		m:     make([]float64, n),
		v:     make([]float64, n),
	}
}

// Update applies one optimizer step to params in place. grad and params must
// have the length given to NewAdam. Every moment advances each step, also
// for parameters whose gradient is zero this step.
func (a *Adam) Update(params, grad []float64) {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))
	for i, g := range grad {
		a.m[i] = a.beta1*a.m[i] + (1-a.beta1)*g
		a.v[i] = a.beta2*a.v[i] + (1-a.beta2)*g*g
		mHat := a.m[i] / c1
		vHat := a.v[i] / c2
		params[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
}
