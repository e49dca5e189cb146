package gesture

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default noise parameters for anchor smoothing.
const (
	anchorProcessNoise     = 1e-3
	anchorMeasurementNoise = 1e-1
)

// AnchorSmoother is a constant-velocity Kalman filter over the 2D aim
// anchor. It damps landmark jitter on the index fingertip so the host's
// crosshair does not shake, and keeps producing predictions across brief
// detection gaps. State vector: [x, y, vx, vy].
type AnchorSmoother struct {
	state *mat.VecDense // [x, y, vx, vy]
	p     *mat.Dense    // error covariance
	q     *mat.Dense    // process noise covariance
	r     *mat.Dense    // measurement noise covariance
	h     *mat.Dense    // measurement matrix (position only)

	initialized bool
}

// NewAnchorSmoother creates an AnchorSmoother with default noise parameters.
func NewAnchorSmoother() *AnchorSmoother {
	s := &AnchorSmoother{}
	s.Reset()
	return s
}

// Reset discards all filter state. The next Update re-initializes the
// filter from its measurement. Must be called on pose loss.
func (s *AnchorSmoother) Reset() {
	s.state = mat.NewVecDense(4, nil)
	s.p = identityScaled(4, 1000) // start with high uncertainty
	s.q = identityScaled(4, anchorProcessNoise)
	s.r = identityScaled(2, anchorMeasurementNoise)
	s.h = mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	s.initialized = false
}

// Predict advances the state by dt seconds under the constant-velocity
// model. A no-op until the first measurement arrives.
func (s *AnchorSmoother) Predict(dt float64) {
	if !s.initialized {
		return
	}

	f := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	// state = F * state
	var next mat.VecDense
	next.MulVec(f, s.state)
	s.state.CopyVec(&next)

	// P = F * P * Fᵀ + Q
	var fp, fpft mat.Dense
	fp.Mul(f, s.p)
	fpft.Mul(&fp, f.T())
	fpft.Add(&fpft, s.q)
	s.p.Copy(&fpft)
}

// Update corrects the state with a position measurement. The first
// measurement initializes the filter with zero velocity.
func (s *AnchorSmoother) Update(x, y float64) {
	if !s.initialized {
		s.state.SetVec(0, x)
		s.state.SetVec(1, y)
		s.state.SetVec(2, 0)
		s.state.SetVec(3, 0)
		s.initialized = true
		return
	}

	z := mat.NewVecDense(2, []float64{x, y})

	// Innovation: y = z - H * state
	var hx, innov mat.VecDense
	hx.MulVec(s.h, s.state)
	innov.SubVec(z, &hx)

	// Innovation covariance: S = H * P * Hᵀ + R
	var hp, hpht mat.Dense
	hp.Mul(s.h, s.p)
	hpht.Mul(&hp, s.h.T())
	hpht.Add(&hpht, s.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&hpht); err != nil {
		// Degenerate covariance; skip this correction.
		return
	}

	// Kalman gain: K = P * Hᵀ * S⁻¹
	var pht, k mat.Dense
	pht.Mul(s.p, s.h.T())
	k.Mul(&pht, &sInv)

	// state = state + K * innovation
	var ky mat.VecDense
	ky.MulVec(&k, &innov)
	s.state.AddVec(s.state, &ky)

	// P = (I - K * H) * P
	var kh, ikh, newP mat.Dense
	kh.Mul(&k, s.h)
	ikh.Sub(identityScaled(4, 1), &kh)
	newP.Mul(&ikh, s.p)
	s.p.Copy(&newP)
}

// Position returns the current smoothed anchor estimate. The second return
// value is false until the filter has seen a measurement.
func (s *AnchorSmoother) Position() (Point2D, bool) {
	if !s.initialized {
		return Point2D{}, false
	}
	return Point2D{X: s.state.AtVec(0), Y: s.state.AtVec(1)}, true
}

// Speed returns the magnitude of the estimated anchor velocity.
func (s *AnchorSmoother) Speed() float64 {
	if !s.initialized {
		return 0
	}
	vx := s.state.AtVec(2)
	vy := s.state.AtVec(3)
	return math.Sqrt(vx*vx + vy*vy)
}

// identityScaled returns scale * I as a dense n x n matrix.
func identityScaled(n int, scale float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, scale)
	}
	return m
}
