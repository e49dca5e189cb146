package gesture

// VelocityTracker estimates the finite-difference velocity of a single
// scalar signal across frames. Positive velocity means an increasing value,
// e.g. a growing separation distance or a thumb moving down in image space.
type VelocityTracker struct {
	prevValue float64
	prevTime  float64
	hasPrev   bool
}

// NewVelocityTracker creates an empty VelocityTracker.
func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{}
}

// Update records a new sample and returns the estimated velocity.
// The first sample after construction or Reset, and any sample with zero
// elapsed time, yields a velocity of 0, never NaN or Inf.
func (t *VelocityTracker) Update(value, timestamp float64) float64 {
	velocity := 0.0
	if t.hasPrev {
		if dt := timestamp - t.prevTime; dt != 0 {
			velocity = (value - t.prevValue) / dt
		}
	}

	t.prevValue = value
	t.prevTime = timestamp
	t.hasPrev = true

	return velocity
}

// Reset discards the previous sample. Callers must invoke it whenever the
// underlying signal's continuity breaks (hand left the frame, game reset)
// so the next update does not produce a spurious spike across the gap.
func (t *VelocityTracker) Reset() {
	t.prevValue = 0
	t.prevTime = 0
	t.hasPrev = false
}
