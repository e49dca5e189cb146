// Package detector provides the hand-landmark frame model and detection
// interfaces for the Triggerhand gesture system.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point with normalized x, y coordinates in [0, 1]
// and an optional relative depth z.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkFrame holds the 21 tracked hand keypoints for one capture instant,
// stamped with the host-supplied capture time in seconds. Frames are treated
// as immutable once produced.
type LandmarkFrame struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Timestamp  float64               `json:"timestamp"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Valid reports whether the frame is usable: non-nil with every coordinate
// finite. Consumers must treat invalid frames the same as absent hands.
func (f *LandmarkFrame) Valid() bool {
	if f == nil {
		return false
	}
	for i := 0; i < NumLandmarks; i++ {
		p := f.Points[i]
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Distance2D calculates the Euclidean distance between two points in the
// image plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance3D calculates the Euclidean distance between two 3D points.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
