package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []LandmarkFrame
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []LandmarkFrame) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands stamped with the given timestamp.
func (m *MockDetector) Detect(frame *gocv.Mat, timestamp float64) ([]LandmarkFrame, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]LandmarkFrame, len(m.hands))
	for i := range m.hands {
		out[i] = m.hands[i]
		out[i].Timestamp = timestamp
	}
	return out, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FingerGunLandmarks returns a preset LandmarkFrame shaped like a finger gun:
// index extended toward the target, thumb raised as the hammer, middle, ring
// and pinky curled against the palm with their tips bunched together.
func FingerGunLandmarks() LandmarkFrame {
	frame := LandmarkFrame{
		Handedness: "Right",
		Score:      0.95,
	}

	frame.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb raised (the "hammer"), resting near the middle finger PIP
	frame.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	frame.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.72, Z: 0.0}
	frame.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.66, Z: 0.0}
	frame.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.60, Z: 0.0}

	// Index finger extended (the "barrel")
	frame.Points[IndexMCP] = Point3D{X: 0.52, Y: 0.68, Z: 0.0}
	frame.Points[IndexPIP] = Point3D{X: 0.51, Y: 0.60, Z: 0.0}
	frame.Points[IndexDIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	frame.Points[IndexTip] = Point3D{X: 0.50, Y: 0.45, Z: 0.0}

	// Middle finger curled
	frame.Points[MiddleMCP] = Point3D{X: 0.49, Y: 0.68, Z: 0.0}
	frame.Points[MiddlePIP] = Point3D{X: 0.52, Y: 0.66, Z: -0.02}
	frame.Points[MiddleDIP] = Point3D{X: 0.53, Y: 0.68, Z: -0.04}
	frame.Points[MiddleTip] = Point3D{X: 0.52, Y: 0.70, Z: -0.02}

	// Ring finger curled
	frame.Points[RingMCP] = Point3D{X: 0.46, Y: 0.69, Z: 0.0}
	frame.Points[RingPIP] = Point3D{X: 0.49, Y: 0.68, Z: -0.02}
	frame.Points[RingDIP] = Point3D{X: 0.50, Y: 0.70, Z: -0.04}
	frame.Points[RingTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	frame.Points[PinkyMCP] = Point3D{X: 0.43, Y: 0.71, Z: 0.0}
	frame.Points[PinkyPIP] = Point3D{X: 0.46, Y: 0.70, Z: -0.02}
	frame.Points[PinkyDIP] = Point3D{X: 0.48, Y: 0.72, Z: -0.04}
	frame.Points[PinkyTip] = Point3D{X: 0.48, Y: 0.74, Z: -0.02}

	return frame
}

// OpenPalmLandmarks returns a preset LandmarkFrame representing an open palm.
// All fingers are extended outward; the frame does not qualify as a finger gun.
func OpenPalmLandmarks() LandmarkFrame {
	frame := LandmarkFrame{
		Handedness: "Right",
		Score:      0.95,
	}

	frame.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	frame.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	frame.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	frame.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	frame.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	frame.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	frame.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	frame.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	frame.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	frame.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	frame.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	frame.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	frame.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	frame.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	frame.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	frame.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	frame.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	frame.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	frame.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	frame.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	frame.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return frame
}
