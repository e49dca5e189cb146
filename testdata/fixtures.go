// Package testdata provides synthetic landmark sequences for driving the
// gesture pipeline in tests without a camera or detection model.
package testdata

import (
	"github.com/renderix/triggerhand/internal/detector"
)

// FingerGunFrames returns n copies of the finger-gun preset stamped at dt
// intervals starting at start. The pose holds steady across the sequence.
func FingerGunFrames(n int, start, dt float64) []detector.LandmarkFrame {
	frames := make([]detector.LandmarkFrame, n)
	for i := range frames {
		frames[i] = detector.FingerGunLandmarks()
		frames[i].Timestamp = start + float64(i)*dt
	}
	return frames
}

// ShootFrames returns a finger-gun sequence ending in a shoot gesture: the
// thumb rests near the middle PIP for contactFrames frames, then flicks
// down fast enough to clear the default shoot thresholds on the final
// frame. The pose classification holds throughout.
func ShootFrames(contactFrames int, start, dt float64) []detector.LandmarkFrame {
	frames := FingerGunFrames(contactFrames+1, start, dt)

	// Thumb snaps downward past the middle finger: the thumb-to-middle-PIP
	// distance opens past the shoot distance threshold while the vertical
	// velocity spikes.
	last := &frames[contactFrames]
	last.Points[detector.ThumbTip] = detector.Point3D{X: 0.57, Y: 0.75, Z: 0.0}

	return frames
}

// SnapFrames returns a finger-gun sequence ending in a snap gesture: thumb
// and middle fingertips pressed together for contactFrames frames, then
// separated rapidly on the final frame. The pose classification holds
// throughout.
func SnapFrames(contactFrames int, start, dt float64) []detector.LandmarkFrame {
	frames := FingerGunFrames(contactFrames+1, start, dt)

	// During contact the thumb tip sits on the middle fingertip.
	for i := 0; i < contactFrames; i++ {
		frames[i].Points[detector.ThumbTip] = detector.Point3D{X: 0.52, Y: 0.695, Z: -0.02}
	}

	// The final frame keeps the preset's raised thumb, a rapid 3D
	// separation from the middle fingertip.
	return frames
}

// PoseLossFrame returns an open palm stamped at the given time: a valid
// hand that does not classify as a finger gun.
func PoseLossFrame(timestamp float64) detector.LandmarkFrame {
	frame := detector.OpenPalmLandmarks()
	frame.Timestamp = timestamp
	return frame
}
