package gesture

import (
	"github.com/renderix/triggerhand/internal/detector"
)

// Session composes one pose classification with the shoot and snap trigger
// machines for a single tracked hand. It is the per-frame entry point of
// the gesture core.
//
// A Session is strictly single-threaded: each Process call runs to
// completion before the next, timestamps come from the caller, and the
// session never reads a clock. Hosts with producer and consumer on
// different goroutines must serialize access externally.
type Session struct {
	cfg        *ThresholdConfig
	classifier PoseClassifier

	shoot *TriggerStateMachine
	snap  *TriggerStateMachine

	// thumbVel tracks the thumb tip's vertical image-space position: the
	// shoot gesture is a downward flick, so positive velocity means firing
	// motion. snapVel tracks the 3D thumb-to-middle-tip distance itself.
	thumbVel *VelocityTracker
	snapVel  *VelocityTracker

	smoother      *AnchorSmoother
	lastTimestamp float64
	hasLast       bool
}

// NewSession creates a Session reading all tunables from cfg. A nil cfg
// uses the defaults. The config is shared by reference: host mutations
// through ThresholdConfig.Set take effect on the next frame.
func NewSession(cfg *ThresholdConfig) *Session {
	if cfg == nil {
		cfg = DefaultThresholds()
	}
	return &Session{
		cfg:      cfg,
		shoot:    NewTriggerStateMachine(TriggerShoot, cfg),
		snap:     NewTriggerStateMachine(TriggerSnap, cfg),
		thumbVel: NewVelocityTracker(),
		snapVel:  NewVelocityTracker(),
		smoother: NewAnchorSmoother(),
	}
}

// Config returns the shared threshold config.
func (s *Session) Config() *ThresholdConfig {
	return s.cfg
}

// Process handles exactly one landmark frame. It classifies the pose and,
// only while the pose holds, feeds both trigger machines and collects any
// fired events in frame order (shoot before snap).
//
// A nil or malformed frame, or a frame that does not classify as the pose,
// resets all in-flight trigger state: a lost pose invalidates any pending
// contact, and a corrupt sample must not leak stale deltas across the gap.
func (s *Session) Process(frame *detector.LandmarkFrame) (PoseResult, []TriggerEvent) {
	result := s.classifier.Classify(frame, s.cfg)
	if !result.IsPose {
		s.Reset()
		return result, nil
	}

	ts := frame.Timestamp
	var events []TriggerEvent

	// Shoot: thumb hammer resting near the middle PIP (aux distance), fired
	// by a rapid downward thumb flick (2D vertical velocity).
	thumbVelocity := s.thumbVel.Update(frame.Points[detector.ThumbTip].Y, ts)
	if ev := s.shoot.Update(result.AuxDistance, thumbVelocity, ts); ev != nil {
		events = append(events, *ev)
	}

	// Snap: thumb and middle fingertip pressed together, fired by rapid 3D
	// separation of that same distance.
	snapDistance := detector.Distance3D(
		frame.Points[detector.ThumbTip],
		frame.Points[detector.MiddleTip],
	)
	snapVelocity := s.snapVel.Update(snapDistance, ts)
	if ev := s.snap.Update(snapDistance, snapVelocity, ts); ev != nil {
		events = append(events, *ev)
	}

	// Smooth the aim anchor for the host's crosshair.
	if s.hasLast {
		s.smoother.Predict(ts - s.lastTimestamp)
	}
	s.smoother.Update(result.Anchor.X, result.Anchor.Y)
	s.lastTimestamp = ts
	s.hasLast = true

	return result, events
}

// SmoothedAnchor returns the Kalman-filtered aim anchor. The second return
// value is false until the pose has been seen at least once since the last
// reset. The raw per-frame anchor stays available on PoseResult.
func (s *Session) SmoothedAnchor() (Point2D, bool) {
	return s.smoother.Position()
}

// Reset clears all cross-frame state: both trigger machines, both velocity
// trackers, and the anchor smoother. The host calls this on round restarts
// and game state changes; Process calls it automatically on pose loss.
func (s *Session) Reset() {
	s.shoot.Reset()
	s.snap.Reset()
	s.thumbVel.Reset()
	s.snapVel.Reset()
	s.smoother.Reset()
	s.hasLast = false
}

// Shoot exposes the shoot trigger machine, primarily for tests and
// diagnostics overlays.
func (s *Session) Shoot() *TriggerStateMachine {
	return s.shoot
}

// Snap exposes the snap trigger machine.
func (s *Session) Snap() *TriggerStateMachine {
	return s.snap
}
