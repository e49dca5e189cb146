// Package gesture implements the real-time finger-gun classifier and the
// temporal trigger-event detectors (shoot, snap) built on top of per-frame
// hand landmarks.
package gesture

import (
	"errors"
	"fmt"
)

// Parameter names accepted by ThresholdConfig.Set. These are the names
// exposed through the settings API and persisted by the host.
const (
	ParamThumbIndexThreshold    = "thumb_index_threshold"
	ParamMiddleRingThreshold    = "middle_ring_threshold"
	ParamRingPinkyThreshold     = "ring_pinky_threshold"
	ParamIndexWristThreshold    = "index_wrist_threshold"
	ParamShootDistanceThreshold = "shoot_distance_threshold"
	ParamShootVelocityThreshold = "shoot_velocity_threshold"
	ParamSnapDistanceThreshold  = "snap_distance_threshold"
	ParamSnapVelocityThreshold  = "snap_velocity_threshold"
	ParamContactFramesRequired  = "contact_frames_required"
	ParamCooldownDuration       = "cooldown_duration"
)

// ErrUnknownParameter is returned by Set for an unrecognized parameter name.
var ErrUnknownParameter = errors.New("unknown parameter")

// ThresholdConfig holds every tunable numeric parameter of the gesture core.
// One instance is shared by reference between the classifier and the trigger
// machines; the host mutates it through Set, which rejects invalid values so
// frame processing never has to re-validate.
type ThresholdConfig struct {
	// Pose classification distances (normalized image-space units).
	ThumbIndexThreshold float64 `json:"thumb_index_threshold"`
	MiddleRingThreshold float64 `json:"middle_ring_threshold"`
	RingPinkyThreshold  float64 `json:"ring_pinky_threshold"`
	IndexWristThreshold float64 `json:"index_wrist_threshold"`

	// Shoot trigger: thumb-to-middle-PIP distance and thumb vertical velocity.
	ShootDistanceThreshold float64 `json:"shoot_distance_threshold"`
	ShootVelocityThreshold float64 `json:"shoot_velocity_threshold"`

	// Snap trigger: thumb-to-middle-tip 3D distance and its derivative.
	SnapDistanceThreshold float64 `json:"snap_distance_threshold"`
	SnapVelocityThreshold float64 `json:"snap_velocity_threshold"`

	// ContactFramesRequired is the number of consecutive below-threshold
	// frames needed before a trigger machine arms.
	ContactFramesRequired int `json:"contact_frames_required"`

	// CooldownDuration is the minimum time in seconds between two events
	// from the same trigger machine.
	CooldownDuration float64 `json:"cooldown_duration"`
}

// DefaultThresholds returns a ThresholdConfig tuned against real capture
// sessions with the reference MediaPipe hand model.
func DefaultThresholds() *ThresholdConfig {
	return &ThresholdConfig{
		ThumbIndexThreshold:    0.35,
		MiddleRingThreshold:    0.08,
		RingPinkyThreshold:     0.08,
		IndexWristThreshold:    0.10,
		ShootDistanceThreshold: 0.10,
		ShootVelocityThreshold: 0.10,
		SnapDistanceThreshold:  0.03,
		SnapVelocityThreshold:  2.0,
		ContactFramesRequired:  2,
		CooldownDuration:       0.5,
	}
}

// Set updates a single parameter by name, rejecting invalid values.
// Thresholds and the cooldown must be non-negative; contact frames must be
// at least 1. On error the config is left unchanged.
func (c *ThresholdConfig) Set(param string, value float64) error {
	if param == ParamContactFramesRequired {
		if value < 1 {
			return fmt.Errorf("%s must be at least 1, got %g", param, value)
		}
		c.ContactFramesRequired = int(value)
		return nil
	}

	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %g", param, value)
	}

	switch param {
	case ParamThumbIndexThreshold:
		c.ThumbIndexThreshold = value
	case ParamMiddleRingThreshold:
		c.MiddleRingThreshold = value
	case ParamRingPinkyThreshold:
		c.RingPinkyThreshold = value
	case ParamIndexWristThreshold:
		c.IndexWristThreshold = value
	case ParamShootDistanceThreshold:
		c.ShootDistanceThreshold = value
	case ParamShootVelocityThreshold:
		c.ShootVelocityThreshold = value
	case ParamSnapDistanceThreshold:
		c.SnapDistanceThreshold = value
	case ParamSnapVelocityThreshold:
		c.SnapVelocityThreshold = value
	case ParamCooldownDuration:
		c.CooldownDuration = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParameter, param)
	}

	return nil
}

// Validate checks every parameter against its invariant. Used when loading
// persisted settings in one shot rather than through Set.
func (c *ThresholdConfig) Validate() error {
	thresholds := map[string]float64{
		ParamThumbIndexThreshold:    c.ThumbIndexThreshold,
		ParamMiddleRingThreshold:    c.MiddleRingThreshold,
		ParamRingPinkyThreshold:     c.RingPinkyThreshold,
		ParamIndexWristThreshold:    c.IndexWristThreshold,
		ParamShootDistanceThreshold: c.ShootDistanceThreshold,
		ParamShootVelocityThreshold: c.ShootVelocityThreshold,
		ParamSnapDistanceThreshold:  c.SnapDistanceThreshold,
		ParamSnapVelocityThreshold:  c.SnapVelocityThreshold,
		ParamCooldownDuration:       c.CooldownDuration,
	}
	for name, v := range thresholds {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %g", name, v)
		}
	}

	if c.ContactFramesRequired < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", ParamContactFramesRequired, c.ContactFramesRequired)
	}

	return nil
}

// triggerParams is the per-gesture slice of the shared config read by a
// TriggerStateMachine on every update.
type triggerParams struct {
	distanceThreshold     float64
	velocityThreshold     float64
	contactFramesRequired int
	cooldownDuration      float64
}

func (c *ThresholdConfig) triggerParams(kind TriggerKind) triggerParams {
	p := triggerParams{
		contactFramesRequired: c.ContactFramesRequired,
		cooldownDuration:      c.CooldownDuration,
	}

	switch kind {
	case TriggerSnap:
		p.distanceThreshold = c.SnapDistanceThreshold
		p.velocityThreshold = c.SnapVelocityThreshold
	default:
		p.distanceThreshold = c.ShootDistanceThreshold
		p.velocityThreshold = c.ShootVelocityThreshold
	}

	return p
}
