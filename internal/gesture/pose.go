package gesture

import (
	"github.com/renderix/triggerhand/internal/detector"
)

// Point2D is a point in the normalized image plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PoseResult is the per-frame output of the pose classifier. Anchor and
// AuxDistance are only meaningful when IsPose is true. Results are produced
// fresh each frame and never retained.
type PoseResult struct {
	IsPose bool `json:"is_pose"`

	// Anchor is the index fingertip in normalized coordinates; mapping into
	// screen space is the host's concern.
	Anchor Point2D `json:"anchor"`

	// AuxDistance is the 2D thumb-tip to middle-PIP distance, carried
	// forward as the shoot trigger's closeness signal.
	AuxDistance float64 `json:"aux_distance"`
}

// PoseClassifier decides per frame whether the hand is shaped like a finger
// gun. It is stateless: the result depends only on the given frame and the
// current config values, so identical inputs always classify identically.
type PoseClassifier struct{}

// NewPoseClassifier creates a new PoseClassifier.
func NewPoseClassifier() *PoseClassifier {
	return &PoseClassifier{}
}

// Classify evaluates one landmark frame against the configured distance
// thresholds. A nil or malformed frame (non-finite coordinates) fails
// closed: IsPose is false and no other field is meaningful.
//
// The finger-gun shape requires, in the image plane:
//  1. thumb tip near index tip (hammer raised over the barrel)
//  2. middle and ring fingertips bunched together
//  3. ring and pinky fingertips bunched together
//  4. index tip far from the wrist (barrel extended)
func (PoseClassifier) Classify(frame *detector.LandmarkFrame, cfg *ThresholdConfig) PoseResult {
	if !frame.Valid() {
		return PoseResult{}
	}

	thumbTip := frame.Points[detector.ThumbTip]
	indexTip := frame.Points[detector.IndexTip]
	middleTip := frame.Points[detector.MiddleTip]
	ringTip := frame.Points[detector.RingTip]
	pinkyTip := frame.Points[detector.PinkyTip]
	wrist := frame.Points[detector.Wrist]
	middlePIP := frame.Points[detector.MiddlePIP]

	thumbIndex := detector.Distance2D(thumbTip, indexTip)
	middleRing := detector.Distance2D(middleTip, ringTip)
	ringPinky := detector.Distance2D(ringTip, pinkyTip)
	indexWrist := detector.Distance2D(indexTip, wrist)
	thumbMiddle := detector.Distance2D(thumbTip, middlePIP)

	isPose := thumbIndex < cfg.ThumbIndexThreshold &&
		middleRing < cfg.MiddleRingThreshold &&
		ringPinky < cfg.RingPinkyThreshold &&
		indexWrist > cfg.IndexWristThreshold

	if !isPose {
		return PoseResult{}
	}

	return PoseResult{
		IsPose:      true,
		Anchor:      Point2D{X: indexTip.X, Y: indexTip.Y},
		AuxDistance: thumbMiddle,
	}
}
