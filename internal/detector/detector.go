package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark producers.
type Detector interface {
	// Detect analyzes a video frame and returns landmark frames for every
	// detected hand, stamped with the given capture timestamp in seconds.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat, timestamp float64) ([]LandmarkFrame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
// The trigger pipeline tracks a single shooting hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.6,
	}
}
