// Package app provides the main application logic for the Triggerhand trigger detection system.
package app

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/renderix/triggerhand/internal/capture"
	"github.com/renderix/triggerhand/internal/detector"
	"github.com/renderix/triggerhand/internal/gesture"
	"github.com/renderix/triggerhand/internal/plugin"
	"github.com/renderix/triggerhand/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection. Trigger
	// velocities depend on frame spacing, so active mode runs fast.
	ActiveFPS = 30
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// EventSink receives live pipeline output: fired triggers and per-frame
// pose updates.
type EventSink interface {
	BroadcastTrigger(event gesture.TriggerEvent)
	BroadcastPose(isPose bool, anchor *gesture.Point2D)
}

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
}

// App is the main application that orchestrates trigger detection and action execution.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
	start      time.Time
	sinks      []EventSink

	// procMu guards the session and its shared threshold config. The
	// pipeline goroutine holds it per frame; the settings API holds it
	// per update.
	procMu     sync.Mutex
	session    *gesture.Session
	thresholds *gesture.ThresholdConfig
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	thresholds := gesture.DefaultThresholds()

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(5000), // 5 second timeout for plugin execution
		enabled:    false,
		stopCh:     nil,
		thresholds: thresholds,
		session:    gesture.NewSession(thresholds),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables trigger detection. Disabling resets the
// session so no trigger can fire from stale contact when detection
// resumes.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if !enabled {
		a.procMu.Lock()
		a.session.Reset()
		a.procMu.Unlock()
	}
}

// IsEnabled returns whether trigger detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// AddEventSink registers a sink for live trigger and pose updates.
// Sinks must be registered before Start.
func (a *App) AddEventSink(sink EventSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, sink)
}

// Thresholds returns a copy of the current detection thresholds.
func (a *App) Thresholds() gesture.ThresholdConfig {
	a.procMu.Lock()
	defer a.procMu.Unlock()
	return *a.thresholds
}

// SetThresholds applies a batch of threshold updates atomically: either
// every parameter is accepted or the config is left untouched. Accepted
// values are persisted to the settings store.
func (a *App) SetThresholds(params map[string]float64) error {
	a.procMu.Lock()
	defer a.procMu.Unlock()

	updated := *a.thresholds
	for param, value := range params {
		if err := updated.Set(param, value); err != nil {
			return err
		}
	}
	*a.thresholds = updated

	if a.config.Store != nil {
		settings := a.config.Store.Settings()
		for param, value := range params {
			if err := settings.SetFloat(param, value); err != nil {
				log.Printf("Failed to persist setting %s: %v", param, err)
			}
		}
	}

	return nil
}

// LoadThresholds loads persisted threshold settings from the database.
// Missing keys keep their defaults; invalid stored values are logged and
// skipped.
func (a *App) LoadThresholds() error {
	if a.config.Store == nil {
		return nil
	}

	settings, err := a.config.Store.Settings().All()
	if err != nil {
		return err
	}

	a.procMu.Lock()
	defer a.procMu.Unlock()

	loaded := 0
	for param, raw := range settings {
		// Settings also hold non-threshold keys; anything that does not
		// parse as a float or name a known parameter is ignored here.
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if err := a.thresholds.Set(param, value); err != nil {
			continue
		}
		loaded++
	}

	log.Printf("Loaded %d threshold settings from database", loaded)
	return nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	a.start = time.Now()
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// eventSinks returns a snapshot of the registered sinks.
func (a *App) eventSinks() []EventSink {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sinks
}

// persistTriggerEvent writes a fired trigger to the event log.
func (a *App) persistTriggerEvent(event gesture.TriggerEvent) {
	if a.config.Store == nil {
		return
	}

	record := &store.TriggerEvent{
		ID:      uuid.New().String(),
		Kind:    string(event.Kind),
		FrameTS: event.Timestamp,
	}
	if err := a.config.Store.Events().Create(record); err != nil {
		log.Printf("Failed to persist %s event: %v", event.Kind, err)
	}
}
