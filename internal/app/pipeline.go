package app

import (
	"encoding/json"
	"log"
	"time"

	"github.com/renderix/triggerhand/internal/detector"
	"github.com/renderix/triggerhand/internal/gesture"
	"github.com/renderix/triggerhand/internal/plugin"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On motion detected, switch to active mode (activeFPS=30)
// 3. Run hand detection
// 4. Feed landmarks through the gesture session (pose + trigger machines)
// 5. Persist and broadcast fired triggers, execute bound plugin actions
// 6. After 2s no motion, switch back to idle mode and reset the session
func (a *App) runPipeline(stopCh chan struct{}) {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)

					// The hand is gone; clear all in-flight trigger state
					a.processHand(nil)
					log.Println("Switched to idle mode")
				}
			}

			// Skip hand detection if not in active mode
			if !activeMode {
				frame.Close()
				continue
			}

			// Step 2: Hand detection with a capture-relative timestamp
			timestamp := time.Since(a.start).Seconds()
			hands, err := a.Detector().Detect(frame, timestamp)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			// Step 3: Gesture processing on the primary hand. No hand in
			// frame counts as pose loss.
			if len(hands) == 0 {
				a.processHand(nil)
				continue
			}
			a.processHand(&hands[0])
		}
	}
}

// processHand runs one landmark frame through the gesture session and
// fans out the results: pose updates to sinks, fired triggers to the
// event log, sinks, and plugin actions. A nil frame signals pose loss.
func (a *App) processHand(hand *detector.LandmarkFrame) {
	a.procMu.Lock()
	result, events := a.session.Process(hand)
	var anchor *gesture.Point2D
	if p, ok := a.session.SmoothedAnchor(); ok {
		anchor = &p
	}
	a.procMu.Unlock()

	for _, sink := range a.eventSinks() {
		sink.BroadcastPose(result.IsPose, anchor)
	}

	for _, event := range events {
		a.handleTrigger(event)
	}
}

// handleTrigger fans out a single fired trigger.
func (a *App) handleTrigger(event gesture.TriggerEvent) {
	log.Printf("Trigger fired: %s at %.3fs", event.Kind, event.Timestamp)

	a.persistTriggerEvent(event)

	for _, sink := range a.eventSinks() {
		sink.BroadcastTrigger(event)
	}

	a.executeActions(event)
}

// executeActions runs every enabled plugin action bound to the fired
// trigger kind. Plugins run off the pipeline goroutine so a slow action
// cannot stall frame processing.
func (a *App) executeActions(event gesture.TriggerEvent) {
	if a.config.Store == nil {
		return
	}

	actions, err := a.config.Store.Actions().ListByTriggerKind(string(event.Kind))
	if err != nil {
		log.Printf("Failed to load actions for %s: %v", event.Kind, err)
		return
	}

	for _, action := range actions {
		plug, err := a.pluginMgr.Get(action.PluginName)
		if err != nil {
			log.Printf("Plugin %s not found for %s action", action.PluginName, event.Kind)
			continue
		}

		req := &plugin.Request{
			Action:    action.ActionName,
			Trigger:   string(event.Kind),
			Timestamp: event.Timestamp,
			Config:    action.Config,
			Params:    json.RawMessage("{}"),
		}

		go func(plug *plugin.Plugin, req *plugin.Request, pluginName string) {
			resp, err := a.pluginExec.Execute(plug, req)
			if err != nil {
				log.Printf("Plugin %s execution error: %v", pluginName, err)
				return
			}
			if !resp.Success {
				log.Printf("Plugin %s reported failure: %s", pluginName, resp.Error)
			}
		}(plug, req, action.PluginName)
	}
}
