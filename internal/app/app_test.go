package app

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/renderix/triggerhand/internal/gesture"
	"github.com/renderix/triggerhand/internal/server/api"
	"github.com/renderix/triggerhand/internal/store"
	"github.com/renderix/triggerhand/testdata"
)

// recordingSink captures everything the pipeline broadcasts.
type recordingSink struct {
	mu       sync.Mutex
	triggers []gesture.TriggerEvent
	poses    []bool
}

func (s *recordingSink) BroadcastTrigger(event gesture.TriggerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = append(s.triggers, event)
}

func (s *recordingSink) BroadcastPose(isPose bool, anchor *gesture.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poses = append(s.poses, isPose)
}

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	a := New(Config{
		Store:     s,
		PluginDir: tmpDir,
	})
	return a, s
}

func TestApp_ImplementsThresholdService(t *testing.T) {
	var _ api.ThresholdService = (*App)(nil)
}

func TestApp_SetThresholds(t *testing.T) {
	t.Run("applies and persists valid updates", func(t *testing.T) {
		a, s := newTestApp(t)

		err := a.SetThresholds(map[string]float64{
			gesture.ParamSnapVelocityThreshold: 3.5,
			gesture.ParamCooldownDuration:      1.0,
		})
		if err != nil {
			t.Fatalf("SetThresholds() error = %v", err)
		}

		cfg := a.Thresholds()
		if cfg.SnapVelocityThreshold != 3.5 {
			t.Errorf("SnapVelocityThreshold = %f, want 3.5", cfg.SnapVelocityThreshold)
		}
		if cfg.CooldownDuration != 1.0 {
			t.Errorf("CooldownDuration = %f, want 1.0", cfg.CooldownDuration)
		}

		persisted, err := s.Settings().GetFloat(gesture.ParamSnapVelocityThreshold)
		if err != nil {
			t.Fatalf("setting not persisted: %v", err)
		}
		if persisted != 3.5 {
			t.Errorf("persisted value = %f, want 3.5", persisted)
		}
	})

	t.Run("rejects the whole batch on one bad parameter", func(t *testing.T) {
		a, _ := newTestApp(t)
		before := a.Thresholds()

		err := a.SetThresholds(map[string]float64{
			gesture.ParamSnapVelocityThreshold: 3.5,
			"bogus":                            1.0,
		})
		if err == nil {
			t.Fatal("expected error for unknown parameter")
		}

		if a.Thresholds() != before {
			t.Error("rejected update must not mutate the config")
		}
	})
}

func TestApp_LoadThresholds(t *testing.T) {
	a, s := newTestApp(t)

	// Persisted thresholds plus an unrelated non-float setting.
	s.Settings().SetFloat(gesture.ParamShootVelocityThreshold, 0.25)
	s.Settings().Set("mirror", "true")

	if err := a.LoadThresholds(); err != nil {
		t.Fatalf("LoadThresholds() error = %v", err)
	}

	cfg := a.Thresholds()
	if cfg.ShootVelocityThreshold != 0.25 {
		t.Errorf("ShootVelocityThreshold = %f, want 0.25", cfg.ShootVelocityThreshold)
	}

	// Unloaded parameters keep their defaults.
	if cfg.SnapVelocityThreshold != 2.0 {
		t.Errorf("SnapVelocityThreshold = %f, want default 2.0", cfg.SnapVelocityThreshold)
	}
}

func TestApp_ProcessHand_ShootEndToEnd(t *testing.T) {
	a, s := newTestApp(t)
	sink := &recordingSink{}
	a.AddEventSink(sink)

	frames := testdata.ShootFrames(3, 0, 0.033)
	for i := range frames {
		a.processHand(&frames[i])
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()

	if len(sink.triggers) != 1 {
		t.Fatalf("broadcast %d triggers, want 1: %+v", len(sink.triggers), sink.triggers)
	}
	if sink.triggers[0].Kind != gesture.TriggerShoot {
		t.Errorf("trigger kind = %v, want %v", sink.triggers[0].Kind, gesture.TriggerShoot)
	}

	if len(sink.poses) != len(frames) {
		t.Errorf("broadcast %d pose updates, want %d", len(sink.poses), len(frames))
	}

	// The fired trigger lands in the event log.
	events, err := s.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("persisted %d events, want 1", len(events))
	}
	if events[0].Kind != "shoot" {
		t.Errorf("persisted kind = %q, want %q", events[0].Kind, "shoot")
	}
	if events[0].FrameTS != frames[len(frames)-1].Timestamp {
		t.Errorf("persisted frame_ts = %f, want %f", events[0].FrameTS, frames[len(frames)-1].Timestamp)
	}
}

func TestApp_ProcessHand_PoseLoss(t *testing.T) {
	a, _ := newTestApp(t)
	sink := &recordingSink{}
	a.AddEventSink(sink)

	frames := testdata.FingerGunFrames(5, 0, 0.033)
	for i := range frames {
		a.processHand(&frames[i])
	}

	if a.session.Shoot().State() != gesture.StateArmed {
		t.Fatalf("shoot state = %v, want %v", a.session.Shoot().State(), gesture.StateArmed)
	}

	// The hand leaves the frame.
	a.processHand(nil)

	if a.session.Shoot().State() != gesture.StateIdle {
		t.Errorf("shoot state after loss = %v, want %v", a.session.Shoot().State(), gesture.StateIdle)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.poses) == 0 || sink.poses[len(sink.poses)-1] {
		t.Error("last pose broadcast should report no pose")
	}
	if len(sink.triggers) != 0 {
		t.Errorf("unexpected triggers: %+v", sink.triggers)
	}
}

func TestApp_SetEnabled_ResetsSession(t *testing.T) {
	a, _ := newTestApp(t)

	frames := testdata.FingerGunFrames(5, 0, 0.033)
	for i := range frames {
		a.processHand(&frames[i])
	}
	if a.session.Shoot().State() != gesture.StateArmed {
		t.Fatalf("shoot state = %v, want %v", a.session.Shoot().State(), gesture.StateArmed)
	}

	a.SetEnabled(false)

	if a.session.Shoot().State() != gesture.StateIdle {
		t.Errorf("shoot state after disable = %v, want %v", a.session.Shoot().State(), gesture.StateIdle)
	}
	if a.IsEnabled() {
		t.Error("IsEnabled() should be false after SetEnabled(false)")
	}
}
