package gesture

// TriggerKind identifies the gesture a trigger machine detects.
type TriggerKind string

const (
	// TriggerShoot is the thumb-flick "fire the gun" gesture.
	TriggerShoot TriggerKind = "shoot"
	// TriggerSnap is the thumb-middle finger snap gesture.
	TriggerSnap TriggerKind = "snap"
)

// TriggerState is the debounce state of a TriggerStateMachine.
type TriggerState int

const (
	// StateIdle means no sustained contact has been observed yet.
	StateIdle TriggerState = iota
	// StateArmed means contact was held long enough; a rapid separation
	// will fire an event.
	StateArmed
	// StateCooldown means an event just fired; nothing can fire again
	// until the cooldown elapses.
	StateCooldown
)

// String returns the state name for logs and test failures.
func (s TriggerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// TriggerEvent is a momentary action signal derived from cross-frame
// dynamics of a tracked distance. At most one is emitted per processed
// frame per machine.
type TriggerEvent struct {
	Kind      TriggerKind `json:"kind"`
	Timestamp float64     `json:"timestamp"`
}

// History sizes and pattern-validation constants. The windows confirm that
// a fire was preceded by genuine sustained contact and genuine rapid
// separation rather than single noisy samples.
const (
	distanceHistorySize = 10
	velocityHistorySize = 5

	contactWindow      = 5
	velocityWindow     = 3
	minContactSamples  = 2
	minVelocitySamples = 1
)

// TriggerStateMachine is a debounced contact-then-separation event detector.
// It is generic over the gesture: the same machine detects shoots and snaps,
// differing only in which slice of the shared config it reads and which
// distance/velocity pair the session feeds it.
//
// Transitions:
//
//	Idle     -> Armed     after ContactFramesRequired consecutive frames
//	                      below the distance threshold
//	Armed    -> Cooldown  (fires) when the distance rises back above the
//	                      threshold with velocity above the velocity
//	                      threshold and the recent history validates
//	Armed    -> Idle      when the distance drifts past twice the threshold
//	                      without ever satisfying the fire condition
//	Cooldown -> Idle      once the cooldown duration has elapsed
type TriggerStateMachine struct {
	kind TriggerKind
	cfg  *ThresholdConfig

	state         TriggerState
	contactFrames int
	lastFire      float64

	distances  []float64
	velocities []float64
}

// NewTriggerStateMachine creates a machine for the given gesture kind
// reading its thresholds live from the shared config.
func NewTriggerStateMachine(kind TriggerKind, cfg *ThresholdConfig) *TriggerStateMachine {
	return &TriggerStateMachine{
		kind:       kind,
		cfg:        cfg,
		state:      StateIdle,
		distances:  make([]float64, 0, distanceHistorySize),
		velocities: make([]float64, 0, velocityHistorySize),
	}
}

// Kind returns the gesture kind this machine detects.
func (m *TriggerStateMachine) Kind() TriggerKind {
	return m.kind
}

// State returns the current debounce state.
func (m *TriggerStateMachine) State() TriggerState {
	return m.state
}

// Update processes one frame's closeness sample and its velocity, both
// supplied by the session. Returns a fired event or nil. The cooldown is a
// hard debounce: while it is in effect no input can produce an event.
func (m *TriggerStateMachine) Update(distance, velocity, timestamp float64) *TriggerEvent {
	p := m.cfg.triggerParams(m.kind)

	m.distances = pushSample(m.distances, distance, distanceHistorySize)
	m.velocities = pushSample(m.velocities, velocity, velocityHistorySize)

	if m.state == StateCooldown {
		if timestamp-m.lastFire <= p.cooldownDuration {
			return nil
		}
		m.state = StateIdle
		m.contactFrames = 0
	}

	if distance < p.distanceThreshold {
		m.contactFrames++
		if m.state == StateIdle && m.contactFrames >= p.contactFramesRequired {
			m.state = StateArmed
		}
		return nil
	}

	if m.state == StateArmed {
		if velocity > p.velocityThreshold && m.validatePattern(p) {
			m.state = StateCooldown
			m.lastFire = timestamp
			m.contactFrames = 0
			return &TriggerEvent{Kind: m.kind, Timestamp: timestamp}
		}

		// Slow drift apart is not a gesture.
		if distance > 2*p.distanceThreshold {
			m.state = StateIdle
			m.contactFrames = 0
		}
		return nil
	}

	// Idle with fingers apart: the consecutive-contact streak is broken.
	m.contactFrames = 0
	return nil
}

// validatePattern confirms the recent history looks like a real gesture:
// sustained contact in the last few distance samples and at least one
// genuinely rapid separation sample, not a single jittery spike.
func (m *TriggerStateMachine) validatePattern(p triggerParams) bool {
	closeContact := 0
	for _, d := range lastSamples(m.distances, contactWindow) {
		if d < p.distanceThreshold*1.5 {
			closeContact++
		}
	}

	rapid := 0
	for _, v := range lastSamples(m.velocities, velocityWindow) {
		if v > p.velocityThreshold*0.7 {
			rapid++
		}
	}

	return closeContact >= minContactSamples && rapid >= minVelocitySamples
}

// Reset forces the machine back to Idle with an empty history, regardless
// of current state. The host must call it whenever the pose is lost or the
// surrounding game resets, so a stale Armed state cannot fire on an
// unrelated future contact.
func (m *TriggerStateMachine) Reset() {
	m.state = StateIdle
	m.contactFrames = 0
	m.distances = m.distances[:0]
	m.velocities = m.velocities[:0]
}

// pushSample appends v to buf, dropping the oldest sample once the buffer
// reaches max.
func pushSample(buf []float64, v float64, max int) []float64 {
	if len(buf) >= max {
		copy(buf, buf[1:])
		buf = buf[:max-1]
	}
	return append(buf, v)
}

// lastSamples returns the trailing n samples, or all of them if fewer exist.
func lastSamples(buf []float64, n int) []float64 {
	if len(buf) <= n {
		return buf
	}
	return buf[len(buf)-n:]
}
