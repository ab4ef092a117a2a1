package player

import "sync"

// Engine is the audio output the controller drives.
type Engine interface {
	SetSource(src string)
	Play()
	Pause()
	Paused() bool
	// Duration is in seconds; 0 or less means unknown.
	Duration() float64
	CurrentTime() float64
	Seek(seconds float64)
	SetVolume(ratio float64)
}

// Command ops sent to the browser audio element.
const (
	OpSource = "source"
	OpPlay   = "play"
	OpPause  = "pause"
	OpSeek   = "seek"
	OpVolume = "volume"
)

// Command is one instruction for the browser audio element.
type Command struct {
	Op    string  `json:"op"`
	Src   string  `json:"src,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// RemoteEngine mirrors a browser audio element. Commands queue up until
// the next response drains them; the browser reports time and duration
// back through Report.
type RemoteEngine struct {
	mutex       sync.Mutex
	src         string
	paused      bool
	duration    float64
	currentTime float64
	volume      float64
	pending     []Command
}

// NewRemoteEngine creates a paused engine with full volume.
func NewRemoteEngine() *RemoteEngine {
	return &RemoteEngine{paused: true, volume: 1}
}

func (e *RemoteEngine) push(cmd Command) {
	e.pending = append(e.pending, cmd)
}

// SetSource switches the source. Time and duration are unknown until the
// browser reports them.
func (e *RemoteEngine) SetSource(src string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.src = src
	e.paused = true
	e.duration = 0
	e.currentTime = 0
	e.push(Command{Op: OpSource, Src: src})
}

func (e *RemoteEngine) Play() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.paused = false
	e.push(Command{Op: OpPlay})
}

func (e *RemoteEngine) Pause() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.paused = true
	e.push(Command{Op: OpPause})
}

func (e *RemoteEngine) Paused() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.paused
}

func (e *RemoteEngine) Duration() float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.duration
}

func (e *RemoteEngine) CurrentTime() float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.currentTime
}

func (e *RemoteEngine) Seek(seconds float64) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.currentTime = seconds
	e.push(Command{Op: OpSeek, Value: seconds})
}

func (e *RemoteEngine) SetVolume(ratio float64) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.volume = ratio
	e.push(Command{Op: OpVolume, Value: ratio})
}

// Source returns the current source.
func (e *RemoteEngine) Source() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.src
}

// Volume returns the last volume set.
func (e *RemoteEngine) Volume() float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.volume
}

// Report records the time and duration the browser observed.
func (e *RemoteEngine) Report(current, duration float64) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.currentTime = current
	e.duration = duration
}

// Drain returns and clears the queued commands.
func (e *RemoteEngine) Drain() []Command {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	cmds := e.pending
	e.pending = nil
	if cmds == nil {
		cmds = []Command{}
	}
	return cmds
}
