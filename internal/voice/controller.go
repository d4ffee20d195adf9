// File: internal/voice/controller.go
package voice

import (
    "context"
    "strings"
    "sync"
    "time"

    "github.com/cswiz2003/voice-ai-assistant/internal/services/speech"
)

// State is the capture lifecycle state.
type State string

const (
    StateIdle      State = "idle"
    StateListening State = "listening"
)

// Logger defines the logging interface for the voice controller.
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}

// Config carries the controller collaborators and tuning.
type Config struct {
    // SilenceTimeout is how long the controller waits after the last
    // recognition event before committing the buffered transcript.
    SilenceTimeout time.Duration

    Recognizer speech.Recognizer

    // Busy reports whether the downstream pipeline is still working on a
    // previous utterance. Start refuses to open a session while Busy.
    Busy func() bool

    // OnCommit receives the captured transcript exactly once per session.
    OnCommit func(text string)

    // OnError receives bridge failures; the controller has already reset
    // to idle when it is called.
    OnError func(err error)

    Logger Logger
}

// Controller drives one microphone capture session at a time. A session
// moves idle -> listening -> idle and commits its transcript exactly once,
// whether it ends by a final result, by silence, or by an explicit stop.
type Controller struct {
    config Config

    mu         sync.Mutex
    state      State
    buffer     string
    committed  bool
    generation uint64
    session    speech.Session
    timer      *time.Timer
    cancel     context.CancelFunc
}

func NewController(config Config) *Controller {
    if config.SilenceTimeout <= 0 {
        config.SilenceTimeout = 2000 * time.Millisecond
    }
    if config.Busy == nil {
        config.Busy = func() bool { return false }
    }
    return &Controller{
        config: config,
        state:  StateIdle,
    }
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.state
}

// Start opens a capture session. It is a no-op while a session is already
// listening or while the downstream pipeline is busy.
func (c *Controller) Start(ctx context.Context) error {
    c.mu.Lock()
    if c.state != StateIdle {
        c.mu.Unlock()
        c.config.Logger.Debug("start ignored, already listening")
        return nil
    }
    if c.config.Busy() {
        c.mu.Unlock()
        c.config.Logger.Debug("start ignored, pipeline busy")
        return nil
    }

    c.generation++
    generation := c.generation
    c.buffer = ""
    c.committed = false
    c.state = StateListening
    c.mu.Unlock()

    sessionCtx, cancel := context.WithCancel(ctx)
    session, err := c.config.Recognizer.Start(sessionCtx)
    if err != nil {
        cancel()
        c.mu.Lock()
        c.state = StateIdle
        c.mu.Unlock()
        c.config.Logger.Error("failed to open recognition session", "error", err)
        return err
    }

    c.mu.Lock()
    if c.generation != generation {
        // A newer session won the race; shut this one down.
        c.mu.Unlock()
        cancel()
        session.Stop()
        return nil
    }
    c.session = session
    c.cancel = cancel
    c.timer = time.AfterFunc(c.config.SilenceTimeout, func() {
        c.onSilence(generation)
    })
    c.mu.Unlock()

    c.config.Logger.Info("listening started")
    go c.pump(session, generation)
    return nil
}

// Stop ends the active session and commits a non-empty buffer. It is a
// no-op while idle.
func (c *Controller) Stop() {
    c.finish("stop")
}

// Interrupt force-cancels the active session. It behaves exactly like
// Stop: a non-empty buffer is still committed.
func (c *Controller) Interrupt() {
    c.finish("interrupt")
}

func (c *Controller) pump(session speech.Session, generation uint64) {
    for {
        select {
        case result, ok := <-session.Results():
            if !ok {
                return
            }
            if result.IsFinal {
                c.onFinal(generation, result.Text)
                return
            }
            c.onPartial(generation, result.Text)
        case err, ok := <-session.Err():
            if !ok {
                return
            }
            c.onSessionError(generation, err)
            return
        }
    }
}

func (c *Controller) onPartial(generation uint64, text string) {
    c.mu.Lock()
    if c.generation != generation || c.state != StateListening {
        c.mu.Unlock()
        return
    }
    c.buffer = text
    if c.timer != nil {
        c.timer.Reset(c.config.SilenceTimeout)
    }
    c.mu.Unlock()
}

func (c *Controller) onFinal(generation uint64, text string) {
    c.mu.Lock()
    if c.generation != generation || c.state != StateListening {
        c.mu.Unlock()
        return
    }
    if strings.TrimSpace(text) != "" {
        c.buffer = text
    }
    commit, transcript := c.teardownLocked()
    c.mu.Unlock()

    if commit {
        c.config.Logger.Info("final result committed", "chars", len(transcript))
        c.config.OnCommit(transcript)
    }
}

func (c *Controller) onSilence(generation uint64) {
    c.mu.Lock()
    if c.generation != generation || c.state != StateListening {
        // Stale timer from a session that already ended.
        c.mu.Unlock()
        return
    }
    commit, transcript := c.teardownLocked()
    c.mu.Unlock()

    if commit {
        c.config.Logger.Info("silence timeout, transcript committed", "chars", len(transcript))
        c.config.OnCommit(transcript)
    } else {
        c.config.Logger.Debug("silence timeout with empty buffer")
    }
}

func (c *Controller) onSessionError(generation uint64, err error) {
    c.mu.Lock()
    if c.generation != generation || c.state != StateListening {
        c.mu.Unlock()
        return
    }
    c.committed = true
    c.teardownLocked()
    c.mu.Unlock()

    c.config.Logger.Error("recognition session failed", "error", err)
    if c.config.OnError != nil {
        c.config.OnError(err)
    }
}

func (c *Controller) finish(reason string) {
    c.mu.Lock()
    if c.state != StateListening {
        c.mu.Unlock()
        return
    }
    commit, transcript := c.teardownLocked()
    c.mu.Unlock()

    if commit {
        c.config.Logger.Info("capture ended, transcript committed", "reason", reason, "chars", len(transcript))
        c.config.OnCommit(transcript)
    } else {
        c.config.Logger.Debug("capture ended with empty buffer", "reason", reason)
    }
}

// teardownLocked releases the timer and session, resets to idle, and
// reports whether the buffered transcript should be committed. The
// committed flag guarantees at most one commit per session regardless of
// which exit path runs first.
func (c *Controller) teardownLocked() (bool, string) {
    if c.timer != nil {
        c.timer.Stop()
        c.timer = nil
    }
    if c.session != nil {
        c.session.Stop()
        c.session = nil
    }
    if c.cancel != nil {
        c.cancel()
        c.cancel = nil
    }
    c.state = StateIdle

    transcript := strings.TrimSpace(c.buffer)
    c.buffer = ""
    if c.committed || transcript == "" {
        return false, ""
    }
    c.committed = true
    return true, transcript
}
