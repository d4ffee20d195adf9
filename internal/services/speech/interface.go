// File: internal/services/speech/interface.go
package speech

import "context"

// Result is one incremental recognition event for the current utterance.
// IsFinal marks recognition completion; a final result terminates the session.
type Result struct {
    Text    string `json:"text"`
    IsFinal bool   `json:"is_final"`
}

// Session is one open recognition session. Results delivers incremental
// (text, isFinal) events and is closed after exactly one terminal outcome:
// a final result, Stop, or an error on Err.
type Session interface {
    Results() <-chan Result
    Err() <-chan error
    Stop()
}

// Recognizer opens recognition sessions. Implementations adapt whatever
// engine produces transcript events (in this app, a browser engine relayed
// over a websocket).
type Recognizer interface {
    Start(ctx context.Context) (Session, error)
}

// Synthesizer converts text into audible playback audio.
type Synthesizer interface {
    Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Logger defines the logging interface for speech services.
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}
