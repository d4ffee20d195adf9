// File: internal/services/speech/speaker.go
package speech

import (
    "context"
    "sync"
)

// Speaker serializes speech output: starting a new utterance cancels any
// synthesis still in flight, so at most one utterance is ever audible.
type Speaker struct {
    synthesizer Synthesizer
    logger      Logger

    mu     sync.Mutex
    gen    uint64
    cancel context.CancelFunc
}

func NewSpeaker(synthesizer Synthesizer, logger Logger) *Speaker {
    return &Speaker{synthesizer: synthesizer, logger: logger}
}

// Speak cancels any in-progress synthesis, then synthesizes text and
// returns the audio bytes for playback.
func (s *Speaker) Speak(ctx context.Context, text string) ([]byte, error) {
    speakCtx, cancel := context.WithCancel(ctx)

    s.mu.Lock()
    if s.cancel != nil {
        s.cancel()
        s.logger.Debug("canceled in-flight utterance")
    }
    s.gen++
    gen := s.gen
    s.cancel = cancel
    s.mu.Unlock()

    audio, err := s.synthesizer.Synthesize(speakCtx, text)
    superseded := speakCtx.Err() == context.Canceled

    cancel()
    s.mu.Lock()
    // Only clear our own handle; a newer utterance may already own it.
    if s.gen == gen {
        s.cancel = nil
    }
    s.mu.Unlock()

    if err != nil {
        if superseded {
            return nil, &SpeechError{Type: ErrTypeCanceled, Operation: "speak", Message: "utterance superseded"}
        }
        return nil, err
    }
    return audio, nil
}

// Cancel stops any in-progress synthesis without starting a new one.
func (s *Speaker) Cancel() {
    s.mu.Lock()
    if s.cancel != nil {
        s.cancel()
        s.cancel = nil
    }
    s.mu.Unlock()
}
