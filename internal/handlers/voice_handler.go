// File: internal/handlers/voice_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cswiz2003/voice-ai-assistant/internal/middleware"
	"github.com/cswiz2003/voice-ai-assistant/internal/services"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/speech"
	"github.com/cswiz2003/voice-ai-assistant/internal/voice"
)

// Frame types exchanged over the voice websocket. The browser runs the
// recognition engine and relays its transcript events; the server owns the
// capture lifecycle and the turn pipeline.
const (
	frameStart      = "start"
	frameTranscript = "transcript"
	frameStop       = "stop"
	frameCancel     = "cancel"

	frameState     = "state"
	frameCommitted = "committed"
	frameReply     = "reply"
	frameError     = "error"
)

type clientFrame struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	IsFinal bool   `json:"is_final,omitempty"`
}

type serverFrame struct {
	Type    string      `json:"type"`
	State   string      `json:"state,omitempty"`
	Text    string      `json:"text,omitempty"`
	Message string      `json:"message,omitempty"`
	Result  *TurnResult `json:"result,omitempty"`
}

// VoiceHandler upgrades /api/chats/{id}/voice to a websocket and bridges
// transcript frames into the capture controller.
type VoiceHandler struct {
	Pipeline       *TurnPipeline
	SilenceTimeout time.Duration
	Logger         services.Logger

	upgrader websocket.Upgrader
}

func NewVoiceHandler(pipeline *TurnPipeline, silenceTimeout time.Duration, logger services.Logger) *VoiceHandler {
	return &VoiceHandler{
		Pipeline:       pipeline,
		SilenceTimeout: silenceTimeout,
		Logger:         logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeVoice runs one voice connection until the client disconnects.
func (h *VoiceHandler) ServeVoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	chatID, err := chatIDFromPath(r)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	vc := &voiceConn{conn: conn}
	recognizer := &frameRecognizer{}

	var busy atomic.Bool
	var wg sync.WaitGroup

	controller := voice.NewController(voice.Config{
		SilenceTimeout: h.SilenceTimeout,
		Recognizer:     recognizer,
		Busy:           busy.Load,
		Logger:         h.Logger,
		OnCommit: func(text string) {
			busy.Store(true)
			vc.send(serverFrame{Type: frameCommitted, Text: text})
			vc.send(serverFrame{Type: frameState, State: string(voice.StateIdle)})

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer busy.Store(false)

				// The turn keeps running even if the socket drops, so the
				// transcript is never lost.
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()

				result, err := h.Pipeline.Run(ctx, userID, chatID, text)
				if err != nil {
					msg, _ := userFacingError(err)
					vc.send(serverFrame{Type: frameError, Message: msg})
					return
				}
				vc.send(serverFrame{Type: frameReply, Result: result})
			}()
		},
		OnError: func(err error) {
			h.Logger.Error("voice capture error", "error", err, "chat_id", chatID)
			vc.send(serverFrame{Type: frameError, Message: "Speech recognition failed. Please try again."})
			vc.send(serverFrame{Type: frameState, State: string(voice.StateIdle)})
		},
	})

	h.Logger.Info("voice connection opened", "user_id", userID, "chat_id", chatID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			// Disconnect is a forced cancellation: a non-empty buffer
			// still commits.
			controller.Interrupt()
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			vc.send(serverFrame{Type: frameError, Message: "Malformed frame"})
			continue
		}

		switch frame.Type {
		case frameStart:
			if err := controller.Start(r.Context()); err != nil {
				vc.send(serverFrame{Type: frameError, Message: "Could not start listening"})
				continue
			}
			vc.send(serverFrame{Type: frameState, State: string(controller.State())})
		case frameTranscript:
			recognizer.deliver(speech.Result{Text: frame.Text, IsFinal: frame.IsFinal})
		case frameStop:
			controller.Stop()
		case frameCancel:
			controller.Interrupt()
		default:
			vc.send(serverFrame{Type: frameError, Message: "Unknown frame type"})
		}
	}

	wg.Wait()
	h.Logger.Info("voice connection closed", "user_id", userID, "chat_id", chatID)
}

// voiceConn serializes websocket writes; gorilla allows one writer at a time.
type voiceConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *voiceConn) send(frame serverFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.WriteJSON(frame)
}

// frameRecognizer adapts transcript frames from the read loop into the
// Session contract the controller consumes.
type frameRecognizer struct {
	mu     sync.Mutex
	active *frameSession
}

func (r *frameRecognizer) Start(ctx context.Context) (speech.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		r.active.Stop()
	}
	r.active = newFrameSession()
	return r.active, nil
}

func (r *frameRecognizer) deliver(result speech.Result) {
	r.mu.Lock()
	session := r.active
	r.mu.Unlock()
	if session != nil {
		session.deliver(result)
	}
}

type frameSession struct {
	mu      sync.Mutex
	stopped bool
	results chan speech.Result
	errs    chan error
}

func newFrameSession() *frameSession {
	return &frameSession{
		results: make(chan speech.Result, 16),
		errs:    make(chan error, 1),
	}
}

func (s *frameSession) Results() <-chan speech.Result { return s.results }
func (s *frameSession) Err() <-chan error             { return s.errs }

// Stop closes both channels exactly once; consumers observe termination as
// channel closure.
func (s *frameSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.results)
	close(s.errs)
}

func (s *frameSession) deliver(result speech.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	select {
	case s.results <- result:
	default:
		// Drop rather than block the websocket read loop.
	}
}
