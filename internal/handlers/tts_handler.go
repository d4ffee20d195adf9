// File: internal/handlers/tts_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cswiz2003/voice-ai-assistant/internal/services"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/speech"
)

const maxSpeakableChars = 2000

// TTSHandler turns reply text into playback audio.
type TTSHandler struct {
	Speaker *speech.Speaker
	Logger  services.Logger
}

func NewTTSHandler(speaker *speech.Speaker, logger services.Logger) *TTSHandler {
	return &TTSHandler{Speaker: speaker, Logger: logger}
}

// Synthesize handles POST /api/tts. Requesting a new utterance cancels any
// synthesis still in flight, so only the latest reply is ever spoken.
func (h *TTSHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, "Text is required", http.StatusBadRequest)
		return
	}
	if len(text) > maxSpeakableChars {
		text = text[:maxSpeakableChars]
	}

	audio, err := h.Speaker.Speak(r.Context(), text)
	if err != nil {
		var speechErr *speech.SpeechError
		if errors.As(err, &speechErr) && speechErr.Type == speech.ErrTypeCanceled {
			writeError(w, "Superseded by a newer utterance", http.StatusConflict)
			return
		}
		h.Logger.Error("speech synthesis failed", "error", err)
		writeError(w, "Could not synthesize speech", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
