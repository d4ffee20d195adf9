// File: internal/services/speech/elevenlabs_provider.go
package speech

import (
    "bytes"
    "context"
    "encoding/json"
    "io"
    "net/http"
)

// ElevenLabsProvider synthesizes speech via the ElevenLabs HTTP API.
type ElevenLabsProvider struct {
    config *Config
    client *http.Client
}

func NewElevenLabsProvider(config *Config) *ElevenLabsProvider {
    return &ElevenLabsProvider{
        config: config,
        client: &http.Client{
            Timeout: config.Timeout,
        },
    }
}

// Synthesize requests audio for text and returns the encoded bytes.
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
    if text == "" {
        return nil, NewConfigError("synthesize", "text cannot be empty")
    }

    payload := map[string]interface{}{
        "text":     text,
        "model_id": "eleven_flash_v2_5",
        "voice_settings": map[string]interface{}{
            "stability":        0.4,
            "similarity_boost": 0.7,
        },
    }

    body, err := json.Marshal(payload)
    if err != nil {
        return nil, &SpeechError{Type: ErrTypeProvider, Operation: "synthesize", Message: "invalid payload", Cause: err}
    }

    url := p.config.BaseURL + "/v1/text-to-speech/" + p.config.Voice
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
    if err != nil {
        return nil, &SpeechError{Type: ErrTypeNetwork, Operation: "synthesize", Message: "failed to create request", Cause: err}
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("xi-api-key", p.config.APIKey)

    resp, err := p.client.Do(req)
    if err != nil {
        return nil, &SpeechError{Type: ErrTypeNetwork, Operation: "synthesize", Message: "request failed", Cause: err}
    }
    defer resp.Body.Close()

    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        responseBody, _ := io.ReadAll(resp.Body)
        return nil, &SpeechError{
            Type:      ErrTypeProvider,
            Code:      resp.StatusCode,
            Operation: "synthesize",
            Message:   string(responseBody),
        }
    }

    audio, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, &SpeechError{Type: ErrTypeNetwork, Operation: "synthesize", Message: "failed to read audio", Cause: err}
    }
    return audio, nil
}
