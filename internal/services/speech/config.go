// File: internal/services/speech/config.go
package speech

import (
    "fmt"
    "time"
)

type Config struct {
    // Text-to-speech vendor
    APIKey  string
    BaseURL string
    Voice   string

    Timeout time.Duration
}

func (c *Config) Validate() error {
    if c.APIKey == "" {
        return fmt.Errorf("TTS_API_KEY is required")
    }
    if c.BaseURL == "" {
        return fmt.Errorf("TTS_BASE_URL is required")
    }
    if c.Timeout <= 0 {
        return fmt.Errorf("timeout must be positive")
    }
    return nil
}

func DefaultConfig() *Config {
    return &Config{
        BaseURL: "https://api.elevenlabs.io",
        Voice:   "Rachel",
        Timeout: 30 * time.Second,
    }
}
