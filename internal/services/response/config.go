// File: internal/services/response/config.go
package response

import (
    "fmt"
    "time"
)

type Config struct {
    // Provider Configuration
    APIKey  string
    BaseURL string
    Model   string

    // Performance Configuration
    Timeout     time.Duration
    MaxAttempts int           // Total tries, including the first
    RetryDelay  time.Duration // Fixed delay between attempts

    // Output shaping
    MaxTokens    int // Bound passed to the provider
    MinReplyLen  int // Replies shorter than this are replaced by the fallback
    MaxReplyLen  int // Replies longer than this are truncated at a sentence boundary
    ContextTurns int // Recent messages carried into the prompt

    // Model Parameters
    Temperature float32
    TopP        float32
}

func (c *Config) Validate() error {
    if c.APIKey == "" {
        return fmt.Errorf("LLM_API_KEY is required")
    }
    if c.Model == "" {
        return fmt.Errorf("LLM_MODEL is required")
    }
    if c.Timeout <= 0 {
        return fmt.Errorf("timeout must be positive")
    }
    if c.MaxAttempts < 1 {
        return fmt.Errorf("max attempts must be at least 1")
    }
    if c.MaxReplyLen <= c.MinReplyLen {
        return fmt.Errorf("max reply length must exceed min reply length")
    }
    return nil
}

func DefaultConfig() *Config {
    return &Config{
        Timeout:      60 * time.Second,
        MaxAttempts:  3,
        RetryDelay:   time.Second,
        MaxTokens:    300,
        MinReplyLen:  2,
        MaxReplyLen:  600,
        ContextTurns: 6,
        Temperature:  0.7,
        TopP:         0.9,
    }
}
