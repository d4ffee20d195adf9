// File: internal/services/response/interface.go
package response

import "context"

// Provider is the generation backend boundary. A request is a prompt plus a
// bounded output length; duplicate requests are safe to retry.
type Provider interface {
    Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Turn is one prior exchange entry carried into the prompt as short
// conversational context.
type Turn struct {
    Role string // domain.RoleUser or domain.RoleAssistant
    Text string
}
