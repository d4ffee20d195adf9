// File: internal/services/response/openai_provider.go
package response

import (
    "context"

    openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
    config *Config
    client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
    clientConfig := openai.DefaultConfig(config.APIKey)
    if config.BaseURL != "" {
        clientConfig.BaseURL = config.BaseURL
    }
    return &OpenAIProvider{
        config: config,
        client: openai.NewClientWithConfig(clientConfig),
    }
}

// Complete requests a single chat completion bounded to maxTokens.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
    resp, err := p.client.CreateChatCompletion(
        ctx,
        openai.ChatCompletionRequest{
            Model: p.config.Model,
            Messages: []openai.ChatCompletionMessage{
                {
                    Role:    openai.ChatMessageRoleUser,
                    Content: prompt,
                },
            },
            MaxTokens:   maxTokens,
            Temperature: p.config.Temperature,
            TopP:        p.config.TopP,
        },
    )

    if err != nil {
        return "", NewProviderError("completion", "failed to create completion", err)
    }

    if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
        return "", &Error{
            Type:      ErrTypeProvider,
            Operation: "completion",
            Message:   "empty completion response",
        }
    }

    return resp.Choices[0].Message.Content, nil
}
