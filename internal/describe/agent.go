package describe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-api/core"
	"github.com/agent-api/core/agent"
	"github.com/agent-api/core/agent/bootstrap"
	"github.com/agent-api/ollama"
	"github.com/go-logr/logr"
)

const systemPrompt = "You are a visual analysis assistant for home security cameras. " +
	"Describe what the camera sees concisely. If there is a person in the image describe what they are doing."

// NewAgent initializes a vision agent against a local ollama instance.
func NewAgent(ctx context.Context, baseURL string, port int, model string, logger *slog.Logger) (*agent.Agent, error) {
	lgr := logr.FromSlogHandler(logger.Handler())

	provider := ollama.NewProvider(&ollama.ProviderOpts{
		BaseURL: baseURL,
		Port:    port,
		Logger:  &lgr,
	})

	if err := provider.UseModel(ctx, &core.Model{ID: model}); err != nil {
		return nil, fmt.Errorf("failed to select model %s: %w", model, err)
	}

	return agent.NewAgent(
		bootstrap.WithProvider(provider),
		bootstrap.WithSystemPrompt(systemPrompt),
		bootstrap.WithLogger(&lgr),
	)
}
