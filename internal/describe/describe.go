package describe

import (
	"context"
	"log/slog"

	"github.com/agent-api/core/agent"
)

// fallback is returned when the model answers with no content at all.
const fallback = "(the model returned no description)"

// Runner is the slice of the agent loop the pipeline needs.
type Runner interface {
	Run(ctx context.Context, opts ...agent.RunOptionFunc) (*agent.AgentRunAggregator, error)
}

// Describer submits retained captures to a multimodal model and returns the
// free-text description. One request per capture, no retries; a failed cycle
// simply tries again on the next tick.
type Describer struct {
	agent Runner
	log   *slog.Logger
}

func NewDescriber(a Runner, logger *slog.Logger) *Describer {
	return &Describer{agent: a, log: logger}
}

// Describe runs a single multimodal request carrying the prompt and the
// image; the run options inline the frame base64-encoded.
func (d *Describer) Describe(ctx context.Context, imagePath, prompt string) (string, error) {
	agg, err := d.agent.Run(
		ctx,
		agent.WithInput(prompt),
		agent.WithImagePath(imagePath),
	)
	if err != nil {
		return "", err
	}

	if agg == nil || len(agg.Messages) == 0 {
		return fallback, nil
	}

	content := agg.Messages[len(agg.Messages)-1].Content
	if content == "" {
		return fallback, nil
	}

	d.log.Debug("model response", "image", imagePath, "content", content)
	return content, nil
}
