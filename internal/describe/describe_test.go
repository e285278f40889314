package describe

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/agent-api/core"
	"github.com/agent-api/core/agent"
)

type fakeRunner struct {
	agg *agent.AgentRunAggregator
	err error
}

func (f *fakeRunner) Run(ctx context.Context, opts ...agent.RunOptionFunc) (*agent.AgentRunAggregator, error) {
	return f.agg, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func aggWith(messages ...*core.Message) *agent.AgentRunAggregator {
	agg := agent.NewAgentRunAggregator()
	agg.Push(messages...)
	return agg
}

func TestDescribeReturnsLastMessageContent(t *testing.T) {
	runner := &fakeRunner{agg: aggWith(
		&core.Message{Role: core.UserMessageRole, Content: "what is happening?"},
		&core.Message{Role: core.AssistantMessageRole, Content: "a cat on the porch"},
	)}
	d := NewDescriber(runner, testLogger())

	text, err := d.Describe(context.Background(), "frame.jpg", "what is happening?")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != "a cat on the porch" {
		t.Errorf("description = %q, want the model's last message", text)
	}
}

func TestDescribeEmptyMessagesFallsBack(t *testing.T) {
	d := NewDescriber(&fakeRunner{agg: agent.NewAgentRunAggregator()}, testLogger())

	text, err := d.Describe(context.Background(), "frame.jpg", "prompt")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != fallback {
		t.Errorf("description = %q, want fallback placeholder", text)
	}
}

func TestDescribeEmptyContentFallsBack(t *testing.T) {
	runner := &fakeRunner{agg: aggWith(
		&core.Message{Role: core.AssistantMessageRole, Content: ""},
	)}
	d := NewDescriber(runner, testLogger())

	text, err := d.Describe(context.Background(), "frame.jpg", "prompt")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != fallback {
		t.Errorf("description = %q, want fallback placeholder", text)
	}
}

func TestDescribePropagatesRunError(t *testing.T) {
	d := NewDescriber(&fakeRunner{err: errors.New("model unavailable")}, testLogger())

	if _, err := d.Describe(context.Background(), "frame.jpg", "prompt"); err == nil {
		t.Fatal("expected error from failed run")
	}
}
