package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bdougie/camwatch/internal/hass"
)

// MaxChunk is the maximum number of characters delivered per notification.
const MaxChunk = 240

// SplitMessage cuts text into chunks of at most max characters. The chunks
// concatenate back to the original text exactly.
func SplitMessage(text string, max int) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+max-1)/max)
	for start := 0; start < len(runes); start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Relay forwards description text to one push-notification target, one call
// per chunk, sequentially. Only constructed when notifications are enabled
// and a target was resolved.
type Relay struct {
	client *hass.Client
	target string
	log    *slog.Logger
}

func NewRelay(client *hass.Client, target string, logger *slog.Logger) *Relay {
	return &Relay{client: client, target: target, log: logger}
}

// Send delivers the description for one camera. A chunk failure aborts the
// remaining chunks of this message but nothing beyond it.
func (r *Relay) Send(ctx context.Context, camera, text string) error {
	chunks := SplitMessage(text, MaxChunk)

	for i, chunk := range chunks {
		title := camera
		if len(chunks) > 1 {
			title = fmt.Sprintf("%s (part %d/%d)", camera, i+1, len(chunks))
		}
		if err := r.client.Notify(ctx, r.target, title, chunk); err != nil {
			r.log.Error("notification delivery failed", "camera", camera, "part", i+1, "err", err)
			return err
		}
	}

	return nil
}
