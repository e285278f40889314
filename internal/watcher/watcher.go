package watcher

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/bdougie/camwatch/internal/dedup"
	"github.com/bdougie/camwatch/internal/hass"
	"github.com/bdougie/camwatch/internal/store"
)

// DefaultPrompt is used when the operator leaves the prompt blank.
const DefaultPrompt = "What is happening in this camera image? Be specific about people, vehicles and anything unusual."

// Describer produces a natural-language description for a stored image.
type Describer interface {
	Describe(ctx context.Context, imagePath, prompt string) (string, error)
}

// Notifier relays description text to a push-notification target.
type Notifier interface {
	Send(ctx context.Context, camera, text string) error
}

// CycleConfig is assembled once before the loop starts and treated as
// immutable input to every cycle.
type CycleConfig struct {
	Cameras      []hass.Entity
	Interval     time.Duration
	Prompt       string
	SnapshotPath string // server-side directory the trigger writes to
	Notify       bool
}

// Watcher drives the per-camera snapshot lifecycle once per tick. Cameras
// are processed one at a time; a camera's failure never halts the next one.
type Watcher struct {
	client   *hass.Client
	store    *store.Store
	detector *dedup.Detector
	desc     Describer
	relay    Notifier // nil when notifications are disabled
	cfg      CycleConfig
	log      *slog.Logger
}

func New(client *hass.Client, st *store.Store, detector *dedup.Detector, desc Describer, relay Notifier, cfg CycleConfig, logger *slog.Logger) *Watcher {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return &Watcher{
		client:   client,
		store:    st,
		detector: detector,
		desc:     desc,
		relay:    relay,
		cfg:      cfg,
		log:      logger,
	}
}

// Run executes one cycle immediately, then one per interval until the
// context is cancelled. Cycles are serialized: a cycle runs to completion
// before the next tick is taken, and ticks that fire mid-cycle coalesce.
// No cycle error ever stops the scheduler.
func (w *Watcher) Run(ctx context.Context) {
	w.RunCycle(ctx)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watch loop stopped")
			return
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle processes every selected camera once, sequentially.
func (w *Watcher) RunCycle(ctx context.Context) {
	w.log.Debug("starting scan cycle", "cameras", len(w.cfg.Cameras))
	for _, cam := range w.cfg.Cameras {
		if ctx.Err() != nil {
			return
		}
		w.processCamera(ctx, cam)
	}
}

// processCamera walks one camera through
// Trigger -> Retrieve -> DetectDuplicate -> {Skip | Describe -> Notify?}.
func (w *Watcher) processCamera(ctx context.Context, cam hass.Entity) {
	log := w.log.With("camera", cam.EntityID)

	// A failed trigger is not fatal: a stale-but-valid frame is still
	// informative, so retrieval proceeds regardless.
	target := path.Join(w.cfg.SnapshotPath, store.FileBase(cam.EntityID)+".jpg")
	if err := w.client.TriggerSnapshot(ctx, cam.EntityID, target); err != nil {
		log.Warn("snapshot trigger failed, retrieving current frame anyway", "err", err)
	}

	picture := cam.Picture()
	if picture == "" {
		log.Error("camera has no picture reference, skipping")
		return
	}

	data, err := w.client.CameraImage(ctx, picture)
	if err != nil {
		log.Error("frame retrieval failed", "err", err)
		return
	}

	snap, err := w.store.Save(cam.EntityID, time.Now(), data)
	if err != nil {
		log.Error("failed to store frame", "err", err)
		return
	}
	log.Debug("stored frame", "path", snap.Path, "bytes", len(data))

	result, err := w.detector.Check(cam.EntityID)
	if err != nil {
		log.Error("duplicate check failed", "err", err)
		return
	}
	if !result.NewContent {
		log.Info("frame unchanged since previous capture, skipping")
		return
	}

	text, err := w.desc.Describe(ctx, result.Newest.Path, w.cfg.Prompt)
	if err != nil {
		log.Error("description failed", "err", err)
		return
	}
	log.Info("new activity", "description", text)

	if w.cfg.Notify && w.relay != nil {
		if err := w.relay.Send(ctx, cam.EntityID, text); err != nil {
			log.Error("notification failed", "err", err)
		}
	}
}
