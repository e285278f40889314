package dedup

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bdougie/camwatch/internal/store"
)

// Result is the outcome of one duplicate check.
type Result struct {
	// NewContent is false when the latest capture matched the one before it.
	NewContent bool
	// Newest is the retained canonical record.
	Newest store.Snapshot
}

// Detector compares a camera's newest capture against the one immediately
// preceding it. Digest equality is treated as image equality; no byte-level
// fallback comparison is performed.
type Detector struct {
	store *store.Store
	log   *slog.Logger
}

func New(st *store.Store, logger *slog.Logger) *Detector {
	return &Detector{store: st, log: logger}
}

// FingerprintFile computes the SHA-256 digest of a file's raw bytes.
func FingerprintFile(path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte

	file, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// Check inspects the two newest records of a camera. On a duplicate the
// older of the pair is pruned and the newest retained as canonical.
func (d *Detector) Check(camera string) (Result, error) {
	snaps, err := d.store.List(camera)
	if err != nil {
		return Result{}, err
	}
	if len(snaps) == 0 {
		return Result{}, fmt.Errorf("no snapshots stored for %s", camera)
	}
	if len(snaps) < 2 {
		return Result{NewContent: true, Newest: snaps[0]}, nil
	}

	newest, previous := snaps[0], snaps[1]

	newSum, err := FingerprintFile(newest.Path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fingerprint %s: %v", newest.Path, err)
	}
	prevSum, err := FingerprintFile(previous.Path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fingerprint %s: %v", previous.Path, err)
	}

	if newSum != prevSum {
		return Result{NewContent: true, Newest: newest}, nil
	}

	if err := d.store.Remove(previous); err != nil {
		// Still counts as a duplicate; deletion is not retried.
		d.log.Warn("failed to prune duplicate snapshot", "camera", camera, "path", previous.Path, "err", err)
	}
	return Result{NewContent: false, Newest: newest}, nil
}
