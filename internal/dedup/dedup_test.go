package dedup

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bdougie/camwatch/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFingerprintDeterminism(t *testing.T) {
	st := store.New(t.TempDir())
	taken := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	a, err := st.Save("camera.a", taken, []byte("same payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := st.Save("camera.b", taken, []byte("same payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	sumA, err := FingerprintFile(a.Path)
	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}
	sumB, err := FingerprintFile(b.Path)
	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}
	if sumA != sumB {
		t.Error("identical payloads produced different fingerprints")
	}

	c, err := st.Save("camera.c", taken, []byte("different payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	sumC, err := FingerprintFile(c.Path)
	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}
	if sumA == sumC {
		t.Error("differing payloads produced equal fingerprints")
	}
}

func TestCheckSingleRecordIsNewContent(t *testing.T) {
	st := store.New(t.TempDir())
	snap, err := st.Save("camera.front_door", time.Now(), []byte("frame"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	d := New(st, testLogger())
	result, err := d.Check("camera.front_door")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.NewContent {
		t.Error("single record reported as duplicate")
	}
	if result.Newest.Path != snap.Path {
		t.Errorf("Newest = %s, want %s", result.Newest.Path, snap.Path)
	}
}

func TestCheckPrunesOlderDuplicate(t *testing.T) {
	st := store.New(t.TempDir())
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	older, err := st.Save("camera.yard", base, []byte("identical frame"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	newer, err := st.Save("camera.yard", base.Add(time.Minute), []byte("identical frame"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	d := New(st, testLogger())
	result, err := d.Check("camera.yard")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.NewContent {
		t.Error("identical captures reported as new content")
	}
	if result.Newest.Path != newer.Path {
		t.Errorf("retained %s, want newest %s", result.Newest.Path, newer.Path)
	}

	if _, err := os.Stat(older.Path); !os.IsNotExist(err) {
		t.Error("older duplicate was not pruned")
	}
	if _, err := os.Stat(newer.Path); err != nil {
		t.Errorf("newest record missing after prune: %v", err)
	}
}

func TestCheckKeepsDifferingCaptures(t *testing.T) {
	st := store.New(t.TempDir())
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	if _, err := st.Save("camera.yard", base, []byte("frame one")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	newer, err := st.Save("camera.yard", base.Add(time.Minute), []byte("frame two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	d := New(st, testLogger())
	result, err := d.Check("camera.yard")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.NewContent {
		t.Error("differing captures reported as duplicate")
	}
	if result.Newest.Path != newer.Path {
		t.Errorf("Newest = %s, want %s", result.Newest.Path, newer.Path)
	}

	snaps, err := st.List("camera.yard")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("got %d records, want both retained", len(snaps))
	}
}

func TestCheckDeletionFailureStillReportsDuplicate(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	st := store.New(dir)
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	older, err := st.Save("camera.yard", base, []byte("identical frame"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := st.Save("camera.yard", base.Add(time.Minute), []byte("identical frame")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Make the prune fail by locking the directory against writes.
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	d := New(st, testLogger())
	result, err := d.Check("camera.yard")
	if err != nil {
		t.Fatalf("Check returned error despite duplicate determination: %v", err)
	}
	if result.NewContent {
		t.Error("failed prune reported as new content")
	}
	if _, err := os.Stat(older.Path); err != nil {
		t.Errorf("older file unexpectedly gone: %v", err)
	}
}

func TestCheckComparesOnlyNewestPair(t *testing.T) {
	st := store.New(t.TempDir())
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	// Oldest matches the newest, but only the newest pair is compared.
	if _, err := st.Save("camera.yard", base, []byte("frame A")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := st.Save("camera.yard", base.Add(time.Minute), []byte("frame B")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := st.Save("camera.yard", base.Add(2*time.Minute), []byte("frame A")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d := New(st, testLogger())
	result, err := d.Check("camera.yard")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.NewContent {
		t.Error("newest pair differs but was reported duplicate")
	}
}
