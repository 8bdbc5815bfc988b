package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/goleak"
)

func startWatcher(t *testing.T, dir string, h Handler) (*Watcher, func()) {
	t.Helper()
	w, err := New(dir, 50*time.Millisecond, h, nil)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()
	return w, func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
		<-done
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changes := make(chan string, 10)
	_, stop := startWatcher(t, dir, Handler{Change: func(p string) { changes <- p }})

	path := filepath.Join(dir, "doc.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("# A\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-changes:
		if got != path {
			t.Errorf("changed %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case p := <-changes:
		t.Errorf("extra change for %q", p)
	case <-time.After(300 * time.Millisecond):
	}
	stop()
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changes := make(chan string, 10)
	_, stop := startWatcher(t, dir, Handler{Change: func(p string) { changes <- p }})

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-changes:
		t.Errorf("unexpected change for %q", p)
	case <-time.After(300 * time.Millisecond):
	}
	stop()
}

func TestWatcherReportsRemoval(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	if err := os.WriteFile(path, []byte("# A\n"), 0644); err != nil {
		t.Fatal(err)
	}

	removed := make(chan string, 10)
	_, stop := startWatcher(t, dir, Handler{Remove: func(p string) { removed <- p }})

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-removed:
		if got != path {
			t.Errorf("removed %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no removal reported")
	}
	stop()
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changes := make(chan string, 10)
	_, stop := startWatcher(t, dir, Handler{Change: func(p string) { changes <- p }})

	sub := filepath.Join(dir, "docs")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "nested.md")
	if err := os.WriteFile(path, []byte("# A\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changes:
		if got != path {
			t.Errorf("changed %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported in new directory")
	}
	stop()
}

func TestWatcherCloseCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changes := make(chan string, 10)
	w, err := New(dir, time.Hour, Handler{Change: func(p string) { changes <- p }}, nil)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "doc.md"), Op: fsnotify.Write})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	<-done
	if len(changes) != 0 {
		t.Errorf("callback ran after Close")
	}
}

func TestSettleKeepsNewerTimer(t *testing.T) {
	w := &Watcher{debounce: make(map[string]*time.Timer)}
	stale := time.NewTimer(time.Hour)
	defer stale.Stop()
	newer := time.NewTimer(time.Hour)
	defer newer.Stop()

	w.debounce["doc.md"] = newer
	if !w.settle("doc.md", &stale) {
		t.Fatal("open watcher reported closed")
	}
	if w.debounce["doc.md"] != newer {
		t.Error("stale timer removed the pending one")
	}

	if !w.settle("doc.md", &newer) {
		t.Fatal("open watcher reported closed")
	}
	if _, ok := w.debounce["doc.md"]; ok {
		t.Error("entry kept after its own timer fired")
	}

	w.closed = true
	if w.settle("doc.md", &newer) {
		t.Error("closed watcher reported open")
	}
}
