package app

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	readme := writeFile(t, dir, "README.md", "# A\n")
	guide := writeFile(t, dir, "docs/guide.markdown", "# B\n")
	writeFile(t, dir, "docs/notes.txt", "x")
	writeFile(t, dir, ".git/HEAD.md", "x")
	writeFile(t, dir, "docs/.drafts/wip.md", "x")
	plain := writeFile(t, t.TempDir(), "LICENSE", "mit")

	got, err := Discover([]string{dir, readme, plain})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{plain, readme, guide}
	if filepath.Clean(plain) > filepath.Clean(readme) {
		want = []string{readme, guide, plain}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverMissing(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}
