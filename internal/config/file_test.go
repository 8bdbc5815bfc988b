package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pfassina/mdtoc/internal/toc"
)

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		input string
		want  string
	}{
		{"~/cache.db", filepath.Join(home, "cache.db")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExpandHome(tt.input)
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("LoadFile should return false for missing file")
	}
}

func TestLoadFile_Partial(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "mdtoc")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte("max_depth = 3\n"), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("LoadFile should return true for existing file")
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.MaxDepth)
	}
	// Bullets should remain the default since they weren't in the file.
	if diff := cmp.Diff(toc.DefaultBullets, cfg.Bullets); diff != "" {
		t.Errorf("Bullets changed unexpectedly (-want +got):\n%s", diff)
	}
}

func TestLoadFile_Full(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "mdtoc")
	os.MkdirAll(dir, 0755)
	content := `skip_first_h1 = true
max_depth = 2
stop_at_max_depth = true
bullets = ["*", "-"]
indent = "    "
append = "\n_generated_"
omit = ["Changelog"]
strip = ["foo"]
keep_tags = true
no_linkify = true
jobs = 8
cache = "~/mdtoc.db"
debounce_ms = 50
unknown_key = "ignored"
`
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("LoadFile should return true")
	}

	home, _ := os.UserHomeDir()
	want := Default()
	want.SkipFirstH1 = true
	want.MaxDepth = 2
	want.StopAtMaxDepth = true
	want.Bullets = []string{"*", "-"}
	want.Indent = "    "
	want.Append = "\n_generated_"
	want.Omit = []string{"Changelog"}
	want.Strip = []string{"foo"}
	want.KeepTags = true
	want.NoLinkify = true
	want.Jobs = 8
	want.CachePath = filepath.Join(home, "mdtoc.db")
	want.Debounce = 50
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "mdtoc")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte("max_depth = \"deep\"\n"), 0644)

	cfg := Default()
	if _, err := LoadFile(&cfg); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "mdtoc")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte("max_depth = 3\njobs = 2\n"), 0644)

	project := t.TempDir()
	os.WriteFile(filepath.Join(project, ProjectFile), []byte("max_depth = 4\n"), 0644)

	cfg := Default()
	loaded, err := Load(&cfg, project, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Errorf("loaded = %v, want two files", loaded)
	}
	if cfg.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4", cfg.MaxDepth)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.Jobs)
	}
}

func TestLoad_Explicit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.toml")
	os.WriteFile(path, []byte("append = \"!\"\n"), 0644)

	cfg := Default()
	if _, err := Load(&cfg, t.TempDir(), path); err != nil {
		t.Fatal(err)
	}
	if cfg.Append != "!" {
		t.Errorf("Append = %q, want %q", cfg.Append, "!")
	}

	_, err := Load(&cfg, "", filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ProjectFile)

	home, _ := os.UserHomeDir()
	cfg := Default()
	cfg.MaxDepth = 3
	cfg.Omit = []string{"Changelog"}
	cfg.CachePath = filepath.Join(home, "x.db")

	if err := SaveFile(path, cfg); err != nil {
		t.Fatal(err)
	}

	// Verify the file was created and can be loaded back.
	got := Default()
	exists, err := LoadPath(&got, path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("config file should exist after SaveFile")
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	want := filepath.Join(tmp, "mdtoc")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "mdtoc")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestDefaultCachePath(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)
	want := filepath.Join(tmp, "mdtoc", "index.db")
	if got := DefaultCachePath(); got != want {
		t.Errorf("DefaultCachePath() = %q, want %q", got, want)
	}
}
