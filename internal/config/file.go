package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProjectFile is read from the working directory after the user config.
const ProjectFile = ".mdtoc.toml"

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	SkipFirstH1    *bool     `toml:"skip_first_h1"`
	MaxDepth       *int      `toml:"max_depth"`
	StopAtMaxDepth *bool     `toml:"stop_at_max_depth"`
	Bullets        *[]string `toml:"bullets"`
	Indent         *string   `toml:"indent"`
	Append         *string   `toml:"append"`
	Omit           *[]string `toml:"omit"`
	Strip          *[]string `toml:"strip"`
	AllowedChars   *string   `toml:"allowed_chars"`
	KeepTags       *bool     `toml:"keep_tags"`
	EncodeNonASCII *bool     `toml:"encode_non_ascii"`
	NoSlugify      *bool     `toml:"no_slugify"`
	NoLinkify      *bool     `toml:"no_linkify"`

	Jobs         *int    `toml:"jobs"`
	CachePath    *string `toml:"cache"`
	Debounce     *int    `toml:"debounce_ms"`
	PreviewStyle *string `toml:"preview_style"`
	PreviewWidth *int    `toml:"preview_width"`
}

// ConfigDir returns the mdtoc config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdtoc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mdtoc")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultCachePath is where the heading cache lives when none is
// configured, respecting XDG_CACHE_HOME.
func DefaultCachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdtoc", "index.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "mdtoc", "index.db")
}

// LoadFile reads the user config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	return LoadPath(cfg, ConfigPath())
}

// LoadPath merges the TOML file at path into cfg. A missing file is not an
// error. Unknown keys are ignored.
func LoadPath(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	fc.merge(cfg)
	return true, nil
}

// Load applies the config files in order: the user config, then the project
// file in dir. An explicit path replaces both and must exist.
func Load(cfg *Config, dir, explicit string) ([]string, error) {
	if explicit != "" {
		path := ExpandHome(explicit)
		ok, err := LoadPath(cfg, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("config %s: %w", path, fs.ErrNotExist)
		}
		return []string{path}, nil
	}

	var loaded []string
	for _, path := range []string{ConfigPath(), filepath.Join(dir, ProjectFile)} {
		ok, err := LoadPath(cfg, path)
		if err != nil {
			return loaded, err
		}
		if ok {
			loaded = append(loaded, path)
		}
	}
	return loaded, nil
}

func (fc fileConfig) merge(cfg *Config) {
	setBool(&cfg.SkipFirstH1, fc.SkipFirstH1)
	setInt(&cfg.MaxDepth, fc.MaxDepth)
	setBool(&cfg.StopAtMaxDepth, fc.StopAtMaxDepth)
	setStrings(&cfg.Bullets, fc.Bullets)
	setString(&cfg.Indent, fc.Indent)
	setString(&cfg.Append, fc.Append)
	setStrings(&cfg.Omit, fc.Omit)
	setStrings(&cfg.Strip, fc.Strip)
	setString(&cfg.AllowedChars, fc.AllowedChars)
	setBool(&cfg.KeepTags, fc.KeepTags)
	setBool(&cfg.EncodeNonASCII, fc.EncodeNonASCII)
	setBool(&cfg.NoSlugify, fc.NoSlugify)
	setBool(&cfg.NoLinkify, fc.NoLinkify)
	setInt(&cfg.Jobs, fc.Jobs)
	if fc.CachePath != nil {
		cfg.CachePath = ExpandHome(*fc.CachePath)
	}
	setInt(&cfg.Debounce, fc.Debounce)
	setString(&cfg.PreviewStyle, fc.PreviewStyle)
	setInt(&cfg.PreviewWidth, fc.PreviewWidth)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v *[]string) {
	if v != nil {
		*dst = append([]string(nil), (*v)...)
	}
}

// SaveFile writes cfg as a complete TOML file at path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Store with ~ for readability if under home dir.
	cache := cfg.CachePath
	home, _ := os.UserHomeDir()
	if home != "" && strings.HasPrefix(cache, home+string(os.PathSeparator)) {
		cache = "~" + cache[len(home):]
	}

	fc := fileConfig{
		SkipFirstH1:    &cfg.SkipFirstH1,
		MaxDepth:       &cfg.MaxDepth,
		StopAtMaxDepth: &cfg.StopAtMaxDepth,
		Bullets:        &cfg.Bullets,
		Indent:         &cfg.Indent,
		Append:         &cfg.Append,
		Omit:           &cfg.Omit,
		Strip:          &cfg.Strip,
		AllowedChars:   &cfg.AllowedChars,
		KeepTags:       &cfg.KeepTags,
		EncodeNonASCII: &cfg.EncodeNonASCII,
		NoSlugify:      &cfg.NoSlugify,
		NoLinkify:      &cfg.NoLinkify,
		Jobs:           &cfg.Jobs,
		CachePath:      &cache,
		Debounce:       &cfg.Debounce,
		PreviewStyle:   &cfg.PreviewStyle,
		PreviewWidth:   &cfg.PreviewWidth,
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
