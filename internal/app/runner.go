package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pfassina/mdtoc/internal/index"
	"github.com/pfassina/mdtoc/internal/toc"
)

// ErrStale is returned by CheckFiles when a TOC needs regenerating.
var ErrStale = errors.New("table of contents out of date")

// Outcome is what happened to one file.
type Outcome int

const (
	Unchanged Outcome = iota
	Updated
	Stale
	Cached
	NoMarker
	Indexed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	case Stale:
		return "stale"
	case Cached:
		return "cached"
	case NoMarker:
		return "no marker"
	case Indexed:
		return "indexed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// FileResult reports the outcome for one path. Content holds the updated
// document when it was computed.
type FileResult struct {
	Path    string
	Outcome Outcome
	Content string
	Err     error
}

// Runner applies a TOC engine to files.
type Runner struct {
	engine *toc.Engine
	key    string
	cache  *index.Cache
	log    *zap.Logger
	jobs   int
}

type Option func(*Runner)

// WithCache skips files whose content and options key match the cache.
func WithCache(c *index.Cache) Option {
	return func(r *Runner) { r.cache = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithJobs bounds how many files are processed at once.
func WithJobs(n int) Option {
	return func(r *Runner) { r.jobs = n }
}

// New returns a Runner. key identifies the engine options in the cache.
func New(engine *toc.Engine, key string, opts ...Option) *Runner {
	r := &Runner{engine: engine, key: key, log: zap.NewNop(), jobs: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.jobs < 1 {
		r.jobs = 1
	}
	return r
}

// ReadInput reads a file, or stdin for "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// InsertFile regenerates the TOC of path. With write set, a changed file is
// replaced atomically; otherwise the result is only returned.
func (r *Runner) InsertFile(ctx context.Context, path string, write bool) FileResult {
	res := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		return res.fail(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return res.fail(fmt.Errorf("read %s: %w", path, err))
	}
	original := string(data)

	if write && r.cache != nil {
		fresh, err := r.cache.Fresh(path, index.Hash(data), r.key)
		if err != nil {
			r.log.Warn("cache lookup failed", zap.String("path", path), zap.Error(err))
		} else if fresh {
			res.Outcome = Cached
			res.Content = original
			return res
		}
	}

	marked, err := r.engine.HasMarker(original)
	if err != nil {
		return res.fail(fmt.Errorf("scan %s: %w", path, err))
	}
	if !marked {
		res.Outcome = NoMarker
		res.Content = original
		return res
	}

	updated, err := r.engine.Insert(original)
	if err != nil {
		return res.fail(fmt.Errorf("insert %s: %w", path, err))
	}
	res.Content = updated

	if updated == original {
		res.Outcome = Unchanged
	} else {
		res.Outcome = Updated
		if write {
			if err := atomic.WriteFile(path, strings.NewReader(updated)); err != nil {
				return res.fail(fmt.Errorf("write %s: %w", path, err))
			}
			r.log.Info("toc updated", zap.String("path", path))
		}
	}

	if write {
		r.record(path, updated)
	}
	return res
}

// record stores the state insert left path in. Failures only cost a cache
// miss next time.
func (r *Runner) record(path, content string) {
	if r.cache == nil {
		return
	}
	gen, err := r.engine.Generate(content)
	if err != nil {
		r.log.Warn("cache entries", zap.String("path", path), zap.Error(err))
		return
	}
	if err := r.cache.Record(path, index.Hash([]byte(content)), r.key, gen.Entries); err != nil {
		r.log.Warn("cache record failed", zap.String("path", path), zap.Error(err))
	}
}

// Forget drops path from the cache. It is a no-op without one.
func (r *Runner) Forget(path string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Forget(path)
}

// InsertFiles runs InsertFile over paths with bounded concurrency. Results
// keep the order of paths; the error joins every per-file failure.
func (r *Runner) InsertFiles(ctx context.Context, paths []string, write bool) ([]FileResult, error) {
	return r.each(ctx, paths, func(ctx context.Context, path string) FileResult {
		return r.InsertFile(ctx, path, write)
	})
}

// CheckFiles reports which files have a TOC that insert would change.
// The error wraps ErrStale when any file is stale.
func (r *Runner) CheckFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results, err := r.each(ctx, paths, func(ctx context.Context, path string) FileResult {
		res := r.InsertFile(ctx, path, false)
		if res.Outcome == Updated {
			res.Outcome = Stale
		}
		return res
	})
	if err != nil {
		return results, err
	}

	stale := 0
	for _, res := range results {
		if res.Outcome == Stale {
			stale++
		}
	}
	if stale > 0 {
		return results, fmt.Errorf("%d of %d files: %w", stale, len(results), ErrStale)
	}
	return results, nil
}

// IndexFiles records the headings of paths in the cache without touching
// the files.
func (r *Runner) IndexFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	if r.cache == nil {
		return nil, errors.New("index files: no cache configured")
	}
	return r.each(ctx, paths, func(ctx context.Context, path string) FileResult {
		res := FileResult{Path: path}
		if err := ctx.Err(); err != nil {
			return res.fail(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return res.fail(fmt.Errorf("read %s: %w", path, err))
		}
		gen, err := r.engine.Generate(string(data))
		if err != nil {
			return res.fail(fmt.Errorf("generate %s: %w", path, err))
		}
		// Stored with an empty key so a later insert does not treat the
		// file as already up to date.
		if err := r.cache.Record(path, index.Hash(data), "", gen.Entries); err != nil {
			return res.fail(err)
		}
		res.Outcome = Indexed
		return res
	})
}

func (r *Runner) each(ctx context.Context, paths []string, fn func(context.Context, string) FileResult) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = fn(ctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			r.log.Error("file failed", zap.String("path", res.Path), zap.Error(res.Err))
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}

func (res FileResult) fail(err error) FileResult {
	res.Outcome = Failed
	res.Err = err
	return res
}
