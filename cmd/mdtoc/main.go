package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/config"
	"github.com/pfassina/mdtoc/internal/index"
	"github.com/pfassina/mdtoc/internal/markdown"
	"github.com/pfassina/mdtoc/internal/toc"
)

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	verbose    bool
	configPath string
	log        *zap.Logger
	cfg        config.Config
	stdin      io.Reader

	firstH1        bool
	maxDepth       int
	stopAtMaxDepth bool
	bullets        []string
	indent         string
	appendText     string
	omit           []string
	strip          []string
	allowedChars   string
	keepTags       bool
	encodeNonASCII bool
	noSlugify      bool
	noLinkify      bool
	jobs           int
	cachePath      string
}

func main() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mdtoc:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	return newCLI(stdin, nil).rootCmd()
}

// newCLI returns a cli that logs to log, or builds a zap logger during
// setup when log is nil.
func newCLI(stdin io.Reader, log *zap.Logger) *cli {
	return &cli{stdin: stdin, log: log, cfg: config.Default()}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdtoc [file|-]",
		Short: "Generate markdown tables of contents",
		Long: `mdtoc builds a table of contents from the headings of a markdown
document and keeps it current between <!-- toc --> and <!-- tocstop -->
markers.

With a file argument and no subcommand it prints the generated TOC.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		RunE: c.runGenerate,
	}

	d := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: user config, then ./"+config.ProjectFile+")")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&c.firstH1, "firsth1", !d.SkipFirstH1, "include the first h1 in the TOC")
	pf.IntVar(&c.maxDepth, "maxdepth", d.MaxDepth, "deepest heading level to include")
	pf.BoolVar(&c.stopAtMaxDepth, "stop-at-maxdepth", d.StopAtMaxDepth, "end the list after the first heading at --maxdepth instead of skipping deeper ones")
	pf.StringSliceVar(&c.bullets, "bullets", d.Bullets, "bullet characters, cycled by depth")
	pf.StringVar(&c.indent, "indent", d.Indent, "indentation per nesting level")
	pf.StringVar(&c.appendText, "append", d.Append, "text appended after the list")
	pf.StringSliceVar(&c.omit, "omit", d.Omit, "heading texts to leave out")
	pf.StringSliceVar(&c.strip, "strip", d.Strip, "substrings removed from link text")
	pf.StringVar(&c.allowedChars, "allowed-chars", d.AllowedChars, "punctuation kept in slugs")
	pf.BoolVar(&c.keepTags, "keep-tags", d.KeepTags, "keep inline html tags in link text")
	pf.BoolVar(&c.encodeNonASCII, "encode-non-ascii", d.EncodeNonASCII, "percent-encode non-ascii slug characters")
	pf.BoolVar(&c.noSlugify, "no-slugify", d.NoSlugify, "use heading text as the anchor unchanged")
	pf.BoolVar(&c.noLinkify, "no-linkify", d.NoLinkify, "emit plain text instead of links")
	pf.IntVarP(&c.jobs, "jobs", "j", d.Jobs, "files processed concurrently")
	pf.StringVar(&c.cachePath, "cache", d.CachePath, "sqlite cache of generated headings")

	addFormatFlags(root)

	root.AddCommand(
		c.generateCmd(),
		c.insertCmd(),
		c.checkCmd(),
		c.watchCmd(),
		c.previewCmd(),
		c.indexCmd(),
		c.searchCmd(),
		c.initCmd(),
	)
	return root
}

// setup builds the logger and the effective config: defaults, then config
// files, then flags given on the command line.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if c.log == nil {
		zc := zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if c.verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		log, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		c.log = log
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	loaded, err := config.Load(&c.cfg, cwd, c.configPath)
	if err != nil {
		return err
	}
	c.log.Debug("config loaded", zap.Strings("files", loaded))

	c.applyFlags(cmd)
	return nil
}

func (c *cli) applyFlags(cmd *cobra.Command) {
	changed := cmd.Flags().Changed
	if changed("firsth1") {
		c.cfg.SkipFirstH1 = !c.firstH1
	}
	if changed("maxdepth") {
		c.cfg.MaxDepth = c.maxDepth
	}
	if changed("stop-at-maxdepth") {
		c.cfg.StopAtMaxDepth = c.stopAtMaxDepth
	}
	if changed("bullets") {
		c.cfg.Bullets = c.bullets
	}
	if changed("indent") {
		c.cfg.Indent = c.indent
	}
	if changed("append") {
		c.cfg.Append = c.appendText
	}
	if changed("omit") {
		c.cfg.Omit = c.omit
	}
	if changed("strip") {
		c.cfg.Strip = c.strip
	}
	if changed("allowed-chars") {
		c.cfg.AllowedChars = c.allowedChars
	}
	if changed("keep-tags") {
		c.cfg.KeepTags = c.keepTags
	}
	if changed("encode-non-ascii") {
		c.cfg.EncodeNonASCII = c.encodeNonASCII
	}
	if changed("no-slugify") {
		c.cfg.NoSlugify = c.noSlugify
	}
	if changed("no-linkify") {
		c.cfg.NoLinkify = c.noLinkify
	}
	if changed("jobs") {
		c.cfg.Jobs = c.jobs
	}
	if changed("cache") {
		c.cfg.CachePath = config.ExpandHome(c.cachePath)
	}
}

func (c *cli) engine() *toc.Engine {
	return toc.New(markdown.NewTokenizer(), c.cfg.Options())
}

// runner builds a Runner, attaching the cache when one is configured. The
// returned func releases it.
func (c *cli) runner() (*app.Runner, func(), error) {
	opts := []app.Option{app.WithLogger(c.log), app.WithJobs(c.cfg.Jobs)}
	if c.cfg.CachePath == "" {
		return app.New(c.engine(), c.cfg.Fingerprint(), opts...), func() {}, nil
	}
	cache, err := c.openCache(c.cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, app.WithCache(cache))
	return app.New(c.engine(), c.cfg.Fingerprint(), opts...), c.closer(cache), nil
}

func (c *cli) openCache(path string) (*index.Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := index.Open(path)
	if err != nil {
		return nil, err
	}
	c.log.Debug("cache opened", zap.String("path", path))
	return index.NewCache(db, c.log), nil
}

func (c *cli) closer(cache *index.Cache) func() {
	return func() {
		if err := cache.Close(); err != nil {
			c.log.Warn("close cache", zap.Error(err))
		}
	}
}

// inputArg returns the single input path, "-" when none was given.
func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

var errNoFiles = errors.New("no markdown files found")
