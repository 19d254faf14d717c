package source

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bitrise-io/bitrise-plugins-ai-testgen/git"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// File is a collected source file. Path is relative to the scanned root and
// always uses forward slashes.
type File struct {
	Path    string
	Content string
}

// Section renders the file the way it is embedded in the prompt
func (f File) Section() string {
	return fmt.Sprintf("File: %s\nContent:\n%s", f.Path, f.Content)
}

// Options controls which files are collected
type Options struct {
	// Extensions is the allow-list of file extensions including the dot.
	// An empty list accepts every file.
	Extensions []string
	// Ignore lists directory names that are skipped entirely
	Ignore []string
	// Pattern is an optional glob, relative to the root, supporting "**"
	Pattern string
	// GitTracked restricts the scan to files tracked by git
	GitTracked bool
}

// Collector reads source files from a file system
type Collector struct {
	fsys fs.FS
	git  *git.Client
	opts Options
	log  *zap.SugaredLogger
}

// NewCollector creates a collector reading from fsys
func NewCollector(log *zap.SugaredLogger, fsys fs.FS, opts Options) *Collector {
	return &Collector{
		fsys: fsys,
		opts: opts,
		log:  log,
	}
}

// WithGit sets the git client used when Options.GitTracked is enabled. The
// client must run in the same directory fsys is rooted at.
func (c *Collector) WithGit(client *git.Client) *Collector {
	c.git = client
	return c
}

// Collect returns every matching text file in traversal order. Files that are
// not text are skipped with a warning, any other error aborts the scan.
func (c *Collector) Collect() ([]File, error) {
	if _, err := fs.Stat(c.fsys, "."); err != nil {
		return nil, fmt.Errorf("failed to open source root: %w", err)
	}

	paths, err := c.candidates()
	if err != nil {
		return nil, err
	}

	files := []File{}
	for _, p := range paths {
		if !c.allowed(p) {
			continue
		}

		data, err := fs.ReadFile(c.fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", p, err)
		}

		if !isText(data) {
			c.log.Warnf("Skipped binary/unreadable file: %s", p)
			continue
		}

		files = append(files, File{Path: p, Content: string(data)})
		c.log.Infof("Read file: %s", p)
	}

	return files, nil
}

// Concatenate joins the files into the text block embedded in the prompt
func Concatenate(files []File) string {
	sections := make([]string, 0, len(files))
	for _, f := range files {
		sections = append(sections, f.Section())
	}
	return strings.Join(sections, "\n")
}

func (c *Collector) candidates() ([]string, error) {
	switch {
	case c.opts.GitTracked:
		return c.gitFiles()
	case c.opts.Pattern != "":
		return c.globFiles()
	default:
		return c.walkFiles()
	}
}

func (c *Collector) walkFiles() ([]string, error) {
	paths := []string{}
	err := fs.WalkDir(c.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p != "." && slices.Contains(c.opts.Ignore, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && !c.isRegularFile(p) {
			return nil
		}

		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error reading files: %w", err)
	}

	return paths, nil
}

func (c *Collector) globFiles() ([]string, error) {
	if !doublestar.ValidatePattern(c.opts.Pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", c.opts.Pattern, doublestar.ErrBadPattern)
	}

	matches, err := doublestar.Glob(c.fsys, c.opts.Pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("error matching pattern %q: %w", c.opts.Pattern, err)
	}

	return c.withoutIgnored(matches), nil
}

func (c *Collector) gitFiles() ([]string, error) {
	if c.git == nil {
		return nil, errors.New("git tracked mode requires a git client")
	}

	tracked, err := c.git.ListTrackedFiles()
	if err != nil {
		return nil, err
	}

	// A tracked file may be deleted from the work tree without being staged
	paths := []string{}
	for _, p := range c.withoutIgnored(tracked) {
		if c.isRegularFile(p) {
			paths = append(paths, p)
		}
	}

	if c.opts.Pattern != "" {
		matched := []string{}
		for _, p := range paths {
			if ok, _ := doublestar.Match(c.opts.Pattern, p); ok {
				matched = append(matched, p)
			}
		}
		paths = matched
	}

	return paths, nil
}

func (c *Collector) withoutIgnored(paths []string) []string {
	kept := []string{}
	for _, p := range paths {
		dirs := strings.Split(path.Dir(p), "/")
		if slices.ContainsFunc(dirs, func(dir string) bool {
			return slices.Contains(c.opts.Ignore, dir)
		}) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func (c *Collector) allowed(p string) bool {
	if len(c.opts.Extensions) == 0 {
		return true
	}
	return slices.Contains(c.opts.Extensions, path.Ext(p))
}

func (c *Collector) isRegularFile(p string) bool {
	info, err := fs.Stat(c.fsys, p)
	return err == nil && info.Mode().IsRegular()
}

// isText reports whether data decodes as UTF-8 text
func isText(data []byte) bool {
	return utf8.Valid(data) && !bytes.Contains(data, []byte{0})
}
