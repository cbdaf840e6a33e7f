// Package driver runs the indentation pipeline over files and directories:
// collection, parallel formatting, write-back, and the format cache.
package driver

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"basfmt/internal/config"
	"basfmt/internal/indent"
	"basfmt/internal/source"
)

// FormatOptions configures a FormatPaths run.
type FormatOptions struct {
	// Check reports pending changes without touching files.
	Check bool
	// Stdout returns formatted content in the results instead of rewriting.
	Stdout bool
	// Indent is passed through to the formatter core.
	Indent indent.Options
	// Extensions are the file suffixes collected from directories.
	Extensions []string
	// Jobs caps parallelism; 0 means GOMAXPROCS.
	Jobs int
	// NoCache disables the format cache for this run.
	NoCache bool
	// Progress receives per-file events when non-nil. The channel is not
	// closed by the driver.
	Progress chan<- Event
}

// FormatResult captures the outcome for a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats the given files and directories (collecting matching
// source files recursively). Results come back in collection order, one per
// file, with per-file errors inside rather than aborting the run.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := collectSourceFiles(ctx, paths, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no source files found")
	}

	var cache *Cache
	if !opts.NoCache {
		cache, err = OpenCache("basfmt")
		if err != nil {
			// the cache is an optimization; a broken cache dir never fails a run
			slog.Debug("format cache unavailable", "error", err)
			cache = nil
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// one slot per file, so no mutex is needed
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = formatSingleFile(path, opts, cache)
			emitEvent(opts.Progress, results[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Collect expands paths into the sorted file list a format run would
// process. The progress UI uses it to seed its rows before the run starts.
func Collect(ctx context.Context, paths, extensions []string) ([]string, error) {
	return collectSourceFiles(ctx, paths, extensions)
}

func formatSingleFile(path string, opts FormatOptions, cache *Cache) FormatResult {
	res := FormatResult{Path: path}

	sf, err := source.Load(path)
	if err != nil {
		res.Err = err
		return res
	}

	if cache.IsFormatted(sf.Hash, opts.Indent) {
		if opts.Stdout {
			res.Formatted = sf.Content
		}
		return res
	}

	formatted, changed := indent.FormatDocument(string(sf.Content), opts.Indent)

	if opts.Check {
		res.Changed = changed
		if !changed {
			cache.MarkFormatted(sf.Hash, opts.Indent)
		}
		return res
	}

	if opts.Stdout {
		res.Formatted = []byte(formatted)
		res.Changed = changed
		return res
	}

	if !changed {
		cache.MarkFormatted(sf.Hash, opts.Indent)
		return res
	}

	encoded, err := sf.Encode([]byte(formatted))
	if err != nil {
		res.Err = err
		return res
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, encoded, mode.Perm()); err != nil {
		res.Err = err
		return res
	}
	res.Changed = true

	if reloaded, err := source.New(path, encoded); err == nil {
		cache.MarkFormatted(reloaded.Hash, opts.Indent)
	}
	return res
}

func collectSourceFiles(ctx context.Context, paths, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = config.DefaultExtensions
	}
	matches := func(path string) bool {
		return slices.Contains(extensions, filepath.Ext(path))
	}

	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if matches(path) {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		// explicit file arguments bypass the extension filter
		addFile(p)
	}

	sort.Strings(files)
	return files, nil
}
