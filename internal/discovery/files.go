package discovery

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// FileOptions configures a FileSource.
type FileOptions struct {
	// Roots are walked in order.
	Roots []string

	// MaxDepth is how many directory levels below a root are entered.
	// Files directly in a root are at depth 1. Default: 4
	MaxDepth int

	// MaxFiles stops the walk once this many files were collected.
	// Default: 5000
	MaxFiles int

	// SkipDirs are glob patterns matched against directory names.
	SkipDirs []string

	// IncludeHidden keeps dot files and dot directories.
	IncludeHidden bool

	Logger *slog.Logger
}

// FileSource discovers regular files under a set of roots.
type FileSource struct {
	opts FileOptions
	skip *skipMatcher
}

var _ Source = (*FileSource)(nil)

// NewFileSource validates the skip patterns and applies defaults.
func NewFileSource(opts FileOptions) (*FileSource, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 4
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 5000
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	skip, err := newSkipMatcher(opts.SkipDirs, opts.IncludeHidden)
	if err != nil {
		return nil, err
	}
	return &FileSource{opts: opts, skip: skip}, nil
}

// Mode returns launcher.ModeFiles.
func (s *FileSource) Mode() launcher.Mode { return launcher.ModeFiles }

// Roots returns the walked roots.
func (s *FileSource) Roots() []string { return append([]string(nil), s.opts.Roots...) }

// MaxDepth returns the walk depth.
func (s *FileSource) MaxDepth() int { return s.opts.MaxDepth }

// Skip reports whether a directory entry is ignored by this source.
func (s *FileSource) Skip(name string, isDir bool) bool {
	return s.skip.Skip(name, isDir)
}

var errLimitReached = errors.New("file limit reached")

// Discover walks the roots. Unreadable entries are skipped. Symlinks are
// listed but not followed. On cancellation the files found so far are
// returned with ctx.Err().
func (s *FileSource) Discover(ctx context.Context) ([]launcher.Entity, error) {
	var files []launcher.Entity

	for _, root := range s.opts.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
			s.opts.Logger.Debug("file root not present", slog.String("root", absRoot))
			continue
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				return nil // skip what we cannot read
			}
			if path == absRoot {
				return nil
			}

			if d.IsDir() {
				if s.skip.Skip(d.Name(), true) || depthBelow(absRoot, path) >= s.opts.MaxDepth {
					return filepath.SkipDir
				}
				return nil
			}
			if s.skip.Skip(d.Name(), false) {
				return nil
			}
			if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
				return nil
			}

			files = append(files, launcher.Entity{
				ID:        path,
				Name:      d.Name(),
				Secondary: filepath.Dir(path),
				Mode:      launcher.ModeFiles,
			})
			if len(files) >= s.opts.MaxFiles {
				return errLimitReached
			}
			return nil
		})

		switch {
		case errors.Is(err, errLimitReached):
			s.opts.Logger.Info("file discovery stopped at limit",
				slog.Int("max_files", s.opts.MaxFiles),
				slog.String("root", absRoot))
			return files, nil
		case err != nil:
			return files, err
		}
	}
	return files, nil
}

// depthBelow returns how many path components path is below root.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	depth := 1
	for _, c := range rel {
		if c == filepath.Separator {
			depth++
		}
	}
	return depth
}
