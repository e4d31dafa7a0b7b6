package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/assetd/internal/shared"
)

// Target is the file a request resolved to. It is built per request and never cached.
type Target struct {
	Path        string // absolute candidate path
	Ext         string // lowercase extension, ".html" when inferred
	ContentType string
}

// ResolverOpts configures a [Resolver].
type ResolverOpts struct {
	Root            string
	Mime            *MimeTable
	ResolveSymlinks bool
}

// Resolver maps URL paths onto files below a fixed root. Safe for concurrent use.
type Resolver struct {
	root            string
	mime            *MimeTable
	resolveSymlinks bool
}

// NewResolver makes opts.Root absolute and returns a resolver for it.
//
// With ResolveSymlinks set the root itself is canonicalized, so it must exist.
func NewResolver(opts ResolverOpts) (*Resolver, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, fmt.Errorf("%w: asset root is empty", shared.ErrInvalidConfig)
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset root: %w", err)
	}

	if opts.ResolveSymlinks {
		if root, err = filepath.EvalSymlinks(root); err != nil {
			return nil, fmt.Errorf("failed to canonicalize asset root: %w", err)
		}
	}

	if opts.Mime == nil {
		opts.Mime = DefaultMimeTable()
	}

	return &Resolver{root: root, mime: opts.Mime, resolveSymlinks: opts.ResolveSymlinks}, nil
}

// Root returns the absolute asset root.
func (r *Resolver) Root() string { return r.root }

// Mime returns the table used for content types.
func (r *Resolver) Mime() *MimeTable { return r.mime }

// CheckRoot verifies the root exists and is a directory.
func (r *Resolver) CheckRoot() error {
	info, err := os.Stat(r.root)
	if err != nil {
		return fmt.Errorf("%w: asset root %s: %v", shared.ErrInvalidConfig, r.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: asset root %s is not a directory", shared.ErrInvalidConfig, r.root)
	}
	return nil
}

// Resolve turns a query-free URL path into a [Target].
//
// The error wraps [shared.ErrForbidden] when the path escapes the root; the returned
// target still carries the rejected candidate for logging.
func (r *Resolver) Resolve(urlPath string) (Target, error) {
	if urlPath == "/" {
		urlPath = "/index"
	}

	candidate := filepath.Join(r.root, filepath.FromSlash(urlPath))
	// Join drops a trailing slash; keep it, so "/img/" looks up "img/.html"
	// rather than "img.html", and "/style.css/" fails as a non-directory.
	if strings.HasSuffix(urlPath, "/") && !strings.HasSuffix(candidate, string(filepath.Separator)) {
		candidate += string(filepath.Separator)
	}
	ext := Ext(candidate)
	if ext == "" {
		candidate += ".html"
		ext = ".html"
	}
	ext = strings.ToLower(ext)

	target := Target{Path: candidate, Ext: ext, ContentType: r.mime.Lookup(ext)}

	if !Contains(r.root, candidate) {
		return target, fmt.Errorf("%w: %s", shared.ErrForbidden, urlPath)
	}

	if r.resolveSymlinks {
		// A missing file is left for the reader to report as not found.
		if real, err := filepath.EvalSymlinks(candidate); err == nil {
			if !Contains(r.root, real) {
				return target, fmt.Errorf("%w: %s links outside root", shared.ErrForbidden, urlPath)
			}
			target.Path = real
		}
	}

	return target, nil
}

// Contains reports whether candidate lies strictly below root. Both must be clean absolute paths.
func Contains(root, candidate string) bool {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return len(candidate) > len(prefix) && strings.HasPrefix(candidate, prefix)
}

// Ext returns the extension of the last path element, ignoring leading dots,
// so ".env" has none and "app.min.js" has ".js".
func Ext(p string) string {
	base := strings.TrimLeft(filepath.Base(p), ".")
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i:]
	}
	return ""
}
