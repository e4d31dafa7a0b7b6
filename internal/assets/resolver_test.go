package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/assetd/internal/shared"
	tu "github.com/desertthunder/assetd/internal/testing"
)

func TestResolver(t *testing.T) {
	root := tu.NewAssetRoot(t, tu.SiteFiles)
	resolver, err := NewResolver(ResolverOpts{Root: root})
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}

	tc := []struct {
		name        string
		path        string
		want        string // relative to root, slash separated
		contentType string
		forbidden   bool
	}{
		{name: "root serves index", path: "/", want: "index.html", contentType: "text/html"},
		{name: "clean url", path: "/login", want: "login.html", contentType: "text/html"},
		{name: "script", path: "/home.js", want: "home.js", contentType: "application/javascript"},
		{name: "stylesheet", path: "/style.css", want: "style.css", contentType: "text/css"},
		{name: "uppercase extension", path: "/UPPER.JPG", want: "UPPER.JPG", contentType: "image/jpeg"},
		{name: "unknown extension", path: "/data.xyz", want: "data.xyz", contentType: FallbackType},
		{name: "nested", path: "/img/cat.gif", want: "img/cat.gif", contentType: "image/gif"},
		{name: "dot segments inside root", path: "/img/../login", want: "login.html", contentType: "text/html"},
		{name: "trailing slash", path: "/img/", want: "img/.html", contentType: "text/html"},
		{name: "double slash", path: "//", want: ".html", contentType: "text/html"},
		{name: "trailing slash back to root", path: "/img/../", want: ".html", contentType: "text/html"},
		{name: "dotfile gets html", path: "/.env", want: ".env.html", contentType: "text/html"},
		{name: "missing page", path: "/missing-page", want: "missing-page.html", contentType: "text/html"},
		{name: "parent traversal", path: "/../secret.txt", forbidden: true},
		{name: "deep traversal", path: "/../../etc/passwd", forbidden: true},
		{name: "traversal after descent", path: "/img/../../secret.txt", forbidden: true},
		{name: "root itself", path: "/.", forbidden: true},
		{name: "parent dir", path: "/..", forbidden: true},
		{name: "parent dir with slash", path: "/../", forbidden: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			target, err := resolver.Resolve(tt.path)
			if tt.forbidden {
				if !errors.Is(err, shared.ErrForbidden) {
					t.Fatalf("expected ErrForbidden for %s, got %v (candidate %s)", tt.path, err, target.Path)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := filepath.Join(root, filepath.FromSlash(tt.want))
			if target.Path != want {
				t.Errorf("Resolve(%q).Path = %v, want %v", tt.path, target.Path, want)
			}
			if target.ContentType != tt.contentType {
				t.Errorf("Resolve(%q).ContentType = %v, want %v", tt.path, target.ContentType, tt.contentType)
			}
		})
	}

	t.Run("extension is lowercased", func(t *testing.T) {
		target, err := resolver.Resolve("/UPPER.JPG")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target.Ext != ".jpg" {
			t.Errorf("expected .jpg, got %s", target.Ext)
		}
	})

	t.Run("extensionless paths get html", func(t *testing.T) {
		for _, p := range []string{"/a", "/a/b", "/deeply/nested/page", "/x-y_z"} {
			target, err := resolver.Resolve(p)
			if err != nil {
				t.Fatalf("unexpected error for %s: %v", p, err)
			}
			want := filepath.Join(root, filepath.FromSlash(p)) + ".html"
			if target.Path != want {
				t.Errorf("Resolve(%q) = %s, want %s", p, target.Path, want)
			}
		}
	})
}

func TestNewResolver(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		if _, err := NewResolver(ResolverOpts{Root: ""}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("relative root becomes absolute", func(t *testing.T) {
		resolver, err := NewResolver(ResolverOpts{Root: "web"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !filepath.IsAbs(resolver.Root()) {
			t.Errorf("expected absolute root, got %s", resolver.Root())
		}
	})

	t.Run("CheckRoot", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "file.txt")
		tu.MustWriteFile(t, file, "x")

		for _, tt := range []struct {
			root    string
			wantErr bool
		}{
			{root: dir},
			{root: file, wantErr: true},
			{root: filepath.Join(dir, "missing"), wantErr: true},
		} {
			resolver, err := NewResolver(ResolverOpts{Root: tt.root})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := resolver.CheckRoot(); (err != nil) != tt.wantErr {
				t.Errorf("CheckRoot(%s) error = %v, wantErr %v", tt.root, err, tt.wantErr)
			}
		}
	})
}

func TestResolverSymlinks(t *testing.T) {
	outside := t.TempDir()
	tu.MustWriteFile(t, filepath.Join(outside, "secret.txt"), "secret")

	root := tu.NewAssetRoot(t, map[string]string{"index.html": "home"})
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "leak.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "index.html"), filepath.Join(root, "alias.html")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	t.Run("lexical check only", func(t *testing.T) {
		resolver, err := NewResolver(ResolverOpts{Root: root})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := resolver.Resolve("/leak.txt"); err != nil {
			t.Errorf("expected link to pass the lexical check, got %v", err)
		}
	})

	t.Run("canonical check", func(t *testing.T) {
		resolver, err := NewResolver(ResolverOpts{Root: root, ResolveSymlinks: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := resolver.Resolve("/leak.txt"); !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("expected ErrForbidden for escaping link, got %v", err)
		}

		target, err := resolver.Resolve("/alias")
		if err != nil {
			t.Fatalf("link inside root should resolve: %v", err)
		}
		if filepath.Base(target.Path) != "index.html" {
			t.Errorf("expected canonical path to index.html, got %s", target.Path)
		}

		if _, err := resolver.Resolve("/missing"); err != nil {
			t.Errorf("missing files should be left to the reader, got %v", err)
		}
	})
}

func TestContains(t *testing.T) {
	sep := string(filepath.Separator)
	root := sep + filepath.Join("srv", "web")

	tc := []struct {
		name      string
		root      string
		candidate string
		want      bool
	}{
		{name: "child", root: root, candidate: filepath.Join(root, "index.html"), want: true},
		{name: "grandchild", root: root, candidate: filepath.Join(root, "img", "a.png"), want: true},
		{name: "root itself", root: root, candidate: root, want: false},
		{name: "sibling sharing prefix", root: root, candidate: root + "-evil" + sep + "index.html", want: false},
		{name: "root with extension", root: root, candidate: root + ".html", want: false},
		{name: "parent", root: root, candidate: sep + "srv", want: false},
		{name: "filesystem root", root: sep, candidate: filepath.Join(sep, "etc"), want: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.root, tt.candidate); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.root, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestExt(t *testing.T) {
	tc := []struct {
		path string
		want string
	}{
		{path: "/srv/web/index.html", want: ".html"},
		{path: "/srv/web/app.min.js", want: ".js"},
		{path: "/srv/web/login", want: ""},
		{path: "/srv/web/.env", want: ""},
		{path: "/srv/web/.config.json", want: ".json"},
		{path: "/srv/web/trailing.", want: "."},
	}

	for _, tt := range tc {
		t.Run(tt.path, func(t *testing.T) {
			if got := Ext(tt.path); got != tt.want {
				t.Errorf("Ext(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
