// Package server is a small static file server for local demo pages. Every response carries
// permissive CORS and no-cache headers so browser demos can fetch across origins and ports
// during development. Not meant for anything but localhost.
package server

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultPort is used when no port argument is given.
	DefaultPort = 8080
	// DefaultTitle is the banner title.
	DefaultTitle = "Examples Server"
	// DefaultGrace is how long in flight requests get to finish on shutdown.
	DefaultGrace = 5 * time.Second
)

// Header is one name/value pair added to every response.
type Header struct {
	Name  string
	Value string
}

// ResponseHeaders are appended to every response, whatever the method, path or status.
var ResponseHeaders = []Header{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// Config of the server. Zero values are usable except Root which must exist.
type Config struct {
	Addr           string        // Listen address, e.g. ":8080".
	Root           string        // Serving root, the process chdirs into it before binding.
	RedirectRootTo string        // If set, GET / is served as this path.
	BannerExtras   []string      // Demo names listed in the banner.
	Title          string        // Banner title, DefaultTitle when empty.
	DistFallback   string        // Subdirectory of Root tried when a file is missing, empty disables.
	Grace          time.Duration // Shutdown grace period, DefaultGrace when 0.
	Out            io.Writer     // Banner and access log destination, os.Stdout when nil.
}

func (c *Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Config) title() string {
	if c.Title == "" {
		return DefaultTitle
	}
	return c.Title
}

func (c *Config) grace() time.Duration {
	if c.Grace <= 0 {
		return DefaultGrace
	}
	return c.Grace
}

// ResolveRoot returns root as an absolute path; relative roots are taken relative to base.
// An empty base means the directory holding the running executable, or the working
// directory when that executable lives under the temp dir (go run).
func ResolveRoot(base, root string) (string, error) {
	if filepath.IsAbs(root) {
		return filepath.Clean(root), nil
	}
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", err
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return "", err
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		base = executableBase(exe, tempDir(), wd)
	}
	return filepath.Abs(filepath.Join(base, root))
}

func tempDir() string {
	tmp := os.TempDir()
	if resolved, err := filepath.EvalSymlinks(tmp); err == nil {
		return resolved
	}
	return tmp
}

// executableBase is the directory of exe, or wd for binaries built into tmp.
func executableBase(exe, tmp, wd string) string {
	dir := filepath.Dir(exe)
	rel, err := filepath.Rel(tmp, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}
	return wd
}
