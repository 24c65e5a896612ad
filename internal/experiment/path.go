package experiment

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"
)

// maxIDTries bounds the scan for a free integer subdirectory name.
const maxIDTries = 2048 * 2048

// pathCache remembers the last template expansion so that repeated
// flushes within one run land in the same directory instead of
// allocating a fresh ID each time. An expansion goes stale when the
// template string changes or the experiment is renamed.
type pathCache struct {
	fstr  string // template at time of expansion
	estr  string // expansion result
	ename string // experiment name at time of expansion
}

// CachedPath returns the expansion of fstring, re-expanding only when
// fstring differs from the previously expanded template or the
// experiment name has changed since.
func (c *Context) CachedPath(fstring string) (string, error) {
	if fstring != c.cache.fstr || c.cache.ename != c.name {
		expanded, err := Expand(fstring, c)
		if err != nil {
			return "", err
		}
		c.cache = pathCache{fstr: fstring, estr: expanded, ename: c.name}
	}
	return c.cache.estr, nil
}

// FlushPath computes the absolute directory the experiment's cached
// data should be written to. When override is non-empty it is expanded
// in place of the context's output template. The returned discard flag
// is true when the configured base output path is the platform's null
// device, meaning the caller should drop cached data instead of
// writing it.
func (c *Context) FlushPath(override string) (path string, discard bool, err error) {
	fstring := c.outputTemplate
	if override != "" {
		fstring = override
	}
	cached, err := c.CachedPath(fstring)
	if err != nil {
		return "", false, err
	}
	full, err := filepath.Abs(filepath.Join(c.outputPath, cached))
	if err != nil {
		return "", false, err
	}
	return full, c.outputPath == os.DevNull, nil
}

// Expand decodes a path template into a concrete path.
//
// Recognized macros:
//
//	%d - date (YYYY-MM-DD)
//	%t - wall-clock time (HH:MM:SS)
//	%u - current user
//	%n - experiment name
//	%h - hostname
//	%i - next free integer subdirectory name
//
// Any other %x sequence passes through unchanged. %i occurrences are
// resolved last, left to right: each scan assumes the directories
// implied by everything to its left exist, so later %i macros see the
// IDs allocated by earlier ones. The scan checks for existing
// directories and is therefore racy across concurrent allocators
// sharing a base directory; callers needing that must lock externally.
func Expand(template string, c *Context) (string, error) {
	now := time.Now()
	path := template
	path = strings.ReplaceAll(path, "%d", now.Format("2006-01-02"))
	path = strings.ReplaceAll(path, "%t", now.Format("15:04:05"))
	path = strings.ReplaceAll(path, "%u", currentUser())
	path = strings.ReplaceAll(path, "%n", c.name)
	path = strings.ReplaceAll(path, "%h", hostname())
	for {
		idx := strings.Index(path, "%i")
		if idx < 0 {
			break
		}
		id, err := nextFreeID(path[:idx])
		if err != nil {
			return "", err
		}
		path = path[:idx] + id + path[idx+len("%i"):]
	}
	return path, nil
}

// nextFreeID scans base for the first non-negative integer that does
// not already exist as a subdirectory name.
func nextFreeID(base string) (string, error) {
	for sub := 0; sub < maxIDTries; sub++ {
		name := fmt.Sprintf("%d", sub)
		info, err := os.Stat(filepath.Join(base, name))
		if err != nil || !info.IsDir() {
			return name, nil
		}
	}
	return "", &AllocationError{Base: base, Tries: maxIDTries}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return os.Getenv("LOGNAME")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}
