package permission

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// sensitivePrefixesUnix is the block-list of sensitive system
// directories on POSIX systems.
var sensitivePrefixesUnix = []string{
	"/etc", "/bin", "/sbin", "/usr/bin", "/usr/sbin",
	"/boot", "/dev", "/proc", "/sys", "/var/log", "/var/run",
}

// sensitivePrefixesWindows is the block-list on Windows.
var sensitivePrefixesWindows = []string{
	`C:\Windows\System32`, `C:\Windows\SysWOW64`, `C:\Windows`,
}

// DeniedError is returned by ValidatePath when path resolves under the
// sensitive-directory block-list. It is always a recoverable,
// tool-level error: callers translate it into a tool_error result,
// never a fatal executor failure.
type DeniedError struct {
	Path   string
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access to %q denied: %s", e.Path, e.Reason)
}

// sensitivePrefixes returns the block-list for the running OS.
func sensitivePrefixes() []string {
	if runtime.GOOS == "windows" {
		return sensitivePrefixesWindows
	}
	return sensitivePrefixesUnix
}

// ValidatePath rejects paths that canonicalize under a sensitive
// system directory. It runs before any permission check, as a
// defense-in-depth belt against the session grants' suspenders: even
// a session that (mis-)grants read/write on "/" can't be used to touch
// /etc or /proc through this path.
func ValidatePath(path string) error {
	canon, err := canonicalize(path)
	if err != nil {
		// Canonicalization failed (filepath.Abs could not resolve the
		// path; a path that doesn't exist yet is still canonicalized via
		// its nearest existing ancestor); fall back to a lexical check
		// against the same prefixes, per §4.1.
		canon = filepath.Clean(path)
		for _, prefix := range sensitivePrefixes() {
			if lexicallyUnder(canon, prefix) {
				return &DeniedError{Path: path, Reason: "under sensitive system directory " + prefix}
			}
		}
		return nil
	}

	for _, prefix := range sensitivePrefixes() {
		if lexicallyUnder(canon, prefix) {
			return &DeniedError{Path: path, Reason: "under sensitive system directory " + prefix}
		}
	}
	return nil
}

// canonicalize resolves path to an absolute, symlink-free form.
// Canonicalization is what defeats ".." traversal: a path like
// "/tmp/proj/../../etc/passwd" collapses to "/etc/passwd" before any
// prefix check runs.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Path (or some component of it) doesn't exist yet. Walk up to the
		// nearest existing ancestor, resolve that, then re-append the tail.
		dir := filepath.Dir(abs)
		base := filepath.Base(abs)
		resolvedDir, derr := canonicalize(dir)
		if derr != nil {
			return "", err
		}
		return filepath.Join(resolvedDir, base), nil
	}
	return resolved, nil
}

// canonicalDir is canonicalize with the fallback of returning the
// lexically-cleaned absolute path when resolution bottoms out (root's
// parent, or an empty input).
func canonicalDir(path string) string {
	if canon, err := canonicalize(path); err == nil {
		return canon
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// lexicallyUnder reports whether path is prefix itself or a descendant
// of it, treating paths case-sensitively on Unix and
// case-insensitively on Windows.
func lexicallyUnder(path, prefix string) bool {
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		prefix = strings.ToLower(prefix)
	}
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

// statDir reports whether path exists and is a directory.
func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
