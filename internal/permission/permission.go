// Package permission implements the Session Permissions record: the
// per-session set of read-allowed directories, write-allowed
// directories, and allowed shell command names that every tool call
// and shell invocation is checked against.
package permission

import (
	"path/filepath"
	"strings"
	"sync"
)

// DefaultAllowedCommands is the minimal safe command allowlist a fresh
// session starts with. See DESIGN.md "Open Question decisions" for why
// this particular set.
var DefaultAllowedCommands = []string{"ls", "cat", "echo", "pwd"}

// Session tracks the three permission sets for one agent session. All
// mutation and lookup go through a mutex; the lock is only ever held
// for the duration of a map operation, never across IO.
type Session struct {
	mu        sync.Mutex
	readDirs  map[string]struct{}
	writeDirs map[string]struct{}
	commands  map[string]struct{}
}

// New creates a Session with the default command allowlist and no
// directory grants.
func New() *Session {
	s := &Session{
		readDirs:  make(map[string]struct{}),
		writeDirs: make(map[string]struct{}),
		commands:  make(map[string]struct{}),
	}
	for _, c := range DefaultAllowedCommands {
		s.commands[c] = struct{}{}
	}
	return s
}

// AllowRead grants read access to dir (and everything under it).
func (s *Session) AllowRead(dir string) {
	dir = canonicalDir(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readDirs[dir] = struct{}{}
}

// AllowWrite grants write access to dir, and read access along with it
// (write implies read is a standing invariant of the session).
func (s *Session) AllowWrite(dir string) {
	dir = canonicalDir(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeDirs[dir] = struct{}{}
	s.readDirs[dir] = struct{}{}
}

// AllowCommand grants execution of the given program name.
func (s *Session) AllowCommand(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands[name] = struct{}{}
}

// CanRead reports whether the directory path resolves to (path itself
// if it is an existing directory, else its parent) lies under a
// granted read or write directory.
func (s *Session) CanRead(path string) bool {
	dir := dirToCheck(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.underAny(dir, s.readDirs) || s.underAny(dir, s.writeDirs)
}

// CanWrite reports whether the directory a write to path would land
// in lies under a granted write directory.
func (s *Session) CanWrite(path string) bool {
	dir := dirToCheck(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.underAny(dir, s.writeDirs)
}

// CanExecute reports whether the first whitespace-separated token of
// command, lowercased, is in the allowed-commands set.
func (s *Session) CanExecute(command string) bool {
	name := firstToken(command)
	if name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.commands[name]
	return ok
}

// ReadDirs returns a snapshot of the granted read directories, for
// diagnostics and tests. The returned slice is not live.
func (s *Session) ReadDirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.readDirs)
}

// WriteDirs returns a snapshot of the granted write directories.
func (s *Session) WriteDirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.writeDirs)
}

// AllowedCommands returns a snapshot of the allowed command names.
func (s *Session) AllowedCommands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.commands)
}

// underAny must be called with s.mu held.
func (s *Session) underAny(dir string, set map[string]struct{}) bool {
	for granted := range set {
		if isUnder(dir, granted) {
			return true
		}
	}
	return false
}

// isUnder reports whether dir is granted itself or a descendant of it.
func isUnder(dir, granted string) bool {
	if dir == granted {
		return true
	}
	rel, err := filepath.Rel(granted, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// dirToCheck resolves the directory a read or write of path would
// actually touch: path itself if it's an existing directory, else its
// parent (mirrors spec §4.1's can_read/can_write contract, which falls
// back to the parent for paths that don't exist yet).
func dirToCheck(path string) string {
	clean := canonicalDir(path)
	if info, err := statDir(clean); err == nil && info {
		return clean
	}
	return filepath.Dir(clean)
}

func firstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
