// Package sandbox is the Tool Sandbox: the facade every tool call
// passes through. It composes the Session Permissions record, the
// path/command validator, and the shell executor behind one object so
// tools don't each wire the three together by hand.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/permission"
	"github.com/coderforge/coderagent/internal/shell"
)

// Sandbox is shared by every tool invocation within one session. It
// holds no per-call state, so a single instance is safe to pass to
// every tool descriptor the registry dispatches to.
type Sandbox struct {
	Perms *permission.Session
	Shell *shell.Executor

	// Bus is the ambient notification Bus a tool publishes to when it
	// grants a permission or edits a file. Nil means "no ambient
	// notifications" — every tool must treat it as optional.
	Bus *event.Bus
}

// New creates a Sandbox around a fresh Session Permissions record.
func New() *Sandbox {
	perms := permission.New()
	return &Sandbox{
		Perms: perms,
		Shell: shell.New(perms),
	}
}

// CheckRead validates path and confirms the session may read it.
// Returns a *permission.DeniedError (validator) or a plain error
// (permission) — both are recoverable tool_error material, never
// fatal to the executor.
func (s *Sandbox) CheckRead(path string) error {
	if err := permission.ValidatePath(path); err != nil {
		return err
	}
	if !s.Perms.CanRead(path) {
		return fmt.Errorf("read permission denied for %q: call request_permission first", path)
	}
	return nil
}

// CheckWrite validates path and confirms the session may write it.
func (s *Sandbox) CheckWrite(path string) error {
	if err := permission.ValidatePath(path); err != nil {
		return err
	}
	if !s.Perms.CanWrite(path) {
		return fmt.Errorf("write permission denied for %q: call request_permission first", path)
	}
	return nil
}

// RunCommand executes command through the Shell Executor, which
// performs its own permission check internally.
func (s *Sandbox) RunCommand(ctx context.Context, command, workingDir string, timeout time.Duration) (*shell.Result, error) {
	return s.Shell.Execute(ctx, command, workingDir, timeout)
}

// Notify publishes n on Bus if one is configured. Tools call this
// instead of touching Bus directly so they stay correct when no Bus
// is wired.
func (s *Sandbox) Notify(topic event.Topic, data any) {
	if s.Bus == nil {
		return
	}
	s.Bus.Publish(event.Notification{Topic: topic, Data: data})
}
