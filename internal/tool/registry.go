package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coderforge/coderagent/internal/sandbox"
)

// Registry is a name-to-Descriptor map, immutable after construction
// and safe to share across goroutines once built.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Descriptor
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Registering a duplicate name panics —
// tool names must be unique within a registry by construction, and a
// collision is a wiring bug caught at startup.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.Name]; exists {
		panic(fmt.Sprintf("duplicate tool name: %q", d.Name))
	}
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Get looks up a descriptor by name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// All returns every descriptor, in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Subset returns a new Registry containing only the named tools, for
// the planner phase's read-only tool surface. Missing names are
// silently skipped so a subset list can be written once and reused
// even as the full tool surface grows.
func (r *Registry) Subset(names ...string) *Registry {
	sub := NewRegistry()
	for _, name := range names {
		if d, ok := r.Get(name); ok {
			sub.Register(d)
		}
	}
	return sub
}

// Dispatch looks up name and invokes it, translating an unknown name
// into the same recoverable-error shape a failed invocation would
// produce (spec §4.5 step 4b: "no such tool: X" is never fatal).
func (r *Registry) Dispatch(ctx context.Context, box *sandbox.Sandbox, name string, args json.RawMessage) (string, error) {
	d, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("no such tool: %s", name)
	}
	return d.Invoke(ctx, box, args)
}

// DefaultRegistry builds a registry with all ten built-in tools.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RequestPermissionTool())
	r.Register(InitTool())
	r.Register(ShowFileTool())
	r.Register(SearchInFileTool())
	r.Register(EditFileTool())
	r.Register(WriteFileTool())
	r.Register(DirectoryTreeTool())
	r.Register(ExecuteShellCommandTool())
	r.Register(ThinkTool())
	r.Register(FinishTool())
	return r
}

// ReadOnlyToolNames is the tool subset the planner phase of the Coder
// Orchestrator is given: information-gathering tools plus think/finish,
// per spec §4.6.
var ReadOnlyToolNames = []string{
	"show_file", "search_in_file", "directory_tree",
	"execute_shell_command", "think", "finish",
}
