// Package tool implements the Tool Registry and the ten built-in
// tools an Agent Executor dispatches to: request_permission, init,
// show_file, search_in_file, edit_file, write_file, directory_tree,
// execute_shell_command, think, and finish.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/coderforge/coderagent/internal/sandbox"
)

// Descriptor is the immutable record an LLM sees and the registry
// dispatches by name. Identity is Name; a registry enforces uniqueness.
type Descriptor struct {
	Name        string
	Description string
	// InputSchema is a JSON-Schema object describing a named-parameter
	// object: {"type":"object","properties":{...},"required":[...]}.
	InputSchema json.RawMessage

	invoke func(ctx context.Context, box *sandbox.Sandbox, args json.RawMessage) (string, error)

	compiled *jsonschema.Schema
}

// New builds a Descriptor, pre-compiling its schema. Compilation
// failure is a programmer error (a malformed built-in schema), so New
// panics rather than threading an error through every registration
// call site — mirrors the teacher's registry, which treats tool
// registration as infallible setup.
func New(name, description string, schema json.RawMessage, invoke func(context.Context, *sandbox.Sandbox, json.RawMessage) (string, error)) *Descriptor {
	d := &Descriptor{
		Name:        name,
		Description: description,
		InputSchema: schema,
		invoke:      invoke,
	}
	compiled, err := compileSchema(name, schema)
	if err != nil {
		panic(fmt.Sprintf("tool %q: invalid schema: %v", name, err))
	}
	d.compiled = compiled
	return d
}

// ValidateArgs checks args against the descriptor's input schema.
func (d *Descriptor) ValidateArgs(args json.RawMessage) error {
	if d.compiled == nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(args, &doc); err != nil {
		return fmt.Errorf("invalid argument JSON: %w", err)
	}
	if err := d.compiled.Validate(doc); err != nil {
		return fmt.Errorf("argument validation failed: %w", err)
	}
	return nil
}

// Invoke validates and then runs the tool's implementation.
func (d *Descriptor) Invoke(ctx context.Context, box *sandbox.Sandbox, args json.RawMessage) (result string, err error) {
	if err := d.ValidateArgs(args); err != nil {
		return "", err
	}

	// A panicking tool implementation becomes a recoverable tool_error,
	// never a fatal executor failure (spec §4.5 step 4d, §7).
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %q panicked: %v", d.Name, r)
		}
	}()

	return d.invoke(ctx, box, args)
}

func compileSchema(name string, schema json.RawMessage) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := c.AddResource(resource, doc); err != nil {
		return nil, err
	}
	return c.Compile(resource)
}
