// Package llm defines the narrow completion-model boundary the Agent
// Executor calls through, and concrete adapters over real provider
// SDKs. The executor only ever sees CompletionModel; it has no
// knowledge of Anthropic- or OpenAI-specific request shapes.
package llm

import (
	"context"
	"errors"

	"github.com/coderforge/coderagent/pkg/types"
)

// ErrRateLimited lets callers recognise a rate-limit failure without
// string-matching provider error messages. AnthropicModel wraps it
// around HTTP 429 errors; OpenAIModel does not wrap it.
var ErrRateLimited = errors.New("llm: rate limited")

// ToolSpec is the provider-agnostic shape of a tool the model may
// call, derived from a tool.Descriptor's exported fields.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema []byte // JSON Schema
}

// Completion is the model's answer for one turn: assistant text, a
// batch of tool calls to execute next, or both (the adapters keep
// every text and tool-use block the provider returns). The executor
// runs the tool calls when there are any and records the text only
// when there are none; a completion with neither is treated as
// unparseable.
type Completion struct {
	Text      string
	ToolCalls []types.ToolCall
}

// CompletionModel is the one interface the Agent Executor depends on.
// A request is the full message history plus the tool surface visible
// this turn — the planner and worker phases pass different ToolSpec
// slices through the same model.
type CompletionModel interface {
	Complete(ctx context.Context, history types.History, tools []ToolSpec) (*Completion, error)
}
