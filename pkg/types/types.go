// Package types holds the wire-level data shapes shared between the
// agent executor, the tool layer, and the orchestrator: tool calls and
// results, and the message history the executor feeds back to the LLM.
package types

import "encoding/json"

// Outcome is the result discriminator for a ToolResult.
type Outcome string

const (
	// OutcomeOK marks a tool call that ran to completion.
	OutcomeOK Outcome = "ok"
	// OutcomeToolError marks a recoverable failure fed back to the LLM.
	OutcomeToolError Outcome = "tool_error"
)

// ToolCall is an LLM-emitted request to invoke a tool.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is what a tool call produces once executed.
type ToolResult struct {
	ID       string `json:"id"`
	ToolName string `json:"tool_name"`
	Payload  string `json:"payload"`
	Outcome  Outcome `json:"outcome"`
}

// EntryKind discriminates Message History entries.
type EntryKind string

const (
	KindUserPrompt        EntryKind = "user_prompt"
	KindAssistantText     EntryKind = "assistant_text"
	KindAssistantToolCalls EntryKind = "assistant_tool_calls"
	KindToolResult         EntryKind = "tool_result"
)

// Entry is one element of the ordered Message History. Exactly one of
// the payload fields is populated, selected by Kind.
type Entry struct {
	Kind EntryKind `json:"kind"`

	// KindUserPrompt / KindAssistantText
	Text string `json:"text,omitempty"`

	// KindAssistantToolCalls
	Calls []ToolCall `json:"calls,omitempty"`

	// KindToolResult
	Result *ToolResult `json:"result,omitempty"`
}

// UserPrompt builds a user-authored Entry.
func UserPrompt(text string) Entry { return Entry{Kind: KindUserPrompt, Text: text} }

// AssistantText builds a conversational (non-tool-calling) assistant Entry.
func AssistantText(text string) Entry { return Entry{Kind: KindAssistantText, Text: text} }

// AssistantToolCalls builds an Entry recording the tool calls an assistant turn requested.
func AssistantToolCalls(calls []ToolCall) Entry {
	return Entry{Kind: KindAssistantToolCalls, Calls: calls}
}

// ToolResultEntry builds an Entry recording a completed tool invocation.
func ToolResultEntry(r ToolResult) Entry {
	return Entry{Kind: KindToolResult, Result: &r}
}

// History is the ordered sequence of Entry values an Agent Executor
// accumulates across a run and replays to the completion model on
// every turn.
type History []Entry

// Append returns a new History with entry appended.
func (h History) Append(e Entry) History {
	return append(h, e)
}
