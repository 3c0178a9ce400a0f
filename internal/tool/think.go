package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coderforge/coderagent/internal/sandbox"
)

type thinkArgs struct {
	Thought string `json:"thought"`
}

const thinkSchema = `{
	"type": "object",
	"properties": {
		"thought": {"type": "string", "description": "A scratch note to reason out loud, with no side effect"}
	},
	"required": ["thought"]
}`

// ThinkTool lets the agent reason out loud without touching the
// sandbox. The thought itself is already visible in the tool call;
// the result is a fixed acknowledgement.
func ThinkTool() *Descriptor {
	return New(
		"think",
		"Record a reasoning note. Has no effect on the sandbox.",
		json.RawMessage(thinkSchema),
		invokeThink,
	)
}

func invokeThink(_ context.Context, _ *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args thinkArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return "noted", nil
}
