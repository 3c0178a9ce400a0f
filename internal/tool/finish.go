package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coderforge/coderagent/internal/sandbox"
)

// FinishArgs is the argument shape of a finish call, exported so code
// outside this package can build one. finish is the sole clean
// termination path (spec §4.5), and the executor's state machine,
// not the tool's side effect, is what actually ends the run. Invoke
// just validates the shape and echoes the summary back as the
// result payload; the executor recognizes the tool name "finish"
// after dispatch and transitions to Finished using that payload.
type FinishArgs struct {
	Summary string `json:"summary"`
}

const finishSchema = `{
	"type": "object",
	"properties": {
		"summary": {"type": "string", "description": "Final summary of what was accomplished"}
	},
	"required": ["summary"]
}`

// FinishTool is the only tool that cleanly ends an Agent Executor
// run. It has no sandbox side effect; the executor's dispatch loop
// watches for this tool name and ends the turn loop on seeing it.
func FinishTool() *Descriptor {
	return New(
		"finish",
		"End the run and report a final summary. Call this, and only this, when the task is complete.",
		json.RawMessage(finishSchema),
		invokeFinish,
	)
}

func invokeFinish(_ context.Context, _ *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args FinishArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return args.Summary, nil
}
