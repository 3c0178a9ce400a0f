package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coderforge/coderagent/internal/sandbox"
	"github.com/coderforge/coderagent/internal/shell"
)

type executeShellCommandArgs struct {
	Command          string `json:"command"`
	WorkingDirectory string `json:"working_directory,omitempty"`
	TimeoutSeconds   int    `json:"timeout_seconds,omitempty"`
}

type executeShellCommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	Success  bool   `json:"success"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

const executeShellCommandSchema = `{
	"type": "object",
	"properties": {
		"command": {"type": "string", "description": "Shell command line to run"},
		"working_directory": {"type": "string", "description": "Directory to run the command in (optional)"},
		"timeout_seconds": {"type": "integer", "description": "Timeout in seconds (optional, default 120, max 600)"}
	},
	"required": ["command"]
}`

// ExecuteShellCommandTool runs a command through the sandbox's Shell
// Executor, subject to the session's allowed-commands set.
func ExecuteShellCommandTool() *Descriptor {
	return New(
		"execute_shell_command",
		"Run a shell command. The command's first word must already be allowed via init defaults or request_permission.",
		json.RawMessage(executeShellCommandSchema),
		invokeExecuteShellCommand,
	)
}

func invokeExecuteShellCommand(ctx context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args executeShellCommandArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	timeout := shell.DefaultTimeout
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}

	res, err := box.RunCommand(ctx, args.Command, args.WorkingDirectory, timeout)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(executeShellCommandResult{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		Success:  res.ExitCode == 0 && !res.TimedOut,
		TimedOut: res.TimedOut,
	})
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(out), nil
}
