package tool

import (
	"context"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coderforge/coderagent/internal/sandbox"
)

func TestExecuteShellCommand_RunsAllowedCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell test")
	}
	box := sandbox.New()

	args, _ := json.Marshal(executeShellCommandArgs{Command: "echo hi"})
	out, err := ExecuteShellCommandTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)

	var res executeShellCommandResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Success)
	require.Contains(t, res.Stdout, "hi")
}

func TestExecuteShellCommand_DeniedCommandIsToolError(t *testing.T) {
	box := sandbox.New()
	args, _ := json.Marshal(executeShellCommandArgs{Command: "rm -rf /tmp/whatever"})
	_, err := ExecuteShellCommandTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}
