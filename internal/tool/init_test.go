package tool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coderforge/coderagent/internal/sandbox"
)

func TestInit_GrantsReadAndWriteAndReturnsTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	box := sandbox.New()
	require.False(t, box.Perms.CanRead(dir))

	args, _ := json.Marshal(initArgs{Path: dir})
	out, err := InitTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Contains(t, out, "main.go")

	require.True(t, box.Perms.CanRead(dir))
	require.True(t, box.Perms.CanWrite(dir))
}

func TestInit_DeniedOnSensitivePath(t *testing.T) {
	box := sandbox.New()
	args, _ := json.Marshal(initArgs{Path: "/etc"})
	_, err := InitTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}
