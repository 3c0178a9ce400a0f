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

func TestRequestPermission_GrantsReadOnDirectory(t *testing.T) {
	dir := t.TempDir()
	box := sandbox.New()

	args, _ := json.Marshal(requestPermissionArgs{Operation: "read", Path: dir})
	_, err := RequestPermissionTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.True(t, box.Perms.CanRead(dir))
}

func TestRequestPermission_GrantsWriteOnParentOfFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")
	box := sandbox.New()

	args, _ := json.Marshal(requestPermissionArgs{Operation: "write", Path: path})
	_, err := RequestPermissionTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.True(t, box.Perms.CanWrite(dir))
}

func TestRequestPermission_GrantsExecuteFirstToken(t *testing.T) {
	box := sandbox.New()
	args, _ := json.Marshal(requestPermissionArgs{Operation: "execute", Path: "make build"})
	_, err := RequestPermissionTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.True(t, box.Perms.CanExecute("make"))
}

func TestRequestPermission_UnknownOperationIsToolError(t *testing.T) {
	box := sandbox.New()
	args, _ := json.Marshal(requestPermissionArgs{Operation: "delete", Path: "/tmp"})
	_, err := RequestPermissionTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}

func TestRequestPermission_GrantsReadOnExistingFileParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	box := sandbox.New()
	args, _ := json.Marshal(requestPermissionArgs{Operation: "read", Path: path})
	_, err := RequestPermissionTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.True(t, box.Perms.CanRead(path))
}
