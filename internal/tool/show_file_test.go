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

func TestShowFile_ReturnsFullContentsByDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree"), 0o644))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(showFileArgs{Path: path})
	out, err := ShowFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Contains(t, out, "one")
	require.Contains(t, out, "three")
}

func TestShowFile_RespectsLineRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree"), 0o644))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(showFileArgs{Path: path, StartLine: 2, EndLine: 2})
	out, err := ShowFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Contains(t, out, "two")
	require.NotContains(t, out, "three")
}

func TestShowFile_StartLineBeyondFileLengthReturnsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree"), 0o644))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(showFileArgs{Path: path, StartLine: 100})
	out, err := ShowFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.NotContains(t, out, "one")
	require.NotContains(t, out, "two")
	require.NotContains(t, out, "three")
}

func TestShowFile_BlocksDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET=1"), 0o644))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(showFileArgs{Path: path})
	_, err := ShowFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}

func TestShowFile_AllowsDotEnvSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.sample")
	require.NoError(t, os.WriteFile(path, []byte("SECRET=changeme"), 0o644))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(showFileArgs{Path: path})
	out, err := ShowFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Contains(t, out, "changeme")
}

func TestShowFile_DeniedWithoutReadGrant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	box := sandbox.New()
	args, _ := json.Marshal(showFileArgs{Path: path})
	_, err := ShowFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}
