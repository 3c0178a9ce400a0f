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

func TestWriteFile_CreatesNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(writeFileArgs{Path: path, Content: "hello"})
	_, err := WriteFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestWriteFile_ReplacesExistingContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(writeFileArgs{Path: path, Content: "new"})
	_, err := WriteFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestWriteFile_CreatesMissingParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "new.txt")

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(writeFileArgs{Path: path, Content: "hi"})
	_, err := WriteFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hi", string(data))
}

func TestWriteFile_DeniedWithoutWriteGrant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	box := sandbox.New()
	args, _ := json.Marshal(writeFileArgs{Path: path, Content: "hello"})
	_, err := WriteFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}
