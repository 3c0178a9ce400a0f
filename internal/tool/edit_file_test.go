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

func TestEditFile_ReplacesUniqueOccurrence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(editFileArgs{Path: path, OldString: "world", NewString: "there"})
	_, err := EditFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello there", string(data))
}

func TestEditFile_ZeroOccurrencesIsToolError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(editFileArgs{Path: path, OldString: "missing", NewString: "x"})
	_, err := EditFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}

func TestEditFile_AmbiguousOccurrencesIsToolError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo foo foo"), 0o644))

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(editFileArgs{Path: path, OldString: "foo", NewString: "bar"})
	_, err := EditFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "foo foo foo", string(data), "file must be untouched when the edit is rejected as ambiguous")
}

func TestEditFile_DeniedWithoutWriteGrant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	box := sandbox.New()
	args, _ := json.Marshal(editFileArgs{Path: path, OldString: "world", NewString: "there"})
	_, err := EditFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}

func TestEditFile_IdenticalStringsIsNoopWhenUnique(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(editFileArgs{Path: path, OldString: "world", NewString: "world"})
	_, err := EditFileTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestEditFile_IdenticalStringsStillToolErrorWhenAmbiguous(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo foo foo"), 0o644))

	box := sandbox.New()
	box.Perms.AllowWrite(dir)

	args, _ := json.Marshal(editFileArgs{Path: path, OldString: "foo", NewString: "foo"})
	_, err := EditFileTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}
