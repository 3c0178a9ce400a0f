package tool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coderforge/coderagent/internal/sandbox"
)

func TestDirectoryTree_ListsFilesAndDirsSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zzz"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(directoryTreeArgs{Path: dir})
	out, err := DirectoryTreeTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Contains(t, out, "zzz/")
	require.Contains(t, out, "a.txt")
	require.Less(t, strings.Index(out, "zzz/"), strings.Index(out, "a.txt"), "directories are listed before files")
	require.NotContains(t, out, ".git")
}

func TestDirectoryTree_EmptyDirReturnsRootAlone(t *testing.T) {
	dir := t.TempDir()

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(directoryTreeArgs{Path: dir})
	out, err := DirectoryTreeTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Equal(t, filepath.Base(dir), out)
}

func TestDirectoryTree_DeniedWithoutReadGrant(t *testing.T) {
	dir := t.TempDir()
	box := sandbox.New()
	args, _ := json.Marshal(directoryTreeArgs{Path: dir})
	_, err := DirectoryTreeTool().Invoke(context.Background(), box, args)
	require.Error(t, err)
}

func TestDirectoryTree_SummarizesBeyondMaxDepth(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "deep.txt"), []byte("x"), 0o644))

	box := sandbox.New()
	box.Perms.AllowRead(dir)

	args, _ := json.Marshal(directoryTreeArgs{Path: dir, MaxDepth: 1})
	out, err := DirectoryTreeTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Contains(t, out, "a/ (…)")
	require.NotContains(t, out, "deep.txt")
}
