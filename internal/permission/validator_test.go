package permission

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath_BlocksSensitiveDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix block-list test")
	}
	for _, p := range []string{"/etc/passwd", "/etc", "/bin/sh", "/proc/1/mem", "/var/log/syslog"} {
		err := ValidatePath(p)
		require.Error(t, err, p)
		var denied *DeniedError
		assert.ErrorAs(t, err, &denied)
	}
}

func TestValidatePath_AllowsOrdinaryProjectPath(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, ValidatePath(dir))
	assert.NoError(t, ValidatePath(filepath.Join(dir, "main.go")))
}

func TestValidatePath_DefeatsDotDotTraversal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix block-list test")
	}
	dir := t.TempDir()
	traversal := filepath.Join(dir, "..", "..", "..", "etc", "passwd")
	err := ValidatePath(traversal)
	require.Error(t, err)
}

func TestValidatePath_NonexistentPathUnderBlockedDirIsDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix block-list test")
	}
	err := ValidatePath("/etc/does-not-exist-coderagent-test")
	require.Error(t, err)
}
