package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coderforge/coderagent/internal/sandbox"
)

// maxShowFileBytes caps how much of a file show_file returns in one
// call. Larger files need an explicit line range to page through.
const maxShowFileBytes = 30000

type showFileArgs struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

const showFileSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string", "description": "File to read"},
		"start_line": {"type": "integer", "description": "1-based inclusive start line (optional)"},
		"end_line": {"type": "integer", "description": "1-based inclusive end line (optional)"}
	},
	"required": ["path"]
}`

// ShowFileTool returns UTF-8 file contents, optionally sliced to a
// 1-based inclusive line range.
func ShowFileTool() *Descriptor {
	return New(
		"show_file",
		"Show a file's contents, optionally limited to a line range.",
		json.RawMessage(showFileSchema),
		invokeShowFile,
	)
}

func invokeShowFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args showFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if err := box.CheckRead(args.Path); err != nil {
		return "", err
	}
	if isBlockedDotenv(args.Path) {
		return "", fmt.Errorf("refusing to show %s: .env files are blocked (use a .env.sample or .env.example)", args.Path)
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	start, end := 1, len(lines)
	if args.StartLine > 0 {
		start = args.StartLine
	}
	if args.EndLine > 0 {
		end = args.EndLine
	}
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}

	var selected string
	displayStart, displayEnd := start, end
	switch {
	case start > len(lines):
		// A start_line past the end of the file returns empty content,
		// not an error — lines out of range clamp to file bounds.
		displayStart, displayEnd = len(lines), len(lines)
	case start > end:
		return "", fmt.Errorf("line range %d-%d is out of bounds for a %d-line file", args.StartLine, args.EndLine, len(lines))
	default:
		selected = strings.Join(lines[start-1:end], "\n")
	}

	truncated := false
	if len(selected) > maxShowFileBytes {
		selected = selected[:maxShowFileBytes]
		truncated = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (lines %d-%d of %d)\n", args.Path, displayStart, displayEnd, len(lines))
	sb.WriteString(selected)
	if truncated {
		sb.WriteString("\n... (truncated; pass start_line/end_line to page through the rest)")
	}
	return sb.String(), nil
}

// isBlockedDotenv blocks .env files while allowing the conventional
// sample/example variants that carry no real secrets.
func isBlockedDotenv(path string) bool {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, ".env") {
		return false
	}
	if strings.HasSuffix(base, ".sample") || strings.HasSuffix(base, ".example") {
		return false
	}
	return true
}
