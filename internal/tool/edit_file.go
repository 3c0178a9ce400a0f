package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/sandbox"
)

type editFileArgs struct {
	Path      string `json:"path"`
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
}

const editFileSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string", "description": "File to edit"},
		"old_string": {"type": "string", "description": "Exact text to replace; must match exactly once"},
		"new_string": {"type": "string", "description": "Replacement text"}
	},
	"required": ["path", "old_string", "new_string"]
}`

// EditFileTool replaces the first (and only) occurrence of an exact
// string in a file. It never falls back to a fuzzy match: zero or
// more than one occurrence of old_string is a tool_error, forcing the
// caller to narrow old_string until it is unambiguous.
func EditFileTool() *Descriptor {
	return New(
		"edit_file",
		"Replace an exact, uniquely-occurring string in a file.",
		json.RawMessage(editFileSchema),
		invokeEditFile,
	)
}

func invokeEditFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args editFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if err := box.CheckWrite(args.Path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	content := string(data)

	count := strings.Count(content, args.OldString)
	switch count {
	case 0:
		return "", fmt.Errorf("old_string not found in %s", args.Path)
	case 1:
		// exactly one match, proceed
	default:
		return "", fmt.Errorf("old_string occurs %d times in %s; narrow it to match exactly once", count, args.Path)
	}

	updated := strings.Replace(content, args.OldString, args.NewString, 1)
	if err := os.WriteFile(args.Path, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	box.Notify(event.TopicFileEdited, map[string]string{"path": args.Path})

	return fmt.Sprintf("edited %s", args.Path), nil
}
