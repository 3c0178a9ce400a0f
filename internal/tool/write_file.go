package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/sandbox"
)

type writeFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

const writeFileSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string", "description": "File to create or fully replace"},
		"content": {"type": "string", "description": "New full contents of the file"}
	},
	"required": ["path", "content"]
}`

// WriteFileTool creates a file or replaces its full contents,
// creating any missing parent directories within the writable root.
func WriteFileTool() *Descriptor {
	return New(
		"write_file",
		"Create a file, or replace its entire contents, at path.",
		json.RawMessage(writeFileSchema),
		invokeWriteFile,
	)
}

func invokeWriteFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args writeFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if err := box.CheckWrite(args.Path); err != nil {
		return "", err
	}

	dir := filepath.Dir(args.Path)
	if err := box.CheckWrite(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create parent directories: %w", err)
	}

	if err := os.WriteFile(args.Path, []byte(args.Content), 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	box.Notify(event.TopicFileEdited, map[string]string{"path": args.Path})

	return fmt.Sprintf("wrote %d bytes to %s", len(args.Content), args.Path), nil
}
