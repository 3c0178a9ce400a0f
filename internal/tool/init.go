package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/permission"
	"github.com/coderforge/coderagent/internal/sandbox"
)

type initArgs struct {
	Path string `json:"path"`
}

const initSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string", "description": "The project root to grant access to and seed context from"}
	},
	"required": ["path"]
}`

// InitTool grants read and write access to a project root and returns
// a directory tree to seed the agent's context, in one call.
func InitTool() *Descriptor {
	return New(
		"init",
		"Grant read/write access to a project root and return its directory tree.",
		json.RawMessage(initSchema),
		invokeInit,
	)
}

func invokeInit(ctx context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args initArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if err := permission.ValidatePath(args.Path); err != nil {
		return "", err
	}

	box.Perms.AllowWrite(args.Path) // allow_write also grants read, per spec §4.1
	box.Notify(event.TopicPermissionResolved, map[string]string{"operation": "write", "path": args.Path})

	treeArgs, _ := json.Marshal(directoryTreeArgs{Path: args.Path})
	tree, err := invokeDirectoryTree(ctx, box, treeArgs)
	if err != nil {
		return "", fmt.Errorf("granted access but failed to render tree: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("project initialized: ")
	sb.WriteString(args.Path)
	sb.WriteString("\n\n")
	sb.WriteString(tree)
	return sb.String(), nil
}
