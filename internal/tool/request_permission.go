package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/permission"
	"github.com/coderforge/coderagent/internal/sandbox"
)

type requestPermissionArgs struct {
	Operation string `json:"operation"`
	Path      string `json:"path"`
}

const requestPermissionSchema = `{
	"type": "object",
	"properties": {
		"operation": {"type": "string", "enum": ["read", "write", "execute"], "description": "The kind of access to grant"},
		"path": {"type": "string", "description": "For read/write: a filesystem path. For execute: a command string."}
	},
	"required": ["operation", "path"]
}`

// RequestPermissionTool lets the agent grant itself read/write/execute
// access after a prior call was denied.
func RequestPermissionTool() *Descriptor {
	return New(
		"request_permission",
		"Request read, write, or execute permission for a path or command. Call this after a tool_error tells you permission was denied.",
		json.RawMessage(requestPermissionSchema),
		invokeRequestPermission,
	)
}

func invokeRequestPermission(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args requestPermissionArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	switch args.Operation {
	case "read", "write":
		if err := permission.ValidatePath(args.Path); err != nil {
			return "", err
		}
		dir := args.Path
		if isDir, err := pathIsDir(args.Path); err != nil || !isDir {
			dir = filepath.Dir(args.Path)
		}
		if args.Operation == "read" {
			box.Perms.AllowRead(dir)
			box.Notify(event.TopicPermissionResolved, map[string]string{"operation": "read", "path": dir})
			return fmt.Sprintf("granted read access to %s", dir), nil
		}
		box.Perms.AllowWrite(dir)
		box.Notify(event.TopicPermissionResolved, map[string]string{"operation": "write", "path": dir})
		return fmt.Sprintf("granted write access to %s", dir), nil

	case "execute":
		name := strings.Fields(args.Path)
		if len(name) == 0 {
			return "", fmt.Errorf("empty command")
		}
		box.Perms.AllowCommand(name[0])
		box.Notify(event.TopicPermissionResolved, map[string]string{"operation": "execute", "path": name[0]})
		return fmt.Sprintf("granted execute access to %s", name[0]), nil

	default:
		return "", fmt.Errorf("unknown operation %q: must be read, write, or execute", args.Operation)
	}
}

// pathIsDir reports whether path exists and is a directory, without
// promoting a stat failure to an error the caller needs to branch on —
// request_permission treats "doesn't exist yet" the same as "not a
// directory" (grant the parent).
func pathIsDir(path string) (bool, error) {
	return statDir(path)
}
