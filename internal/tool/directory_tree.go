package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/coderforge/coderagent/internal/sandbox"
)

const defaultMaxDepth = 3

// defaultIgnoreGlobs mirrors the teacher's default-ignored directories
// for directory_tree: VCS metadata and common dependency trees.
var defaultIgnoreGlobs = []string{".git", "node_modules", "vendor", ".hg", ".svn"}

type directoryTreeArgs struct {
	Path     string `json:"path"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

const directoryTreeSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string", "description": "Directory to render a tree of"},
		"max_depth": {"type": "integer", "description": "How many levels deep to recurse (default 3)"}
	},
	"required": ["path"]
}`

// DirectoryTreeTool renders a text tree rooted at a directory.
func DirectoryTreeTool() *Descriptor {
	return New(
		"directory_tree",
		"Render a directory tree rooted at path, directories before files, sorted case-insensitively.",
		json.RawMessage(directoryTreeSchema),
		invokeDirectoryTree,
	)
}

func invokeDirectoryTree(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args directoryTreeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if args.MaxDepth <= 0 {
		args.MaxDepth = defaultMaxDepth
	}

	if err := box.CheckRead(args.Path); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(filepath.Base(args.Path))
	if sb.String() == "" || args.Path == "." {
		sb.Reset()
		sb.WriteString(args.Path)
	}

	if err := renderTree(&sb, box, args.Path, 1, args.MaxDepth); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// renderTree writes one level of the tree under dir. Each recursion
// re-checks CanRead and silently skips denied entries rather than
// failing the whole call, per spec §4.3 directory_tree guard.
func renderTree(sb *strings.Builder, box *sandbox.Sandbox, dir string, depth, maxDepth int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	type node struct {
		name  string
		isDir bool
	}
	var nodes []node
	for _, e := range entries {
		if isIgnored(e.Name()) {
			continue
		}
		childPath := filepath.Join(dir, e.Name())
		if !box.Perms.CanRead(childPath) {
			continue
		}
		nodes = append(nodes, node{name: e.Name(), isDir: e.IsDir()})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].isDir != nodes[j].isDir {
			return nodes[i].isDir // directories before files
		}
		return strings.ToLower(nodes[i].name) < strings.ToLower(nodes[j].name)
	})

	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.isDir {
			sb.WriteString(fmt.Sprintf("\n%s%s/", indent, n.name))
			if depth >= maxDepth {
				sb.WriteString(" (…)")
				continue
			}
			if err := renderTree(sb, box, filepath.Join(dir, n.name), depth+1, maxDepth); err != nil {
				// A child we can't read is already filtered out above; an
				// actual IO error here (permissions race, removed mid-walk)
				// just gets summarized rather than failing the whole tree.
				sb.WriteString(" (…)")
			}
		} else {
			sb.WriteString(fmt.Sprintf("\n%s%s", indent, n.name))
		}
	}
	return nil
}

func isIgnored(name string) bool {
	for _, pattern := range defaultIgnoreGlobs {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
