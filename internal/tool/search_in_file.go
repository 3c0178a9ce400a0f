package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/coderforge/coderagent/internal/sandbox"
)

type searchInFileArgs struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
}

type searchMatch struct {
	LineNumber int    `json:"line_number"`
	LineText   string `json:"line_text"`
}

const searchInFileSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string", "description": "File to search"},
		"pattern": {"type": "string", "description": "Regular expression to search for, one line at a time"}
	},
	"required": ["path", "pattern"]
}`

// SearchInFileTool runs a regular expression over a file line by line
// and returns every matching line with its 1-based line number.
func SearchInFileTool() *Descriptor {
	return New(
		"search_in_file",
		"Search a file for lines matching a regular expression.",
		json.RawMessage(searchInFileSchema),
		invokeSearchInFile,
	)
}

func invokeSearchInFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var args searchInFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if err := box.CheckRead(args.Path); err != nil {
		return "", err
	}
	if isBlockedDotenv(args.Path) {
		return "", fmt.Errorf("refusing to search %s: .env files are blocked", args.Path)
	}

	re, err := regexp.Compile(args.Pattern)
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	matches := []searchMatch{}
	for i, line := range strings.Split(string(data), "\n") {
		if re.MatchString(line) {
			matches = append(matches, searchMatch{LineNumber: i + 1, LineText: line})
		}
	}

	out, err := json.Marshal(matches)
	if err != nil {
		return "", fmt.Errorf("marshal matches: %w", err)
	}
	return string(out), nil
}
