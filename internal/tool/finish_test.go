package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coderforge/coderagent/internal/sandbox"
)

func TestFinish_EchoesSummary(t *testing.T) {
	box := sandbox.New()
	args, _ := json.Marshal(FinishArgs{Summary: "added the widget"})
	out, err := FinishTool().Invoke(context.Background(), box, args)
	require.NoError(t, err)
	require.Equal(t, "added the widget", out)
}
