package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/coderforge/coderagent/pkg/types"
)

// MessagesClient captures the subset of the Anthropic SDK used here,
// so tests can substitute a fake without standing up a real client.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// AnthropicModel implements CompletionModel over the Anthropic
// Messages API.
type AnthropicModel struct {
	msg       MessagesClient
	model     string
	maxTokens int64
}

// AnthropicConfig configures AnthropicModel.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// NewAnthropicModel builds a model client from an API key.
func NewAnthropicModel(cfg AnthropicConfig) (*AnthropicModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("anthropic: model identifier is required")
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	client := sdk.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AnthropicModel{msg: &client.Messages, model: cfg.Model, maxTokens: maxTokens}, nil
}

// Complete issues a Messages.New request and translates the typed
// union response into our plain Completion.
func (m *AnthropicModel) Complete(ctx context.Context, history types.History, tools []ToolSpec) (*Completion, error) {
	msgs, system, err := encodeHistory(history)
	if err != nil {
		return nil, err
	}
	params := sdk.MessageNewParams{
		MaxTokens: m.maxTokens,
		Messages:  msgs,
		Model:     sdk.Model(m.model),
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if len(tools) > 0 {
		params.Tools, err = encodeToolSpecs(tools)
		if err != nil {
			return nil, err
		}
	}

	resp, err := m.msg.New(ctx, params)
	if err != nil {
		if isRateLimited(err) {
			return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return nil, fmt.Errorf("anthropic messages.new: %w", err)
	}
	return translateAnthropicMessage(resp)
}

func encodeHistory(history types.History) ([]sdk.MessageParam, string, error) {
	var (
		out    []sdk.MessageParam
		system string
	)
	for _, entry := range history {
		switch entry.Kind {
		case types.KindUserPrompt:
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(entry.Text)))
		case types.KindAssistantText:
			out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(entry.Text)))
		case types.KindAssistantToolCalls:
			blocks := make([]sdk.ContentBlockParamUnion, 0, len(entry.Calls))
			for _, call := range entry.Calls {
				var input any
				if len(call.Arguments) > 0 {
					if err := json.Unmarshal(call.Arguments, &input); err != nil {
						return nil, "", fmt.Errorf("anthropic: decode tool call args: %w", err)
					}
				}
				blocks = append(blocks, sdk.NewToolUseBlock(call.ID, input, call.Name))
			}
			out = append(out, sdk.NewAssistantMessage(blocks...))
		case types.KindToolResult:
			if entry.Result == nil {
				continue
			}
			out = append(out, sdk.NewUserMessage(
				sdk.NewToolResultBlock(entry.Result.ID, entry.Result.Payload, entry.Result.Outcome == types.OutcomeToolError),
			))
		}
	}
	if len(out) == 0 {
		return nil, "", errors.New("anthropic: at least one history entry is required")
	}
	return out, system, nil
}

func encodeToolSpecs(tools []ToolSpec) ([]sdk.ToolUnionParam, error) {
	out := make([]sdk.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		var schemaMap map[string]any
		if len(t.InputSchema) > 0 {
			if err := json.Unmarshal(t.InputSchema, &schemaMap); err != nil {
				return nil, fmt.Errorf("anthropic: tool %q schema: %w", t.Name, err)
			}
		}
		u := sdk.ToolUnionParamOfTool(sdk.ToolInputSchemaParam{ExtraFields: schemaMap}, t.Name)
		if u.OfTool != nil {
			u.OfTool.Description = sdk.String(t.Description)
		}
		out = append(out, u)
	}
	return out, nil
}

func translateAnthropicMessage(msg *sdk.Message) (*Completion, error) {
	if msg == nil {
		return nil, errors.New("anthropic: response message is nil")
	}
	c := &Completion{}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			c.Text += block.Text
		case "tool_use":
			args, err := json.Marshal(block.Input)
			if err != nil {
				return nil, fmt.Errorf("anthropic: encode tool_use input: %w", err)
			}
			c.ToolCalls = append(c.ToolCalls, types.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}
	return c, nil
}

func isRateLimited(err error) bool {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
