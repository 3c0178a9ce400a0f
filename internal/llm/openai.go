package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/coderforge/coderagent/pkg/types"
)

// ChatClient captures the subset of the go-openai client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIModel implements CompletionModel over the Chat Completions API.
type OpenAIModel struct {
	chat  ChatClient
	model string
}

// NewOpenAIModel builds a model client from an API key.
func NewOpenAIModel(apiKey, model string) (*OpenAIModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("openai: model identifier is required")
	}
	return &OpenAIModel{chat: openai.NewClient(apiKey), model: model}, nil
}

// Complete renders a chat completion and translates tool calls back
// into our plain Completion shape.
func (m *OpenAIModel) Complete(ctx context.Context, history types.History, tools []ToolSpec) (*Completion, error) {
	messages, err := encodeOpenAIHistory(history)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: messages,
	}
	if len(tools) > 0 {
		req.Tools = encodeOpenAITools(tools)
	}

	resp, err := m.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	return translateOpenAIResponse(resp), nil
}

func encodeOpenAIHistory(history types.History) ([]openai.ChatCompletionMessage, error) {
	var out []openai.ChatCompletionMessage
	for _, entry := range history {
		switch entry.Kind {
		case types.KindUserPrompt:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: entry.Text})
		case types.KindAssistantText:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: entry.Text})
		case types.KindAssistantToolCalls:
			calls := make([]openai.ToolCall, 0, len(entry.Calls))
			for _, call := range entry.Calls {
				calls = append(calls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(call.Arguments),
					},
				})
			}
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, ToolCalls: calls})
		case types.KindToolResult:
			if entry.Result == nil {
				continue
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    entry.Result.Payload,
				ToolCallID: entry.Result.ID,
			})
		}
	}
	if len(out) == 0 {
		return nil, errors.New("openai: at least one history entry is required")
	}
	return out, nil
}

func encodeOpenAITools(tools []ToolSpec) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(t.InputSchema),
			},
		})
	}
	return out
}

func translateOpenAIResponse(resp openai.ChatCompletionResponse) *Completion {
	c := &Completion{}
	for _, choice := range resp.Choices {
		msg := choice.Message
		if strings.TrimSpace(msg.Content) != "" {
			c.Text += msg.Content
		}
		for _, call := range msg.ToolCalls {
			c.ToolCalls = append(c.ToolCalls, types.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: json.RawMessage(call.Function.Arguments),
			})
		}
	}
	return c
}
