// Package executor implements the Agent Executor: a bounded,
// iterative tool-use loop that prompts a completion model, executes
// the tool calls it returns in strict order, and feeds results back
// until the model calls finish or the run fails.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/llm"
	"github.com/coderforge/coderagent/internal/sandbox"
	"github.com/coderforge/coderagent/internal/tool"
	"github.com/coderforge/coderagent/pkg/types"
)

const (
	// DefaultMaxIterations bounds a run when Config.MaxIterations is
	// unset, guarding against an agent that never calls finish.
	DefaultMaxIterations = 50

	// completionMaxRetries is the single retry a transient completion
	// failure or an unparseable response gets before the turn fails.
	completionMaxRetries = 1
	retryInitialInterval = time.Second
	retryMaxInterval     = 10 * time.Second
	retryMaxElapsedTime  = 30 * time.Second
)

// Config wires one Agent Executor run.
type Config struct {
	Model         llm.CompletionModel
	Registry      *tool.Registry
	Sandbox       *sandbox.Sandbox
	Stream        *event.Stream
	MaxIterations int
	Logger        *zerolog.Logger
}

// Executor runs the bounded tool-use loop for one session.
type Executor struct {
	cfg   Config
	state State
	runID string
}

// New builds an Executor from cfg, filling in defaults. Each Executor
// gets its own ULID, stamped onto every event it publishes so a
// consumer watching a shared Stream (as the Coder Orchestrator's
// planner and worker both do) can tell which run an event came from.
func New(cfg Config) *Executor {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Executor{cfg: cfg, state: StateIdle, runID: ulid.Make().String()}
}

// State returns the executor's current state-machine position.
func (e *Executor) State() State { return e.state }

// Run drives the loop to completion: a clean finish returns the
// summary from the model's finish call; any fatal condition returns
// a *FatalError and a zero summary.
func (e *Executor) Run(ctx context.Context, history types.History) (string, error) {
	specs := toolSpecs(e.cfg.Registry)

	for iteration := 0; iteration < e.cfg.MaxIterations; iteration++ {
		turnID := uuid.NewString()

		e.state = StatePrompting
		if !e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorPrompting, RunID: e.runID, TurnID: turnID, Iteration: iteration}) {
			return "", &FatalError{Kind: FatalChannelClosed}
		}

		e.state = StateAwaitingResponse
		completion, err := e.completeWithRetry(ctx, history, specs)
		if err != nil {
			e.state = StateFailed
			e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorFailed, RunID: e.runID, TurnID: turnID, FatalKind: string(FatalModelUnparseable), FatalError: err.Error()})
			return "", &FatalError{Kind: FatalModelUnparseable, Err: err}
		}

		if len(completion.ToolCalls) == 0 {
			history = history.Append(types.AssistantText(completion.Text))
			if !e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorAssistantText, RunID: e.runID, TurnID: turnID, Text: completion.Text}) {
				return "", &FatalError{Kind: FatalChannelClosed}
			}
			continue
		}

		history = history.Append(types.AssistantToolCalls(completion.ToolCalls))
		if !e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorAssistantCalls, RunID: e.runID, TurnID: turnID, Calls: completion.ToolCalls}) {
			return "", &FatalError{Kind: FatalChannelClosed}
		}

		e.state = StateExecutingTools
		summary, finished, newHistory, err := e.executeTurn(ctx, history, turnID, completion.ToolCalls)
		history = newHistory
		if err != nil {
			return "", err
		}
		if finished {
			e.state = StateFinished
			e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorFinished, RunID: e.runID, TurnID: turnID, FinalText: summary})
			return summary, nil
		}
	}

	e.state = StateFailed
	e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorFailed, RunID: e.runID, FatalKind: string(FatalIterationLimit)})
	return "", &FatalError{Kind: FatalIterationLimit}
}

// executeTurn dispatches each tool call in strict order. A call to
// finish ends the turn (and the run) immediately; later calls in the
// same batch are not executed, matching spec §4.5's "finish is the
// sole clean termination" rule.
func (e *Executor) executeTurn(ctx context.Context, history types.History, turnID string, calls []types.ToolCall) (summary string, finished bool, out types.History, err error) {
	for i := range calls {
		call := calls[i]
		if !e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorToolCallAttempted, RunID: e.runID, TurnID: turnID, Call: &call}) {
			return "", false, history, &FatalError{Kind: FatalChannelClosed}
		}

		payload, dispatchErr := e.cfg.Registry.Dispatch(ctx, e.cfg.Sandbox, call.Name, call.Arguments)

		outcome := types.OutcomeOK
		resultPayload := payload
		if dispatchErr != nil {
			outcome = types.OutcomeToolError
			resultPayload = dispatchErr.Error()
		}
		result := types.ToolResult{ID: call.ID, ToolName: call.Name, Payload: resultPayload, Outcome: outcome}
		history = history.Append(types.ToolResultEntry(result))
		if !e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorToolResult, RunID: e.runID, TurnID: turnID, Result: &result}) {
			return "", false, history, &FatalError{Kind: FatalChannelClosed}
		}

		if dispatchErr == nil {
			if warning := nonFatalWarning(call.Name, payload); warning != "" {
				if !e.emit(ctx, event.ExecutorEvent{Kind: event.ExecutorExecutionError, RunID: e.runID, TurnID: turnID, Warning: warning}) {
					return "", false, history, &FatalError{Kind: FatalChannelClosed}
				}
			}
		}

		if call.Name == "finish" && dispatchErr == nil {
			return payload, true, history, nil
		}
	}
	return "", false, history, nil
}

// nonFatalWarning inspects a successful tool payload for a
// warning-level condition the tool reported without failing the
// call — e.g. execute_shell_command's timed_out flag (spec §4.5:
// "Warning-level issues... are reported via ExecutionError but the
// loop continues"). Returns "" when nothing warrants a warning.
func nonFatalWarning(toolName, payload string) string {
	if toolName != "execute_shell_command" {
		return ""
	}
	var res struct {
		TimedOut bool `json:"timed_out"`
	}
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return ""
	}
	if res.TimedOut {
		return fmt.Sprintf("%s timed out", toolName)
	}
	return ""
}

// completeWithRetry gives the model one retry (per completionMaxRetries)
// on a transient error before the turn fails fatally.
func (e *Executor) completeWithRetry(ctx context.Context, history types.History, specs []llm.ToolSpec) (*llm.Completion, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = retryMaxElapsedTime
	retry := backoff.WithContext(backoff.WithMaxRetries(b, completionMaxRetries), ctx)

	var completion *llm.Completion
	operation := func() error {
		c, err := e.cfg.Model.Complete(ctx, history, specs)
		if err != nil {
			return err
		}
		if c.Text == "" && len(c.ToolCalls) == 0 {
			return fmt.Errorf("model returned neither text nor tool calls")
		}
		completion = c
		return nil
	}

	if err := backoff.Retry(operation, retry); err != nil {
		return nil, err
	}
	return completion, nil
}

func (e *Executor) emit(ctx context.Context, ev event.ExecutorEvent) bool {
	if e.cfg.Stream == nil {
		return true
	}
	return e.cfg.Stream.Send(ctx, ev)
}

func toolSpecs(reg *tool.Registry) []llm.ToolSpec {
	if reg == nil {
		return nil
	}
	all := reg.All()
	specs := make([]llm.ToolSpec, 0, len(all))
	for _, d := range all {
		specs = append(specs, llm.ToolSpec{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema})
	}
	return specs
}
