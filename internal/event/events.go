package event

import "github.com/coderforge/coderagent/pkg/types"

// ExecutorEvent is the typed union an Agent Executor publishes to its
// Stream as it advances through its state machine, per spec §4.5/§9.
type ExecutorEvent struct {
	Kind          ExecutorEventKind
	RunID         string            // ULID identifying this executor's run, constant across every event it publishes
	TurnID        string            // UUID identifying the single loop iteration this event belongs to
	Text          string            // AssistantText
	Calls         []types.ToolCall  // AssistantToolCalls
	Call          *types.ToolCall   // ToolCallAttempted
	Result        *types.ToolResult // ToolResult
	Iteration     int               // Prompting
	FinalText     string            // Finished
	FatalKind     string            // Failed
	FatalError    string            // Failed
	Warning       string            // ExecutionError: a non-fatal, warning-level message (e.g. a tool-reported timeout)
}

// ExecutorEventKind enumerates the executor's published event types,
// one per state-machine transition worth surfacing to a consumer.
type ExecutorEventKind string

const (
	ExecutorPrompting         ExecutorEventKind = "prompting"
	ExecutorAssistantText     ExecutorEventKind = "assistant_text"
	ExecutorAssistantCalls    ExecutorEventKind = "assistant_tool_calls"
	ExecutorToolCallAttempted ExecutorEventKind = "tool_call_attempted"
	ExecutorToolResult        ExecutorEventKind = "tool_result"
	ExecutorExecutionError    ExecutorEventKind = "execution_error"
	ExecutorFinished          ExecutorEventKind = "finished"
	ExecutorFailed            ExecutorEventKind = "failed"
)

// CoderEventKind enumerates the events the Coder Orchestrator
// publishes, translated from the planner's and worker's own
// ExecutorEvents plus the orchestrator's own lifecycle events.
type CoderEventKind string

const (
	CoderPlannerEvent     CoderEventKind = "planner_event"
	CoderPlanProduced     CoderEventKind = "plan_produced"
	CoderWorkerEvent      CoderEventKind = "worker_event"
	CoderSessionCompleted CoderEventKind = "session_completed"
	CoderSessionFailed    CoderEventKind = "session_failed"
	CoderWarning          CoderEventKind = "warning"
)

// CoderEvent is the typed union the Coder Orchestrator publishes.
// Per spec §4.6, every CoderPlannerEvent strictly precedes every
// CoderWorkerEvent within one run.
type CoderEvent struct {
	Kind      CoderEventKind
	SessionID string         // ULID identifying this orchestrator run, constant across every event it publishes
	Inner     *ExecutorEvent // wraps the planner/worker executor event for *PlannerEvent/*WorkerEvent
	Plan      string         // PlanProduced
	Summary   string         // SessionCompleted
	Reason    string         // SessionFailed / Warning
}
