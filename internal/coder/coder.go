// Package coder implements the Coder Orchestrator: a two-phase
// planner/worker handoff, each phase its own Agent Executor instance,
// adapted from the teacher's subagent-handoff pattern (spawn a child
// executor, run it to completion, carry its result into the next
// phase) generalized from an N-deep subagent tree to the spec's fixed
// two-role pipeline.
package coder

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/executor"
	"github.com/coderforge/coderagent/internal/llm"
	"github.com/coderforge/coderagent/internal/sandbox"
	"github.com/coderforge/coderagent/internal/tool"
	"github.com/coderforge/coderagent/pkg/types"
)

const (
	// DefaultMaxPlannerIterations bounds the planner phase; it only
	// reads, so it rarely needs as many turns as the worker.
	DefaultMaxPlannerIterations = 20
	// DefaultMaxWorkerIterations bounds the worker phase.
	DefaultMaxWorkerIterations = 50
)

// Config wires one Coder Orchestrator run.
type Config struct {
	Model                llm.CompletionModel
	Registry             *tool.Registry // full tool surface; the planner gets a read-only Subset of it
	Sandbox              *sandbox.Sandbox
	Stream               *event.Stream // receives CoderEvents; planner events strictly precede worker events
	MaxPlannerIterations int
	MaxWorkerIterations  int
}

// Orchestrator runs the planner phase to produce a plan, then the
// worker phase to execute it.
type Orchestrator struct {
	cfg       Config
	sessionID string
}

// New builds an Orchestrator from cfg, filling in defaults. Each
// Orchestrator gets its own ULID, distinct from (and outliving) the
// per-phase ULIDs its planner and worker executors generate — a
// consumer can group every event from one coderagent invocation by
// this SessionID regardless of which phase produced it.
func New(cfg Config) *Orchestrator {
	if cfg.MaxPlannerIterations <= 0 {
		cfg.MaxPlannerIterations = DefaultMaxPlannerIterations
	}
	if cfg.MaxWorkerIterations <= 0 {
		cfg.MaxWorkerIterations = DefaultMaxWorkerIterations
	}
	return &Orchestrator{cfg: cfg, sessionID: ulid.Make().String()}
}

// Run executes the planner phase then the worker phase for task,
// returning the worker's final summary.
func (o *Orchestrator) Run(ctx context.Context, task string) (string, error) {
	plannerRegistry := o.cfg.Registry.Subset(tool.ReadOnlyToolNames...)
	plannerHistory := types.History{types.UserPrompt(plannerPrompt(task))}

	plan, err := o.runPhase(ctx, plannerHistory, plannerRegistry, o.cfg.MaxPlannerIterations, event.CoderPlannerEvent)
	if err != nil {
		o.emit(ctx, event.CoderEvent{Kind: event.CoderSessionFailed, SessionID: o.sessionID, Reason: fmt.Sprintf("planner: %v", err)})
		return "", fmt.Errorf("planner phase: %w", err)
	}
	o.emit(ctx, event.CoderEvent{Kind: event.CoderPlanProduced, SessionID: o.sessionID, Plan: plan})

	workerHistory := types.History{types.UserPrompt(workerPrompt(task, plan))}
	summary, err := o.runPhase(ctx, workerHistory, o.cfg.Registry, o.cfg.MaxWorkerIterations, event.CoderWorkerEvent)
	if err != nil {
		o.emit(ctx, event.CoderEvent{Kind: event.CoderSessionFailed, SessionID: o.sessionID, Reason: fmt.Sprintf("worker: %v", err)})
		return "", fmt.Errorf("worker phase: %w", err)
	}
	o.emit(ctx, event.CoderEvent{Kind: event.CoderSessionCompleted, SessionID: o.sessionID, Summary: summary})
	if o.cfg.Sandbox != nil {
		o.cfg.Sandbox.Notify(event.TopicSessionCompleted, map[string]string{"session_id": o.sessionID})
	}
	return summary, nil
}

// runPhase runs one Agent Executor instance to completion, relaying
// every ExecutorEvent it publishes onto the orchestrator's own Stream
// in arrival order: an ExecutionError becomes a CoderWarning, every
// other event is wrapped as a CoderEvent of the given kind.
func (o *Orchestrator) runPhase(ctx context.Context, history types.History, registry *tool.Registry, maxIterations int, kind event.CoderEventKind) (string, error) {
	phaseStream := event.NewStream(event.DefaultStreamCapacity)
	phaseCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case ev := <-phaseStream.Events():
				o.relay(ctx, kind, ev)
			case <-phaseCtx.Done():
				o.drain(ctx, phaseStream, kind)
				return
			}
		}
	}()

	ex := executor.New(executor.Config{
		Model:         o.cfg.Model,
		Registry:      registry,
		Sandbox:       o.cfg.Sandbox,
		Stream:        phaseStream,
		MaxIterations: maxIterations,
	})
	summary, err := ex.Run(ctx, history)

	cancel()
	<-stopped
	return summary, err
}

func (o *Orchestrator) drain(ctx context.Context, phaseStream *event.Stream, kind event.CoderEventKind) {
	for {
		select {
		case ev := <-phaseStream.Events():
			o.relay(ctx, kind, ev)
		default:
			return
		}
	}
}

func (o *Orchestrator) relay(ctx context.Context, kind event.CoderEventKind, raw any) {
	ev, ok := raw.(event.ExecutorEvent)
	if !ok {
		return
	}
	if ev.Kind == event.ExecutorExecutionError {
		o.emit(ctx, event.CoderEvent{Kind: event.CoderWarning, SessionID: o.sessionID, Reason: ev.Warning})
		return
	}
	o.emit(ctx, event.CoderEvent{Kind: kind, SessionID: o.sessionID, Inner: &ev})
}

func (o *Orchestrator) emit(ctx context.Context, ev event.CoderEvent) {
	if o.cfg.Stream == nil {
		return
	}
	o.cfg.Stream.Send(ctx, ev)
}

func plannerPrompt(task string) string {
	return fmt.Sprintf(
		"You are planning how to accomplish the following task. You have "+
			"read-only tools: gather whatever context you need, then call "+
			"finish with your plan as the summary — a concrete, ordered list "+
			"of steps a second agent will carry out. Do not modify anything.\n\nTask: %s",
		task,
	)
}

func workerPrompt(task, plan string) string {
	return fmt.Sprintf(
		"You are executing a plan produced for the following task. Carry out "+
			"the plan using any tool you need, then call finish with a summary "+
			"of what you did.\n\nTask: %s\n\nPlan:\n%s",
		task, plan,
	)
}
