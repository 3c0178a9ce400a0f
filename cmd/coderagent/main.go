// Command coderagent is a minimal wiring demo for the Coder Agent
// Core: it loads configuration, builds a sandbox and tool registry,
// selects an LLM adapter, and runs the Coder Orchestrator's
// planner/worker pipeline against a single task given on the command
// line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/coderforge/coderagent/internal/coder"
	"github.com/coderforge/coderagent/internal/config"
	"github.com/coderforge/coderagent/internal/event"
	"github.com/coderforge/coderagent/internal/llm"
	"github.com/coderforge/coderagent/internal/logging"
	"github.com/coderforge/coderagent/internal/sandbox"
	"github.com/coderforge/coderagent/internal/tool"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("coderagent", flag.ContinueOnError)
	dir := fs.String("dir", ".", "project directory to operate in")
	task := fs.String("task", "", "task for the agent to accomplish")
	logLevel := fs.String("log-level", "info", "log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *task == "" {
		return fmt.Errorf("coderagent: -task is required")
	}

	logger := logging.New(logging.Config{Level: logging.ParseLevel(*logLevel), Output: os.Stderr})

	cfg, err := config.Load(*dir)
	if err != nil {
		return fmt.Errorf("coderagent: %w", err)
	}

	model, err := buildModel(cfg)
	if err != nil {
		return fmt.Errorf("coderagent: %w", err)
	}

	bus := event.NewBus()
	defer bus.Close()
	unsubscribe := bus.SubscribeAll(func(n event.Notification) {
		logger.Info().Str("topic", string(n.Topic)).Interface("data", n.Data).Msg("bus notification")
	})
	defer unsubscribe()

	box := sandbox.New()
	box.Bus = bus
	box.Perms.AllowWrite(*dir)
	for _, cmd := range cfg.AllowedCommands {
		box.Perms.AllowCommand(cmd)
	}

	stream := event.NewStream(event.DefaultStreamCapacity)
	orch := coder.New(coder.Config{
		Model:                model,
		Registry:             tool.DefaultRegistry(),
		Sandbox:              box,
		Stream:               stream,
		MaxPlannerIterations: cfg.MaxPlannerIterations,
		MaxWorkerIterations:  cfg.MaxWorkerIterations,
	})

	ctx := context.Background()
	done := make(chan struct{})
	// stream's underlying channel is never closed (see event.Stream.Close),
	// so this loop watches for the run's own terminal events instead of
	// ranging to channel closure.
	go func() {
		defer close(done)
		for raw := range stream.Events() {
			ev, ok := raw.(event.CoderEvent)
			if !ok {
				continue
			}
			logEvent(logger, ev)
			if ev.Kind == event.CoderSessionCompleted || ev.Kind == event.CoderSessionFailed {
				return
			}
		}
	}()

	summary, err := orch.Run(ctx, *task)
	<-done
	if err != nil {
		return fmt.Errorf("coderagent: %w", err)
	}

	fmt.Println(summary)
	return nil
}

func buildModel(cfg *config.Config) (llm.CompletionModel, error) {
	pc := cfg.ActiveProvider()
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIModel(pc.APIKey, pc.Model)
	case config.ProviderAnthropic:
		return llm.NewAnthropicModel(llm.AnthropicConfig{APIKey: pc.APIKey, Model: pc.Model})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func logEvent(logger zerolog.Logger, ev event.CoderEvent) {
	logger.Info().Str("kind", string(ev.Kind)).Msg("coder event")
}
