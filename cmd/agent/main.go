// Command agent runs one prompt through a tool-calling agent backed by a
// local Ollama server.
//
// Usage:
//
//	agent [flags] [prompt...]
//
// The prompt defaults to "what is the sum of 40 and 2?". The model can call
// get_weather, to_int and addition, and finishes through final_answer.
//
// Flags:
//
//	-model string      Model name (default: $OLLAMA_MODEL or llama3.2)
//	-host string       Server URL (default: $OLLAMA_HOST or http://localhost:11434)
//	-api-key string    Bearer token (default: $OLLAMA_API_KEY)
//	-system string     System prompt
//	-max-steps int     Provider turn budget (default 20)
//	-final-answer      Offer the final_answer tool (default true)
//	-session string    Write the transcript to this file
//	-plain             Print events as lines instead of running the TUI
//	-v                 Debug logging
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fwojciec/tinker"
	"github.com/fwojciec/tinker/agent"
	bt "github.com/fwojciec/tinker/bubbletea"
	"github.com/fwojciec/tinker/ollama"
	"github.com/fwojciec/tinker/tools"
	"github.com/fwojciec/tinker/transcript"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

const (
	defaultPrompt       = "what is the sum of 40 and 2?"
	defaultSystemPrompt = "You are a helpful assistant. Use the provided tools to answer and report the result with final_answer."
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and runs the prompt. Environment values come from getenv;
// nothing below run reads the environment.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		model        = fs.String("model", "", "Model name (default: $OLLAMA_MODEL or "+ollama.DefaultModel+")")
		host         = fs.String("host", "", "Server URL (default: $OLLAMA_HOST or "+ollama.DefaultBaseURL+")")
		apiKey       = fs.String("api-key", "", "Bearer token (default: $OLLAMA_API_KEY)")
		systemPrompt = fs.String("system", defaultSystemPrompt, "System prompt")
		maxSteps     = fs.Int("max-steps", agent.DefaultMaxSteps, "Provider turn budget")
		finalAnswer  = fs.Bool("final-answer", true, "Offer the final_answer tool")
		sessionPath  = fs.String("session", "", "Write the transcript to this file")
		plain        = fs.Bool("plain", false, "Print events as lines instead of running the TUI")
		verbose      = fs.Bool("v", false, "Debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := resolveConfig(*host, *apiKey, *model, getenv)
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		prompt = defaultPrompt
	}
	session := newSession(*systemPrompt, prompt)

	registry := tools.Default()
	loop := agent.New(provider, registry).WithLogger(logger)
	runOpts := []agent.RunOption{agent.WithMaxSteps(*maxSteps)}
	if *finalAnswer {
		runOpts = append(runOpts, agent.WithFinalAnswer())
	}
	agentFn := func(ctx context.Context, s *tinker.Session, onEvent func(tinker.Event)) error {
		opts := append(runOpts[:len(runOpts):len(runOpts)], agent.WithEventHandler(onEvent))
		return loop.Run(ctx, s, registry.Tools(), opts...)
	}

	logger.Debug("starting agent", "provider", "ollama", "model", cfg.model, "host", cfg.host)

	var runErr error
	if *plain || !isTerminal(stdout) {
		runErr = runPlain(ctx, agentFn, &session, stdout)
	} else {
		runErr = runTUI(ctx, agentFn, &session)
	}

	if *sessionPath != "" {
		if err := transcript.Save(*sessionPath, session); err != nil {
			return errors.Join(runErr, fmt.Errorf("save session: %w", err))
		}
		logger.Info("session saved", "path", *sessionPath, "count", len(session.Messages))
	}
	return runErr
}

func newSession(systemPrompt, prompt string) tinker.Session {
	now := time.Now()
	return tinker.Session{
		ID:           uuid.NewString(),
		SystemPrompt: systemPrompt,
		Messages:     []tinker.Message{tinker.NewUserMessage(prompt)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func runTUI(ctx context.Context, fn bt.AgentFunc, session *tinker.Session) error {
	m := bt.New(fn, session, tinker.DefaultTheme(), bt.WithAnswer(agent.FinalAnswer))
	final, err := bt.Run(ctx, m)
	if err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	if final.Interrupted() {
		return context.Canceled
	}
	return final.Err()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
