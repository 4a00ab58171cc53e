// Command relay runs an interactive tool-calling agent against the math
// and text tool service. Each line on stdin becomes one conversation
// turn; the model may fan out to HTTP tools as many times as it needs
// before producing an answer.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/martinemde/relay/agent"
	"github.com/martinemde/relay/config"
	"github.com/martinemde/relay/gateway"
	"github.com/martinemde/relay/logger"
	"github.com/martinemde/relay/remote"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Refuse to start with an unreachable tool service: a loop that can
	// only fold transport errors back to the model is not useful.
	client := remote.NewClient(cfg.Tools.URL,
		remote.WithTimeout(cfg.Tools.Timeout),
		remote.WithBreaker(remote.NewBreaker(cfg.Tools.BreakerMaxFailures, cfg.Tools.BreakerCooldown)),
	)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("tool service at %s is not reachable (start it with the toolserver command): %w", cfg.Tools.URL, err)
	}
	log.Info("tool service healthy", "url", cfg.Tools.URL)

	registry := agent.NewRegistry()
	for _, spec := range remote.Toolset(client) {
		if err := registry.Register(spec); err != nil {
			return fmt.Errorf("register tool: %w", err)
		}
	}
	log.Info("tools registered", "names", registry.Names())

	gollmOpts := []gateway.GollmOption{
		gateway.WithMaxTokens(cfg.LLM.MaxTokens),
		gateway.WithTemperature(cfg.LLM.Temperature),
	}
	if cfg.LLM.APIKey != "" {
		gollmOpts = append(gollmOpts, gateway.WithAPIKey(cfg.LLM.APIKey))
	}
	gw, err := gateway.NewGollmGateway(cfg.LLM.Provider, cfg.LLM.Model, gollmOpts...)
	if err != nil {
		return fmt.Errorf("model gateway: %w", err)
	}

	policy := gateway.DefaultRetryPolicy()
	policy.MaxRetries = cfg.LLM.MaxRetries
	policy.OnRetry = func(err error, attempt int, delay time.Duration) {
		log.Warn("retrying model call", "attempt", attempt, "delay", delay, "error", err)
	}

	loopCfg := agent.Config{
		Model:              cfg.LLM.Model,
		MaxIterations:      cfg.Agent.MaxIterations,
		ToolResultMaxChars: cfg.Agent.ToolResultMaxChars,
		Streaming:          cfg.LLM.Streaming,
		SystemPrompt:       cfg.Agent.SystemPrompt,
	}
	loop := agent.NewLoop(gateway.WithRetry(gw, policy), registry, &loopCfg)

	conv := agent.NewConversation()
	emitter := agent.NewEventEmitter(conv.ThreadID(), 128)
	loop.SetEmitter(emitter)
	go printEvents(emitter, cfg.LLM.Streaming, log)
	defer emitter.Close()

	fmt.Println("relay ready. Type a question, or ctrl-d to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := scanner.Text()
		if query == "" {
			continue
		}

		result, err := loop.Run(ctx, conv, query)
		switch {
		case errors.Is(err, agent.ErrMaxIterations):
			fmt.Printf("\n[no final answer after %d iterations; transcript kept %d messages]\n", result.Iterations, len(result.Messages))
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			log.Error("turn failed", "error", err)
			fmt.Println("error:", err)
		default:
			if !cfg.LLM.Streaming {
				fmt.Println(result.Answer)
			} else {
				fmt.Println()
			}
			log.Debug("turn complete",
				"iterations", result.Iterations,
				"messages", len(result.Messages),
				"tokens", result.Usage.TotalTokens,
			)
		}
	}
	return scanner.Err()
}

// printEvents renders loop progress to the terminal. Text deltas stream
// inline; tool activity goes to one line each.
func printEvents(emitter *agent.EventEmitter, streaming bool, log *slog.Logger) {
	for ev := range emitter.Events() {
		switch ev.Kind {
		case agent.EventTextDelta:
			if streaming {
				fmt.Print(ev.Data["delta"])
			}
		case agent.EventToolCallStart:
			fmt.Printf("  [calling %v]\n", ev.Data["tool_name"])
		case agent.EventToolCallEnd:
			if msg, ok := ev.Data["error"]; ok {
				fmt.Printf("  [tool call failed: %v]\n", msg)
			}
		case agent.EventWarning:
			log.Warn("loop warning", "data", ev.Data)
		case agent.EventError:
			log.Error("loop error", "data", ev.Data)
		}
	}
}
