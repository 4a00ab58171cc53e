// Package agent implements a tool-calling agent loop.
//
// The loop repeatedly sends the conversation to a language model, inspects
// the response for tool-call requests, dispatches them through a tool
// registry, folds the results back into the conversation, and continues
// until the model produces a final answer or the iteration cap is reached.
//
// The package is organized around these concepts:
//
//   - Registry: registration and lookup of tool specifications. Immutable
//     after startup; safe for concurrent reads from many conversations.
//   - Conversation: one thread's identity and append-only message history.
//   - Loop: the orchestrator. All collaborators (model gateway, registry,
//     configuration) are injected; there are no package-level singletons.
//   - EventEmitter: typed event stream for host application integration,
//     including incremental text deltas when streaming is enabled.
//
// # Quick Start
//
//	gw, _ := gateway.NewGollmGateway("openai", "gpt-4o-mini")
//	reg := agent.NewRegistry()
//	// register tools...
//	loop := agent.NewLoop(gw, reg, nil)
//
//	conv := agent.NewConversation()
//	result, err := loop.Run(ctx, conv, "Calculate statistics for [1,2,3,4,5]")
package agent
