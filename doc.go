// Package tinker defines the domain types for a small tool-calling agent:
// conversation messages, tool schemas, providers and their event streams.
//
// Implementations live in subpackages: agent runs the conversation loop,
// ollama talks to a local model server, tools provides the callable tools,
// transcript persists sessions and bubbletea renders a run in the terminal.
// The slide and markdown packages are independent of these types.
package tinker
