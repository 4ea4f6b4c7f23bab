// Package ollama implements [tinker.Provider] for a local Ollama server.
//
// It wraps the github.com/ollama/ollama/api client, translating between
// tinker's domain types and the chat API types. The SDK delivers streamed
// chunks through a callback; a goroutine forwards them over a channel so the
// pull-based [tinker.Stream] interface can consume them one at a time.
package ollama

import jsoniter "github.com/json-iterator/go"

const (
	// DefaultBaseURL is where a locally running server listens.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is used when neither the client nor the request name one.
	DefaultModel = "llama3.2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary
