package main

import (
	"log/slog"

	"github.com/fwojciec/tinker/ollama"
)

type config struct {
	host   string
	apiKey string
	model  string
}

// resolveConfig merges flags over environment values. Flags win; empty
// fields leave the client defaults in place.
func resolveConfig(hostFlag, apiKeyFlag, modelFlag string, getenv func(string) string) config {
	pick := func(flagValue, envName string) string {
		if flagValue != "" {
			return flagValue
		}
		return getenv(envName)
	}
	cfg := config{
		host:   pick(hostFlag, "OLLAMA_HOST"),
		apiKey: pick(apiKeyFlag, "OLLAMA_API_KEY"),
		model:  pick(modelFlag, "OLLAMA_MODEL"),
	}
	if cfg.host == "" {
		cfg.host = ollama.DefaultBaseURL
	}
	if cfg.model == "" {
		cfg.model = ollama.DefaultModel
	}
	return cfg
}

func newProvider(cfg config, logger *slog.Logger) (*ollama.Client, error) {
	opts := []ollama.Option{
		ollama.WithBaseURL(cfg.host),
		ollama.WithModel(cfg.model),
		ollama.WithLogger(logger),
	}
	if cfg.apiKey != "" {
		opts = append(opts, ollama.WithAPIKey(cfg.apiKey))
	}
	return ollama.New(opts...)
}
