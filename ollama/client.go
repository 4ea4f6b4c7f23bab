package ollama

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/tinker"
	"github.com/ollama/ollama/api"
)

// Interface compliance check.
var _ tinker.Provider = (*Client)(nil)

// Client implements [tinker.Provider] for the Ollama chat API.
type Client struct {
	client  *api.Client
	model   string
	options map[string]any
	logger  *slog.Logger
}

type config struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	model      string
	options    map[string]any
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*config)

// WithBaseURL sets the server address. Default is DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// WithModel sets the model name. Default is DefaultModel.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithAPIKey sends key as a bearer token on every request. Local servers
// ignore it; proxies in front of them may require it.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithOptions sets model options (num_ctx, seed, top_p, ...) sent with every
// request. Request-level temperature and max tokens take precedence.
func WithOptions(opts map[string]any) Option {
	return func(c *config) { c.options = opts }
}

// WithLogger sets the logger. Default is slog.Default(); nil keeps it.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a new Ollama [Client].
func New(opts ...Option) (*Client, error) {
	cfg := config{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	u, err := parseBaseURL(cfg.baseURL)
	if err != nil {
		return nil, err
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	if cfg.apiKey != "" {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		wrapped := *hc
		wrapped.Transport = &bearerTransport{key: cfg.apiKey, base: base}
		hc = &wrapped
	}

	cfg.logger.Debug("ollama client initialized", "provider", "ollama", "model", cfg.model, "base_url", u.String())

	return &Client{
		client:  api.NewClient(u, hc),
		model:   cfg.model,
		options: cfg.options,
		logger:  cfg.logger,
	}, nil
}

// parseBaseURL accepts full URLs, host:port pairs and the chat endpoint URL
// itself (http://localhost:11434/api/chat), which is trimmed to the server root.
func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("ollama: invalid base URL %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/api/chat")
	return u, nil
}

// Stream sends a streaming chat request and returns a [tinker.Stream] that
// emits semantic events.
func (c *Client) Stream(ctx context.Context, req tinker.Request) (tinker.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	tools, err := ConvertTools(req.Tools)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	messages, err := ConvertMessages(req.SystemPrompt, req.Messages)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	streaming := true
	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Tools:    tools,
		Options:  c.buildOptions(req),
		Stream:   &streaming,
	}

	c.logger.Debug("chat request", "provider", "ollama", "model", model, "messages", len(messages), "tools", len(tools))

	return newStream(ctx, c.client.Chat, chatReq, c.logger), nil
}

func (c *Client) buildOptions(req tinker.Request) map[string]any {
	if len(c.options) == 0 && req.Temperature == nil && req.MaxTokens == 0 {
		return nil
	}
	opts := make(map[string]any, len(c.options)+2)
	maps.Copy(opts, c.options)
	if req.Temperature != nil {
		opts["temperature"] = *req.Temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}
	return opts
}

// ConvertMessages converts a system prompt and tinker Messages to chat API
// messages. Exported for testing.
func ConvertMessages(systemPrompt string, msgs []tinker.Message) ([]api.Message, error) {
	var result []api.Message
	if systemPrompt != "" {
		result = append(result, api.Message{Role: "system", Content: systemPrompt})
	}
	for i, msg := range msgs {
		switch m := msg.(type) {
		case tinker.UserMessage:
			result = append(result, api.Message{Role: "user", Content: joinText(m.Content)})
		case tinker.AssistantMessage:
			am, err := convertAssistant(m)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			result = append(result, am)
		case tinker.ToolResultMessage:
			content := joinText(m.Content)
			if m.IsError {
				content = "Error: " + content
			}
			result = append(result, api.Message{
				Role:       "tool",
				Content:    content,
				ToolName:   m.ToolName,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return result, nil
}

func convertAssistant(m tinker.AssistantMessage) (api.Message, error) {
	out := api.Message{Role: "assistant"}
	var text, thinking strings.Builder
	for _, b := range m.Content {
		switch bl := b.(type) {
		case tinker.TextBlock:
			text.WriteString(bl.Text)
		case tinker.ThinkingBlock:
			thinking.WriteString(bl.Thinking)
		case tinker.ToolCallBlock:
			args := bl.Arguments
			if len(args) == 0 {
				args = []byte("{}")
			}
			var apiArgs api.ToolCallFunctionArguments
			if err := json.Unmarshal(args, &apiArgs); err != nil {
				return api.Message{}, fmt.Errorf("tool call %s arguments: %w", bl.ID, err)
			}
			out.ToolCalls = append(out.ToolCalls, api.ToolCall{
				ID: bl.ID,
				Function: api.ToolCallFunction{
					Name:      bl.Name,
					Arguments: apiArgs,
				},
			})
		}
	}
	out.Content = text.String()
	out.Thinking = thinking.String()
	return out, nil
}

func joinText(blocks []tinker.ContentBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		if tb, ok := block.(tinker.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String()
}

type functionTool struct {
	Type     string         `json:"type"`
	Function functionSchema `json:"function"`
}

type functionSchema struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  stdjson.RawMessage `json:"parameters"`
}

// ConvertTools converts tinker Tools to chat API tools. The SDK's schema
// types are populated by decoding the function-tool JSON shape, so any
// schema keyword the SDK does not model is dropped. Exported for testing.
func ConvertTools(tools []tinker.Tool) (api.Tools, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	wire := make([]functionTool, len(tools))
	for i, t := range tools {
		params := t.Parameters
		if len(params) == 0 {
			params = stdjson.RawMessage(`{"type":"object","properties":{}}`)
		}
		wire[i] = functionTool{
			Type: "function",
			Function: functionSchema{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		}
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshal tools: %w", err)
	}
	var out api.Tools
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("convert tools: %w", err)
	}
	return out, nil
}

// bearerTransport adds an Authorization header to every request.
type bearerTransport struct {
	key  string
	base http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.key)
	return t.base.RoundTrip(r)
}
