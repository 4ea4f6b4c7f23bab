package transcript

import (
	"fmt"
	"time"

	"github.com/fwojciec/tinker"
	jsoniter "github.com/json-iterator/go"
)

const (
	typeUser       = "user"
	typeAssistant  = "assistant"
	typeToolResult = "tool_result"

	blockText     = "text"
	blockThinking = "thinking"
	blockToolCall = "tool_call"
)

type messageDTO struct {
	Type          string     `json:"type"`
	Content       []blockDTO `json:"content"`
	Timestamp     time.Time  `json:"timestamp"`
	StopReason    string     `json:"stop_reason,omitempty"`
	RawStopReason string     `json:"raw_stop_reason,omitempty"`
	Usage         *usageDTO  `json:"usage,omitempty"`
	ToolCallID    string     `json:"tool_call_id,omitempty"`
	ToolName      string     `json:"tool_name,omitempty"`
	IsError       bool       `json:"is_error,omitempty"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type blockDTO struct {
	Type      string              `json:"type"`
	Text      string              `json:"text,omitempty"`
	Thinking  string              `json:"thinking,omitempty"`
	ID        string              `json:"id,omitempty"`
	Name      string              `json:"name,omitempty"`
	Arguments jsoniter.RawMessage `json:"arguments,omitempty"`
}

func encodeMessage(msg tinker.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case tinker.UserMessage:
		blocks, err := encodeBlocks(m.Content)
		if err != nil {
			return messageDTO{}, err
		}
		return messageDTO{Type: typeUser, Content: blocks, Timestamp: m.Timestamp}, nil
	case tinker.AssistantMessage:
		blocks, err := encodeBlocks(m.Content)
		if err != nil {
			return messageDTO{}, err
		}
		return messageDTO{
			Type:          typeAssistant,
			Content:       blocks,
			Timestamp:     m.Timestamp,
			StopReason:    string(m.StopReason),
			RawStopReason: m.RawStopReason,
			Usage:         &usageDTO{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens},
		}, nil
	case tinker.ToolResultMessage:
		blocks, err := encodeBlocks(m.Content)
		if err != nil {
			return messageDTO{}, err
		}
		return messageDTO{
			Type:       typeToolResult,
			Content:    blocks,
			Timestamp:  m.Timestamp,
			ToolCallID: m.ToolCallID,
			ToolName:   m.ToolName,
			IsError:    m.IsError,
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func decodeMessage(dto messageDTO) (tinker.Message, error) {
	blocks, err := decodeBlocks(dto.Content)
	if err != nil {
		return nil, err
	}
	switch dto.Type {
	case typeUser:
		return tinker.UserMessage{Content: blocks, Timestamp: dto.Timestamp}, nil
	case typeAssistant:
		var usage tinker.Usage
		if dto.Usage != nil {
			usage = tinker.Usage{InputTokens: dto.Usage.InputTokens, OutputTokens: dto.Usage.OutputTokens}
		}
		return tinker.AssistantMessage{
			Content:       blocks,
			StopReason:    tinker.StopReason(dto.StopReason),
			RawStopReason: dto.RawStopReason,
			Usage:         usage,
			Timestamp:     dto.Timestamp,
		}, nil
	case typeToolResult:
		return tinker.ToolResultMessage{
			ToolCallID: dto.ToolCallID,
			ToolName:   dto.ToolName,
			Content:    blocks,
			IsError:    dto.IsError,
			Timestamp:  dto.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", dto.Type)
	}
}

func encodeBlocks(blocks []tinker.ContentBlock) ([]blockDTO, error) {
	out := make([]blockDTO, 0, len(blocks))
	for i, b := range blocks {
		var dto blockDTO
		switch v := b.(type) {
		case tinker.TextBlock:
			dto = blockDTO{Type: blockText, Text: v.Text}
		case tinker.ThinkingBlock:
			dto = blockDTO{Type: blockThinking, Thinking: v.Thinking}
		case tinker.ToolCallBlock:
			dto = blockDTO{Type: blockToolCall, ID: v.ID, Name: v.Name, Arguments: []byte(v.Arguments)}
		default:
			return nil, fmt.Errorf("content block %d: unknown type: %T", i, b)
		}
		out = append(out, dto)
	}
	return out, nil
}

func decodeBlocks(dtos []blockDTO) ([]tinker.ContentBlock, error) {
	out := make([]tinker.ContentBlock, 0, len(dtos))
	for i, dto := range dtos {
		switch dto.Type {
		case blockText:
			out = append(out, tinker.TextBlock{Text: dto.Text})
		case blockThinking:
			out = append(out, tinker.ThinkingBlock{Thinking: dto.Thinking})
		case blockToolCall:
			out = append(out, tinker.ToolCallBlock{ID: dto.ID, Name: dto.Name, Arguments: []byte(dto.Arguments)})
		default:
			return nil, fmt.Errorf("content block %d: unknown type: %q", i, dto.Type)
		}
	}
	return out, nil
}
