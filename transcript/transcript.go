// Package transcript persists agent sessions as versioned JSON documents.
//
// A transcript is a v1 envelope holding the session metadata and its
// messages. Messages and content blocks carry a "type" discriminator so the
// sealed tinker interfaces can be rebuilt on load.
package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/tinker"
	jsoniter "github.com/json-iterator/go"
)

// Version is the envelope version written by Marshal.
const Version = 1

// ErrUnsupportedVersion is returned when a transcript has an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported transcript version")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Version      int          `json:"version"`
	ID           string       `json:"id"`
	SystemPrompt string       `json:"system_prompt,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Messages     []messageDTO `json:"messages"`
}

// Marshal encodes a session as an indented v1 envelope.
func Marshal(s tinker.Session) ([]byte, error) {
	env := envelope{
		Version:      Version,
		ID:           s.ID,
		SystemPrompt: s.SystemPrompt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Messages:     make([]messageDTO, 0, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		dto, err := encodeMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("transcript: message %d: %w", i, err)
		}
		env.Messages = append(env.Messages, dto)
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal decodes a v1 envelope. Every decoded message is checked with
// tinker.ValidateMessage.
func Unmarshal(data []byte) (tinker.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return tinker.Session{}, fmt.Errorf("transcript: decode envelope: %w", err)
	}
	if env.Version != Version {
		return tinker.Session{}, fmt.Errorf("transcript: %w: %d", ErrUnsupportedVersion, env.Version)
	}
	s := tinker.Session{
		ID:           env.ID,
		SystemPrompt: env.SystemPrompt,
		CreatedAt:    env.CreatedAt,
		UpdatedAt:    env.UpdatedAt,
		Messages:     make([]tinker.Message, 0, len(env.Messages)),
	}
	for i, dto := range env.Messages {
		msg, err := decodeMessage(dto)
		if err != nil {
			return tinker.Session{}, fmt.Errorf("transcript: message %d: %w", i, err)
		}
		if err := tinker.ValidateMessage(msg); err != nil {
			return tinker.Session{}, fmt.Errorf("transcript: message %d: %w", i, err)
		}
		s.Messages = append(s.Messages, msg)
	}
	return s, nil
}

// Save writes s to path, creating parent directories. The file is written
// to a temporary sibling first and renamed into place.
func Save(path string, s tinker.Session) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("transcript: create directories: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("transcript: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("transcript: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("transcript: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("transcript: rename temp file: %w", err)
	}
	return nil
}

// Load reads a transcript written by Save.
func Load(path string) (tinker.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tinker.Session{}, fmt.Errorf("transcript: %w", err)
	}
	return Unmarshal(data)
}
