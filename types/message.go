// Package types defines the message model shared by the pruning and
// selection components.
package types

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Role represents the message role.
type Role string

const (
	// RoleSystem represents a system message.
	RoleSystem Role = "system"

	// RoleUser represents a user message.
	RoleUser Role = "user"

	// RoleAssistant represents an assistant message.
	RoleAssistant Role = "assistant"

	// RoleTool represents a tool invocation or result message.
	RoleTool Role = "tool"

	// RoleFunction represents a function-call message.
	RoleFunction Role = "function"
)

// Priority represents the retention priority of a message.
type Priority string

const (
	// PriorityCritical marks messages that should survive almost any pruning.
	PriorityCritical Priority = "critical"

	// PriorityHigh marks messages of above-normal importance.
	PriorityHigh Priority = "high"

	// PriorityNormal is the default priority.
	PriorityNormal Priority = "normal"

	// PriorityLow marks messages that are first in line for eviction.
	PriorityLow Priority = "low"
)

// MetadataPriorityBonus is the metadata key carrying an additive score bonus
// in the range [0, 100].
const MetadataPriorityBonus = "priorityBonus"

// Message represents one turn in a conversation.
//
// Messages are never mutated by this module. Pruning and selection produce
// new ordered slices and never rewrite or reorder their inputs in place.
type Message struct {
	ID        string         `json:"id" yaml:"id"`
	Role      Role           `json:"role" yaml:"role"`
	Content   string         `json:"content" yaml:"content"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Tokens    int            `json:"tokens" yaml:"tokens"`
	Priority  Priority       `json:"priority,omitempty" yaml:"priority,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewMessage creates a message with a generated ID and the current time.
// The token count must come from the caller's tokenizer.
func NewMessage(role Role, content string, tokens int) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Tokens:    tokens,
	}
}

// IsSystem reports whether the message carries the system role.
func (m *Message) IsSystem() bool {
	return m.Role == RoleSystem
}

// EffectivePriority returns the message priority, defaulting to
// PriorityNormal when unset or unknown.
func (m *Message) EffectivePriority() Priority {
	switch m.Priority {
	case PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow:
		return m.Priority
	default:
		return PriorityNormal
	}
}

// PriorityBonus returns the metadata priorityBonus clamped to [0, 100].
// Missing or non-numeric values yield 0.
func (m *Message) PriorityBonus() float64 {
	if m.Metadata == nil {
		return 0
	}
	raw, ok := m.Metadata[MetadataPriorityBonus]
	if !ok {
		return 0
	}

	var bonus float64
	switch v := raw.(type) {
	case float64:
		bonus = v
	case float32:
		bonus = float64(v)
	case int:
		bonus = float64(v)
	case int64:
		bonus = float64(v)
	default:
		return 0
	}

	if bonus < 0 {
		return 0
	}
	if bonus > 100 {
		return 100
	}
	return bonus
}

// ScoringText returns the message content in a form suitable for keyword and
// semantic scoring. Structured JSON payloads are flattened to their string
// values; plain text passes through unchanged.
func (m *Message) ScoringText() string {
	trimmed := strings.TrimSpace(m.Content)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return m.Content
	}
	if !gjson.Valid(trimmed) {
		return m.Content
	}

	var parts []string
	collectStrings(gjson.Parse(trimmed), &parts)
	if len(parts) == 0 {
		return m.Content
	}
	return strings.Join(parts, " ")
}

// collectStrings walks a parsed JSON value and gathers every string leaf.
func collectStrings(value gjson.Result, out *[]string) {
	switch value.Type {
	case gjson.String:
		*out = append(*out, value.String())
	case gjson.JSON:
		value.ForEach(func(_, v gjson.Result) bool {
			collectStrings(v, out)
			return true
		})
	}
}

// SumTokens calculates the total token count across messages.
func SumTokens(messages []*Message) int {
	total := 0
	for _, msg := range messages {
		total += msg.Tokens
	}
	return total
}

// Chronological returns a new slice of the given messages sorted by
// timestamp ascending. The sort is stable, so messages sharing a timestamp
// keep their relative order. The input slice is not modified.
func Chronological(messages []*Message) []*Message {
	out := make([]*Message, len(messages))
	copy(out, messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
