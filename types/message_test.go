package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "hello world", 3)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello world", msg.Content)
	assert.Equal(t, 3, msg.Tokens)
	assert.False(t, msg.Timestamp.IsZero())

	other := NewMessage(RoleUser, "hello world", 3)
	assert.NotEqual(t, msg.ID, other.ID)
}

func TestIsSystem(t *testing.T) {
	assert.True(t, (&Message{Role: RoleSystem}).IsSystem())
	assert.False(t, (&Message{Role: RoleUser}).IsSystem())
	assert.False(t, (&Message{}).IsSystem())
}

func TestEffectivePriority(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		expected Priority
	}{
		{"critical", PriorityCritical, PriorityCritical},
		{"high", PriorityHigh, PriorityHigh},
		{"normal", PriorityNormal, PriorityNormal},
		{"low", PriorityLow, PriorityLow},
		{"unset defaults to normal", "", PriorityNormal},
		{"unknown defaults to normal", "urgent", PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Priority: tt.priority}
			assert.Equal(t, tt.expected, msg.EffectivePriority())
		})
	}
}

func TestPriorityBonus(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		expected float64
	}{
		{"nil metadata", nil, 0},
		{"missing key", map[string]any{"other": 1}, 0},
		{"float64", map[string]any{MetadataPriorityBonus: 42.5}, 42.5},
		{"float32", map[string]any{MetadataPriorityBonus: float32(10)}, 10},
		{"int", map[string]any{MetadataPriorityBonus: 30}, 30},
		{"int64", map[string]any{MetadataPriorityBonus: int64(7)}, 7},
		{"string ignored", map[string]any{MetadataPriorityBonus: "50"}, 0},
		{"negative clamps to zero", map[string]any{MetadataPriorityBonus: -20.0}, 0},
		{"above hundred clamps", map[string]any{MetadataPriorityBonus: 250.0}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Metadata: tt.metadata}
			assert.Equal(t, tt.expected, msg.PriorityBonus())
		})
	}
}

func TestScoringText(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n", ""},
		{"plain text", "just a sentence", "just a sentence"},
		{"json object", `{"action": "deploy", "target": "billing"}`, "deploy billing"},
		{"nested json", `{"outer": {"inner": "value"}, "list": ["a", "b"]}`, "value a b"},
		{"json array", `["first", "second"]`, "first second"},
		{"invalid json passes through", `{not json at all`, `{not json at all`},
		{"json without strings passes through", `{"count": 3, "ok": true}`, `{"count": 3, "ok": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Content: tt.content}
			assert.Equal(t, tt.expected, msg.ScoringText())
		})
	}
}

func TestSumTokens(t *testing.T) {
	assert.Zero(t, SumTokens(nil))
	msgs := []*Message{{Tokens: 10}, {Tokens: 25}, {Tokens: 0}}
	assert.Equal(t, 35, SumTokens(msgs))
}

func TestChronological(t *testing.T) {
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	msgs := []*Message{
		{ID: "c", Timestamp: base.Add(2 * time.Minute)},
		{ID: "a", Timestamp: base},
		{ID: "b", Timestamp: base.Add(time.Minute)},
	}

	out := Chronological(msgs)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)

	// The input order is untouched.
	assert.Equal(t, "c", msgs[0].ID)
}

func TestChronologicalStable(t *testing.T) {
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	msgs := []*Message{
		{ID: "first", Timestamp: ts},
		{ID: "second", Timestamp: ts},
		{ID: "third", Timestamp: ts},
	}
	out := Chronological(msgs)
	assert.Equal(t, "first", out[0].ID)
	assert.Equal(t, "second", out[1].ID)
	assert.Equal(t, "third", out[2].ID)
}
