package summarize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/contextcore/types"
)

func spanMessages() []*types.Message {
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return []*types.Message{
		{ID: "m1", Role: types.RoleUser, Content: "set up the deploy pipeline", Timestamp: base, Tokens: 7},
		{ID: "m2", Role: types.RoleAssistant, Content: "pipeline configured with three stages", Timestamp: base.Add(time.Minute), Tokens: 9},
		{ID: "m3", Role: types.RoleTool, Content: `{"status": "ok"}`, Timestamp: base.Add(2 * time.Minute), Tokens: 5},
	}
}

func TestNewSummaryMessage(t *testing.T) {
	span := spanMessages()
	msg := NewSummaryMessage("the deploy pipeline was configured", span)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, types.RoleAssistant, msg.Role)
	assert.Equal(t, "the deploy pipeline was configured", msg.Content)
	// The summary sorts into the position of the span it replaces.
	assert.Equal(t, span[2].Timestamp, msg.Timestamp)
	assert.Greater(t, msg.Tokens, 0)
	assert.Equal(t, true, msg.Metadata[MetadataSummary])
	assert.Equal(t, 3, msg.Metadata[MetadataSummarizedCount])
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript(spanMessages())

	require.Contains(t, got, "User:\nset up the deploy pipeline")
	require.Contains(t, got, "Assistant:\npipeline configured with three stages")
	// Structured content is flattened to its string values.
	require.Contains(t, got, "Tool:\nok")
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "System", roleLabel(types.RoleSystem))
	assert.Equal(t, "User", roleLabel(types.RoleUser))
	assert.Equal(t, "Assistant", roleLabel(types.RoleAssistant))
	assert.Equal(t, "Tool", roleLabel(types.RoleTool))
	assert.Equal(t, "Tool", roleLabel(types.RoleFunction))
	assert.Equal(t, "User", roleLabel(types.Role("other")))
}
