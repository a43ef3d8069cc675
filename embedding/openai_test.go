package embedding

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
)

func TestNewOpenAIProviderModelFallback(t *testing.T) {
	client := openai.NewClient()

	p := NewOpenAIProvider(&client, "")
	assert.Equal(t, "openai/"+DefaultModel, p.Name())

	p = NewOpenAIProvider(&client, "text-embedding-3-large")
	assert.Equal(t, "openai/text-embedding-3-large", p.Name())
}
