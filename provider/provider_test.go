package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(OpenAI, Options{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	p, err := NewProvider(OpenAI, Options{APIKey: "sk"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewProvider(Anthropic, Options{APIKey: "sk"})
	assert.Error(t, err)
	_, err = NewProvider("bogus", Options{APIKey: "sk"})
	assert.Error(t, err)
}
