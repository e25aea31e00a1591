package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := Decode([]byte(`{"method":"POST","resource":"/movies","body":{"release_year":1982,"genre":["Drama"]}}`))
	require.NoError(t, err)

	assert.Equal(t, "POST", env.Method)
	assert.Equal(t, "/movies", env.Resource)

	body, ok := env.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("1982"), body["release_year"])
	assert.Equal(t, []any{"Drama"}, body["genre"])
}

func TestDecodeMissingKeysAreNil(t *testing.T) {
	env, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, env.Method)
	assert.Nil(t, env.Resource)
	assert.Nil(t, env.Body)
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"empty":          ``,
		"truncated":      `{"method":"GET"`,
		"array root":     `["GET"]`,
		"string root":    `"GET"`,
		"trailing value": `{"method":"GET"}{"method":"PUT"}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(input))
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestDecodeIgnoresPaddingAfterObject(t *testing.T) {
	_, err := Decode([]byte("{\"method\":\"GET\"}\n\x00\x00"))
	assert.NoError(t, err)
}

func TestEncodeHasNoTrailingNewline(t *testing.T) {
	data, err := Encode(map[string]any{"status": 200})
	require.NoError(t, err)
	assert.Equal(t, `{"status":200}`, string(data))
}

func TestEncodeUnsupportedValue(t *testing.T) {
	_, err := Encode(make(chan int))
	assert.ErrorContains(t, err, "failed to encode response")
}
