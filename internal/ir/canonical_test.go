package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(Object{
		"type":   String("must"),
		"target": Int(2),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"target":2,"type":"must"}`, string(data))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(String("<Tom & Jerry>"))
	require.NoError(t, err)
	assert.Equal(t, `"<Tom & Jerry>"`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	composed, err := MarshalCanonical(String("Zo\u00eb"))
	require.NoError(t, err)
	decomposed, err := MarshalCanonical(String("Zoe\u0308"))
	require.NoError(t, err)

	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	data, err := MarshalCanonical(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(data))

	// A literal backslash followed by the text u2028 stays escaped.
	data, err = MarshalCanonical(String(`a\u2028b`))
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(data))
}

func TestMarshalCanonicalPlainGoValues(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"names": []any{"b", "a"},
		"count": 2,
		"ok":    true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"count":2,"names":["b","a"],"ok":true}`, string(data))
}

func TestMarshalCanonicalRejectsFloatAndNull(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(Array{Int(1), nil})
	assert.Error(t, err)
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FF21.
	obj := Object{"\uff21": Int(1), "\U0001F600": Int(2)}
	assert.Equal(t, []string{"\U0001F600", "\uff21"}, obj.SortedKeys())
}
