package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_GetSet(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Set("llm.model", "llama3.1:latest"))
	val, ok := store.Get("llm.model")
	require.True(t, ok)
	assert.Equal(t, "llama3.1:latest", val)
	assert.Equal(t, "llama3.1:latest", store.GetString("llm.model"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("int", 5))
	require.NoError(t, store.Set("int64", int64(6)))
	require.NoError(t, store.Set("float", 0.5))
	require.NoError(t, store.Set("bool", true))
	require.NoError(t, store.Set("str_int", "7"))
	require.NoError(t, store.Set("str_float", "0.25"))
	require.NoError(t, store.Set("str_bool", "true"))

	assert.Equal(t, 5, store.GetInt("int"))
	assert.Equal(t, 6, store.GetInt("int64"))
	assert.Equal(t, 7, store.GetInt("str_int"))
	assert.InDelta(t, 0.5, store.GetFloat("float"), 1e-9)
	assert.InDelta(t, 5.0, store.GetFloat("int"), 1e-9)
	assert.InDelta(t, 0.25, store.GetFloat("str_float"), 1e-9)
	assert.True(t, store.GetBool("bool"))
	assert.True(t, store.GetBool("str_bool"))

	assert.Zero(t, store.GetInt("missing"))
	assert.Empty(t, store.GetString("int"))
	assert.False(t, store.GetBool("int"))
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
