package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"quit", km.Quit.Keys(), "ctrl+c"},
		{"help", km.Help.Keys(), "?"},
		{"back", km.Back.Keys(), "esc"},
		{"send", km.Send.Keys(), "enter"},
		{"up", km.Up.Keys(), "pgup"},
		{"down", km.Down.Keys(), "pgdown"},
		{"clear", km.Clear.Keys(), "ctrl+l"},
		{"delete", km.Delete.Keys(), "d"},
		{"reload", km.Reload.Keys(), "r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.keys, tt.want)
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 3)
	assert.Equal(t, "ask", help[0].Help().Desc)
}

func TestKeyMap_ChatHelp(t *testing.T) {
	km := DefaultKeyMap()

	descs := make([]string, 0, 4)
	for _, b := range km.ChatHelp() {
		descs = append(descs, b.Help().Desc)
	}

	assert.Contains(t, descs, "clear chat")
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	full := km.FullHelp()

	assert.Len(t, full, 3)
	for _, group := range full {
		assert.NotEmpty(t, group)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+l", km.Clear))
	assert.True(t, Matches("pgup", km.Up))
	assert.False(t, Matches("x", km.Clear))
}
