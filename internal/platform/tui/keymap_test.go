package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-tanks/internal/engine"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action engine.Action
		ok     bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, engine.ActionMoveUp, true},
		{"w", runes("w"), engine.ActionMoveUp, true},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, engine.ActionMoveDown, true},
		{"a", runes("a"), engine.ActionMoveLeft, true},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, engine.ActionMoveRight, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, engine.ActionShoot, true},
		{"f", runes("f"), engine.ActionShoot, true},
		{"stop", runes("x"), engine.ActionNothing, true},
		{"pause is not a tank control", runes("p"), engine.ActionNothing, false},
		{"unbound", runes("z"), engine.ActionNothing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := km.MapKey(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	assert.Equal(t, MenuActionUp, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyUp}))
	assert.Equal(t, MenuActionDown, km.MapKeyToMenuAction(runes("j")))
	assert.Equal(t, MenuActionSelect, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, MenuActionBack, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, MenuActionReplays, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, MenuActionQuit, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.Equal(t, MenuActionNone, km.MapKeyToMenuAction(runes("z")))
}

func TestKeyMapHelp(t *testing.T) {
	keys := DefaultKeyMap()
	assert.NotEmpty(t, keys.ShortHelp())
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
		}
	}
}
