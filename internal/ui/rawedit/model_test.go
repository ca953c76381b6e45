package rawedit

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/rulebook/internal/model"
)

func TestStart_LoadsValidDocument(t *testing.T) {
	m := New(80, 24)

	m.Start(model.Template())

	assert.NoError(t, m.Err())
	assert.Contains(t, m.Value(), `"title": "My Rule Book"`)
	assert.Contains(t, m.View(), "valid document")
}

func TestSave_ValidEmitsDocument(t *testing.T) {
	m := New(80, 24)
	m.Start(model.Template())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, cmd)
	msg, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.Equal(t, model.Template(), msg.Doc)
}

func TestSave_InvalidKeepsEditorOpen(t *testing.T) {
	m := New(80, 24)
	m.Start(model.Template())
	m.input.SetValue(`{"rules": []}`)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "Missing 'meta' object")
}

func TestTypingRevalidates(t *testing.T) {
	m := New(80, 24)
	m.Start(model.Template())
	require.NoError(t, m.Err())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Error(t, m.Err())
}

func TestEscCancels(t *testing.T) {
	m := New(80, 24)
	m.Start(model.Template())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
}
