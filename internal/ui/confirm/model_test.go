package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deleteRule struct{ id string }

func TestAsk_ResetsAnswerAndKeepsPayload(t *testing.T) {
	m := New(80, 24)
	*m.answer = true

	m.Ask(`Delete rule "Health"?`, "This can be undone.", deleteRule{id: "r1"})

	require.NotNil(t, m.form)
	assert.False(t, *m.answer)
	assert.Contains(t, m.View(), "Delete rule")

	msg := m.result(true)()
	assert.Equal(t, ResultMsg{Confirmed: true, Payload: deleteRule{id: "r1"}}, msg)
}

func TestUpdate_AbortedCancels(t *testing.T) {
	m := New(80, 24)
	m.Ask("Delete?", "", "payload")
	m.form.State = huh.StateAborted

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	require.NotNil(t, cmd)
	assert.Equal(t, ResultMsg{Confirmed: false, Payload: "payload"}, cmd())
}

func TestUpdate_NoFormIsNoop(t *testing.T) {
	m := New(80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, m.View())
}
