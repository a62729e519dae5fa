package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"grafanapdf/pkg/sdk"
)

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestLoginFormSubmit(t *testing.T) {
	var m tea.Model = newLoginModel(sdk.Credentials{}, false, "")
	m = typeText(m, "alice")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "s3cret")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	lm := m.(loginModel)
	assert.True(t, lm.submitted)
	assert.NotNil(t, cmd)
	assert.Equal(t, sdk.Credentials{Username: "alice", Password: "s3cret"}, lm.credentials())
	assert.NotContains(t, lm.View(), "s3cret")
}

func TestLoginFormRequiresBothFields(t *testing.T) {
	var m tea.Model = newLoginModel(sdk.Credentials{Username: "alice"}, true, "")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	lm := m.(loginModel)
	assert.False(t, lm.submitted)
	assert.Equal(t, "Username and password are required", lm.message)
	assert.Contains(t, lm.View(), "SETUP")
}
