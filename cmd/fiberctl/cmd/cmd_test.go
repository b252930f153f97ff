package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/terminal"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	return Execute(context.Background(), append([]string{"fiberctl", "--dir", t.TempDir()}, args...))
}

func TestRender(t *testing.T) {
	require.NoError(t, execute(t, "render"))
	require.NoError(t, execute(t, "render", "--app", "tree", "--breadth", "2", "--depth", "3", "--fibers"))
	require.NoError(t, execute(t, "render", "--format", "terminal"))
}

func TestRender_Errors(t *testing.T) {
	assert.ErrorContains(t, execute(t, "render", "--app", "nope"), `unknown app "nope"`)
	assert.ErrorContains(t, execute(t, "render", "--format", "pdf"), `unknown format "pdf"`)
	assert.ErrorContains(t, execute(t, "render", "--app", "tree", "--depth", "0"), "must be positive")
	assert.Error(t, execute(t, "--log-level", "loud", "render"))
}

func TestRender_ReadsConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.YAMLFile), []byte("scheduler:\n  budget: nope\n"), 0o644))
	err := Execute(context.Background(), []string{"fiberctl", "--dir", dir, "render"})
	assert.ErrorContains(t, err, "scheduler.budget")
}

func TestBench(t *testing.T) {
	require.NoError(t, execute(t, "bench", "--iterations", "2"))
	assert.Error(t, execute(t, "bench", "--iterations", "0"))
}

func drainTUI(t *testing.T, m *tuiModel) {
	t.Helper()
	for i := 0; i < 100; i++ {
		m.Update(tickMsg(time.Now()))
		if !m.engine.Pending() {
			return
		}
	}
	t.Fatal("build did not finish")
}

func TestTUIModel(t *testing.T) {
	m, err := newTUIModel(config.Default(), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, m.Init())

	drainTUI(t, m)
	assert.Contains(t, terminal.Plain(m.View()), "count: 0")
	assert.Contains(t, m.View(), "initial build")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	drainTUI(t, m)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	drainTUI(t, m)
	if m.dirty {
		drainTUI(t, m)
	}

	view := terminal.Plain(m.View())
	assert.Contains(t, view, "count: 1")
	assert.Contains(t, view, "refresh build")
	assert.NoError(t, m.err)

	_, quit := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
}
