package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/go-drift/fiber/internal/demo"
	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/fiber"
	"github.com/go-drift/fiber/pkg/inspect"
	"github.com/go-drift/fiber/pkg/scheduler"
	"github.com/go-drift/fiber/pkg/terminal"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func init() {
	RegisterCommand(func() *cli.Command {
		return &cli.Command{
			Name:  "tui",
			Usage: "run the interactive counter in the terminal",
			Description: `Tui mounts the clicker sample on a terminal screen. Each key press
dispatches a click to a native button and schedules a refresh build, which
the idle loop drains on the next frame ticks.`,
			Action: runTUI,
		}
	})
}

type keyMap struct {
	Inc  key.Binding
	Dec  key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Inc, k.Dec, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Inc: key.NewBinding(
		key.WithKeys("+", "up", "k"),
		key.WithHelp("+/↑", "increment"),
	),
	Dec: key.NewBinding(
		key.WithKeys("-", "down", "j"),
		key.WithHelp("-/↓", "decrement"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

type tuiModel struct {
	screen *terminal.Screen
	engine *fiber.Engine
	loop   *scheduler.Loop
	help   help.Model
	logger *zap.Logger

	interval time.Duration
	// dirty records a refresh requested while a build was still draining.
	dirty  bool
	status string
	err    error
}

func newTUIModel(cfg *config.Resolved, logger *zap.Logger) (*tuiModel, error) {
	m := &tuiModel{
		screen:   terminal.NewScreen(),
		loop:     cfg.NewLoop(logger),
		help:     help.New(),
		logger:   logger,
		interval: cfg.Interval,
	}
	opts := append(cfg.EngineOptions(logger),
		fiber.WithCommitHook(func(_ *fiber.Fiber, s fiber.BuildStats) {
			m.status = inspect.Summary(s)
			m.err = nil
		}),
		fiber.WithErrorHook(func(err error) { m.err = err }),
	)
	m.engine = fiber.New(m.screen, m.loop, opts...)

	clicker := demo.NewClicker()
	if err := m.engine.Render(element.C(clicker.Component(), nil), m.screen.Container()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *tuiModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *tuiModel) Init() tea.Cmd {
	return m.tick()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Inc):
			m.click("inc")
		case key.Matches(msg, keys.Dec):
			m.click("dec")
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		m.loop.RunSlice()
		if m.dirty {
			m.refresh()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *tuiModel) click(id string) {
	if !m.screen.Click(id) {
		m.logger.Warn("no listener for button", zap.String("id", id))
		return
	}
	m.refresh()
}

func (m *tuiModel) refresh() {
	err := m.engine.Update()
	switch {
	case err == nil:
		m.dirty = false
	case errors.Is(err, fiber.ErrBuildInProgress), errors.Is(err, fiber.ErrNotInitialized):
		m.dirty = true
	default:
		m.err = err
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.screen.View())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s | %s", m.engine.State(), m.status)))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires a terminal")
	}

	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	// Log output would corrupt the alternate screen.
	logger := zap.NewNop()
	errors.SetLogger(logger)

	m, err := newTUIModel(cfg, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
