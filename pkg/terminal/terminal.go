// Package terminal is a platform binding that keeps native nodes in memory
// and draws them as styled terminal text.
package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/go-drift/fiber/pkg/platform"
)

// Theme maps tags to styles.
type Theme struct {
	// Tags holds per-tag styles. Tags without an entry use Block or Inline.
	Tags   map[string]lipgloss.Style
	Block  lipgloss.Style
	Inline lipgloss.Style
	Text   lipgloss.Style
}

// inlineTags are laid out left to right. Every other tag stacks its
// children vertically.
var inlineTags = map[string]bool{
	"a": true, "b": true, "button": true, "code": true, "em": true,
	"i": true, "span": true, "strong": true,
}

// DefaultTheme returns the built-in styles.
func DefaultTheme() Theme {
	return Theme{
		Tags: map[string]lipgloss.Style{
			"h1": lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1),
			"b":      lipgloss.NewStyle().Bold(true),
			"strong": lipgloss.NewStyle().Bold(true),
			"i":      lipgloss.NewStyle().Italic(true),
			"em":     lipgloss.NewStyle().Italic(true),
			"code":   lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
			"button": lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#7D56F4")).
				Padding(0, 1),
		},
		Block:  lipgloss.NewStyle(),
		Inline: lipgloss.NewStyle(),
		Text:   lipgloss.NewStyle(),
	}
}

// Screen is a platform binding whose container can be drawn with View.
type Screen struct {
	*platform.Memory

	Theme Theme
	root  *platform.Element
}

var _ platform.Binding = (*Screen)(nil)

// NewScreen returns a screen with an empty container.
func NewScreen() *Screen {
	return &Screen{
		Memory: platform.NewMemory(),
		Theme:  DefaultTheme(),
		root:   platform.NewContainer("screen"),
	}
}

// Container returns the node to render into.
func (s *Screen) Container() *platform.Element { return s.root }

// View draws the container's children.
func (s *Screen) View() string {
	return s.draw(s.root)
}

// Click dispatches a click event to the first element whose id attribute
// equals id. It reports whether a listener ran.
func (s *Screen) Click(id any) bool {
	target := s.root.Find("id", id)
	if target == nil {
		return false
	}
	return target.Dispatch("click", nil)
}

func (s *Screen) draw(n *platform.Element) string {
	if n.IsText() {
		return s.Theme.Text.Render(n.Text())
	}

	children := n.Children()
	parts := make([]string, 0, len(children))
	for _, c := range children {
		if out := s.draw(c); out != "" {
			parts = append(parts, out)
		}
	}

	var body string
	inline := inlineTags[n.Tag()]
	switch {
	case len(parts) == 0:
	case inline || allText(children):
		body = lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if n == s.root {
		return body
	}
	if style, ok := s.Theme.Tags[n.Tag()]; ok {
		return style.Render(body)
	}
	if inline {
		return s.Theme.Inline.Render(body)
	}
	return s.Theme.Block.Render(body)
}

func allText(children []*platform.Element) bool {
	for _, c := range children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

// Plain strips styling and trailing padding from a drawn view, keeping one
// line per row. It is mainly useful for assertions.
func Plain(view string) string {
	lines := strings.Split(view, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(ansi.Strip(l), " ")
	}
	return strings.Join(lines, "\n")
}
