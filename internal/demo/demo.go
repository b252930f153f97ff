// Package demo holds the sample applications driven by fiberctl.
package demo

import (
	"strconv"
	"sync"

	"github.com/go-drift/fiber/pkg/element"
)

// Counter renders a labelled number.
var Counter = element.NewComponent("Counter", func(p element.Props) *element.Node {
	return element.H("div", element.Props{"id": "counter"}, "count: ", p["num"])
})

// Container renders two counters under a label.
var Container = element.NewComponent("Container", func(element.Props) *element.Node {
	return element.H("div", nil,
		"container",
		element.C(Counter, element.Props{"num": 10}),
		element.C(Counter, element.Props{"num": 20}),
	)
})

// App is the reference page: plain elements, repeated components and a
// deeply nested branch.
var App = element.NewComponent("App", func(element.Props) *element.Node {
	return element.H("div", element.Props{"id": "1"},
		element.H("div", element.Props{"id": "2"}, "hi"),
		element.C(Container, nil),
		element.C(Container, nil),
		element.C(Container, nil),
		element.H("div", element.Props{"id": "3"},
			element.H("div", element.Props{"id": "4"}),
			element.H("div", element.Props{"id": "5"},
				"mini-react",
				element.H("div", element.Props{"id": "6"}, "is good"),
			),
		),
		element.H("div", element.Props{"id": "7"}, "hahaha"),
		nest(6, "nested"),
		element.H("div", element.Props{"id": "9"}),
	)
})

func nest(depth int, leaf string) *element.Node {
	if depth <= 1 {
		return element.H("div", nil, leaf)
	}
	return element.H("div", nil, nest(depth-1, leaf))
}

// Tree builds a synthetic tree with the given breadth and depth. Every
// leaf is a text node, so the tree has breadth^depth leaves.
func Tree(breadth, depth int) *element.Node {
	return branch(breadth, depth, "0")
}

func branch(breadth, depth int, path string) *element.Node {
	if depth <= 0 {
		return element.Text(path)
	}
	children := make([]*element.Node, 0, breadth)
	for i := 0; i < breadth; i++ {
		children = append(children, branch(breadth, depth-1, path+"."+strconv.Itoa(i)))
	}
	return element.H("div", element.Props{"data-path": path}, children)
}

// Clicker is an interactive counter. Its component reads the count on each
// render, so an engine Update after Increment or Decrement shows the new
// value.
type Clicker struct {
	mu    sync.Mutex
	count int
}

// NewClicker returns a clicker starting at zero.
func NewClicker() *Clicker { return &Clicker{} }

// Count returns the current value.
func (c *Clicker) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Increment adds one.
func (c *Clicker) Increment() { c.add(1) }

// Decrement subtracts one.
func (c *Clicker) Decrement() { c.add(-1) }

func (c *Clicker) add(d int) {
	c.mu.Lock()
	c.count += d
	c.mu.Unlock()
}

// Component returns the clicker page. Buttons carry the ids "inc" and
// "dec" and update the count on click.
func (c *Clicker) Component() *element.Component {
	return element.NewComponent("Clicker", func(element.Props) *element.Node {
		n := c.Count()
		children := []any{
			element.H("h1", nil, "fiber"),
			element.C(Counter, element.Props{"num": n}),
			element.H("div", nil,
				element.H("button", element.Props{"id": "dec", "onClick": func(element.Event) { c.Decrement() }}, "-"),
				element.H("button", element.Props{"id": "inc", "onClick": func(element.Event) { c.Increment() }}, "+"),
			),
		}
		if n < 0 {
			children = append(children, element.H("p", element.Props{"class": "warning"}, "below zero"))
		}
		return element.H("div", element.Props{"id": "clicker"}, children...)
	})
}
