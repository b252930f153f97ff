// Package platform defines the contract between the fiber engine and the
// native visual tree, and provides an in-memory reference binding.
//
// The engine never inspects native nodes; it only hands the opaque Node
// handles it got from a Binding back to the same Binding.
package platform

import "github.com/go-drift/fiber/pkg/element"

// Node is an opaque handle to a native visual node.
type Node any

// Binding turns tags and text into native nodes and mutates them.
//
// The engine calls a Binding from a single goroutine at a time.
type Binding interface {
	// CreateElement creates a native node for a tag.
	CreateElement(tag string) Node
	// CreateText creates a native text node.
	CreateText(value string) Node
	// SetAttribute sets a named attribute. For text nodes the
	// element.NodeValueProp attribute holds the text content.
	SetAttribute(n Node, name string, value any)
	// RemoveAttribute removes a named attribute.
	RemoveAttribute(n Node, name string)
	// AddListener attaches the handler for an event type, replacing nothing:
	// callers detach the previous handler first.
	AddListener(n Node, event string, h element.Handler)
	// RemoveListener detaches the handler for an event type.
	RemoveListener(n Node, event string)
	// AppendChild inserts child as the last child of parent.
	AppendChild(parent, child Node)
	// InsertBefore inserts child into parent right before the existing
	// child before. A nil before behaves like AppendChild.
	InsertBefore(parent, child, before Node)
	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node)
}
