package platform

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-drift/fiber/pkg/element"
)

// Element is a node of the in-memory reference tree.
type Element struct {
	tag       string
	text      string
	isText    bool
	attrs     map[string]any
	listeners map[string]element.Handler
	parent    *Element
	children  []*Element
}

// NewContainer creates a detached element to render into.
func NewContainer(tag string) *Element {
	return &Element{tag: tag}
}

// Tag returns the element tag, or element.TextTag for text nodes.
func (e *Element) Tag() string {
	if e.isText {
		return element.TextTag
	}
	return e.tag
}

// IsText reports whether e is a text node.
func (e *Element) IsText() bool { return e.isText }

// Text returns the content of a text node.
func (e *Element) Text() string { return e.text }

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// Attr returns a named attribute.
func (e *Element) Attr(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attributes returns a copy of the attribute map.
func (e *Element) Attributes() map[string]any {
	out := make(map[string]any, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// HasListener reports whether a handler is attached for the event type.
func (e *Element) HasListener(event string) bool {
	_, ok := e.listeners[event]
	return ok
}

// Listeners returns the event types with an attached handler, sorted.
func (e *Element) Listeners() []string {
	out := make([]string, 0, len(e.listeners))
	for event := range e.listeners {
		out = append(out, event)
	}
	sort.Strings(out)
	return out
}

// Dispatch invokes the handler attached for the event type. It returns false
// when no handler is attached.
func (e *Element) Dispatch(event string, data any) bool {
	h, ok := e.listeners[event]
	if !ok {
		return false
	}
	h(element.Event{Type: event, Target: e, Data: data})
	return true
}

// TextContent returns the concatenated text of e and its descendants.
func (e *Element) TextContent() string {
	if e.isText {
		return e.text
	}
	var sb strings.Builder
	for _, c := range e.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns the first element in pre-order whose attribute name equals
// value.
func (e *Element) Find(name string, value any) *Element {
	if v, ok := e.attrs[name]; ok && reflect.DeepEqual(v, value) {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(name, value); found != nil {
			return found
		}
	}
	return nil
}

// String renders e and its subtree as HTML-like markup with attributes in
// key order. Listeners are not rendered.
func (e *Element) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Element) write(sb *strings.Builder) {
	if e.isText {
		sb.WriteString(e.text)
		return
	}
	sb.WriteByte('<')
	sb.WriteString(e.tag)
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, fmt.Sprint(e.attrs[k]))
	}
	sb.WriteByte('>')
	for _, c := range e.children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteByte('>')
}

func (e *Element) indexOf(child *Element) int {
	return slices.Index(e.children, child)
}

func (e *Element) detach(child *Element) {
	if i := e.indexOf(child); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
		child.parent = nil
	}
}

// Op identifies a recorded mutation.
type Op string

const (
	OpCreate         Op = "create"
	OpCreateText     Op = "createText"
	OpSetAttribute   Op = "setAttribute"
	OpRemoveAttr     Op = "removeAttribute"
	OpAddListener    Op = "addListener"
	OpRemoveListener Op = "removeListener"
	OpAppend         Op = "append"
	OpInsertBefore   Op = "insertBefore"
	OpRemoveChild    Op = "removeChild"
)

// Mutation is one call recorded by Memory.
type Mutation struct {
	Op     Op
	Target *Element
	Name   string
	Value  any
}

// Memory is a Binding backed by an in-memory Element tree. It records every
// mutation so tests can assert exactly what the engine did.
type Memory struct {
	mu        sync.Mutex
	mutations []Mutation
}

// NewMemory returns an empty in-memory binding.
func NewMemory() *Memory {
	return &Memory{}
}

var _ Binding = (*Memory)(nil)

// Mutations returns the mutations recorded since the last reset.
func (m *Memory) Mutations() []Mutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.mutations)
}

// ResetMutations clears the mutation log.
func (m *Memory) ResetMutations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations = nil
}

// Count returns how many recorded mutations have the given op.
func (m *Memory) Count(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, mu := range m.mutations {
		if mu.Op == op {
			n++
		}
	}
	return n
}

func (m *Memory) record(op Op, target *Element, name string, value any) {
	m.mu.Lock()
	m.mutations = append(m.mutations, Mutation{Op: op, Target: target, Name: name, Value: value})
	m.mu.Unlock()
}

func (m *Memory) CreateElement(tag string) Node {
	e := &Element{tag: tag}
	m.record(OpCreate, e, tag, nil)
	return e
}

func (m *Memory) CreateText(value string) Node {
	e := &Element{isText: true, text: value}
	m.record(OpCreateText, e, "", value)
	return e
}

func (m *Memory) SetAttribute(n Node, name string, value any) {
	e := mustElement(n)
	if e.isText && name == element.NodeValueProp {
		e.text = fmt.Sprint(value)
	} else {
		if e.attrs == nil {
			e.attrs = make(map[string]any)
		}
		e.attrs[name] = value
	}
	m.record(OpSetAttribute, e, name, value)
}

func (m *Memory) RemoveAttribute(n Node, name string) {
	e := mustElement(n)
	if e.isText && name == element.NodeValueProp {
		e.text = ""
	}
	delete(e.attrs, name)
	m.record(OpRemoveAttr, e, name, nil)
}

func (m *Memory) AddListener(n Node, event string, h element.Handler) {
	e := mustElement(n)
	if e.listeners == nil {
		e.listeners = make(map[string]element.Handler)
	}
	e.listeners[event] = h
	m.record(OpAddListener, e, event, nil)
}

func (m *Memory) RemoveListener(n Node, event string) {
	e := mustElement(n)
	delete(e.listeners, event)
	m.record(OpRemoveListener, e, event, nil)
}

func (m *Memory) AppendChild(parent, child Node) {
	p, c := mustElement(parent), mustElement(child)
	if c.parent != nil {
		c.parent.detach(c)
	}
	p.children = append(p.children, c)
	c.parent = p
	m.record(OpAppend, p, "", c)
}

func (m *Memory) InsertBefore(parent, child, before Node) {
	p, c := mustElement(parent), mustElement(child)
	var b *Element
	if before != nil {
		b = mustElement(before)
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	i := -1
	if b != nil {
		i = p.indexOf(b)
	}
	if i < 0 {
		p.children = append(p.children, c)
	} else {
		p.children = slices.Insert(p.children, i, c)
	}
	c.parent = p
	m.record(OpInsertBefore, p, "", c)
}

func (m *Memory) RemoveChild(parent, child Node) {
	p, c := mustElement(parent), mustElement(child)
	p.detach(c)
	m.record(OpRemoveChild, p, "", c)
}

func mustElement(n Node) *Element {
	e, ok := n.(*Element)
	if !ok || e == nil {
		panic(fmt.Sprintf("platform: node %T is not a *platform.Element", n))
	}
	return e
}
