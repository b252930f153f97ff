package element

import (
	"fmt"
	"strconv"
)

// TextTag is the reserved tag of text leaves. Text nodes carry their content
// in the NodeValueProp prop and never have children.
const TextTag = "TEXT_ELEMENT"

// Reserved prop names.
const (
	ChildrenProp  = "children"
	NodeValueProp = "nodeValue"
)

// Props holds the attributes of a node, including its children.
type Props map[string]any

// Children returns the child nodes stored under ChildrenProp.
func (p Props) Children() []*Node {
	children, _ := p[ChildrenProp].([]*Node)
	return children
}

// Node is an immutable declarative description of a piece of UI.
type Node struct {
	Type  Type
	Props Props
}

// Children returns the node's children, or nil for a nil node.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.Props.Children()
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Type.IsTag() && n.Type.Tag() == TextTag
}

// Text creates a text leaf with the given value.
func Text(value string) *Node {
	return &Node{
		Type: Tag(TextTag),
		Props: Props{
			NodeValueProp: value,
			ChildrenProp:  []*Node{},
		},
	}
}

// CreateElement builds a node of type t. The props map is copied, so the
// caller may reuse it. Children are normalized as described in the package
// documentation and stored under ChildrenProp.
func CreateElement(t Type, props Props, children ...any) *Node {
	merged := make(Props, len(props)+1)
	for k, v := range props {
		if k == ChildrenProp {
			continue
		}
		merged[k] = v
	}
	merged[ChildrenProp] = normalizeChildren(children)
	return &Node{Type: t, Props: merged}
}

// H is shorthand for CreateElement with a native tag.
func H(tag string, props Props, children ...any) *Node {
	return CreateElement(Tag(tag), props, children...)
}

// C is shorthand for CreateElement with a function component.
func C(c *Component, props Props, children ...any) *Node {
	return CreateElement(Func(c), props, children...)
}

func normalizeChildren(children []any) []*Node {
	out := make([]*Node, 0, len(children))
	for _, child := range children {
		out = appendChild(out, child)
	}
	return out
}

func appendChild(out []*Node, child any) []*Node {
	switch c := child.(type) {
	case nil:
		return out
	case *Node:
		if c == nil {
			return out
		}
		return append(out, c)
	case []*Node:
		for _, n := range c {
			if n != nil {
				out = append(out, n)
			}
		}
		return out
	case string:
		return append(out, Text(c))
	case int:
		return append(out, Text(strconv.Itoa(c)))
	case int64:
		return append(out, Text(strconv.FormatInt(c, 10)))
	case float64:
		return append(out, Text(strconv.FormatFloat(c, 'g', -1, 64)))
	case fmt.Stringer:
		return append(out, Text(c.String()))
	default:
		return append(out, Text(fmt.Sprint(c)))
	}
}
