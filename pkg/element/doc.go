// Package element provides the declarative tree model consumed by the fiber
// engine.
//
// A Node is an immutable description of one piece of UI: a Type and a set of
// Props. Children live under the reserved "children" prop. Nodes are cheap to
// build and can be shared freely since nothing mutates them after
// construction.
//
// # Types
//
// Type is a tagged union with two cases. A native tag names a platform node
// kind and is resolved by the platform binding:
//
//	element.H("div", element.Props{"id": "1"}, "hi")
//
// A function component turns props into another node:
//
//	var Counter = element.NewComponent("Counter", func(p element.Props) *element.Node {
//	    return element.H("div", element.Props{"id": "counter"}, "count: ", p["num"])
//	})
//
//	element.C(Counter, element.Props{"num": 10})
//
// Components compare by identity, so declare them once at package level
// rather than inside another component.
//
// # Children
//
// CreateElement wraps strings, numbers and fmt.Stringer values into text
// nodes, flattens []*Node slices and drops nil children.
package element
