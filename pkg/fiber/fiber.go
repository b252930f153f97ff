package fiber

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/platform"
)

// Disposition is the action a fiber's native node needs at commit time.
type Disposition uint8

const (
	// Placement inserts a newly created native node.
	Placement Disposition = iota + 1
	// Update keeps the native node inherited from the alternate in place.
	Update
	// Deletion detaches the native nodes of a fiber that lost its position.
	Deletion
)

func (d Disposition) String() string {
	switch d {
	case Placement:
		return "placement"
	case Update:
		return "update"
	case Deletion:
		return "deletion"
	default:
		return "none"
	}
}

// rootTag is the type of root fibers. Root fibers own the container node.
const rootTag = "#root"

// Fiber is one unit of work and the persistent shadow of one rendered node.
//
// Fibers are owned by the engine. Trees returned by Engine.Root are
// committed and must be treated as read-only.
type Fiber struct {
	typ   element.Type
	props element.Props
	node  platform.Node

	parent  *Fiber
	child   *Fiber
	sibling *Fiber
	// uncle is where the walk resumes once this fiber's subtree and all
	// following siblings are done. Only the last child of a parent has one.
	uncle *Fiber
	// alternate is the fiber at the same position in the current tree. It
	// is a lookup edge for diffing only and is cleared at commit.
	alternate *Fiber

	disposition Disposition
	// deletions holds markers for previous children that lost their
	// position during reconciliation.
	deletions []*Fiber
}

// Type returns the fiber's element type.
func (f *Fiber) Type() element.Type { return f.typ }

// Props returns the props the fiber was built with.
func (f *Fiber) Props() element.Props { return f.props }

// Node returns the native node owned by the fiber, or nil for function
// components.
func (f *Fiber) Node() platform.Node { return f.node }

// Parent returns the enclosing fiber, or nil for a root.
func (f *Fiber) Parent() *Fiber { return f.parent }

// Child returns the first child fiber.
func (f *Fiber) Child() *Fiber { return f.child }

// Sibling returns the next fiber under the same parent.
func (f *Fiber) Sibling() *Fiber { return f.sibling }

// Uncle returns where the work order resumes once this fiber's subtree and
// following siblings are done. Only a last child has one.
func (f *Fiber) Uncle() *Fiber { return f.uncle }

// Alternate returns the previous-tree counterpart. It is nil once the fiber
// has been committed.
func (f *Fiber) Alternate() *Fiber { return f.alternate }

// Disposition returns what the commit phase did or will do with the fiber.
func (f *Fiber) Disposition() Disposition { return f.disposition }

// IsRoot reports whether f is a root fiber.
func (f *Fiber) IsRoot() bool {
	return f.parent == nil && f.typ == element.Tag(rootTag)
}

// next returns the fiber that follows f in the work order.
func (f *Fiber) next() *Fiber {
	if f.child != nil {
		return f.child
	}
	if f.sibling != nil {
		return f.sibling
	}
	return f.uncle
}

// Walk visits f and its descendants in pre-order. Returning false from
// visit skips the fiber's children.
func (f *Fiber) Walk(visit func(f *Fiber, depth int) bool) {
	f.walk(visit, 0)
}

func (f *Fiber) walk(visit func(*Fiber, int) bool, depth int) {
	if !visit(f, depth) {
		return
	}
	for c := f.child; c != nil; c = c.sibling {
		c.walk(visit, depth+1)
	}
}

// hostParent returns the nearest ancestor that owns a native node.
func (f *Fiber) hostParent() *Fiber {
	p := f.parent
	for p != nil && p.node == nil {
		p = p.parent
	}
	return p
}
