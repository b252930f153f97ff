package fiber

import "github.com/go-drift/fiber/pkg/element"

// reconcileChildren builds f's child chain from the declarative children,
// matching them by position against the alternate's children.
//
// A previous fiber of the same type hands its native node over and becomes
// the alternate of an Update fiber. Anything else yields a Placement fiber.
// With pruning enabled, previous fibers that were not carried over are
// recorded as deletion markers on f.
func (e *Engine) reconcileChildren(f *Fiber, children []*element.Node) {
	var old *Fiber
	if f.alternate != nil {
		old = f.alternate.child
	}

	var prev *Fiber
	for i, child := range children {
		var next *Fiber
		if old != nil && old.typ == child.Type {
			next = &Fiber{
				typ:         child.Type,
				props:       child.Props,
				node:        old.node,
				parent:      f,
				alternate:   old,
				disposition: Update,
			}
		} else {
			next = &Fiber{
				typ:         child.Type,
				props:       child.Props,
				parent:      f,
				disposition: Placement,
			}
			if old != nil {
				e.markDeletion(f, old)
			}
		}

		if i == 0 {
			f.child = next
		} else {
			prev.sibling = next
		}
		if i == len(children)-1 {
			if f.sibling != nil {
				next.uncle = f.sibling
			} else {
				next.uncle = f.uncle
			}
		}

		prev = next
		if old != nil {
			old = old.sibling
		}
	}

	for ; old != nil; old = old.sibling {
		e.markDeletion(f, old)
	}
}

// markDeletion records that old, a child of f's alternate, has no
// counterpart in the new tree. The current tree is never mutated, so the
// marker is a fresh fiber pointing back at old.
func (e *Engine) markDeletion(f *Fiber, old *Fiber) {
	if !e.prune {
		return
	}
	f.deletions = append(f.deletions, &Fiber{
		typ:         old.typ,
		props:       old.props,
		node:        old.node,
		parent:      f,
		alternate:   old,
		disposition: Deletion,
	})
}
