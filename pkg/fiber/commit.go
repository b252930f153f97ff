package fiber

import (
	"time"

	"go.uber.org/zap"
)

// commitRoot applies the finished in-progress tree and makes it current.
func (e *Engine) commitRoot() {
	root := e.wip
	e.state = StateCommitting

	for f := root; f != nil; f = nextInCommit(root, f) {
		e.commitWork(f)
	}

	e.current = root
	e.wip = nil
	e.applied = nil
	e.state = StateIdle

	stats := e.stats
	stats.Duration = time.Since(e.buildStart)
	e.stats = BuildStats{}
	e.lastErr = nil

	e.logger.Debug("build committed",
		zap.Bool("refresh", stats.Refresh),
		zap.Int("units", stats.Units),
		zap.Int("slices", stats.Slices),
		zap.Int("placements", stats.Placements),
		zap.Int("deletions", stats.Deletions),
		zap.Duration("duration", stats.Duration))

	if e.onCommit != nil {
		e.onCommit(root, stats)
	}
}

// nextInCommit continues a pre-order walk over child and sibling links,
// staying inside root's subtree.
func nextInCommit(root, f *Fiber) *Fiber {
	if f.child != nil {
		return f.child
	}
	for f != nil && f != root {
		if f.sibling != nil {
			return f.sibling
		}
		f = f.parent
	}
	return nil
}

func (e *Engine) commitWork(f *Fiber) {
	if f.disposition == Placement && f.node != nil && f.parent != nil {
		e.commitPlacement(f)
	}
	for _, d := range f.deletions {
		e.commitDeletion(d)
	}
	f.deletions = nil
	// The previous tree is dropped wholesale once this fiber is applied.
	f.alternate = nil
}

func (e *Engine) commitPlacement(f *Fiber) {
	host := f.hostParent()
	if host == nil {
		return
	}
	e.stats.Placements++
	if e.prune {
		if before := hostSibling(f); before != nil {
			e.binding.InsertBefore(host.node, f.node, before.node)
			return
		}
	}
	e.binding.AppendChild(host.node, f.node)
}

// commitDeletion detaches the native nodes of a deletion marker. Markers of
// function components remove the top-level native nodes of the previous
// subtree.
func (e *Engine) commitDeletion(d *Fiber) {
	host := d.hostParent()
	if host == nil {
		return
	}
	if d.node != nil {
		e.binding.RemoveChild(host.node, d.node)
		e.stats.Deletions++
		return
	}
	if d.alternate != nil {
		e.removeHostChildren(host, d.alternate)
	}
}

func (e *Engine) removeHostChildren(host, f *Fiber) {
	for c := f.child; c != nil; c = c.sibling {
		if c.node != nil {
			e.binding.RemoveChild(host.node, c.node)
			e.stats.Deletions++
			continue
		}
		e.removeHostChildren(host, c)
	}
}

// hostSibling returns the first fiber after f, in document order under the
// same host parent, whose native node is already attached. Placement
// fibers are skipped since their nodes are not attached yet.
func hostSibling(f *Fiber) *Fiber {
	node := f
siblings:
	for {
		for node.sibling == nil {
			if node.parent == nil || node.parent.node != nil {
				return nil
			}
			node = node.parent
		}
		node = node.sibling
		for node.node == nil {
			if node.disposition == Placement || node.child == nil {
				continue siblings
			}
			node = node.child
		}
		if node.disposition != Placement {
			return node
		}
	}
}
