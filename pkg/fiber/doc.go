// Package fiber implements an incremental, interruptible reconciliation
// engine.
//
// An Engine keeps two fiber trees: the current tree, which mirrors what is
// on screen, and the in-progress tree being built for the next commit. Each
// in-progress fiber points at its counterpart in the current tree through
// its alternate link, which is only ever used for diffing.
//
// # Build cycle
//
// Render seeds a root fiber for a container node. The engine then drains
// the tree one fiber at a time from idle callbacks of a
// scheduler.IdleScheduler, yielding whenever the deadline runs low. Each
// unit either invokes a function component or creates/patches a native
// node, then reconciles the declarative children against the previous
// child chain:
//
//   - same type at the same position: the native node is reused and patched
//   - different type or new position: a fresh node is created
//   - previous positions that disappeared are scheduled for removal
//
// When no units remain the commit phase inserts new native nodes, removes
// stale ones, and swaps the current tree. Update starts a new build from the
// current root, re-running every function component.
//
// # Walk order
//
// Fibers are visited in depth-first pre-order without a stack: a fiber
// continues with its child, else its sibling, else its uncle, the link to
// the fiber that follows its parent's subtree. The next-unit pointer is the
// only state needed to resume after a yield.
//
// # Threading
//
// All engine state is guarded by one mutex. Idle callbacks may run on a
// scheduler goroutine while Render and Update are called from another; a
// call never interleaves with a running unit.
package fiber
