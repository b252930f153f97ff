package testing

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/platform"
)

// Tap fires a click on the first node matched by finder.
func (t *Tester) Tap(finder Finder) error {
	return t.Fire(finder, "click", nil)
}

// Fire dispatches an event to the first node matched by finder. The event
// bubbles to the nearest ancestor with a listener for it, so a finder may
// target the text inside a button.
func (t *Tester) Fire(finder Finder, event string, data any) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Fire(%s): finder matched no elements: %s", event, finder.Description())
	}
	if !bubble(result.First(), event, data) {
		return fmt.Errorf("Fire(%s): no listener on element or ancestors: %s", event, finder.Description())
	}
	return nil
}

// TapAndUpdate taps the first node matched by finder and settles the
// refresh build that follows.
func (t *Tester) TapAndUpdate(finder Finder) error {
	if err := t.Tap(finder); err != nil {
		return err
	}
	return t.Update()
}

func bubble(e *platform.Element, event string, data any) bool {
	for n := e; n != nil; n = n.Parent() {
		if n.Dispatch(event, data) {
			return true
		}
	}
	return false
}
