package fiber

import (
	"reflect"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/platform"
)

// updateProps applies the difference between prev and next to node.
//
// Keys that disappeared are removed first. Listener keys are always
// detached and reattached since handlers cannot be compared; other values
// are only written when they changed.
func (e *Engine) updateProps(node platform.Node, next, prev element.Props) {
	prevKeys := propKeys(prev)
	nextKeys := propKeys(next)

	removed := prevKeys.Difference(nextKeys).ToSlice()
	slices.Sort(removed)
	for _, key := range removed {
		if element.IsListenerKey(key) {
			e.binding.RemoveListener(node, element.EventType(key))
			continue
		}
		e.binding.RemoveAttribute(node, key)
	}

	keys := nextKeys.ToSlice()
	slices.Sort(keys)
	for _, key := range keys {
		value := next[key]
		old, had := prev[key]

		if element.IsListenerKey(key) {
			event := element.EventType(key)
			if had {
				e.binding.RemoveListener(node, event)
			}
			h, ok := element.AsHandler(value)
			if !ok {
				e.logger.Debug("ignoring non-handler listener prop",
					zap.String("key", key))
				continue
			}
			e.binding.AddListener(node, event, h)
			continue
		}

		if had && reflect.DeepEqual(old, value) {
			continue
		}
		e.binding.SetAttribute(node, key, value)
	}
}

func propKeys(p element.Props) mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSet[string]()
	for k := range p {
		if k == element.ChildrenProp {
			continue
		}
		keys.Add(k)
	}
	return keys
}
