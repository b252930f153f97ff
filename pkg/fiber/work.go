package fiber

import (
	"time"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// errNilRender is wrapped in a BuildError when a component has no render
// function.
var errNilRender = errors.New("component has no render function")

// performUnitOfWork expands one fiber and returns the next one to visit.
func (e *Engine) performUnitOfWork(f *Fiber) (*Fiber, error) {
	if f.typ.IsComponent() {
		if err := e.updateFunctionComponent(f); err != nil {
			return nil, err
		}
	} else {
		e.updateHostComponent(f)
	}
	return f.next(), nil
}

func (e *Engine) updateFunctionComponent(f *Fiber) error {
	child, err := e.renderComponent(f)
	if err != nil {
		return err
	}
	var children []*element.Node
	if child != nil {
		children = []*element.Node{child}
	}
	e.reconcileChildren(f, children)
	return nil
}

// renderComponent invokes the component, converting a panic into a
// BuildError.
func (e *Engine) renderComponent(f *Fiber) (node *element.Node, err error) {
	c := f.typ.Component()
	if c == nil || c.Render == nil {
		return nil, &errors.BuildError{
			Component: f.typ.String(),
			Err:       errNilRender,
			Timestamp: time.Now(),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			node = nil
			err = &errors.BuildError{
				Component:  f.typ.String(),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
		}
	}()
	return c.Render(f.props), nil
}

func (e *Engine) updateHostComponent(f *Fiber) {
	if f.node == nil {
		if f.typ.Tag() == element.TextTag {
			f.node = e.binding.CreateText("")
		} else {
			f.node = e.binding.CreateElement(f.typ.Tag())
		}
	}

	var prev element.Props
	if f.alternate != nil {
		prev = e.appliedProps(f.alternate)
	}
	e.updateProps(f.node, f.props, prev)
	if f.alternate != nil {
		e.recordApplied(f.alternate, f.props)
	}
	e.reconcileChildren(f, compact(f.props.Children()))
}

// appliedProps returns the props currently reflected by alt's native node.
func (e *Engine) appliedProps(alt *Fiber) element.Props {
	if p, ok := e.applied[alt]; ok {
		return p
	}
	return alt.props
}

func (e *Engine) recordApplied(alt *Fiber, p element.Props) {
	if e.applied == nil {
		e.applied = make(map[*Fiber]element.Props)
	}
	e.applied[alt] = p
}

// compact drops nil entries from hand-built child lists.
func compact(children []*element.Node) []*element.Node {
	for i, c := range children {
		if c != nil {
			continue
		}
		out := make([]*element.Node, 0, len(children)-1)
		out = append(out, children[:i]...)
		for _, rest := range children[i+1:] {
			if rest != nil {
				out = append(out, rest)
			}
		}
		return out
	}
	return children
}
