package element

// Kind distinguishes the cases of Type.
type Kind uint8

const (
	// KindTag is a native tag resolved by the platform binding.
	KindTag Kind = iota + 1
	// KindComponent is a function component.
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindComponent:
		return "component"
	default:
		return "invalid"
	}
}

// Render turns props into a node. Returning nil renders nothing.
type Render func(props Props) *Node

// Component is a named function component. Identity matters: two
// components are the same type only if they are the same pointer.
type Component struct {
	Name   string
	Render Render
}

// NewComponent creates a function component.
func NewComponent(name string, render Render) *Component {
	return &Component{Name: name, Render: render}
}

// Type identifies what a node renders to. The zero Type is invalid.
//
// Type is comparable: tags compare by name and components by identity.
type Type struct {
	kind      Kind
	tag       string
	component *Component
}

// Tag returns a native tag type.
func Tag(name string) Type {
	return Type{kind: KindTag, tag: name}
}

// Func returns a function component type.
func Func(c *Component) Type {
	return Type{kind: KindComponent, component: c}
}

// Kind returns the case of the union.
func (t Type) Kind() Kind { return t.kind }

// IsTag reports whether t is a native tag.
func (t Type) IsTag() bool { return t.kind == KindTag }

// IsComponent reports whether t is a function component.
func (t Type) IsComponent() bool { return t.kind == KindComponent }

// Tag returns the tag name, or "" for components.
func (t Type) Tag() string { return t.tag }

// Component returns the component, or nil for tags.
func (t Type) Component() *Component { return t.component }

// String returns the tag name or component name.
func (t Type) String() string {
	switch t.kind {
	case KindTag:
		return t.tag
	case KindComponent:
		if t.component == nil || t.component.Name == "" {
			return "<anonymous>"
		}
		return t.component.Name
	default:
		return "<invalid>"
	}
}
