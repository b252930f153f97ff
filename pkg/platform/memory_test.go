package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/element"
)

func TestMemory_BuildsTree(t *testing.T) {
	m := NewMemory()
	root := NewContainer("body")

	div := m.CreateElement("div")
	m.SetAttribute(div, "id", "main")
	text := m.CreateText("")
	m.SetAttribute(text, element.NodeValueProp, "hello")
	m.AppendChild(div, text)
	m.AppendChild(root, div)

	assert.Equal(t, `<body><div id="main">hello</div></body>`, root.String())
	assert.Equal(t, "hello", root.TextContent())
	assert.Same(t, root, div.(*Element).Parent())
	assert.Equal(t, element.TextTag, text.(*Element).Tag())
	assert.True(t, text.(*Element).IsText())
	assert.Same(t, div, root.Find("id", "main"))
	assert.Nil(t, root.Find("id", "missing"))
}

func TestMemory_RemoveAttribute(t *testing.T) {
	m := NewMemory()
	n := m.CreateElement("p").(*Element)
	m.SetAttribute(n, "a", 1)
	m.SetAttribute(n, "b", 2)
	m.RemoveAttribute(n, "a")

	assert.Equal(t, map[string]any{"b": 2}, n.Attributes())
	_, ok := n.Attr("a")
	assert.False(t, ok)
}

func TestMemory_InsertBeforeAndRemove(t *testing.T) {
	m := NewMemory()
	root := NewContainer("ul")
	a, b, c := m.CreateElement("a"), m.CreateElement("b"), m.CreateElement("c")

	m.AppendChild(root, a)
	m.AppendChild(root, c)
	m.InsertBefore(root, b, c)
	assert.Equal(t, `<ul><a></a><b></b><c></c></ul>`, root.String())

	m.InsertBefore(root, a, nil)
	assert.Equal(t, `<ul><b></b><c></c><a></a></ul>`, root.String(), "reinserting moves the node")

	m.RemoveChild(root, b)
	assert.Equal(t, `<ul><c></c><a></a></ul>`, root.String())
	assert.Nil(t, b.(*Element).Parent())
}

func TestMemory_Listeners(t *testing.T) {
	m := NewMemory()
	n := m.CreateElement("button").(*Element)

	var got element.Event
	m.AddListener(n, "click", func(e element.Event) { got = e })
	require.True(t, n.HasListener("click"))
	require.True(t, n.Dispatch("click", 7))
	assert.Equal(t, "click", got.Type)
	assert.Same(t, n, got.Target)
	assert.Equal(t, 7, got.Data)

	m.RemoveListener(n, "click")
	assert.False(t, n.Dispatch("click", nil))
}

func TestMemory_RecordsMutations(t *testing.T) {
	m := NewMemory()
	n := m.CreateElement("div")
	m.SetAttribute(n, "id", 1)

	muts := m.Mutations()
	require.Len(t, muts, 2)
	assert.Equal(t, OpCreate, muts[0].Op)
	assert.Equal(t, Mutation{Op: OpSetAttribute, Target: n.(*Element), Name: "id", Value: 1}, muts[1])
	assert.Equal(t, 1, m.Count(OpCreate))

	m.ResetMutations()
	assert.Empty(t, m.Mutations())
}

func TestMemory_RejectsForeignNodes(t *testing.T) {
	m := NewMemory()
	assert.Panics(t, func() { m.AppendChild("x", m.CreateElement("div")) })
}
