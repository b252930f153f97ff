package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/platform"
)

func mountList(t *testing.T) *Tester {
	t.Helper()
	tester := NewTesterWithT(t)
	require.NoError(t, tester.Mount(element.H("div", element.Props{"id": "root"},
		element.H("ul", element.Props{"class": "fruit"},
			element.H("li", element.Props{"id": 1}, "apple"),
			element.H("li", element.Props{"id": 2}, "banana"),
		),
		element.H("ul", element.Props{"class": "veg"},
			element.H("li", element.Props{"id": 3}, "carrot"),
		),
	)))
	return tester
}

func TestByTag(t *testing.T) {
	tester := mountList(t)
	assert.Equal(t, 3, tester.Find(ByTag("li")).Count())
	assert.Equal(t, 2, tester.Find(ByTag("ul")).Count())
	assert.False(t, tester.Find(ByTag("table")).Exists())
}

func TestByIDAndAttr(t *testing.T) {
	tester := mountList(t)
	assert.Equal(t, "banana", tester.Find(ByID(2)).Text())
	assert.False(t, tester.Find(ByID("2")).Exists(), "attribute values keep their type")
	assert.Equal(t, "carrot", tester.Find(ByAttr("class", "veg")).Text())
}

func TestByText(t *testing.T) {
	tester := mountList(t)
	assert.True(t, tester.Find(ByText("apple")).Exists())
	assert.False(t, tester.Find(ByText("app")).Exists())
	assert.Equal(t, 3, tester.Find(ByTextContaining("a")).Count())
	assert.Equal(t, 1, tester.Find(ByTextContaining("nan")).Count())
}

func TestByPredicate(t *testing.T) {
	tester := mountList(t)
	result := tester.Find(ByPredicate(func(e *platform.Element) bool {
		id, _ := e.Attr("id")
		n, ok := id.(int)
		return ok && n > 1
	}))
	require.Equal(t, 2, result.Count())
	assert.Equal(t, "banana", result.At(0).TextContent())
	assert.Equal(t, "carrot", result.At(1).TextContent())
}

func TestDescendantAndAncestor(t *testing.T) {
	tester := mountList(t)

	fruit := tester.Find(Descendant(ByAttr("class", "fruit"), ByTag("li")))
	require.Equal(t, 2, fruit.Count())
	assert.Equal(t, "apple", fruit.At(0).TextContent())
	assert.Equal(t, "banana", fruit.At(1).TextContent())

	lists := tester.Find(Ancestor(ByText("carrot"), ByTag("ul")))
	require.Equal(t, 1, lists.Count())
	cls, _ := lists.First().Attr("class")
	assert.Equal(t, "veg", cls)
}

func TestFinderResult_Panics(t *testing.T) {
	tester := mountList(t)
	empty := tester.Find(ByTag("table"))
	assert.Nil(t, empty.FirstOrNil())
	assert.PanicsWithValue(t, `Finder found no elements: ByTag("table")`, func() { empty.First() })
	assert.Panics(t, func() { tester.Find(ByTag("li")).At(5) })
}
