package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/fiber/pkg/platform"
)

// Finder locates native nodes in the mounted tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *platform.Element) []*platform.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*platform.Element
	finder   Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *platform.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.description()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *platform.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *platform.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.description()))
	}
	return r.elements[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*platform.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

// --- Concrete finders ---

type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root *platform.Element) []*platform.Element {
	return collectMatches(root, func(e *platform.Element) bool {
		return !e.IsText() && e.Tag() == f.tag
	})
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: tag}
}

// attrFinder matches elements whose attribute equals a value.
type attrFinder struct {
	name  string
	value any
}

func (f *attrFinder) Evaluate(root *platform.Element) []*platform.Element {
	return collectMatches(root, func(e *platform.Element) bool {
		v, ok := e.Attr(f.name)
		if !ok {
			return false
		}
		// Guard against non-comparable types (slices, maps).
		if v == nil || f.value == nil ||
			!reflect.TypeOf(v).Comparable() || !reflect.TypeOf(f.value).Comparable() {
			return reflect.DeepEqual(v, f.value)
		}
		return v == f.value
	})
}

func (f *attrFinder) Description() string {
	return fmt.Sprintf("ByAttr(%s=%v)", f.name, f.value)
}

// ByAttr returns a finder that matches elements whose attribute name
// equals value.
func ByAttr(name string, value any) Finder {
	return &attrFinder{name: name, value: value}
}

// ByID returns a finder that matches elements whose id attribute equals id.
func ByID(id any) Finder {
	return &attrFinder{name: "id", value: id}
}

// textFinder matches text nodes by exact content.
type textFinder struct {
	text string
}

func (f *textFinder) Evaluate(root *platform.Element) []*platform.Element {
	return collectMatches(root, func(e *platform.Element) bool {
		return e.IsText() && e.Text() == f.text
	})
}

func (f *textFinder) Description() string {
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches text nodes with exact content.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// textContainingFinder matches elements whose text content contains a
// substring.
type textContainingFinder struct {
	substring string
}

func (f *textContainingFinder) Evaluate(root *platform.Element) []*platform.Element {
	return collectMatches(root, func(e *platform.Element) bool {
		return e.IsText() && strings.Contains(e.Text(), f.substring)
	})
}

func (f *textContainingFinder) Description() string {
	return fmt.Sprintf("ByTextContaining(%q)", f.substring)
}

// ByTextContaining returns a finder that matches text nodes containing the
// given substring.
func ByTextContaining(substring string) Finder {
	return &textContainingFinder{substring: substring}
}

// predicateFinder matches elements satisfying a predicate.
type predicateFinder struct {
	fn   func(*platform.Element) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *platform.Element) []*platform.Element {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(*platform.Element) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *platform.Element) []*platform.Element {
	ancestors := f.of.Evaluate(root)
	if len(ancestors) == 0 {
		return nil
	}
	var results []*platform.Element
	seen := make(map[*platform.Element]bool)
	for _, ancestor := range ancestors {
		// Search within each ancestor's subtree (skip the ancestor itself)
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying 'matching'
// that are descendants of elements matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds elements matching 'matching' that are ancestors
// of elements matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *platform.Element) []*platform.Element {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []*platform.Element
	seen := make(map[*platform.Element]bool)
	for _, candidate := range f.matching.Evaluate(root) {
		for _, desc := range descendants {
			if !seen[candidate] && isAncestorOf(candidate, desc) {
				seen[candidate] = true
				results = append(results, candidate)
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches elements satisfying 'matching'
// that are ancestors of elements matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// isAncestorOf returns true if ancestor strictly contains descendant.
func isAncestorOf(ancestor, descendant *platform.Element) bool {
	for p := descendant.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// collectMatches performs depth-first pre-order traversal, collecting
// elements that satisfy the predicate.
func collectMatches(root *platform.Element, predicate func(*platform.Element) bool) []*platform.Element {
	var results []*platform.Element
	walkTree(root, func(e *platform.Element) bool {
		if predicate(e) {
			results = append(results, e)
		}
		return true
	})
	return results
}

// walkTree performs a depth-first pre-order traversal of the native tree.
// The visitor returns false to skip a node's children.
func walkTree(root *platform.Element, visitor func(*platform.Element) bool) {
	if !visitor(root) {
		return
	}
	for _, child := range root.Children() {
		walkTree(child, visitor)
	}
}
