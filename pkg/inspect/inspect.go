// Package inspect provides debugging views over committed fiber trees and
// in-memory native trees.
package inspect

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/fiber"
	"github.com/go-drift/fiber/pkg/platform"
)

// Digest returns a hash of the canonical rendering of n. Two trees with
// equal structure, attributes and text have equal digests.
func Digest(n *platform.Element) uint64 {
	if n == nil {
		return 0
	}
	return xxhash.Sum64String(n.String())
}

// Row is one line of a fiber dump.
type Row struct {
	Depth       int    `json:"depth"`
	Type        string `json:"type"`
	Disposition string `json:"disposition"`
	Native      string `json:"native"`
	Props       string `json:"props,omitempty"`
}

// Rows flattens the tree under root in pre-order.
func Rows(root *fiber.Fiber) []Row {
	if root == nil {
		return nil
	}
	var rows []Row
	root.Walk(func(f *fiber.Fiber, depth int) bool {
		rows = append(rows, Row{
			Depth:       depth,
			Type:        typeName(f),
			Disposition: f.Disposition().String(),
			Native:      nativeName(f.Node()),
			Props:       propSummary(f.Props()),
		})
		return true
	})
	return rows
}

// WriteFiberTable writes the fiber tree under root as a table.
func WriteFiberTable(w io.Writer, root *fiber.Fiber) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "fiber", "disposition", "native", "props"})
	table.SetAutoWrapText(false)
	for i, r := range Rows(root) {
		table.Append([]string{
			strconv.Itoa(i),
			strings.Repeat("  ", r.Depth) + r.Type,
			r.Disposition,
			r.Native,
			r.Props,
		})
	}
	table.Render()
}

// Summary formats build statistics on one line.
func Summary(s fiber.BuildStats) string {
	kind := "initial"
	if s.Refresh {
		kind = "refresh"
	}
	return fmt.Sprintf("%s build: %s units in %s slices, %s placed, %s removed, %s",
		kind,
		humanize.Comma(int64(s.Units)),
		humanize.Comma(int64(s.Slices)),
		humanize.Comma(int64(s.Placements)),
		humanize.Comma(int64(s.Deletions)),
		s.Duration,
	)
}

func typeName(f *fiber.Fiber) string {
	if f.IsRoot() {
		return "(root)"
	}
	t := f.Type()
	switch {
	case t.IsComponent():
		return t.String() + "()"
	case t.Tag() == element.TextTag:
		return "#text"
	default:
		return "<" + t.Tag() + ">"
	}
}

func nativeName(n platform.Node) string {
	switch v := n.(type) {
	case nil:
		return "-"
	case *platform.Element:
		if v.IsText() {
			return strconv.Quote(v.Text())
		}
		return v.Tag()
	default:
		return fmt.Sprintf("%T", n)
	}
}

func propSummary(p element.Props) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		if k == element.ChildrenProp {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		if element.IsListenerKey(k) {
			parts = append(parts, k+"=fn")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	if n := len(p.Children()); n > 0 {
		parts = append(parts, fmt.Sprintf("children=%d", n))
	}
	return strings.Join(parts, " ")
}
