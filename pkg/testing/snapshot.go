package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/fiber/pkg/inspect"
	"github.com/go-drift/fiber/pkg/platform"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "FIBER_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the native tree and the committed fiber tree.
type Snapshot struct {
	Tree   *SnapshotNode `json:"tree"`
	Fibers []inspect.Row `json:"fibers,omitempty"`
}

// SnapshotNode represents a node in the serialized native tree.
type SnapshotNode struct {
	ID        string            `json:"id"`
	Tag       string            `json:"tag"`
	Text      string            `json:"text,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Listeners []string          `json:"listeners,omitempty"`
	Children  []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the container's subtree and the committed
// fiber tree.
func (t *Tester) CaptureSnapshot() *Snapshot {
	return &Snapshot{
		Tree:   captureNode(t.container, &typeCounter{}),
		Fibers: inspect.Rows(t.engine.Root()),
	}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When FIBER_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// --- Internal ---

// typeCounter assigns stable IDs like "div#0", "div#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func captureNode(e *platform.Element, counter *typeCounter) *SnapshotNode {
	tag := e.Tag()
	if e.IsText() {
		tag = "#text"
	}
	node := &SnapshotNode{
		ID:  counter.next(tag),
		Tag: tag,
	}
	if e.IsText() {
		node.Text = e.Text()
		return node
	}

	if attrs := e.Attributes(); len(attrs) > 0 {
		node.Attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			node.Attrs[k] = fmt.Sprint(v)
		}
	}
	if listeners := e.Listeners(); len(listeners) > 0 {
		node.Listeners = listeners
	}
	for _, child := range e.Children() {
		node.Children = append(node.Children, captureNode(child, counter))
	}
	return node
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := max(len(expectedLines), len(actualLines))
	for i := 0; i < maxLen; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}
	return buf.String()
}
