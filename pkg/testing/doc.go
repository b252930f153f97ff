// Package testing provides a test harness for components built on the fiber
// engine.
//
// # Quick Start
//
// Create a tester, mount a tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := fibertest.NewTesterWithT(t)
//	    tester.Mount(element.C(Counter, nil))
//
//	    // Find native nodes
//	    button := tester.Find(fibertest.ByID("inc")).First()
//
//	    // Fire events and rebuild
//	    tester.Tap(fibertest.ByID("inc"))
//	    tester.Update()
//
//	    // Assert state
//	    if !tester.Find(fibertest.ByText("1")).Exists() {
//	        t.Error("expected '1'")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare native tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	FIBER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Time Slicing
//
// The tester drives a manual scheduler. PumpSliced runs one slice with a
// budget, and Scheduler().CostPerCheck makes slicing deterministic:
//
//	tester.Scheduler().CostPerCheck = time.Millisecond
//	tester.PumpSliced(3 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing
