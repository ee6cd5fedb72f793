package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	run := NewRun(2, 1, 0, []Entry{
		{Key: "compile-fail/a/pass.src", Status: "passed"},
		{Key: "compile-fail/b/fail.src", Status: "failed", Reason: "compiling succeeded"},
		{Key: "ir/loop.src", Status: "passed"},
	})
	if err := store.Save(run); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !ok {
		t.Fatal("snapshot not found after save")
	}
	if got.Passed != 2 || got.Failed != 1 || got.Skipped != 0 {
		t.Fatalf("counts %+v", got)
	}
	if len(got.Entries) != 3 || got.Entries[1].Reason != "compiling succeeded" {
		t.Fatalf("entries %+v", got.Entries)
	}
	if got.When.IsZero() || time.Since(got.When) > time.Minute {
		t.Fatalf("timestamp %v", got.When)
	}
}

func TestLoadMissing(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if ok {
		t.Fatal("found a snapshot in an empty store")
	}
}

func TestLoadStaleSchemaDiscarded(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	old := NewRun(1, 0, 0, nil)
	old.Schema = schemaVersion + 1
	if err := store.Save(old); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if ok {
		t.Fatal("stale schema accepted")
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := store.Save(NewRun(1, 0, 0, []Entry{{Key: "a", Status: "passed"}})); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := store.Save(NewRun(0, 1, 0, []Entry{{Key: "a", Status: "failed"}})); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load: %v %v", ok, err)
	}
	if got.Failed != 1 || got.Entries[0].Status != "failed" {
		t.Fatalf("second run not visible: %+v", got)
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store
	if err := store.Save(NewRun(0, 0, 0, nil)); err != nil {
		t.Fatalf("nil Save: %v", err)
	}
	if _, ok, err := store.Load(); ok || err != nil {
		t.Fatalf("nil Load: %v %v", ok, err)
	}
}

func TestCompare(t *testing.T) {
	prev := NewRun(2, 2, 1, []Entry{
		{Key: "s/keeps-passing", Status: "passed"},
		{Key: "s/regresses", Status: "passed"},
		{Key: "s/keeps-failing", Status: "failed"},
		{Key: "s/recovers", Status: "failed"},
		{Key: "s/was-skipped", Status: "skipped"},
		{Key: "s/vanishes", Status: "passed"},
	})
	cur := NewRun(3, 2, 0, []Entry{
		{Key: "s/keeps-passing", Status: "passed"},
		{Key: "s/regresses", Status: "failed"},
		{Key: "s/keeps-failing", Status: "failed"},
		{Key: "s/recovers", Status: "passed"},
		{Key: "s/was-skipped", Status: "failed"},
		{Key: "s/brand-new", Status: "passed"},
	})

	d := Compare(prev, cur)
	if len(d.NewlyFailing) != 1 || d.NewlyFailing[0] != "s/regresses" {
		t.Fatalf("newly failing %v", d.NewlyFailing)
	}
	if len(d.NewlyPassing) != 1 || d.NewlyPassing[0] != "s/recovers" {
		t.Fatalf("newly passing %v", d.NewlyPassing)
	}
	if d.Empty() {
		t.Fatal("diff with flips reads as empty")
	}

	if !Compare(nil, cur).Empty() {
		t.Fatal("comparison without a previous run must be empty")
	}
	if !Compare(prev, prev).Empty() {
		t.Fatal("self comparison must be empty")
	}
}

func TestOpenCreatesStateDir(t *testing.T) {
	root := t.TempDir()
	if _, err := Open(root); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, DirName))
	if err != nil || !info.IsDir() {
		t.Fatalf("state dir missing: %v", err)
	}
}
