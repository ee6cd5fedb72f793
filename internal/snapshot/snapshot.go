// Package snapshot persists the outcome of a run under the project
// directory, so the next run can point out what regressed and what got
// fixed instead of leaving that to the reader's memory.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the Run layout changes; stale snapshots are discarded, not
// migrated.
const schemaVersion uint16 = 1

// DirName is the state directory created next to the manifest.
const DirName = ".gauntlet"

// Entry is one fixture outcome worth remembering between runs.
type Entry struct {
	Key    string // suite-qualified fixture key
	Status string // "passed", "failed" or "skipped"
	Reason string
}

// Run is the persisted outcome of one whole run.
type Run struct {
	Schema  uint16
	When    time.Time
	Passed  int
	Failed  int
	Skipped int
	Entries []Entry
}

// NewRun stamps a run with the current schema and time.
func NewRun(passed, failed, skipped int, entries []Entry) *Run {
	return &Run{
		Schema:  schemaVersion,
		When:    time.Now(),
		Passed:  passed,
		Failed:  failed,
		Skipped: skipped,
		Entries: entries,
	}
}

// Store reads and writes snapshots in one project's state directory.
// A nil Store is a valid no-op, so a failure to open state storage
// degrades the run to simply not remembering anything.
type Store struct {
	dir string
}

// Open ensures the state directory exists under projectRoot.
func Open(projectRoot string) (*Store, error) {
	dir := filepath.Join(projectRoot, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, "last-run.mp")
}

// Save writes the run atomically: encode to a temp file, then rename
// over the previous snapshot.
func (s *Store) Save(run *Run) error {
	if s == nil {
		return nil
	}
	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// После успешного Rename файла уже нет; ошибка здесь не важна.
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(run); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.path())
}

// Load reads the previous run. ok is false when there is none, or when
// the snapshot predates the current schema.
func (s *Store) Load() (*Run, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	f, err := os.Open(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var run Run
	if err := msgpack.NewDecoder(f).Decode(&run); err != nil {
		return nil, false, err
	}
	if run.Schema != schemaVersion {
		return nil, false, nil
	}
	return &run, true, nil
}

// Diff separates status flips between two runs.
type Diff struct {
	NewlyFailing []string // failing now, passing before
	NewlyPassing []string // passing now, failing before
}

// Empty reports whether nothing flipped.
func (d Diff) Empty() bool {
	return len(d.NewlyFailing) == 0 && len(d.NewlyPassing) == 0
}

// Compare matches entries by key. Fixtures that are new, gone, or
// moved in or out of skipped state are not flips and stay quiet. Order
// follows the current run.
func Compare(prev, cur *Run) Diff {
	if prev == nil || cur == nil {
		return Diff{}
	}
	before := make(map[string]string, len(prev.Entries))
	for _, e := range prev.Entries {
		before[e.Key] = e.Status
	}

	var d Diff
	for _, e := range cur.Entries {
		switch {
		case e.Status == "failed" && before[e.Key] == "passed":
			d.NewlyFailing = append(d.NewlyFailing, e.Key)
		case e.Status == "passed" && before[e.Key] == "failed":
			d.NewlyPassing = append(d.NewlyPassing, e.Key)
		}
	}
	return d
}
