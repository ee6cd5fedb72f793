package diag

import "sort"

// Set is an unordered collection of diagnostics with value equality.
// The zero value is not usable; call NewSet.
type Set map[Diagnostic]struct{}

// NewSet builds a set from the given diagnostics. Duplicates collapse,
// which is exactly what the matching rules want: expecting the same error
// twice is the same as expecting it once.
func NewSet(items ...Diagnostic) Set {
	s := make(Set, len(items))
	for _, d := range items {
		s.Add(d)
	}
	return s
}

// Add inserts a diagnostic into the set.
func (s Set) Add(d Diagnostic) {
	s[d] = struct{}{}
}

// Has reports whether the set contains d.
func (s Set) Has(d Diagnostic) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of distinct diagnostics.
func (s Set) Len() int { return len(s) }

// Empty reports whether the set has no diagnostics.
func (s Set) Empty() bool { return len(s) == 0 }

// Diff returns set difference: every diagnostic present in s but not in
// other. The receiver and argument are never modified.
func (s Set) Diff(other Set) Set {
	out := make(Set)
	for d := range s {
		if _, ok := other[d]; !ok {
			out.Add(d)
		}
	}
	return out
}

// Sorted returns the diagnostics ordered by line, column and message.
// Отчёт печатает множества в этом порядке, чтобы прогон был
// воспроизводим байт в байт.
func (s Set) Sorted() []Diagnostic {
	out := make([]Diagnostic, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i], out[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Col != dj.Col {
			return di.Col < dj.Col
		}
		return di.Message < dj.Message
	})
	return out
}
