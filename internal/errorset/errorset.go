// Package errorset implements the sorted, coalescing interval sets over
// sector space used for acquiry errors, checksum errors, and sessions
// (spec.md §4.6).
package errorset

import "sort"

// Interval is a half-open [FirstSector, FirstSector+Count) range.
type Interval struct {
	FirstSector uint64
	Count       uint64
}

func (iv Interval) end() uint64 { return iv.FirstSector + iv.Count }

func (iv Interval) overlapsOrAdjoins(other Interval) bool {
	return iv.FirstSector <= other.end() && other.FirstSector <= iv.end()
}

// Set is a list of intervals sorted by first sector. Intervals added with
// merge are coalesced; intervals added without merge may overlap others.
// The zero value is an empty set.
type Set struct {
	intervals []Interval
}

// Add inserts [first, first+count). When merge is true, an interval that
// overlaps or is adjacent to an existing one is coalesced into it;
// otherwise it is inserted as a distinct entry (spec.md §4.6).
func (s *Set) Add(first, count uint64, merge bool) {
	if count == 0 {
		return
	}
	nw := Interval{FirstSector: first, Count: count}

	if !merge {
		i := sort.Search(len(s.intervals), func(i int) bool {
			return s.intervals[i].FirstSector >= nw.FirstSector
		})
		s.intervals = append(s.intervals, Interval{})
		copy(s.intervals[i+1:], s.intervals[i:])
		s.intervals[i] = nw
		return
	}

	kept := make([]Interval, 0, len(s.intervals)+1)
	for _, cur := range s.intervals {
		if !nw.overlapsOrAdjoins(cur) {
			kept = append(kept, cur)
			continue
		}
		if cur.FirstSector < nw.FirstSector {
			nw.FirstSector = cur.FirstSector
		}
		end := nw.end()
		if cur.end() > end {
			end = cur.end()
		}
		nw.Count = end - nw.FirstSector
	}
	kept = append(kept, nw)
	sort.Slice(kept, func(i, j int) bool { return kept[i].FirstSector < kept[j].FirstSector })
	s.intervals = kept
}

// Len returns the number of intervals currently stored.
func (s *Set) Len() int { return len(s.intervals) }

// Get returns the i-th interval (0-indexed), matching spec.md §4.6's get(i).
func (s *Set) Get(i int) (Interval, bool) {
	if i < 0 || i >= len(s.intervals) {
		return Interval{}, false
	}
	return s.intervals[i], true
}

// Find returns the interval containing sector, if any.
func (s *Set) Find(sector uint64) (Interval, bool) {
	for _, iv := range s.intervals {
		if sector >= iv.FirstSector && sector < iv.end() {
			return iv, true
		}
	}
	return Interval{}, false
}

// All returns a copy of the stored intervals in ascending order.
func (s *Set) All() []Interval {
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}
