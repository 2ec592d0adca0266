// Package segment implements the ordered segment-file sequence: filename
// suffix alphabets, the 16-byte file header, and segment rotation
// bookkeeping (spec.md §3, §6).
package segment

import "fmt"

// Family selects which filename-suffix alphabet and signature a segment
// sequence uses.
type Family int

const (
	FamilyEWF  Family = iota // .s01..zzz, EWF/SMART signature
	FamilyE01                // .E01..ZZZ, EnCase/FTK signature
	FamilyEx01               // .Ex01..ZZZ, Ex01/LVF signature (EVF2)
	FamilyLx01
	FamilyDelta // .dxx, delta_chunk only
)

// MaxSequenceLength is the largest number of segments a Family supports
// before the suffix alphabet is exhausted (spec.md §3).
func (f Family) MaxSequenceLength() int {
	switch f {
	case FamilyEWF:
		return 4831
	default:
		return 14295
	}
}

// Suffix returns the 2- or 3-character suffix (without the leading dot or
// basename) for the 1-based segment index n in family f.
//
// The EWF-S01 alphabet is a flat base-26 counter over 3 slots, first slot
// restricted to s..z: s01..s99? No — per spec.md §3 "s01/s02/…/zzz"; the
// first character ranges over s..z (8 values) and the remaining two over
// 0-9 then a-z, mirrored from the E01 scheme below but single-letter-led.
// We implement it as the same three-character incrementing counter the
// original uses for E01 (spec.md §6, supplemented by
// original_source/libewf/libewf_file.c's segment filename construction),
// parameterized by the leading alphabet.
func Suffix(f Family, n int) (string, error) {
	if n < 1 || n > f.MaxSequenceLength() {
		return "", fmt.Errorf("segment: index %d out of range for family (max %d)", n, f.MaxSequenceLength())
	}
	switch f {
	case FamilyEWF:
		return ewfSuffix(n), nil
	case FamilyDelta:
		return deltaSuffix(n), nil
	default:
		return e01Suffix(n), nil
	}
}

// e01Suffix implements the E01 alphabet: E01..E99, EAA..EZZ, FAA..ZZZ. The
// first character starts at 'E' and only advances once the remaining two
// characters (an A..Z,A..Z counter, with 0-9 then A-Z in the first 99
// positions) roll over — the original increments the suffix in place
// rather than treating it as a flat base-36 counter (spec.md §3, §9).
func e01Suffix(n int) string {
	idx := n - 1
	// First 99 indices: E01..E99 (two digits, first letter fixed at 'E').
	if idx < 99 {
		return fmt.Sprintf("E%02d", idx+1)
	}
	idx -= 99
	// Remaining indices walk (first, second, third) each over
	// A..Z (26 values), starting at EAA, mirroring a 3-digit base-26
	// odometer seeded at ('E','A','A').
	first := byte('E')
	second := byte('A')
	third := byte('A')
	for i := 0; i < idx; i++ {
		third++
		if third > 'Z' {
			third = 'A'
			second++
			if second > 'Z' {
				second = 'A'
				first++
			}
		}
	}
	return string([]byte{first, second, third})
}

// ewfSuffix mirrors e01Suffix's odometer shape but over the EWF-S01
// alphabet: s01..s99 numerically, then sAA..zZZ via lowercase letters
// (spec.md §3: "letters s..z in the first slot, a..z in the remaining",
// 4,831 files total).
func ewfSuffix(n int) string {
	idx := n - 1
	if idx < 99 {
		return fmt.Sprintf("s%02d", idx+1)
	}
	idx -= 99
	first := byte('s')
	second := byte('a')
	third := byte('a')
	for i := 0; i < idx; i++ {
		third++
		if third > 'z' {
			third = 'a'
			second++
			if second > 'z' {
				second = 'a'
				first++
			}
		}
	}
	return string([]byte{first, second, third})
}

func deltaSuffix(n int) string {
	return fmt.Sprintf("d%02d", n)
}

// Path returns the full segment filename for basename + index n in family f.
func Path(basename string, f Family, n int) (string, error) {
	switch f {
	case FamilyEx01:
		suf, err := Suffix(FamilyE01, n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.Ex%s", basename, suf[1:]), nil
	case FamilyLx01:
		suf, err := Suffix(FamilyE01, n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.Lx%s", basename, suf[1:]), nil
	case FamilyDelta:
		suf, err := Suffix(FamilyDelta, n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", basename, suf), nil
	default:
		suf, err := Suffix(f, n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", basename, suf), nil
	}
}
