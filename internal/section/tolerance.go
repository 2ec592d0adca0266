package section

// Tolerance selects how the reader reacts to a section-descriptor checksum
// mismatch (spec.md §7, §9: "a configuration enum, not a numeric field").
type Tolerance int

const (
	// Strict fails the open on the first checksum mismatch.
	Strict Tolerance = iota
	// Compensate logs and continues, trusting the stored NextOffset.
	Compensate
)

func (t Tolerance) String() string {
	if t == Compensate {
		return "compensate"
	}
	return "strict"
}
