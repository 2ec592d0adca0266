package headervalue

import (
	"fmt"
	"strings"
)

var codeToID = map[string]ID{
	"c": CaseNumber, "n": EvidenceNumber, "a": Description, "e": ExaminerName,
	"t": Notes, "m": AcquiryDate, "u": SystemDate, "p": Password,
	"r": CompressionType, "av": AcquirySoftwareVersion, "ov": AcquiryOperatingSystem,
	"md": Model, "sn": SerialNumber, "dc": UnknownDC, "pid": ProcessIdentifier,
}

// ParseText decodes a tab-delimited header/header2 line back into a Values
// store. It is self-describing (the key line names each column) so it does
// not need to know which Format produced it; epochDate reports whether the
// m/u columns held seconds-since-epoch (true for a header2 twin) so the
// caller can tell ParseText how to interpret them.
func ParseText(raw string, epochDate bool) (*Values, error) {
	lines := splitLines(raw)
	if len(lines) < 4 {
		return nil, fmt.Errorf("headervalue: header text has %d lines, need at least 4", len(lines))
	}
	// lines[0] = count/category marker, lines[1] = "main", lines[2] = keys,
	// lines[3] = values.
	keys := strings.Split(lines[2], "\t")
	vals := strings.Split(lines[3], "\t")
	if len(keys) != len(vals) {
		return nil, fmt.Errorf("headervalue: %d keys but %d values", len(keys), len(vals))
	}

	v := New()
	for i, code := range keys {
		id, ok := codeToID[code]
		if !ok {
			continue
		}
		raw := vals[i]
		if (id == AcquiryDate || id == SystemDate) && epochDate && raw != "" {
			t, err := ParseEpoch(raw)
			if err != nil {
				return nil, err
			}
			v.SetFromDisk(id, EncodeFields(t))
			continue
		}
		v.SetFromDisk(id, raw)
	}
	return v, nil
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimRight(raw, "\n")
	return strings.Split(raw, "\n")
}
