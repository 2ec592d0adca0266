package headervalue

import (
	"fmt"
	"strings"
	"time"
)

// Generate renders values as a tab-delimited header/header2 line in the
// given Format (spec.md §6). timestamp supplies acquiry_date/system_date
// when the corresponding value hasn't been explicitly set, mirroring
// libewf_header_values_generate_header_string_type*'s "Make sure to
// determine the actual length of the date time values string" fallback.
func Generate(format Format, values *Values, timestamp time.Time) (string, error) {
	spec, ok := specs[format]
	if !ok {
		return "", fmt.Errorf("headervalue: unknown format %d", format)
	}

	fields := make([]string, len(spec.columns))
	for i, col := range spec.columns {
		if col.id.readOnly() {
			// process_identifier is recognized on read but never emitted.
			fields[i] = ""
			continue
		}
		switch col.id {
		case AcquiryDate:
			if v, ok := values.Get(AcquiryDate); ok && v != "" {
				fields[i] = v
				continue
			}
			fields[i] = spec.encodeDate(timestamp)
		case SystemDate:
			if v, ok := values.Get(SystemDate); ok && v != "" {
				fields[i] = v
				continue
			}
			fields[i] = spec.encodeDate(timestamp)
		case Password:
			if v, ok := values.Get(Password); ok && v != "" {
				fields[i] = v
			} else {
				fields[i] = "0"
			}
		default:
			v, _ := values.Get(col.id)
			fields[i] = v
		}
	}

	sep := "\n"
	if spec.crlf {
		sep = "\r\n"
	}
	keyLine := make([]string, len(spec.columns))
	for i, col := range spec.columns {
		keyLine[i] = col.code
	}

	var b strings.Builder
	b.WriteString(spec.headNumber)
	b.WriteString(sep)
	b.WriteString("main")
	b.WriteString(sep)
	b.WriteString(strings.Join(keyLine, "\t"))
	b.WriteString(sep)
	b.WriteString(strings.Join(fields, "\t"))
	b.WriteString(sep)
	b.WriteString(sep)
	return b.String(), nil
}
