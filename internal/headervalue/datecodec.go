package headervalue

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// xheaderDateLayout matches spec.md §6's "Day Mon DD HH:MM:SS YYYY ±HHMM
// (TZ)" xheader date form.
const xheaderDateLayout = "Mon Jan 2 15:04:05 2006 -0700 (MST)"

// EncodeFields renders t as the Type 1-7 tab-line date form: "YYYY M D H M S"
// in local time, space-separated, no zero-padding (spec.md §6 Type 1).
func EncodeFields(t time.Time) string {
	lt := t.Local()
	return fmt.Sprintf("%d %d %d %d %d %d",
		lt.Year(), int(lt.Month()), lt.Day(), lt.Hour(), lt.Minute(), lt.Second())
}

// ParseFields parses the "YYYY M D H M S" form back into a local time.Time.
func ParseFields(s string) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) != 6 {
		return time.Time{}, fmt.Errorf("headervalue: date field count %d, want 6: %q", len(parts), s)
	}
	var n [6]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("headervalue: bad date field %q: %w", p, err)
		}
		n[i] = v
	}
	return time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, time.Local), nil
}

// EncodeEpoch renders t as the header2 twin's seconds-since-epoch decimal
// string (spec.md §6 Type 3-7 "a UTF-16LE header2 twin using seconds-since-
// epoch for dates").
func EncodeEpoch(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// ParseEpoch parses a seconds-since-epoch decimal string.
func ParseEpoch(s string) (time.Time, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("headervalue: bad epoch date %q: %w", s, err)
	}
	return time.Unix(v, 0), nil
}

// EncodeXHeader renders t in the xheader XML date form.
func EncodeXHeader(t time.Time) string {
	return t.Local().Format(xheaderDateLayout)
}

// ParseXHeader parses the xheader XML date form.
func ParseXHeader(s string) (time.Time, error) {
	t, err := time.Parse(xheaderDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("headervalue: bad xheader date %q: %w", s, err)
	}
	return t, nil
}
