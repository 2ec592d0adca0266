package headervalue

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Section names which on-disk byte encoding a header/header2/xheader
// section's text is stored under (spec.md §6, §9 "codepage-aware header
// codec as a layered adapter"). Conversion happens only here, at the
// section serializer/deserializer boundary; the in-memory Values store and
// every caller-facing API stays UTF-8.
type Section int

const (
	SectionHeader  Section = iota // windows-1252 by default
	SectionHeader2                // UTF-16LE
	SectionXHeader                // UTF-8
)

func (s Section) codec() encoding.Encoding {
	switch s {
	case SectionHeader2:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case SectionXHeader:
		return encoding.Nop
	default:
		return charmap.Windows1252
	}
}

// EncodeBytes converts a UTF-8 string to the on-disk bytes for section s.
func EncodeBytes(s Section, text string) ([]byte, error) {
	out, err := s.codec().NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("headervalue: encode %v: %w", s, err)
	}
	return out, nil
}

// DecodeBytes converts on-disk bytes for section s back to a UTF-8 string.
func DecodeBytes(s Section, raw []byte) (string, error) {
	out, err := s.codec().NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("headervalue: decode %v: %w", s, err)
	}
	return string(out), nil
}
