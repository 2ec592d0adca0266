package headervalue

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// xheaderOrder lists the standard keys xheader emits, in the order
// libewf_header_values_generate_header_string_xml writes them.
var xheaderOrder = []ID{
	CaseNumber, Description, EvidenceNumber, ExaminerName, Notes,
	AcquiryDate, SystemDate, AcquiryOperatingSystem, AcquirySoftwareVersion,
	Password, CompressionType, Model, SerialNumber, UnknownDC, Extents,
}

// GenerateXHeader renders values as the UTF-8 xheader/xhash XML body
// (spec.md §6 "xheader (EWFX, Ex01): UTF-8 XML").
func GenerateXHeader(values *Values, timestamp time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<xheader>\n")

	for _, id := range xheaderOrder {
		if id.readOnly() {
			continue
		}
		v, ok := values.Get(id)
		if !ok || v == "" {
			if id != AcquiryDate && id != SystemDate {
				continue
			}
			v = EncodeXHeader(timestamp)
		} else if id == AcquiryDate || id == SystemDate {
			if t, err := ParseFields(v); err == nil {
				v = EncodeXHeader(t)
			}
		}
		fmt.Fprintf(&b, "\t<%s>%s</%s>\n", id.Key(), xmlEscape(v), id.Key())
	}
	for _, key := range values.ExtraKeys() {
		v, _ := values.GetExtra(key)
		fmt.Fprintf(&b, "\t<%s>%s</%s>\n", key, xmlEscape(v), key)
	}
	b.WriteString("</xheader>\n")
	return b.String(), nil
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// ParseXHeaderText decodes an xheader/xhash XML body into a Values store.
// Standard keys land in their typed slot (dates are normalized to the
// "YYYY M D H M S" in-memory form); unrecognized elements become extras.
func ParseXHeaderText(raw string) (*Values, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	v := New()

	var (
		inRoot  bool
		curName string
		curText strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "xheader" {
				inRoot = true
				continue
			}
			if inRoot {
				curName = t.Name.Local
				curText.Reset()
			}
		case xml.CharData:
			if inRoot && curName != "" {
				curText.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "xheader" {
				inRoot = false
				continue
			}
			if inRoot && t.Name.Local == curName {
				text := curText.String()
				if id, ok := ParseKey(curName); ok {
					if id == AcquiryDate || id == SystemDate {
						if parsed, err := ParseXHeader(text); err == nil {
							text = EncodeFields(parsed)
						}
					}
					v.SetFromDisk(id, text)
				} else {
					v.SetExtra(curName, text)
				}
				curName = ""
			}
		}
	}
	return v, nil
}
