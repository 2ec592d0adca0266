package headervalue

import "time"

// Format selects one of the tab-delimited line encodings or the xheader XML
// encoding for a header/header2 section (spec.md §6). Grounded directly on
// libewf_header_values_generate_header_string_type{1..7}'s column tables in
// original_source/libewf/libewf_header_values.c.
type Format int

const (
	Type1 Format = iota // EWF, EnCase1
	Type2               // FTK, EnCase2/3
	Type3               // EnCase4 header (epoch dates live in the header2 twin)
	Type4               // EnCase4 header2 twin
	Type5               // EnCase5 header2 twin
	Type6               // Linen6
	Type7               // Linen5
	XHeader             // EWFX, Ex01 XML
)

// column is one tab-delimited field: its single/double-letter on-disk code
// and the standard value it carries.
type column struct {
	code string
	id   ID
}

type lineSpec struct {
	headNumber string
	columns    []column
	crlf       bool
	epochDate  bool // true for header2 twins, which store m/u as epoch seconds
}

var specs = map[Format]lineSpec{
	Type1: {headNumber: "1", columns: []column{
		{"c", CaseNumber}, {"n", EvidenceNumber}, {"a", Description},
		{"e", ExaminerName}, {"t", Notes}, {"m", AcquiryDate},
		{"u", SystemDate}, {"p", Password}, {"r", CompressionType},
	}},
	Type2: {headNumber: "1", columns: []column{
		{"c", CaseNumber}, {"n", EvidenceNumber}, {"a", Description},
		{"e", ExaminerName}, {"t", Notes}, {"av", AcquirySoftwareVersion},
		{"ov", AcquiryOperatingSystem}, {"m", AcquiryDate}, {"u", SystemDate},
		{"p", Password}, {"r", CompressionType},
	}, crlf: true},
	Type3: {headNumber: "1", columns: []column{
		{"c", CaseNumber}, {"n", EvidenceNumber}, {"a", Description},
		{"e", ExaminerName}, {"t", Notes}, {"av", AcquirySoftwareVersion},
		{"ov", AcquiryOperatingSystem}, {"m", AcquiryDate}, {"u", SystemDate},
		{"p", Password},
	}, crlf: true},
	Type4: {headNumber: "1", columns: []column{
		{"a", Description}, {"c", CaseNumber}, {"n", EvidenceNumber},
		{"e", ExaminerName}, {"t", Notes}, {"av", AcquirySoftwareVersion},
		{"ov", AcquiryOperatingSystem}, {"m", AcquiryDate}, {"u", SystemDate},
		{"p", Password},
	}, epochDate: true},
	Type5: {headNumber: "1", columns: []column{
		{"a", Description}, {"c", CaseNumber}, {"n", EvidenceNumber},
		{"e", ExaminerName}, {"t", Notes}, {"av", AcquirySoftwareVersion},
		{"ov", AcquiryOperatingSystem}, {"m", AcquiryDate}, {"u", SystemDate},
		{"p", Password}, {"pid", ProcessIdentifier},
	}, epochDate: true},
	Type6: {headNumber: "3", columns: []column{
		{"a", Description}, {"c", CaseNumber}, {"n", EvidenceNumber},
		{"e", ExaminerName}, {"t", Notes}, {"md", Model}, {"sn", SerialNumber},
		{"av", AcquirySoftwareVersion}, {"ov", AcquiryOperatingSystem},
		{"m", AcquiryDate}, {"u", SystemDate}, {"p", Password}, {"dc", UnknownDC},
	}},
	Type7: {headNumber: "3", columns: []column{
		{"a", Description}, {"c", CaseNumber}, {"n", EvidenceNumber},
		{"e", ExaminerName}, {"t", Notes}, {"av", AcquirySoftwareVersion},
		{"ov", AcquiryOperatingSystem}, {"m", AcquiryDate}, {"u", SystemDate},
		{"p", Password},
	}},
}

// encodeDate renders id's value (AcquiryDate/SystemDate only) in the form
// this format's line spec expects: local "YYYY M D H M S" fields, or
// seconds-since-epoch for a header2 twin.
func (s lineSpec) encodeDate(t time.Time) string {
	if s.epochDate {
		return EncodeEpoch(t)
	}
	return EncodeFields(t)
}

func (s lineSpec) parseDate(raw string) (time.Time, error) {
	if s.epochDate {
		return ParseEpoch(raw)
	}
	return ParseFields(raw)
}
