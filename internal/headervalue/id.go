// Package headervalue implements the ordered header/hash value store and
// its date codec and on-disk text/XML encodings (spec.md §3, §6).
package headervalue

// ID is a stable integer index for one of the "standard" header values.
type ID int

const (
	CaseNumber ID = iota
	Description
	ExaminerName
	EvidenceNumber
	Notes
	AcquiryDate
	SystemDate
	AcquiryOperatingSystem
	AcquirySoftwareVersion
	Password
	CompressionType
	Model
	SerialNumber
	// ProcessIdentifier (header value "pid") is recognized on read but
	// never emitted by the writer (spec.md §9 open question); Set ignores
	// it, and only the header parsers store it, through SetFromDisk.
	ProcessIdentifier
	UnknownDC
	Extents

	idCount
)

var idKeys = [idCount]string{
	CaseNumber:             "case_number",
	Description:            "description",
	ExaminerName:           "examiner_name",
	EvidenceNumber:         "evidence_number",
	Notes:                  "notes",
	AcquiryDate:            "acquiry_date",
	SystemDate:             "system_date",
	AcquiryOperatingSystem: "acquiry_operating_system",
	AcquirySoftwareVersion: "acquiry_software_version",
	Password:               "password",
	CompressionType:        "compression_type",
	Model:                  "model",
	SerialNumber:           "serial_number",
	ProcessIdentifier:      "pid",
	UnknownDC:              "unknown_dc",
	Extents:                "extents",
}

// Key returns the on-disk key string for id.
func (id ID) Key() string {
	if id < 0 || int(id) >= len(idKeys) {
		return ""
	}
	return idKeys[id]
}

var keyToID map[string]ID

func init() {
	keyToID = make(map[string]ID, len(idKeys))
	for id, k := range idKeys {
		keyToID[k] = ID(id)
	}
}

// ParseKey resolves an on-disk key string back to its ID.
func ParseKey(key string) (ID, bool) {
	id, ok := keyToID[key]
	return id, ok
}

// readOnly marks IDs the writer must never emit (spec.md §9).
func (id ID) readOnly() bool { return id == ProcessIdentifier }
