package ewf

import "strings"

// Format is the acquisition-tool family a Handle infers from the shape of
// its header/header2/xheader sections and file signature (spec.md §4.7).
type Format int

const (
	FormatUnknown Format = iota
	FormatEWF
	FormatSMART
	FormatFTK
	FormatEnCase1
	FormatEnCase2
	FormatEnCase3
	FormatEnCase4
	FormatEnCase5
	FormatEnCase6
	FormatLinen5
	FormatLinen6
	FormatLVF
	FormatEWFX
	FormatEx01
)

func (f Format) String() string {
	switch f {
	case FormatEWF:
		return "EWF"
	case FormatSMART:
		return "SMART"
	case FormatFTK:
		return "FTK"
	case FormatEnCase1:
		return "EnCase1"
	case FormatEnCase2:
		return "EnCase2"
	case FormatEnCase3:
		return "EnCase3"
	case FormatEnCase4:
		return "EnCase4"
	case FormatEnCase5:
		return "EnCase5"
	case FormatEnCase6:
		return "EnCase6"
	case FormatLinen5:
		return "Linen5"
	case FormatLinen6:
		return "Linen6"
	case FormatLVF:
		return "LVF"
	case FormatEWFX:
		return "EWFX"
	case FormatEx01:
		return "Ex01"
	default:
		return "Unknown"
	}
}

// formatSignals carries the section-shape observations the detection tree
// needs, collected while walking a segment's sections during open.
type formatSignals struct {
	isV2             bool // EVF2 file signature
	hasVolumeS01     bool // volume section subsignature identifies EWF-S01
	hasXHeader       bool
	hasHeader2       bool
	header2ThirdCP   rune // 3rd UTF-16 codepoint of the header2 text, 0 if absent
	header2HasAVMD   bool
	hasHeaderOnly    bool
	headerIsCRLF     bool
	headerByte25IsR  bool
	headerByte31IsR  bool
	acquirySoftware3 bool // acquiry_software_version starts with '3'
}

// detectFormat implements the spec.md §4.7 decision tree.
func detectFormat(sig formatSignals) Format {
	if sig.isV2 {
		return FormatEx01
	}
	if sig.hasVolumeS01 {
		return FormatSMART
	}
	if sig.hasXHeader {
		return FormatEWFX
	}
	if sig.hasHeader2 {
		switch sig.header2ThirdCP {
		case '3':
			if sig.header2HasAVMD {
				return FormatEnCase6
			}
			return FormatEnCase5
		case '1':
			return FormatEnCase4
		default:
			return FormatUnknown
		}
	}
	if sig.hasHeaderOnly {
		if sig.headerIsCRLF {
			if sig.headerByte25IsR {
				return FormatEnCase1
			}
			if sig.headerByte31IsR {
				if sig.acquirySoftware3 {
					return FormatEnCase3
				}
				return FormatEnCase2
			}
			return FormatUnknown
		}
		return FormatFTK
	}
	return FormatUnknown
}

// thirdUTF16Codepoint extracts the 3rd UTF-16 codepoint from a header2's
// decoded text, used to disambiguate EnCase4/5/6 per spec.md §4.7.
func thirdUTF16Codepoint(text string) rune {
	runes := []rune(text)
	if len(runes) < 3 {
		return 0
	}
	return runes[2]
}

// hasAVMDMarkers reports whether decoded header2 text carries the "av"/"md"
// column markers that distinguish EnCase6 from EnCase5.
func hasAVMDMarkers(text string) bool {
	return strings.Contains(text, "\tav\t") && strings.Contains(text, "\tmd\t")
}
