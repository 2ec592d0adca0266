package ewf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectFormatV2IsEx01(t *testing.T) {
	require.Equal(t, FormatEx01, detectFormat(formatSignals{isV2: true}))
}

func TestDetectFormatVolumeS01IsSMART(t *testing.T) {
	require.Equal(t, FormatSMART, detectFormat(formatSignals{hasVolumeS01: true}))
}

func TestDetectFormatXHeaderIsEWFX(t *testing.T) {
	require.Equal(t, FormatEWFX, detectFormat(formatSignals{hasXHeader: true}))
}

func TestDetectFormatHeader2Variants(t *testing.T) {
	require.Equal(t, FormatEnCase4, detectFormat(formatSignals{hasHeader2: true, header2ThirdCP: '1'}))
	require.Equal(t, FormatEnCase5, detectFormat(formatSignals{hasHeader2: true, header2ThirdCP: '3'}))
	require.Equal(t, FormatEnCase6, detectFormat(formatSignals{hasHeader2: true, header2ThirdCP: '3', header2HasAVMD: true}))
	require.Equal(t, FormatUnknown, detectFormat(formatSignals{hasHeader2: true, header2ThirdCP: 'x'}))
}

func TestDetectFormatHeaderOnlyVariants(t *testing.T) {
	require.Equal(t, FormatFTK, detectFormat(formatSignals{hasHeaderOnly: true}))
	require.Equal(t, FormatEnCase1, detectFormat(formatSignals{hasHeaderOnly: true, headerIsCRLF: true, headerByte25IsR: true}))
	require.Equal(t, FormatEnCase2, detectFormat(formatSignals{hasHeaderOnly: true, headerIsCRLF: true, headerByte31IsR: true}))
	require.Equal(t, FormatEnCase3, detectFormat(formatSignals{
		hasHeaderOnly: true, headerIsCRLF: true, headerByte31IsR: true, acquirySoftware3: true,
	}))
	require.Equal(t, FormatUnknown, detectFormat(formatSignals{hasHeaderOnly: true, headerIsCRLF: true}))
}

func TestDetectFormatDefaultsUnknown(t *testing.T) {
	require.Equal(t, FormatUnknown, detectFormat(formatSignals{}))
}

func TestThirdUTF16Codepoint(t *testing.T) {
	require.Equal(t, rune('c'), thirdUTF16Codepoint("abcdef"))
	require.Equal(t, rune(0), thirdUTF16Codepoint("ab"))
}

func TestHasAVMDMarkers(t *testing.T) {
	require.True(t, hasAVMDMarkers("1\tmain\ta\tc\tav\tmd\n"))
	require.False(t, hasAVMDMarkers("1\tmain\ta\tc\n"))
}

func TestFormatString(t *testing.T) {
	require.Equal(t, "Ex01", FormatEx01.String())
	require.Equal(t, "Unknown", Format(999).String())
}
