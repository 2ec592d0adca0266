package headervalue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateParseXHeaderRoundTrip(t *testing.T) {
	v := New()
	v.Set(CaseNumber, "case-7")
	v.Set(Description, "image & <notes>")
	v.SetExtra("custom_tool_field", "value")

	ts := time.Date(2024, time.March, 5, 13, 45, 9, 0, time.UTC)
	xml, err := GenerateXHeader(v, ts)
	require.NoError(t, err)
	require.Contains(t, xml, "<case_number>case-7</case_number>")
	require.Contains(t, xml, "&amp;")

	got, err := ParseXHeaderText(xml)
	require.NoError(t, err)
	caseNum, ok := got.Get(CaseNumber)
	require.True(t, ok)
	require.Equal(t, "case-7", caseNum)

	desc, ok := got.Get(Description)
	require.True(t, ok)
	require.Equal(t, "image & <notes>", desc)

	extra, ok := got.GetExtra("custom_tool_field")
	require.True(t, ok)
	require.Equal(t, "value", extra)
}

func TestGenerateXHeaderOmitsProcessIdentifier(t *testing.T) {
	v := New()
	v.Set(ProcessIdentifier, "9999")
	xml, err := GenerateXHeader(v, time.Now())
	require.NoError(t, err)
	require.NotContains(t, xml, "9999")
}

func TestParseXHeaderTextNormalizesDates(t *testing.T) {
	v := New()
	ts := time.Date(2024, time.March, 5, 13, 45, 9, 0, time.UTC)
	xml, err := GenerateXHeader(v, ts)
	require.NoError(t, err)

	got, err := ParseXHeaderText(xml)
	require.NoError(t, err)
	acqDate, ok := got.Get(AcquiryDate)
	require.True(t, ok)
	parsed, err := ParseFields(acqDate)
	require.NoError(t, err)
	require.Equal(t, ts.Unix(), parsed.Unix())
}
