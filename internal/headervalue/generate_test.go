package headervalue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateParseTextRoundTripType1(t *testing.T) {
	v := New()
	v.Set(CaseNumber, "case-42")
	v.Set(ExaminerName, "J. Doe")
	v.Set(Description, "primary drive")

	ts := time.Date(2024, time.March, 5, 13, 45, 9, 0, time.Local)
	text, err := Generate(Type1, v, ts)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(text, "1\n"))

	got, err := ParseText(text, false)
	require.NoError(t, err)
	caseNum, ok := got.Get(CaseNumber)
	require.True(t, ok)
	require.Equal(t, "case-42", caseNum)
	examiner, _ := got.Get(ExaminerName)
	require.Equal(t, "J. Doe", examiner)

	acqDate, ok := got.Get(AcquiryDate)
	require.True(t, ok)
	parsed, err := ParseFields(acqDate)
	require.NoError(t, err)
	require.True(t, ts.Equal(parsed))
}

func TestGenerateType2UsesCRLF(t *testing.T) {
	v := New()
	text, err := Generate(Type2, v, time.Now())
	require.NoError(t, err)
	require.Contains(t, text, "\r\n")
}

func TestGenerateNeverEmitsProcessIdentifier(t *testing.T) {
	v := New()
	v.Set(ProcessIdentifier, "1234")
	text, err := Generate(Type5, v, time.Now())
	require.NoError(t, err)
	require.NotContains(t, text, "1234")
}

func TestGenerateDefaultsPasswordToZero(t *testing.T) {
	v := New()
	text, err := Generate(Type1, v, time.Now())
	require.NoError(t, err)
	got, err := ParseText(text, false)
	require.NoError(t, err)
	pw, ok := got.Get(Password)
	require.True(t, ok)
	require.Equal(t, "0", pw)
}

func TestGenerateType4UsesEpochDates(t *testing.T) {
	v := New()
	ts := time.Unix(1_700_000_000, 0)
	text, err := Generate(Type4, v, ts)
	require.NoError(t, err)

	got, err := ParseText(text, true)
	require.NoError(t, err)
	acqDate, ok := got.Get(AcquiryDate)
	require.True(t, ok)
	parsed, err := ParseFields(acqDate)
	require.NoError(t, err)
	require.Equal(t, ts.Unix(), parsed.Unix())
}

func TestParseTextRejectsTooFewLines(t *testing.T) {
	_, err := ParseText("1\nmain\n", false)
	require.Error(t, err)
}

func TestParseTextRejectsMismatchedColumnCounts(t *testing.T) {
	_, err := ParseText("1\nmain\nc\tn\nvalue\n", false)
	require.Error(t, err)
}
