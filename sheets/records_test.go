package sheets

import (
	"testing"

	"faq/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	values := [][]any{
		{"Question", " answer ", "lang"},
		{"Application fee?", "$50", "en"},
		{"申请费是多少", "50美元", "zh"},
		{"", "", ""},
		{"Deadline?", 20250501},
	}

	recs, err := ParseRecords(values)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, types.QARecord{Question: "Application fee?", Answer: "$50", Lang: types.LangEn}, recs[0])
	assert.Equal(t, types.LangZh, recs[1].Lang)
	assert.Equal(t, "20250501", recs[2].Answer)
	assert.Empty(t, recs[2].Lang)
}

func TestParseRecordsEmptySheet(t *testing.T) {
	recs, err := ParseRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = ParseRecords([][]any{{"question", "answer"}})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseRecordsMissingColumn(t *testing.T) {
	_, err := ParseRecords([][]any{{"question", "lang"}, {"q", "en"}})
	assert.ErrorIs(t, err, types.ErrDataFormat)
}

func TestSpreadsheetID(t *testing.T) {
	assert.Equal(t, "1WcNOzUR97NM__k_mFTJrbzhaV18ASYO2cMAZQM7SUx0",
		SpreadsheetID("https://docs.google.com/spreadsheets/d/1WcNOzUR97NM__k_mFTJrbzhaV18ASYO2cMAZQM7SUx0/edit#gid=1569155313"))
	assert.Equal(t, "abc-123", SpreadsheetID(" abc-123 "))
}
