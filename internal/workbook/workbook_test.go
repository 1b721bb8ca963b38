package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRead(t *testing.T) {
	headers := []string{"event_name", "start_date", "rsvp"}
	rows := [][]string{
		{"A Grade vs Uni", "2025-11-02", "true"},
		{"B Grade vs Perth", "2025-11-09", "true"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, headers, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, SheetName, f.GetSheetName(0))
	require.NoError(t, f.Close())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, append([][]string{headers}, rows...), got)
}

func TestReadPadsAndSkips(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Game Date", "Grade", "Game ID"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{" 02/11/2025 ", "A Grade"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"09/11/2025", "B Grade", "id-2"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Game Date", "Grade", "Game ID"},
		{"02/11/2025", "A Grade", ""},
		{"09/11/2025", "B Grade", "id-2"},
	}, got)
}

func TestReadNotAWorkbook(t *testing.T) {
	_, err := Read(strings.NewReader("Game Date,Grade\n02/11/2025,A\n"))
	assert.Error(t, err)
}
