package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadColumns(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"General", "Rate", "Transaction", "Acquisition", "OBA"},
		{"n_premium", "n_ri_rate", "n_trans_amt", "n_acq_cost", "n_oba_1"},
		{"n_claims", "", "n_trans_fee", nil, "n_oba_2"},
		{" n_reserve ", "n_comm_rate"},
		{"", "", "", "n_acq_tax", ""},
	})

	set, err := NewXLSX(logrus.New()).ReadColumns(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"n_premium", "n_claims", "n_reserve"}, set.General)
	assert.Equal(t, []string{"n_ri_rate", "n_comm_rate"}, set.Rate)
	assert.Equal(t, []string{"n_trans_amt", "n_trans_fee"}, set.Transaction)
	assert.Equal(t, []string{"n_acq_cost", "n_acq_tax"}, set.Acquisition)
	assert.Equal(t, []string{"n_oba_1", "n_oba_2"}, set.Input)
}

func TestReadColumnsIgnoresExtraColumns(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"G", "R", "T", "A", "I", "Notes"},
		{"g1", "r1", "t1", "a1", "i1", "ignored"},
	})

	set, err := NewXLSX(nil).ReadColumns(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, set.Input)
}

func TestReadColumnsHeaderOnly(t *testing.T) {
	buf := workbook(t, [][]interface{}{{"G", "R", "T", "A", "I"}})

	set, err := NewXLSX(nil).ReadColumns(buf)
	require.NoError(t, err)
	assert.True(t, set.Empty())
}

func TestReadColumnsTooFewColumns(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"G", "R", "T", "A"},
		{"g1", "r1", "t1", "a1"},
	})

	_, err := NewXLSX(nil).ReadColumns(buf)
	assert.ErrorIs(t, err, ErrTooFewColumns)
}

func TestReadColumnsNotAWorkbook(t *testing.T) {
	_, err := NewXLSX(nil).ReadColumns(strings.NewReader("general,rate\n"))
	assert.ErrorIs(t, err, ErrInvalidSpreadsheet)
}
