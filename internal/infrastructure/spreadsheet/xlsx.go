package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"ri_query/internal/domain/query"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// RequiredColumns is the number of leading columns mapped onto query categories.
const RequiredColumns = 5

var (
	ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")
	ErrTooFewColumns      = errors.New("spreadsheet must have at least 5 columns")
)

// XLSXReader извлекает списки колонок из первого листа xlsx-файла.
type XLSXReader struct {
	logger *logrus.Logger
}

// NewXLSX возвращает читатель xlsx.
func NewXLSX(logger *logrus.Logger) *XLSXReader {
	return &XLSXReader{logger: logger}
}

// ReadColumns maps the first five columns of the first sheet, header row
// excluded, onto general, rate, transaction, acquisition and input.
// Blank cells are skipped; the remaining names keep their row order.
func (x *XLSXReader) ReadColumns(r io.Reader) (query.ColumnSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return query.ColumnSet{}, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return query.ColumnSet{}, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSpreadsheet)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return query.ColumnSet{}, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width < RequiredColumns {
		return query.ColumnSet{}, fmt.Errorf("%w: sheet %q has %d", ErrTooFewColumns, sheets[0], width)
	}

	var cols [RequiredColumns][]string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		for c := 0; c < RequiredColumns && c < len(row); c++ {
			if v := strings.TrimSpace(row[c]); v != "" {
				cols[c] = append(cols[c], v)
			}
		}
	}

	set := query.ColumnSet{
		General:     cols[0],
		Rate:        cols[1],
		Transaction: cols[2],
		Acquisition: cols[3],
		Input:       cols[4],
	}

	if x.logger != nil {
		x.logger.WithFields(logrus.Fields{
			"sheet":       sheets[0],
			"general":     len(set.General),
			"rate":        len(set.Rate),
			"transaction": len(set.Transaction),
			"acquisition": len(set.Acquisition),
			"input":       len(set.Input),
		}).Debug("Колонки прочитаны из xlsx")
	}
	return set, nil
}
