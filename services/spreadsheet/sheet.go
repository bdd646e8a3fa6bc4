// Package sheetsvc reads and writes tables as Excel workbooks.
package sheetsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradebook/core"
)

// ContentType of the workbooks written by Write.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// Write stores records, one per row starting at A1, in a single-sheet workbook named sheet.
func Write(w io.Writer, sheet string, records [][]string, logger core.Logger) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("closing workbook", err)
		}
	}()

	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return errors.Wrap(err, "sheetsvc.Write")
		}
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "sheetsvc.Write")
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "sheetsvc.Write: row %d", i+1)
		}
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "sheetsvc.Write")
	}
	return nil
}

// Read returns every row of the first sheet of the workbook, header included.
// Trailing empty cells of a row are dropped.
func Read(r io.Reader, logger core.Logger) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "sheetsvc.Read: open workbook")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("closing workbook", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("sheetsvc.Read: workbook has no sheet")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "sheetsvc.Read: sheet %q", sheet)
	}
	return rows, nil
}
