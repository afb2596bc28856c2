package export

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/price-estimator/internal/geodvf"
)

// SheetName is the worksheet the table is written to.
const SheetName = "geo_dvf"

// numericColumns are written as numbers when they parse.
var numericColumns = map[string]bool{
	geodvf.ColumnPrice:     true,
	geodvf.ColumnLatitude:  true,
	geodvf.ColumnLongitude: true,
}

// WriteXLSX writes t as a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, t *geodvf.Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c)
	}

	for _, row := range t.Rows {
		r := sheet.AddRow()
		for j, v := range row {
			cell := r.AddCell()
			if j < len(t.Columns) && numericColumns[t.Columns[j]] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cell.SetFloat(n)
					continue
				}
			}
			cell.SetString(v)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}
